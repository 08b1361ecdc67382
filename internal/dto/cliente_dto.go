package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarClienteRequest struct {
	Nome     string  `json:"nome"     validate:"required,min=2"`
	Telefone string  `json:"telefone" validate:"required,min=8"`
	Tipo     string  `json:"tipo"     validate:"omitempty,oneof=b2c b2b"`
	Empresa  *string `json:"empresa"`
}

type AtualizarClienteRequest struct {
	Nome     *string `json:"nome"     validate:"omitempty,min=2"`
	Telefone *string `json:"telefone" validate:"omitempty,min=8"`
	Tipo     *string `json:"tipo"     validate:"omitempty,oneof=b2c b2b"`
	Empresa  *string `json:"empresa"`
}
