package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Nome          string           `json:"nome"           validate:"required,min=2"`
	Descricao     *string          `json:"descricao"`
	Categoria     string           `json:"categoria"      validate:"required"`
	Tipo          string           `json:"tipo"           validate:"omitempty,oneof=produto insumo revenda"`
	Unidade       string           `json:"unidade"`
	Estacao       string           `json:"estacao"        validate:"omitempty,oneof=bebidas cozinha balcao"`
	PrecoBalcao   decimal.Decimal  `json:"preco_balcao"   validate:"required"`
	PrecoB2B      decimal.Decimal  `json:"preco_b2b"`
	PrecoDelivery decimal.Decimal  `json:"preco_delivery"`
	CustoProducao *decimal.Decimal `json:"custo_producao"`
	TempoPreparo  *int             `json:"tempo_preparo"  validate:"omitempty,min=0"`
	Estoque       *decimal.Decimal `json:"estoque"`
	EstoqueMinimo *decimal.Decimal `json:"estoque_minimo"`
	Codigo        *string          `json:"codigo"`
}

// ProdutoFilter narrows product listings. Ativo accepts "false" | "all";
// anything else lists active products only.
type ProdutoFilter struct {
	Nome      string
	Categoria string
	Estacao   string
	Ativo     string
	Page      int
	Limit     int
}

type AtualizarProdutoRequest struct {
	Nome          *string          `json:"nome"           validate:"omitempty,min=2"`
	Descricao     *string          `json:"descricao"`
	Categoria     *string          `json:"categoria"`
	Unidade       *string          `json:"unidade"`
	Estacao       *string          `json:"estacao"        validate:"omitempty,oneof=bebidas cozinha balcao"`
	PrecoBalcao   *decimal.Decimal `json:"preco_balcao"`
	PrecoB2B      *decimal.Decimal `json:"preco_b2b"`
	PrecoDelivery *decimal.Decimal `json:"preco_delivery"`
	CustoProducao *decimal.Decimal `json:"custo_producao"`
	TempoPreparo  *int             `json:"tempo_preparo"  validate:"omitempty,min=0"`
	Estoque       *decimal.Decimal `json:"estoque"`
	EstoqueMinimo *decimal.Decimal `json:"estoque_minimo"`
	Codigo        *string          `json:"codigo"`
	Ativo         *bool            `json:"ativo"`
}
