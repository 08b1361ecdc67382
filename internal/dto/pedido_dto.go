package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProdutoID   string  `json:"produto_id"  validate:"required,uuid"`
	Quantidade  int     `json:"quantidade"  validate:"required,min=1"`
	Observacoes *string `json:"observacoes"`
}

type CriarPedidoRequest struct {
	ClienteID   *string             `json:"cliente_id"   validate:"omitempty,uuid"`
	ClienteNome string              `json:"cliente_nome" validate:"required,min=2"`
	Itens       []ItemPedidoRequest `json:"itens"        validate:"omitempty,dive"`
}

type AtualizarStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open preparing ready delivered cancelled"`
}

type PagamentoPedidoRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=cash credit debit pix giftcard marketplace"`
	Valor  decimal.Decimal `json:"valor"  validate:"required,gt=0"`
}

type ResgateCashbackRequest struct {
	Valor decimal.Decimal `json:"valor" validate:"required,gt=0"`
}

// PedidoFilter narrows order listings. Status "" or "all" lists every order.
type PedidoFilter struct {
	Status    string
	ClienteID string
	Data      string // YYYY-MM-DD
	Page      int
	Limit     int
}
