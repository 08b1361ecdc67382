package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	FundoInicial decimal.Decimal `json:"fundo_inicial" validate:"min=0"`
}

type OperacaoCaixaRequest struct {
	Tipo          string          `json:"tipo"          validate:"required,oneof=insert withdraw sangria"`
	Valor         decimal.Decimal `json:"valor"         validate:"required,gt=0"`
	Motivo        string          `json:"motivo"        validate:"required,min=3"`
	Classificacao *string         `json:"classificacao"`
	Destino       *string         `json:"destino"`
	EhDespesa     bool            `json:"eh_despesa"`
	EhReceita     bool            `json:"eh_receita"`
}

type ConferenciaRequest struct {
	Valores map[string]decimal.Decimal `json:"valores" validate:"required"`
}

type FecharCaixaRequest struct {
	Notas *string `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagamentoCaixaResponse struct {
	Metodo    string          `json:"metodo"`
	Esperado  decimal.Decimal `json:"esperado"`
	Conferido decimal.Decimal `json:"conferido"`
	Diferenca decimal.Decimal `json:"diferenca"`
}

type OperacaoCaixaResponse struct {
	ID            string          `json:"id"`
	Tipo          string          `json:"tipo"`
	Valor         decimal.Decimal `json:"valor"`
	Motivo        string          `json:"motivo"`
	Classificacao *string         `json:"classificacao"`
	Destino       *string         `json:"destino"`
	CriadoPorNome string          `json:"criado_por_nome"`
	CriadoEm      string          `json:"criado_em"`
}

type CaixaResponse struct {
	ID                string                   `json:"id"`
	Movimento         string                   `json:"movimento"`
	Status            string                   `json:"status"`
	AbertoPorNome     string                   `json:"aberto_por_nome"`
	AbertoEm          string                   `json:"aberto_em"`
	FechadoPorNome    *string                  `json:"fechado_por_nome,omitempty"`
	FechadoEm         *string                  `json:"fechado_em,omitempty"`
	VendasProdutos    decimal.Decimal          `json:"vendas_produtos"`
	VendasTotal       decimal.Decimal          `json:"vendas_total"`
	TotalPedidos      int                      `json:"total_pedidos"`
	PedidosCancelados int                      `json:"pedidos_cancelados"`
	TicketMedio       decimal.Decimal          `json:"ticket_medio"`
	TempoMedioMinutos int                      `json:"tempo_medio_minutos"`
	ProdutosPorPedido decimal.Decimal          `json:"produtos_por_pedido"`
	Notas             *string                  `json:"notas,omitempty"`
	Pagamentos        []PagamentoCaixaResponse `json:"pagamentos"`
	Operacoes         []OperacaoCaixaResponse  `json:"operacoes"`
}
