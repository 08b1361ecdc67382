package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metodos de pagamento aceitos no caixa e nos pedidos.
const (
	MetodoCash        = "cash"
	MetodoCredit      = "credit"
	MetodoDebit       = "debit"
	MetodoPix         = "pix"
	MetodoGiftcard    = "giftcard"
	MetodoMarketplace = "marketplace"
)

// TodosMetodos lists every payment method a register tracks, in display order.
var TodosMetodos = []string{
	MetodoCash, MetodoCredit, MetodoDebit, MetodoPix, MetodoGiftcard, MetodoMarketplace,
}

// Caixa represents the lifecycle of a cash register movement.
// Status: "aberto" | "fechado". Only one register may be open at a time —
// enforced by a partial unique index on (status) WHERE status = 'aberto'.
type Caixa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int       `gorm:"not null;default:1"`
	Movimento int       `gorm:"not null;index"`
	Status    string    `gorm:"type:varchar(10);not null;default:'aberto'"`

	AbertoPor     uuid.UUID `gorm:"type:uuid;not null"`
	AbertoPorNome string    `gorm:"not null"`
	AbertoEm      time.Time
	FechadoPor     *uuid.UUID `gorm:"type:uuid"`
	FechadoPorNome *string
	FechadoEm      *time.Time

	// Vendas acumuladas enquanto o caixa esteve aberto
	VendasProdutos decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	VendasTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Estatisticas de pedidos (medias cumulativas)
	TotalPedidos       int             `gorm:"not null;default:0"`
	PedidosCancelados  int             `gorm:"not null;default:0"`
	TicketMedio        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TempoMedioMinutos  int             `gorm:"not null;default:0"`
	ProdutosPorPedido  decimal.Decimal `gorm:"type:decimal(6,1);not null;default:0"`

	Notas *string

	Pagamentos []PagamentoCaixa `gorm:"foreignKey:CaixaID"`
	Operacoes  []OperacaoCaixa  `gorm:"foreignKey:CaixaID"`
}

// MovimentoLabel renders the sequential movement identifier ("#12").
func (c *Caixa) MovimentoLabel() string {
	return fmt.Sprintf("#%d", c.Movimento)
}

// Pagamento returns the balance row for the given method, or nil.
func (c *Caixa) Pagamento(metodo string) *PagamentoCaixa {
	for i := range c.Pagamentos {
		if c.Pagamentos[i].Metodo == metodo {
			return &c.Pagamentos[i]
		}
	}
	return nil
}

// Resumo renders the plain-text closing summary of a movement, used by the
// closing email and the register report endpoint.
func (c *Caixa) Resumo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Movimento %s\n", c.MovimentoLabel())
	fmt.Fprintf(&b, "Aberto por: %s\n", c.AbertoPorNome)
	if c.FechadoPorNome != nil {
		fmt.Fprintf(&b, "Fechado por: %s\n", *c.FechadoPorNome)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Vendas: R$ %s em %d pedidos (%d cancelados)\n",
		c.VendasTotal.StringFixed(2), c.TotalPedidos, c.PedidosCancelados)
	fmt.Fprintf(&b, "Ticket medio: R$ %s | Tempo medio: %d min | Itens/pedido: %s\n\n",
		c.TicketMedio.StringFixed(2), c.TempoMedioMinutos, c.ProdutosPorPedido.String())

	b.WriteString("Conferencia por metodo:\n")
	for _, p := range c.Pagamentos {
		fmt.Fprintf(&b, "  %-12s esperado R$ %10s | conferido R$ %10s | diferenca R$ %10s\n",
			p.Metodo, p.Esperado.StringFixed(2), p.Conferido.StringFixed(2), p.Diferenca.StringFixed(2))
	}

	if len(c.Operacoes) > 0 {
		b.WriteString("\nOperacoes de caixa:\n")
		for _, op := range c.Operacoes {
			fmt.Fprintf(&b, "  [%s] R$ %s - %s (%s)\n",
				op.Tipo, op.Valor.StringFixed(2), op.Motivo, op.CriadoPorNome)
		}
	}

	if c.Notas != nil && *c.Notas != "" {
		fmt.Fprintf(&b, "\nNotas: %s\n", *c.Notas)
	}
	return b.String()
}

// PagamentoCaixa tracks expected vs counted amounts per payment method.
// Diferenca = Conferido - Esperado, set during closing conference.
type PagamentoCaixa struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Metodo    string          `gorm:"type:varchar(20);not null"`
	Esperado  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Conferido decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Diferenca decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// OperacaoCaixa is an immutable cash event inside a register movement.
// Tipo: "insert" | "withdraw" | "sangria". Operations are never edited or
// deleted — corrections create inverse entries.
type OperacaoCaixa struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo          string          `gorm:"type:varchar(10);not null"`
	Valor         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo        string          `gorm:"not null"`
	Classificacao *string
	Destino       *string
	EhDespesa     bool `gorm:"not null;default:false"`
	EhReceita     bool `gorm:"not null;default:false"`
	CriadoPor     uuid.UUID `gorm:"type:uuid;not null"`
	CriadoPorNome string    `gorm:"not null"`
	CreatedAt     time.Time
}
