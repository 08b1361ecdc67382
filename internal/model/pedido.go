package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status de pedido. "paid" e "cancelled" are terminal.
const (
	PedidoAberto     = "open"
	PedidoPreparando = "preparing"
	PedidoPronto     = "ready"
	PedidoPago       = "paid"
	PedidoCancelado  = "cancelled"
)

// Pedido is a counter order. Total is always recomputed from the items —
// never edited directly.
type Pedido struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID   *uuid.UUID `gorm:"type:uuid;index"`
	ClienteNome string
	BaristaID   uuid.UUID `gorm:"type:uuid;not null"`
	BaristaNome string    `gorm:"not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'open';index"`

	Total          decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Desconto       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CashbackGanho  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CashbackUsado  *decimal.Decimal `gorm:"type:decimal(12,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	PagoEm    *time.Time

	Itens      []ItemPedido      `gorm:"foreignKey:PedidoID"`
	Pagamentos []PagamentoPedido `gorm:"foreignKey:PedidoID"`
}

// CalcularTotal sums price x quantity over the items.
func (p *Pedido) CalcularTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Itens {
		total = total.Add(item.Preco.Mul(decimal.NewFromInt(int64(item.Quantidade))))
	}
	return total
}

// TotalPago sums the recorded payments.
func (p *Pedido) TotalPago() decimal.Decimal {
	pago := decimal.Zero
	for _, pg := range p.Pagamentos {
		pago = pago.Add(pg.Valor)
	}
	return pago
}

// ItemPedido is a line in an order. Preco is a snapshot of the product price
// at the moment the item was added.
type ItemPedido struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProdutoID  uuid.UUID `gorm:"type:uuid;not null"`
	Nome       string    `gorm:"not null"`
	Preco      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantidade int             `gorm:"not null"`
	Estacao    string          `gorm:"type:varchar(20);not null"`
	Observacoes *string
	AdicionadoPor string `gorm:"not null"`
	CreatedAt     time.Time
}

// PagamentoPedido is an immutable payment entry against an order.
type PagamentoPedido struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Metodo   string          `gorm:"type:varchar(20);not null"`
	Valor    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PagoEm   time.Time
}
