package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto represents a catalog item sold at the counter.
// Tipo: "produto" | "servico". Estacao routes preparation: "bebidas" | "comidas".
type Produto struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome          string    `gorm:"index;not null"`
	Descricao     *string
	Categoria     string          `gorm:"not null"`
	Tipo          string          `gorm:"type:varchar(20);not null;default:'produto'"`
	Unidade       string          `gorm:"not null;default:'unidade'"`
	Estacao       string          `gorm:"type:varchar(20);not null;default:'bebidas'"`
	PrecoBalcao   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecoB2B      decimal.Decimal `gorm:"type:decimal(10,2)"`
	PrecoDelivery decimal.Decimal `gorm:"type:decimal(10,2)"`
	CustoProducao *decimal.Decimal `gorm:"type:decimal(10,2)"`
	TempoPreparo  *int
	Estoque       *int
	EstoqueMinimo *int
	Codigo        *string `gorm:"index"`
	Ativo         bool    `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
