package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Niveis do programa de fidelidade, por visitas no mes.
const (
	NivelIniciante = "iniciante"
	NivelFrequente = "frequente"
	NivelHabitue   = "habitue"
	NivelDaCasa    = "da_casa"
)

// Cliente is a registered customer. Tipo: "b2c" | "b2b".
type Cliente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome     string    `gorm:"index;not null"`
	Telefone string    `gorm:"index;not null"`
	Tipo     string    `gorm:"type:varchar(10);not null;default:'b2c'"`
	Empresa  *string

	TotalVisitas int             `gorm:"not null;default:0"`
	TotalGasto   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UltimaVisita time.Time

	// Fidelidade: saldo em R$, nivel atual e visitas do mes corrente.
	// VisitasMes resets when the month of UltimaAtualizacaoNivel differs
	// from the month of the visit being recorded.
	SaldoCashback          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Nivel                  string          `gorm:"type:varchar(20);not null;default:'iniciante'"`
	VisitasMes             int             `gorm:"not null;default:0"`
	UltimaAtualizacaoNivel time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Historico []TransacaoFidelidade `gorm:"foreignKey:ClienteID"`
}

// TransacaoFidelidade is an append-only cashback ledger entry.
// Tipo: "earn" | "redeem". Redeems carry a negative Valor.
type TransacaoFidelidade struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	Tipo        string     `gorm:"type:varchar(10);not null"`
	Valor       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo      string          `gorm:"not null"`
	PedidoID    *uuid.UUID      `gorm:"type:uuid"`
	PedidoTotal *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt   time.Time
}
