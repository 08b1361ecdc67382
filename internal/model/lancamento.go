package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fontes de extrato.
const (
	FonteContaCorrente = "conta-corrente"
	FonteCartaoCredito = "cartao-credito"
	FonteCaixinha      = "caixinha"
)

// CategoriaPendente is the sentinel category for entries awaiting manual review.
const CategoriaPendente = "A_CATEGORIZAR"

// Lancamento is an imported statement entry. Entries are never deleted:
// corrections happen through recategorization and notes only.
//
// ID format: <prefixo>_<YYYYMMDD>_<NNN> where prefixo is cc/cart/cx and NNN
// is a per-source sequence. Valor is signed: positive for entrada, negative
// for saida. Cartao entries are always saida.
type Lancamento struct {
	ID            string `gorm:"primaryKey"`
	Fonte         string `gorm:"type:varchar(20);index;not null"`
	ArquivoOrigem string
	FitID         string `gorm:"column:fitid;index"`
	Data          string `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
	Valor         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tipo          string          `gorm:"type:varchar(10);not null"` // entrada | saida

	DescricaoOriginal string `gorm:"not null"`
	Categoria         string `gorm:"index;not null"`
	Subcategoria      *string
	FornecedorCliente *string

	Reconciliado    bool `gorm:"not null;default:false"`
	ReconciliadoCom *string
	Notas           *string

	ProcessadoEm time.Time
}

// Pendente reports whether the entry still awaits categorization.
func (l *Lancamento) Pendente() bool {
	return l.Categoria == CategoriaPendente
}

// Reconciliacao is an immutable record pairing a checking-account boleto
// deposit with a cashbox sangria transfer. Status: "ok" when the residual
// is under R$ 1, "diferenca" otherwise.
type Reconciliacao struct {
	ID                 string `gorm:"primaryKey"` // rec_NNN
	Data               string `gorm:"type:varchar(10);not null"`
	Tipo               string `gorm:"type:varchar(30);not null;default:'sangria_caixinha'"`
	LancamentoConta    string `gorm:"not null"`
	LancamentoCaixinha string `gorm:"not null"`
	ValorConta         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ValorCaixinha      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Diferenca          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status             string          `gorm:"type:varchar(10);not null"`
	CreatedAt          time.Time
}
