// Package parser normalizes bank statement files (OFX, CSV) into a common
// transaction shape consumed by the import service.
package parser

import (
	"github.com/shopspring/decimal"
)

// Transacao is a normalized statement line. Valor is always the absolute
// amount; Tipo carries the direction ("entrada" | "saida").
type Transacao struct {
	Data      string // YYYY-MM-DD
	Valor     decimal.Decimal
	Tipo      string
	Descricao string
	FitID     string
	Arquivo   string
}
