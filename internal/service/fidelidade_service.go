package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafeops/internal/model"
	"cafeops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Taxas de cashback por nivel.
var taxasCashback = map[string]decimal.Decimal{
	model.NivelIniciante: decimal.NewFromFloat(0.05),
	model.NivelFrequente: decimal.NewFromFloat(0.07),
	model.NivelHabitue:   decimal.NewFromFloat(0.10),
	model.NivelDaCasa:    decimal.NewFromFloat(0.10),
}

type FidelidadeService interface {
	// AcumularCashback records a visit for the customer, recalculates the
	// monthly tier and credits cashback at the new tier's rate. Returns the
	// credited amount.
	AcumularCashback(ctx context.Context, clienteID, pedidoID uuid.UUID, total decimal.Decimal) (decimal.Decimal, error)
	ResgatarCashback(ctx context.Context, clienteID uuid.UUID, pedidoID *uuid.UUID, valor decimal.Decimal) error
}

type fidelidadeService struct {
	repo repository.ClienteRepository
}

func NewFidelidadeService(repo repository.ClienteRepository) FidelidadeService {
	return &fidelidadeService{repo: repo}
}

// CalcularNivel maps the month's visit count to a loyalty tier.
func CalcularNivel(visitasMes int) string {
	switch {
	case visitasMes >= 12:
		return model.NivelDaCasa
	case visitasMes >= 8:
		return model.NivelHabitue
	case visitasMes >= 4:
		return model.NivelFrequente
	default:
		return model.NivelIniciante
	}
}

// TaxaCashback returns the cashback rate for a tier.
func TaxaCashback(nivel string) decimal.Decimal {
	if taxa, ok := taxasCashback[nivel]; ok {
		return taxa
	}
	return taxasCashback[model.NivelIniciante]
}

// CalcularCashback applies the tier rate to an order total, rounded to cents.
func CalcularCashback(total decimal.Decimal, nivel string) decimal.Decimal {
	return total.Mul(TaxaCashback(nivel)).Round(2)
}

func (s *fidelidadeService) AcumularCashback(ctx context.Context, clienteID, pedidoID uuid.UUID, total decimal.Decimal) (decimal.Decimal, error) {
	cliente, err := s.repo.FindByID(ctx, clienteID)
	if err != nil {
		return decimal.Zero, errors.New("cliente nao encontrado")
	}

	agora := time.Now()

	// Contador mensal: zera na virada do mes, senao incrementa. O nivel
	// recalculado ja vale para o pedido atual.
	visitas := cliente.VisitasMes + 1
	if novoMes(cliente.UltimaAtualizacaoNivel, agora) {
		visitas = 1
	}
	nivel := CalcularNivel(visitas)
	cashback := CalcularCashback(total, nivel)

	cliente.SaldoCashback = cliente.SaldoCashback.Add(cashback)
	cliente.TotalVisitas++
	cliente.TotalGasto = cliente.TotalGasto.Add(total)
	cliente.UltimaVisita = agora
	cliente.Nivel = nivel
	cliente.VisitasMes = visitas
	cliente.UltimaAtualizacaoNivel = agora

	if err := s.repo.Update(ctx, cliente); err != nil {
		return decimal.Zero, err
	}

	pct := TaxaCashback(nivel).Mul(decimal.NewFromInt(100)).IntPart()
	pedidoTotal := total
	txn := &model.TransacaoFidelidade{
		ClienteID:   cliente.ID,
		Tipo:        "earn",
		Valor:       cashback,
		Motivo:      fmt.Sprintf("Cashback %d%% do pedido", pct),
		PedidoID:    &pedidoID,
		PedidoTotal: &pedidoTotal,
	}
	if err := s.repo.AddTransacao(ctx, txn); err != nil {
		return decimal.Zero, err
	}

	return cashback, nil
}

func (s *fidelidadeService) ResgatarCashback(ctx context.Context, clienteID uuid.UUID, pedidoID *uuid.UUID, valor decimal.Decimal) error {
	cliente, err := s.repo.FindByID(ctx, clienteID)
	if err != nil {
		return errors.New("cliente nao encontrado")
	}
	if cliente.SaldoCashback.LessThan(valor) {
		return errors.New("Saldo de cashback insuficiente")
	}

	cliente.SaldoCashback = cliente.SaldoCashback.Sub(valor)
	if err := s.repo.Update(ctx, cliente); err != nil {
		return err
	}

	txn := &model.TransacaoFidelidade{
		ClienteID: cliente.ID,
		Tipo:      "redeem",
		Valor:     valor.Neg(),
		Motivo:    "Cashback usado no pedido",
		PedidoID:  pedidoID,
	}
	return s.repo.AddTransacao(ctx, txn)
}

func novoMes(anterior, atual time.Time) bool {
	return anterior.Year() != atual.Year() || anterior.Month() != atual.Month()
}
