package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafeops/internal/model"
	"cafeops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory ClienteRepository ──────────────────────────────────────────────

type fakeClienteRepo struct {
	clientes   map[uuid.UUID]*model.Cliente
	transacoes []model.TransacaoFidelidade
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *fakeClienteRepo) FindByTelefone(_ context.Context, telefone string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Telefone == telefone {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeClienteRepo) Search(_ context.Context, _ string) ([]model.Cliente, error) {
	return nil, nil
}

func (r *fakeClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeClienteRepo) Update(_ context.Context, _ *model.Cliente) error { return nil }

func (r *fakeClienteRepo) AddTransacao(_ context.Context, t *model.TransacaoFidelidade) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	r.transacoes = append(r.transacoes, *t)
	return nil
}

var _ repository.ClienteRepository = (*fakeClienteRepo)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCalcularNivel(t *testing.T) {
	assert.Equal(t, model.NivelIniciante, CalcularNivel(0))
	assert.Equal(t, model.NivelIniciante, CalcularNivel(3))
	assert.Equal(t, model.NivelFrequente, CalcularNivel(4))
	assert.Equal(t, model.NivelHabitue, CalcularNivel(8))
	assert.Equal(t, model.NivelDaCasa, CalcularNivel(12))
	assert.Equal(t, model.NivelDaCasa, CalcularNivel(30))
}

func TestAcumularCashbackQuartaVisitaSobeNivel(t *testing.T) {
	repo := newFakeClienteRepo()
	cliente := &model.Cliente{
		Nome:                   "Ana",
		Telefone:               "45999990000",
		VisitasMes:             3,
		Nivel:                  model.NivelIniciante,
		UltimaAtualizacaoNivel: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), cliente))
	svc := NewFidelidadeService(repo)

	// A quarta visita do mes ja rende a taxa do novo nivel
	cashback, err := svc.AcumularCashback(context.Background(), cliente.ID, uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.Equal(t, "7", cashback.String())
	assert.Equal(t, model.NivelFrequente, cliente.Nivel)
	assert.Equal(t, 4, cliente.VisitasMes)
	assert.Equal(t, "7", cliente.SaldoCashback.String())

	require.Len(t, repo.transacoes, 1)
	assert.Equal(t, "earn", repo.transacoes[0].Tipo)
	assert.Equal(t, "Cashback 7% do pedido", repo.transacoes[0].Motivo)
}

func TestAcumularCashbackViradaDeMesZeraContador(t *testing.T) {
	repo := newFakeClienteRepo()
	cliente := &model.Cliente{
		Nome:                   "Ana",
		Telefone:               "45999990000",
		VisitasMes:             11,
		Nivel:                  model.NivelHabitue,
		UltimaAtualizacaoNivel: time.Now().AddDate(-1, 0, 0),
	}
	require.NoError(t, repo.Create(context.Background(), cliente))
	svc := NewFidelidadeService(repo)

	cashback, err := svc.AcumularCashback(context.Background(), cliente.ID, uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)

	// Contador zerou: primeira visita do mes, de volta ao iniciante (5%)
	assert.Equal(t, 1, cliente.VisitasMes)
	assert.Equal(t, model.NivelIniciante, cliente.Nivel)
	assert.Equal(t, "5", cashback.String())
}

func TestResgatarCashback(t *testing.T) {
	repo := newFakeClienteRepo()
	cliente := &model.Cliente{
		Nome:          "Ana",
		Telefone:      "45999990000",
		SaldoCashback: decimal.NewFromInt(50),
	}
	require.NoError(t, repo.Create(context.Background(), cliente))
	svc := NewFidelidadeService(repo)

	pedidoID := uuid.New()
	require.NoError(t, svc.ResgatarCashback(context.Background(), cliente.ID, &pedidoID, decimal.NewFromInt(20)))

	assert.Equal(t, "30", cliente.SaldoCashback.String())
	require.Len(t, repo.transacoes, 1)
	assert.Equal(t, "redeem", repo.transacoes[0].Tipo)
	assert.Equal(t, "-20", repo.transacoes[0].Valor.String())
}

func TestResgatarCashbackInsuficiente(t *testing.T) {
	repo := newFakeClienteRepo()
	cliente := &model.Cliente{
		Nome:          "Ana",
		Telefone:      "45999990000",
		SaldoCashback: decimal.NewFromInt(10),
	}
	require.NoError(t, repo.Create(context.Background(), cliente))
	svc := NewFidelidadeService(repo)

	err := svc.ResgatarCashback(context.Background(), cliente.ID, nil, decimal.NewFromInt(50))
	assert.ErrorContains(t, err, "Saldo de cashback insuficiente")
	assert.Equal(t, "10", cliente.SaldoCashback.String())
	assert.Empty(t, repo.transacoes)
}
