package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory CaixaRepository ────────────────────────────────────────────────

type fakeCaixaRepo struct {
	caixas    []*model.Caixa
	operacoes []model.OperacaoCaixa
}

func (r *fakeCaixaRepo) Create(_ context.Context, c *model.Caixa) error {
	c.ID = uuid.New()
	for i := range c.Pagamentos {
		c.Pagamentos[i].ID = uuid.New()
		c.Pagamentos[i].CaixaID = c.ID
	}
	r.caixas = append(r.caixas, c)
	return nil
}

func (r *fakeCaixaRepo) FindAberto(_ context.Context) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.Status == "aberto" {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeCaixaRepo) Update(_ context.Context, _ *model.Caixa) error { return nil }

func (r *fakeCaixaRepo) UltimoMovimento(_ context.Context) (int, error) {
	max := 0
	for _, c := range r.caixas {
		if c.Movimento > max {
			max = c.Movimento
		}
	}
	return max, nil
}

func (r *fakeCaixaRepo) CreateOperacao(_ context.Context, op *model.OperacaoCaixa) error {
	op.ID = uuid.New()
	op.CreatedAt = time.Now()
	r.operacoes = append(r.operacoes, *op)
	return nil
}

func (r *fakeCaixaRepo) UpdatePagamento(_ context.Context, _ *model.PagamentoCaixa) error {
	return nil
}

func (r *fakeCaixaRepo) List(_ context.Context, limit int) ([]model.Caixa, error) {
	var out []model.Caixa
	for _, c := range r.caixas {
		if len(out) == limit {
			break
		}
		out = append(out, *c)
	}
	return out, nil
}

var _ repository.CaixaRepository = (*fakeCaixaRepo)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAbrirCaixa(t *testing.T) {
	repo := &fakeCaixaRepo{}
	svc := NewCaixaService(repo, nil)

	resp, err := svc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{
		FundoInicial: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	assert.Equal(t, "#1", resp.Movimento)
	assert.Equal(t, "aberto", resp.Status)
	assert.Equal(t, "Elaine", resp.AbertoPorNome)
	assert.Len(t, resp.Pagamentos, len(model.TodosMetodos))

	// O fundo entra como esperado em dinheiro e como operacao de insert
	dinheiro := repo.caixas[0].Pagamento(model.MetodoCash)
	require.NotNil(t, dinheiro)
	assert.Equal(t, "200", dinheiro.Esperado.String())
	require.Len(t, repo.operacoes, 1)
	assert.Equal(t, "insert", repo.operacoes[0].Tipo)
	assert.Equal(t, "Fundo de caixa", repo.operacoes[0].Motivo)
}

func TestAbrirCaixaDuplicado(t *testing.T) {
	repo := &fakeCaixaRepo{}
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{})
	require.NoError(t, err)

	_, err = svc.Abrir(context.Background(), uuid.New(), "Manuely", dto.AbrirCaixaRequest{})
	assert.ErrorContains(t, err, "ja existe um caixa aberto (movimento #1)")
}

func TestSangriaReduzEsperado(t *testing.T) {
	repo := &fakeCaixaRepo{}
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{
		FundoInicial: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	destino := "banco"
	err = svc.RegistrarOperacao(context.Background(), uuid.New(), "Elaine", dto.OperacaoCaixaRequest{
		Tipo:    "sangria",
		Valor:   decimal.NewFromInt(300),
		Motivo:  "Deposito na conta",
		Destino: &destino,
	})
	require.NoError(t, err)

	dinheiro := repo.caixas[0].Pagamento(model.MetodoCash)
	assert.Equal(t, "200", dinheiro.Esperado.String())
	require.Len(t, repo.operacoes, 2)
	assert.Equal(t, "sangria", repo.operacoes[1].Tipo)
}

func TestOperacaoSemCaixaAberto(t *testing.T) {
	svc := NewCaixaService(&fakeCaixaRepo{}, nil)

	err := svc.RegistrarOperacao(context.Background(), uuid.New(), "Elaine", dto.OperacaoCaixaRequest{
		Tipo:   "insert",
		Valor:  decimal.NewFromInt(10),
		Motivo: "troco",
	})
	assert.ErrorContains(t, err, "nao ha caixa aberto")
}

func TestOperacaoRejeitadaNaoPersiste(t *testing.T) {
	// Caixa aberto sem a linha de dinheiro: a operacao deve ser rejeitada
	// sem deixar registro
	repo := &fakeCaixaRepo{caixas: []*model.Caixa{
		{ID: uuid.New(), Movimento: 1, Status: "aberto"},
	}}
	svc := NewCaixaService(repo, nil)

	err := svc.RegistrarOperacao(context.Background(), uuid.New(), "Elaine", dto.OperacaoCaixaRequest{
		Tipo:   "insert",
		Valor:  decimal.NewFromInt(10),
		Motivo: "troco",
	})
	assert.ErrorContains(t, err, "caixa sem saldo de dinheiro")
	assert.Empty(t, repo.operacoes)
}

func TestConferenciaCalculaDiferenca(t *testing.T) {
	repo := &fakeCaixaRepo{}
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{
		FundoInicial: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	err = svc.AtualizarConferencia(context.Background(), dto.ConferenciaRequest{
		Valores: map[string]decimal.Decimal{
			model.MetodoCash: decimal.NewFromInt(90),
		},
	})
	require.NoError(t, err)

	dinheiro := repo.caixas[0].Pagamento(model.MetodoCash)
	assert.Equal(t, "90", dinheiro.Conferido.String())
	assert.Equal(t, "-10", dinheiro.Diferenca.String())
}

func TestEstatisticasCumulativas(t *testing.T) {
	repo := &fakeCaixaRepo{}
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.AtualizarEstatisticas(context.Background(), decimal.NewFromInt(30), 10, 2))
	require.NoError(t, svc.AtualizarEstatisticas(context.Background(), decimal.NewFromInt(60), 20, 3))

	caixa := repo.caixas[0]
	assert.Equal(t, 2, caixa.TotalPedidos)
	assert.Equal(t, "45", caixa.TicketMedio.String())
	assert.Equal(t, 15, caixa.TempoMedioMinutos)
	assert.Equal(t, "2.5", caixa.ProdutosPorPedido.String())
}

func TestRegistrarPagamentoAcumulaVendas(t *testing.T) {
	repo := &fakeCaixaRepo{}
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.RegistrarPagamento(context.Background(), model.MetodoPix, decimal.NewFromInt(25)))

	caixa := repo.caixas[0]
	assert.Equal(t, "25", caixa.Pagamento(model.MetodoPix).Esperado.String())
	assert.Equal(t, "25", caixa.VendasTotal.String())

	err = svc.RegistrarPagamento(context.Background(), "fiado", decimal.NewFromInt(5))
	assert.ErrorContains(t, err, "metodo de pagamento desconhecido")
}

func TestFecharCaixa(t *testing.T) {
	repo := &fakeCaixaRepo{}
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{})
	require.NoError(t, err)

	notas := "fechamento sem pendencias"
	resp, err := svc.Fechar(context.Background(), uuid.New(), "Manuely", dto.FecharCaixaRequest{Notas: &notas})
	require.NoError(t, err)

	assert.Equal(t, "fechado", resp.Status)
	require.NotNil(t, resp.FechadoPorNome)
	assert.Equal(t, "Manuely", *resp.FechadoPorNome)
	assert.NotNil(t, resp.FechadoEm)

	_, err = svc.Ativo(context.Background())
	assert.ErrorContains(t, err, "nao ha caixa aberto")

	// Reabrir continua a sequencia de movimentos
	reaberto, err := svc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{})
	require.NoError(t, err)
	assert.Equal(t, "#2", reaberto.Movimento)
}
