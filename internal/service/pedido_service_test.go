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

// ── In-memory PedidoRepository / ProdutoRepository ───────────────────────────

type fakePedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

func newFakePedidoRepo() *fakePedidoRepo {
	return &fakePedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *fakePedidoRepo) Create(_ context.Context, p *model.Pedido) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	for i := range p.Itens {
		p.Itens[i].ID = uuid.New()
		p.Itens[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *fakePedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *fakePedidoRepo) Update(_ context.Context, _ *model.Pedido) error { return nil }

func (r *fakePedidoRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Status = status
	return nil
}

func (r *fakePedidoRepo) AddItem(_ context.Context, item *model.ItemPedido) error {
	item.ID = uuid.New()
	return nil
}

func (r *fakePedidoRepo) RemoveItem(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *fakePedidoRepo) AddPagamento(_ context.Context, pg *model.PagamentoPedido) error {
	pg.ID = uuid.New()
	return nil
}

func (r *fakePedidoRepo) List(_ context.Context, _ dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

var _ repository.PedidoRepository = (*fakePedidoRepo)(nil)

type fakeProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newFakeProdutoRepo() *fakeProdutoRepo {
	return &fakeProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *fakeProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return nil
}

func (r *fakeProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *fakeProdutoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.Codigo != nil && *p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeProdutoRepo) List(_ context.Context, _ dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProdutoRepo) Update(_ context.Context, _ *model.Produto) error { return nil }

func (r *fakeProdutoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = false
	}
	return nil
}

func (r *fakeProdutoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = true
	}
	return nil
}

var _ repository.ProdutoRepository = (*fakeProdutoRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

type pedidoFixture struct {
	svc         PedidoService
	caixaSvc    CaixaService
	pedidoRepo  *fakePedidoRepo
	produtoRepo *fakeProdutoRepo
	clienteRepo *fakeClienteRepo
	caixaRepo   *fakeCaixaRepo
	espresso    *model.Produto
	paoDeQueijo *model.Produto
}

func newPedidoFixture(t *testing.T) *pedidoFixture {
	t.Helper()
	f := &pedidoFixture{
		pedidoRepo:  newFakePedidoRepo(),
		produtoRepo: newFakeProdutoRepo(),
		clienteRepo: newFakeClienteRepo(),
		caixaRepo:   &fakeCaixaRepo{},
	}
	f.espresso = &model.Produto{
		Nome:        "Espresso",
		Categoria:   "cafes",
		Estacao:     "bebidas",
		PrecoBalcao: decimal.NewFromInt(10),
		Ativo:       true,
	}
	f.paoDeQueijo = &model.Produto{
		Nome:        "Pao de queijo",
		Categoria:   "comidas",
		Estacao:     "comidas",
		PrecoBalcao: decimal.NewFromInt(15),
		Ativo:       true,
	}
	require.NoError(t, f.produtoRepo.Create(context.Background(), f.espresso))
	require.NoError(t, f.produtoRepo.Create(context.Background(), f.paoDeQueijo))

	f.caixaSvc = NewCaixaService(f.caixaRepo, nil)
	fidelidadeSvc := NewFidelidadeService(f.clienteRepo)
	f.svc = NewPedidoService(f.pedidoRepo, f.produtoRepo, f.caixaSvc, fidelidadeSvc)
	return f
}

func (f *pedidoFixture) abrirCaixa(t *testing.T) {
	t.Helper()
	_, err := f.caixaSvc.Abrir(context.Background(), uuid.New(), "Elaine", dto.AbrirCaixaRequest{})
	require.NoError(t, err)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCriarPedidoComItens(t *testing.T) {
	f := newPedidoFixture(t)

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteNome: "Balcao",
		Itens: []dto.ItemPedidoRequest{
			{ProdutoID: f.espresso.ID.String(), Quantidade: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.PedidoAberto, pedido.Status)
	assert.Equal(t, "20", pedido.Total.String())
	require.Len(t, pedido.Itens, 1)
	// Snapshot do produto no momento da venda
	assert.Equal(t, "Espresso", pedido.Itens[0].Nome)
	assert.Equal(t, "10", pedido.Itens[0].Preco.String())
	assert.Equal(t, "bebidas", pedido.Itens[0].Estacao)
	assert.Equal(t, "Manuely", pedido.Itens[0].AdicionadoPor)
}

func TestCriarPedidoProdutoInativo(t *testing.T) {
	f := newPedidoFixture(t)
	f.espresso.Ativo = false

	_, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteNome: "Balcao",
		Itens: []dto.ItemPedidoRequest{
			{ProdutoID: f.espresso.ID.String(), Quantidade: 1},
		},
	})
	assert.ErrorContains(t, err, "esta inativo")
}

func TestRemoverItemRecalculaTotal(t *testing.T) {
	f := newPedidoFixture(t)

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteNome: "Balcao",
		Itens: []dto.ItemPedidoRequest{
			{ProdutoID: f.espresso.ID.String(), Quantidade: 1},
			{ProdutoID: f.paoDeQueijo.ID.String(), Quantidade: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "25", pedido.Total.String())

	atualizado, err := f.svc.RemoverItem(context.Background(), pedido.ID, pedido.Itens[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "10", atualizado.Total.String())
	assert.Len(t, atualizado.Itens, 1)
}

func TestPagamentoExigeCaixaAberto(t *testing.T) {
	f := newPedidoFixture(t)

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteNome: "Balcao",
		Itens: []dto.ItemPedidoRequest{
			{ProdutoID: f.espresso.ID.String(), Quantidade: 1},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.AdicionarPagamento(context.Background(), pedido.ID, dto.PagamentoPedidoRequest{
		Metodo: model.MetodoCash,
		Valor:  decimal.NewFromInt(10),
	})
	assert.ErrorContains(t, err, "nao ha caixa aberto")
	assert.Empty(t, pedido.Pagamentos)
	assert.Equal(t, model.PedidoAberto, pedido.Status)
}

func TestPagamentoQuitaPedido(t *testing.T) {
	f := newPedidoFixture(t)
	f.abrirCaixa(t)

	cliente := &model.Cliente{Nome: "Ana", Telefone: "45999990000"}
	require.NoError(t, f.clienteRepo.Create(context.Background(), cliente))
	clienteID := cliente.ID.String()

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteID:   &clienteID,
		ClienteNome: "Ana",
		Itens: []dto.ItemPedidoRequest{
			{ProdutoID: f.espresso.ID.String(), Quantidade: 2},
		},
	})
	require.NoError(t, err)

	pago, err := f.svc.AdicionarPagamento(context.Background(), pedido.ID, dto.PagamentoPedidoRequest{
		Metodo: model.MetodoPix,
		Valor:  decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	assert.Equal(t, model.PedidoPago, pago.Status)
	assert.NotNil(t, pago.PagoEm)
	// Cashback de primeira visita: 5% de 20
	require.NotNil(t, pago.CashbackGanho)
	assert.Equal(t, "1", pago.CashbackGanho.String())
	assert.Equal(t, "1", cliente.SaldoCashback.String())

	// Caixa acumulou a venda e as estatisticas
	caixa := f.caixaRepo.caixas[0]
	assert.Equal(t, "20", caixa.Pagamento(model.MetodoPix).Esperado.String())
	assert.Equal(t, "20", caixa.VendasTotal.String())
	assert.Equal(t, 1, caixa.TotalPedidos)
	assert.Equal(t, "20", caixa.TicketMedio.String())
}

func TestPagamentoParcialNaoQuita(t *testing.T) {
	f := newPedidoFixture(t)
	f.abrirCaixa(t)

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteNome: "Balcao",
		Itens: []dto.ItemPedidoRequest{
			{ProdutoID: f.paoDeQueijo.ID.String(), Quantidade: 2},
		},
	})
	require.NoError(t, err)

	parcial, err := f.svc.AdicionarPagamento(context.Background(), pedido.ID, dto.PagamentoPedidoRequest{
		Metodo: model.MetodoCash,
		Valor:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, model.PedidoAberto, parcial.Status)
	assert.Nil(t, parcial.PagoEm)
	assert.Equal(t, 0, f.caixaRepo.caixas[0].TotalPedidos)

	// Segundo pagamento completa e sela o pedido
	quitado, err := f.svc.AdicionarPagamento(context.Background(), pedido.ID, dto.PagamentoPedidoRequest{
		Metodo: model.MetodoCash,
		Valor:  decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, model.PedidoPago, quitado.Status)
	assert.Equal(t, 1, f.caixaRepo.caixas[0].TotalPedidos)
}

func TestUsarCashbackComoDesconto(t *testing.T) {
	f := newPedidoFixture(t)

	cliente := &model.Cliente{
		Nome:          "Ana",
		Telefone:      "45999990000",
		SaldoCashback: decimal.NewFromInt(30),
	}
	require.NoError(t, f.clienteRepo.Create(context.Background(), cliente))
	clienteID := cliente.ID.String()

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteID:   &clienteID,
		ClienteNome: "Ana",
		Itens: []dto.ItemPedidoRequest{
			{ProdutoID: f.espresso.ID.String(), Quantidade: 5},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "50", pedido.Total.String())

	comDesconto, err := f.svc.UsarCashback(context.Background(), pedido.ID, dto.ResgateCashbackRequest{
		Valor: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	assert.Equal(t, "30", comDesconto.Total.String())
	require.NotNil(t, comDesconto.CashbackUsado)
	assert.Equal(t, "20", comDesconto.CashbackUsado.String())
	assert.Equal(t, "10", cliente.SaldoCashback.String())
}

func TestUsarCashbackAcimaDoTotal(t *testing.T) {
	f := newPedidoFixture(t)

	cliente := &model.Cliente{
		Nome:          "Ana",
		Telefone:      "45999990000",
		SaldoCashback: decimal.NewFromInt(100),
	}
	require.NoError(t, f.clienteRepo.Create(context.Background(), cliente))
	clienteID := cliente.ID.String()

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteID:   &clienteID,
		ClienteNome: "Ana",
		Itens: []dto.ItemPedidoRequest{
			{ProdutoID: f.espresso.ID.String(), Quantidade: 1},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.UsarCashback(context.Background(), pedido.ID, dto.ResgateCashbackRequest{
		Valor: decimal.NewFromInt(20),
	})
	assert.ErrorContains(t, err, "resgate maior que o total do pedido")
}

func TestCancelarPedidoPago(t *testing.T) {
	f := newPedidoFixture(t)

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteNome: "Balcao",
	})
	require.NoError(t, err)
	pedido.Status = model.PedidoPago

	err = f.svc.Cancelar(context.Background(), pedido.ID)
	assert.ErrorContains(t, err, "nao pode ser cancelado")
}

func TestCancelarIncrementaContadorDoCaixa(t *testing.T) {
	f := newPedidoFixture(t)
	f.abrirCaixa(t)

	pedido, err := f.svc.Criar(context.Background(), uuid.New(), "Manuely", dto.CriarPedidoRequest{
		ClienteNome: "Balcao",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancelar(context.Background(), pedido.ID))
	assert.Equal(t, model.PedidoCancelado, pedido.Status)
	assert.Equal(t, 1, f.caixaRepo.caixas[0].PedidosCancelados)
}
