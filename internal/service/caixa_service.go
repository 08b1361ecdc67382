package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/repository"
	"cafeops/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CaixaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, usuarioNome string, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	Ativo(ctx context.Context) (*dto.CaixaResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.CaixaResponse, error)
	Relatorio(ctx context.Context, id uuid.UUID) (string, error)
	Historico(ctx context.Context, limit int) ([]dto.CaixaResponse, error)
	RegistrarOperacao(ctx context.Context, usuarioID uuid.UUID, usuarioNome string, req dto.OperacaoCaixaRequest) error
	AtualizarConferencia(ctx context.Context, req dto.ConferenciaRequest) error
	Fechar(ctx context.Context, usuarioID uuid.UUID, usuarioNome string, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error)

	// VerificarAberto is called by PedidoService before accepting a payment.
	VerificarAberto(ctx context.Context) error
	// RegistrarPagamento accumulates an order payment on the open register.
	RegistrarPagamento(ctx context.Context, metodo string, valor decimal.Decimal) error
	// AtualizarEstatisticas folds a finished order into the register's
	// cumulative averages.
	AtualizarEstatisticas(ctx context.Context, total decimal.Decimal, duracaoMinutos, itens int) error
	RegistrarCancelamento(ctx context.Context) error
}

type caixaService struct {
	repo       repository.CaixaRepository
	dispatcher *worker.Dispatcher
}

func NewCaixaService(repo repository.CaixaRepository, dispatcher *worker.Dispatcher) CaixaService {
	return &caixaService{repo: repo, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// One register at a time. Opening seeds every payment method with zero,
// cash starting at the opening float, and records the float as an implicit
// insert operation so the day's cash trail is complete.

func (s *caixaService) Abrir(ctx context.Context, usuarioID uuid.UUID, usuarioNome string, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	if aberto, err := s.repo.FindAberto(ctx); err == nil && aberto != nil && aberto.ID != uuid.Nil {
		return nil, fmt.Errorf("ja existe um caixa aberto (movimento %s)", aberto.MovimentoLabel())
	}

	ultimo, err := s.repo.UltimoMovimento(ctx)
	if err != nil {
		return nil, err
	}

	caixa := &model.Caixa{
		Numero:        1,
		Movimento:     ultimo + 1,
		Status:        "aberto",
		AbertoPor:     usuarioID,
		AbertoPorNome: usuarioNome,
		AbertoEm:      time.Now(),
	}
	for _, metodo := range model.TodosMetodos {
		p := model.PagamentoCaixa{Metodo: metodo}
		if metodo == model.MetodoCash {
			p.Esperado = req.FundoInicial
		}
		caixa.Pagamentos = append(caixa.Pagamentos, p)
	}

	if err := s.repo.Create(ctx, caixa); err != nil {
		return nil, err
	}

	if req.FundoInicial.IsPositive() {
		classificacao := "fundo_caixa"
		op := &model.OperacaoCaixa{
			CaixaID:       caixa.ID,
			Tipo:          "insert",
			Valor:         req.FundoInicial,
			Motivo:        "Fundo de caixa",
			Classificacao: &classificacao,
			CriadoPor:     usuarioID,
			CriadoPorNome: usuarioNome,
		}
		if err := s.repo.CreateOperacao(ctx, op); err != nil {
			return nil, err
		}
		caixa.Operacoes = append(caixa.Operacoes, *op)
	}

	resp := caixaToResponse(caixa)
	return &resp, nil
}

// ── RegistrarOperacao ─────────────────────────────────────────────────────────
// Manual cash events. Inserts raise the expected cash; withdraws and
// sangrias lower it. Operations are immutable.

func (s *caixaService) RegistrarOperacao(ctx context.Context, usuarioID uuid.UUID, usuarioNome string, req dto.OperacaoCaixaRequest) error {
	caixa, err := s.caixaAberto(ctx)
	if err != nil {
		return err
	}

	// Validate the cash row first so a rejected operation leaves no record
	dinheiro := caixa.Pagamento(model.MetodoCash)
	if dinheiro == nil {
		return errors.New("caixa sem saldo de dinheiro")
	}

	op := &model.OperacaoCaixa{
		CaixaID:       caixa.ID,
		Tipo:          req.Tipo,
		Valor:         req.Valor,
		Motivo:        req.Motivo,
		Classificacao: req.Classificacao,
		Destino:       req.Destino,
		EhDespesa:     req.EhDespesa,
		EhReceita:     req.EhReceita,
		CriadoPor:     usuarioID,
		CriadoPorNome: usuarioNome,
	}
	if err := s.repo.CreateOperacao(ctx, op); err != nil {
		return err
	}

	switch req.Tipo {
	case "insert":
		dinheiro.Esperado = dinheiro.Esperado.Add(req.Valor)
	case "withdraw", "sangria":
		dinheiro.Esperado = dinheiro.Esperado.Sub(req.Valor)
	}
	return s.repo.UpdatePagamento(ctx, dinheiro)
}

// ── Pagamentos e estatisticas de pedidos ──────────────────────────────────────

func (s *caixaService) VerificarAberto(ctx context.Context) error {
	_, err := s.caixaAberto(ctx)
	return err
}

func (s *caixaService) RegistrarPagamento(ctx context.Context, metodo string, valor decimal.Decimal) error {
	caixa, err := s.caixaAberto(ctx)
	if err != nil {
		return err
	}

	pagamento := caixa.Pagamento(metodo)
	if pagamento == nil {
		return fmt.Errorf("metodo de pagamento desconhecido: %s", metodo)
	}
	pagamento.Esperado = pagamento.Esperado.Add(valor)
	if err := s.repo.UpdatePagamento(ctx, pagamento); err != nil {
		return err
	}

	caixa.VendasProdutos = caixa.VendasProdutos.Add(valor)
	caixa.VendasTotal = caixa.VendasTotal.Add(valor)
	return s.repo.Update(ctx, caixa)
}

// AtualizarEstatisticas updates the cumulative averages with the incremental
// formula media' = media + (v - media) / n. Averages are stored rounded
// (ticket to cents, time to whole minutes, items to one decimal), and the
// next order averages over the stored value.
func (s *caixaService) AtualizarEstatisticas(ctx context.Context, total decimal.Decimal, duracaoMinutos, itens int) error {
	caixa, err := s.caixaAberto(ctx)
	if err != nil {
		return err
	}

	n := decimal.NewFromInt(int64(caixa.TotalPedidos + 1))

	caixa.TicketMedio = caixa.TicketMedio.
		Add(total.Sub(caixa.TicketMedio).Div(n)).Round(2)

	tempoMedio := decimal.NewFromInt(int64(caixa.TempoMedioMinutos))
	duracao := decimal.NewFromInt(int64(duracaoMinutos))
	caixa.TempoMedioMinutos = int(tempoMedio.Add(duracao.Sub(tempoMedio).Div(n)).Round(0).IntPart())

	produtos := decimal.NewFromInt(int64(itens))
	caixa.ProdutosPorPedido = caixa.ProdutosPorPedido.
		Add(produtos.Sub(caixa.ProdutosPorPedido).Div(n)).Round(1)

	caixa.TotalPedidos++
	return s.repo.Update(ctx, caixa)
}

func (s *caixaService) RegistrarCancelamento(ctx context.Context) error {
	caixa, err := s.caixaAberto(ctx)
	if err != nil {
		return err
	}
	caixa.PedidosCancelados++
	return s.repo.Update(ctx, caixa)
}

// ── Conferencia e fechamento ──────────────────────────────────────────────────

func (s *caixaService) AtualizarConferencia(ctx context.Context, req dto.ConferenciaRequest) error {
	caixa, err := s.caixaAberto(ctx)
	if err != nil {
		return err
	}

	for metodo, valor := range req.Valores {
		pagamento := caixa.Pagamento(metodo)
		if pagamento == nil {
			return fmt.Errorf("metodo de pagamento desconhecido: %s", metodo)
		}
		pagamento.Conferido = valor
		pagamento.Diferenca = valor.Sub(pagamento.Esperado)
		if err := s.repo.UpdatePagamento(ctx, pagamento); err != nil {
			return err
		}
	}
	return nil
}

func (s *caixaService) Fechar(ctx context.Context, usuarioID uuid.UUID, usuarioNome string, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error) {
	caixa, err := s.caixaAberto(ctx)
	if err != nil {
		return nil, err
	}

	agora := time.Now()
	caixa.Status = "fechado"
	caixa.FechadoPor = &usuarioID
	caixa.FechadoPorNome = &usuarioNome
	caixa.FechadoEm = &agora
	caixa.Notas = req.Notas

	if err := s.repo.Update(ctx, caixa); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		// Resumo por email sai da rota critica
		if err := s.dispatcher.EnqueueFechamento(ctx, caixa.ID.String()); err != nil {
			log.Error().Err(err).Str("caixa_id", caixa.ID.String()).Msg("falha ao enfileirar resumo de fechamento")
		}
	}

	resp := caixaToResponse(caixa)
	return &resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *caixaService) Ativo(ctx context.Context) (*dto.CaixaResponse, error) {
	caixa, err := s.caixaAberto(ctx)
	if err != nil {
		return nil, err
	}
	resp := caixaToResponse(caixa)
	return &resp, nil
}

func (s *caixaService) Obter(ctx context.Context, id uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("caixa nao encontrado")
	}
	resp := caixaToResponse(caixa)
	return &resp, nil
}

// Relatorio renders the plain-text movement summary, the same body sent by
// email when the register closes.
func (s *caixaService) Relatorio(ctx context.Context, id uuid.UUID) (string, error) {
	caixa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", errors.New("caixa nao encontrado")
	}
	return caixa.Resumo(), nil
}

func (s *caixaService) Historico(ctx context.Context, limit int) ([]dto.CaixaResponse, error) {
	if limit <= 0 {
		limit = 30
	}
	caixas, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CaixaResponse, len(caixas))
	for i := range caixas {
		resp[i] = caixaToResponse(&caixas[i])
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *caixaService) caixaAberto(ctx context.Context) (*model.Caixa, error) {
	caixa, err := s.repo.FindAberto(ctx)
	if err != nil || caixa == nil || caixa.ID == uuid.Nil {
		return nil, errors.New("nao ha caixa aberto")
	}
	return caixa, nil
}

func caixaToResponse(c *model.Caixa) dto.CaixaResponse {
	resp := dto.CaixaResponse{
		ID:                c.ID.String(),
		Movimento:         c.MovimentoLabel(),
		Status:            c.Status,
		AbertoPorNome:     c.AbertoPorNome,
		AbertoEm:          c.AbertoEm.Format(time.RFC3339),
		VendasProdutos:    c.VendasProdutos,
		VendasTotal:       c.VendasTotal,
		TotalPedidos:      c.TotalPedidos,
		PedidosCancelados: c.PedidosCancelados,
		TicketMedio:       c.TicketMedio,
		TempoMedioMinutos: c.TempoMedioMinutos,
		ProdutosPorPedido: c.ProdutosPorPedido,
		Notas:             c.Notas,
	}
	if c.FechadoPorNome != nil {
		resp.FechadoPorNome = c.FechadoPorNome
	}
	if c.FechadoEm != nil {
		t := c.FechadoEm.Format(time.RFC3339)
		resp.FechadoEm = &t
	}
	for _, p := range c.Pagamentos {
		resp.Pagamentos = append(resp.Pagamentos, dto.PagamentoCaixaResponse{
			Metodo:    p.Metodo,
			Esperado:  p.Esperado,
			Conferido: p.Conferido,
			Diferenca: p.Diferenca,
		})
	}
	for _, op := range c.Operacoes {
		resp.Operacoes = append(resp.Operacoes, dto.OperacaoCaixaResponse{
			ID:            op.ID.String(),
			Tipo:          op.Tipo,
			Valor:         op.Valor,
			Motivo:        op.Motivo,
			Classificacao: op.Classificacao,
			Destino:       op.Destino,
			CriadoPorNome: op.CriadoPorNome,
			CriadoEm:      op.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}
