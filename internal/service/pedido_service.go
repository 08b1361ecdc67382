package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type PedidoService interface {
	Criar(ctx context.Context, baristaID uuid.UUID, baristaNome string, req dto.CriarPedidoRequest) (*model.Pedido, error)
	Obter(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	AdicionarItem(ctx context.Context, pedidoID uuid.UUID, usuarioNome string, req dto.ItemPedidoRequest) (*model.Pedido, error)
	RemoverItem(ctx context.Context, pedidoID, itemID uuid.UUID) (*model.Pedido, error)
	AtualizarStatus(ctx context.Context, id uuid.UUID, status string) error
	AdicionarPagamento(ctx context.Context, pedidoID uuid.UUID, req dto.PagamentoPedidoRequest) (*model.Pedido, error)
	UsarCashback(ctx context.Context, pedidoID uuid.UUID, req dto.ResgateCashbackRequest) (*model.Pedido, error)
	Cancelar(ctx context.Context, id uuid.UUID) error
}

type pedidoService struct {
	repo        repository.PedidoRepository
	produtoRepo repository.ProdutoRepository
	caixa       CaixaService
	fidelidade  FidelidadeService
}

func NewPedidoService(
	repo repository.PedidoRepository,
	produtoRepo repository.ProdutoRepository,
	caixa CaixaService,
	fidelidade FidelidadeService,
) PedidoService {
	return &pedidoService{
		repo:        repo,
		produtoRepo: produtoRepo,
		caixa:       caixa,
		fidelidade:  fidelidade,
	}
}

// ── Criar ─────────────────────────────────────────────────────────────────────

func (s *pedidoService) Criar(ctx context.Context, baristaID uuid.UUID, baristaNome string, req dto.CriarPedidoRequest) (*model.Pedido, error) {
	pedido := &model.Pedido{
		ClienteNome: req.ClienteNome,
		BaristaID:   baristaID,
		BaristaNome: baristaNome,
		Status:      model.PedidoAberto,
	}
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id invalido: %w", err)
		}
		pedido.ClienteID = &cid
	}

	for _, item := range req.Itens {
		resolvido, err := s.resolverItem(ctx, baristaNome, item)
		if err != nil {
			return nil, err
		}
		pedido.Itens = append(pedido.Itens, *resolvido)
	}
	pedido.Total = pedido.CalcularTotal()

	if err := s.repo.Create(ctx, pedido); err != nil {
		return nil, err
	}
	return pedido, nil
}

func (s *pedidoService) Obter(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido nao encontrado")
	}
	return pedido, nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	return s.repo.List(ctx, filter)
}

// ── Itens ─────────────────────────────────────────────────────────────────────
// O total e sempre recalculado a partir dos itens apos qualquer alteracao.

func (s *pedidoService) AdicionarItem(ctx context.Context, pedidoID uuid.UUID, usuarioNome string, req dto.ItemPedidoRequest) (*model.Pedido, error) {
	pedido, err := s.pedidoEditavel(ctx, pedidoID)
	if err != nil {
		return nil, err
	}

	item, err := s.resolverItem(ctx, usuarioNome, req)
	if err != nil {
		return nil, err
	}
	item.PedidoID = pedido.ID
	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	pedido.Itens = append(pedido.Itens, *item)
	pedido.Total = pedido.CalcularTotal()
	if err := s.repo.Update(ctx, pedido); err != nil {
		return nil, err
	}
	return pedido, nil
}

func (s *pedidoService) RemoverItem(ctx context.Context, pedidoID, itemID uuid.UUID) (*model.Pedido, error) {
	pedido, err := s.pedidoEditavel(ctx, pedidoID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RemoveItem(ctx, pedidoID, itemID); err != nil {
		return nil, err
	}

	itens := pedido.Itens[:0]
	for _, item := range pedido.Itens {
		if item.ID != itemID {
			itens = append(itens, item)
		}
	}
	pedido.Itens = itens
	pedido.Total = pedido.CalcularTotal()
	if err := s.repo.Update(ctx, pedido); err != nil {
		return nil, err
	}
	return pedido, nil
}

// ── Status ────────────────────────────────────────────────────────────────────

func (s *pedidoService) AtualizarStatus(ctx context.Context, id uuid.UUID, status string) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido nao encontrado")
	}
	if pedido.Status == model.PedidoPago || pedido.Status == model.PedidoCancelado {
		return fmt.Errorf("pedido %s nao pode mudar de status", pedido.Status)
	}
	if status == model.PedidoCancelado {
		return s.Cancelar(ctx, id)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *pedidoService) Cancelar(ctx context.Context, id uuid.UUID) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido nao encontrado")
	}
	if pedido.Status == model.PedidoPago || pedido.Status == model.PedidoCancelado {
		return fmt.Errorf("pedido %s nao pode ser cancelado", pedido.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.PedidoCancelado); err != nil {
		return err
	}

	// Contador do caixa e melhor esforco: o cancelamento vale mesmo sem
	// caixa aberto.
	if err := s.caixa.RegistrarCancelamento(ctx); err != nil {
		log.Warn().Err(err).Str("pedido_id", id.String()).Msg("cancelamento sem caixa aberto")
	}
	return nil
}

// ── Pagamentos ────────────────────────────────────────────────────────────────
// A payment requires an open register up front. Once the order is fully
// paid it is sealed, cashback is credited and the register totals and
// statistics are updated. Failures after the payment is recorded are
// logged, never returned: the payment itself must not be lost.

func (s *pedidoService) AdicionarPagamento(ctx context.Context, pedidoID uuid.UUID, req dto.PagamentoPedidoRequest) (*model.Pedido, error) {
	pedido, err := s.repo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, errors.New("pedido nao encontrado")
	}
	if pedido.Status == model.PedidoPago {
		return nil, errors.New("pedido ja esta pago")
	}
	if pedido.Status == model.PedidoCancelado {
		return nil, errors.New("pedido cancelado nao aceita pagamento")
	}

	if err := s.caixa.VerificarAberto(ctx); err != nil {
		return nil, err
	}

	pagamento := &model.PagamentoPedido{
		PedidoID: pedido.ID,
		Metodo:   req.Metodo,
		Valor:    req.Valor,
		PagoEm:   time.Now(),
	}
	if err := s.repo.AddPagamento(ctx, pagamento); err != nil {
		return nil, err
	}
	pedido.Pagamentos = append(pedido.Pagamentos, *pagamento)

	quitado := pedido.TotalPago().GreaterThanOrEqual(pedido.Total)
	if quitado {
		agora := time.Now()
		pedido.Status = model.PedidoPago
		pedido.PagoEm = &agora

		if pedido.ClienteID != nil {
			cashback, err := s.fidelidade.AcumularCashback(ctx, *pedido.ClienteID, pedido.ID, pedido.Total)
			if err != nil {
				log.Warn().Err(err).Str("pedido_id", pedido.ID.String()).Msg("falha ao creditar cashback")
			} else {
				pedido.CashbackGanho = &cashback
			}
		}

		if err := s.repo.Update(ctx, pedido); err != nil {
			return nil, err
		}
	}

	if err := s.caixa.RegistrarPagamento(ctx, req.Metodo, req.Valor); err != nil {
		log.Error().Err(err).Str("pedido_id", pedido.ID.String()).Msg("falha ao registrar pagamento no caixa")
	}

	if quitado {
		duracao := int(time.Since(pedido.CreatedAt).Minutes())
		itens := 0
		for _, item := range pedido.Itens {
			itens += item.Quantidade
		}
		if err := s.caixa.AtualizarEstatisticas(ctx, pedido.Total, duracao, itens); err != nil {
			log.Error().Err(err).Str("pedido_id", pedido.ID.String()).Msg("falha ao atualizar estatisticas do caixa")
		}
	}

	return pedido, nil
}

// UsarCashback debits the customer's balance and applies it as a discount.
func (s *pedidoService) UsarCashback(ctx context.Context, pedidoID uuid.UUID, req dto.ResgateCashbackRequest) (*model.Pedido, error) {
	pedido, err := s.pedidoEditavel(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.ClienteID == nil {
		return nil, errors.New("pedido sem cliente identificado")
	}
	if req.Valor.GreaterThan(pedido.Total) {
		return nil, errors.New("resgate maior que o total do pedido")
	}

	pid := pedido.ID
	if err := s.fidelidade.ResgatarCashback(ctx, *pedido.ClienteID, &pid, req.Valor); err != nil {
		return nil, err
	}

	valor := req.Valor
	pedido.CashbackUsado = &valor
	pedido.Desconto = &valor
	pedido.Total = pedido.CalcularTotal().Sub(valor)
	if err := s.repo.Update(ctx, pedido); err != nil {
		return nil, err
	}
	return pedido, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *pedidoService) pedidoEditavel(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido nao encontrado")
	}
	if pedido.Status == model.PedidoPago || pedido.Status == model.PedidoCancelado {
		return nil, fmt.Errorf("pedido %s nao pode ser alterado", pedido.Status)
	}
	return pedido, nil
}

func (s *pedidoService) resolverItem(ctx context.Context, usuarioNome string, req dto.ItemPedidoRequest) (*model.ItemPedido, error) {
	pid, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return nil, fmt.Errorf("produto_id invalido: %w", err)
	}
	produto, err := s.produtoRepo.FindByID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("produto %s nao encontrado", req.ProdutoID)
	}
	if !produto.Ativo {
		return nil, fmt.Errorf("produto %s esta inativo", produto.Nome)
	}

	return &model.ItemPedido{
		ProdutoID:     produto.ID,
		Nome:          produto.Nome,
		Preco:         produto.PrecoBalcao,
		Quantidade:    req.Quantidade,
		Estacao:       produto.Estacao,
		Observacoes:   req.Observacoes,
		AdicionadoPor: usuarioNome,
	}, nil
}
