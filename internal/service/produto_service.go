package service

import (
	"context"
	"errors"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/repository"

	"github.com/google/uuid"
)

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*model.Produto, error)
	Obter(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*model.Produto, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error
}

type produtoService struct {
	repo repository.ProdutoRepository
}

func NewProdutoService(repo repository.ProdutoRepository) ProdutoService {
	return &produtoService{repo: repo}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*model.Produto, error) {
	p := &model.Produto{
		Nome:          req.Nome,
		Descricao:     req.Descricao,
		Categoria:     req.Categoria,
		PrecoBalcao:   req.PrecoBalcao,
		PrecoB2B:      req.PrecoB2B,
		PrecoDelivery: req.PrecoDelivery,
		CustoProducao: req.CustoProducao,
		TempoPreparo:  req.TempoPreparo,
		Codigo:        req.Codigo,
		Ativo:         true,
	}
	if req.Tipo != "" {
		p.Tipo = req.Tipo
	}
	if req.Unidade != "" {
		p.Unidade = req.Unidade
	}
	if req.Estacao != "" {
		p.Estacao = req.Estacao
	}
	if req.Estoque != nil {
		v := int(req.Estoque.IntPart())
		p.Estoque = &v
	}
	if req.EstoqueMinimo != nil {
		v := int(req.EstoqueMinimo.IntPart())
		p.EstoqueMinimo = &v
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *produtoService) Obter(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	return p, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	return s.repo.List(ctx, filter)
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*model.Produto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.Unidade != nil {
		p.Unidade = *req.Unidade
	}
	if req.Estacao != nil {
		p.Estacao = *req.Estacao
	}
	if req.PrecoBalcao != nil {
		p.PrecoBalcao = *req.PrecoBalcao
	}
	if req.PrecoB2B != nil {
		p.PrecoB2B = *req.PrecoB2B
	}
	if req.PrecoDelivery != nil {
		p.PrecoDelivery = *req.PrecoDelivery
	}
	if req.CustoProducao != nil {
		p.CustoProducao = req.CustoProducao
	}
	if req.TempoPreparo != nil {
		p.TempoPreparo = req.TempoPreparo
	}
	if req.Estoque != nil {
		v := int(req.Estoque.IntPart())
		p.Estoque = &v
	}
	if req.EstoqueMinimo != nil {
		v := int(req.EstoqueMinimo.IntPart())
		p.EstoqueMinimo = &v
	}
	if req.Codigo != nil {
		p.Codigo = req.Codigo
	}
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *produtoService) Reativar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}
