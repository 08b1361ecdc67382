package service

import (
	"context"
	"errors"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Criar(ctx context.Context, req dto.CriarClienteRequest) (*model.Cliente, error)
	Obter(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	Listar(ctx context.Context) ([]model.Cliente, error)
	Buscar(ctx context.Context, q string) ([]model.Cliente, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*model.Cliente, error)
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Criar(ctx context.Context, req dto.CriarClienteRequest) (*model.Cliente, error) {
	if existing, err := s.repo.FindByTelefone(ctx, req.Telefone); err == nil && existing != nil && existing.ID != uuid.Nil {
		return nil, errors.New("ja existe um cliente com este telefone")
	}

	c := &model.Cliente{
		Nome:     req.Nome,
		Telefone: req.Telefone,
		Empresa:  req.Empresa,
		Nivel:    model.NivelIniciante,
	}
	if req.Tipo != "" {
		c.Tipo = req.Tipo
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clienteService) Obter(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente nao encontrado")
	}
	return c, nil
}

func (s *clienteService) Listar(ctx context.Context) ([]model.Cliente, error) {
	return s.repo.List(ctx)
}

func (s *clienteService) Buscar(ctx context.Context, q string) ([]model.Cliente, error) {
	return s.repo.Search(ctx, q)
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*model.Cliente, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente nao encontrado")
	}
	if req.Nome != nil {
		c.Nome = *req.Nome
	}
	if req.Telefone != nil {
		c.Telefone = *req.Telefone
	}
	if req.Tipo != nil {
		c.Tipo = *req.Tipo
	}
	if req.Empresa != nil {
		c.Empresa = req.Empresa
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
