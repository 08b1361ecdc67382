package repository

import (
	"context"

	"cafeops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByTelefone(ctx context.Context, telefone string) (*model.Cliente, error)
	Search(ctx context.Context, q string) ([]model.Cliente, error)
	List(ctx context.Context) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	AddTransacao(ctx context.Context, t *model.TransacaoFidelidade) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Preload("Historico").First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) FindByTelefone(ctx context.Context, telefone string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("telefone = ?", telefone).First(&c).Error
	return &c, err
}

func (r *clienteRepo) Search(ctx context.Context, q string) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).
		Where("nome ILIKE ? OR telefone LIKE ?", "%"+q+"%", "%"+q+"%").
		Order("nome ASC").Limit(50).Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) List(ctx context.Context) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).Order("nome ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) AddTransacao(ctx context.Context, t *model.TransacaoFidelidade) error {
	return r.db.WithContext(ctx).Create(t).Error
}
