package repository

import (
	"context"

	"cafeops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaixaRepository interface {
	Create(ctx context.Context, c *model.Caixa) error
	FindAberto(ctx context.Context) (*model.Caixa, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	Update(ctx context.Context, c *model.Caixa) error
	UltimoMovimento(ctx context.Context) (int, error)
	CreateOperacao(ctx context.Context, op *model.OperacaoCaixa) error
	UpdatePagamento(ctx context.Context, p *model.PagamentoCaixa) error
	List(ctx context.Context, limit int) ([]model.Caixa, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) Create(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) FindAberto(ctx context.Context) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Preload("Pagamentos").Preload("Operacoes").
		Where("status = 'aberto'").First(&c).Error
	return &c, err
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Preload("Pagamentos").Preload("Operacoes").
		First(&c, id).Error
	return &c, err
}

func (r *caixaRepo) Update(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *caixaRepo) UltimoMovimento(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&model.Caixa{}).
		Select("MAX(movimento)").Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *caixaRepo) CreateOperacao(ctx context.Context, op *model.OperacaoCaixa) error {
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *caixaRepo) UpdatePagamento(ctx context.Context, p *model.PagamentoCaixa) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *caixaRepo) List(ctx context.Context, limit int) ([]model.Caixa, error) {
	var caixas []model.Caixa
	err := r.db.WithContext(ctx).
		Preload("Pagamentos").
		Order("aberto_em DESC").Limit(limit).Find(&caixas).Error
	return caixas, err
}
