package repository

import (
	"context"

	"cafeops/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LancamentoRepository interface {
	Create(ctx context.Context, l *model.Lancamento) error
	// Existe reports whether an equivalent entry is already in the ledger:
	// same FITID, or same date and original description with the amount
	// differing by less than one cent.
	Existe(ctx context.Context, fitid, data string, valor decimal.Decimal, descricao string) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Lancamento, error)
	CountByFonte(ctx context.Context, fonte string) (int64, error)
	ListPendentes(ctx context.Context) ([]model.Lancamento, error)
	ListPeriodo(ctx context.Context, mes string) ([]model.Lancamento, error)
	ListAll(ctx context.Context) ([]model.Lancamento, error)
	ListPorFonteCategoria(ctx context.Context, fonte, categoria string) ([]model.Lancamento, error)
	Update(ctx context.Context, l *model.Lancamento) error

	CreateReconciliacao(ctx context.Context, rec *model.Reconciliacao) error
	CountReconciliacoes(ctx context.Context) (int64, error)
	ListReconciliacoes(ctx context.Context) ([]model.Reconciliacao, error)
}

type lancamentoRepo struct{ db *gorm.DB }

func NewLancamentoRepository(db *gorm.DB) LancamentoRepository { return &lancamentoRepo{db: db} }

func (r *lancamentoRepo) Create(ctx context.Context, l *model.Lancamento) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lancamentoRepo) Existe(ctx context.Context, fitid, data string, valor decimal.Decimal, descricao string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Lancamento{}).
		Where("fitid = ? OR (data = ? AND descricao_original = ? AND ABS(valor - ?) < 0.01)",
			fitid, data, descricao, valor).
		Count(&count).Error
	return count > 0, err
}

func (r *lancamentoRepo) FindByID(ctx context.Context, id string) (*model.Lancamento, error) {
	var l model.Lancamento
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	return &l, err
}

func (r *lancamentoRepo) CountByFonte(ctx context.Context, fonte string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Lancamento{}).
		Where("fonte = ?", fonte).Count(&count).Error
	return count, err
}

func (r *lancamentoRepo) ListPendentes(ctx context.Context) ([]model.Lancamento, error) {
	var ls []model.Lancamento
	err := r.db.WithContext(ctx).
		Where("categoria = ?", model.CategoriaPendente).
		Order("data ASC, id ASC").Find(&ls).Error
	return ls, err
}

func (r *lancamentoRepo) ListPeriodo(ctx context.Context, mes string) ([]model.Lancamento, error) {
	var ls []model.Lancamento
	err := r.db.WithContext(ctx).
		Where("data LIKE ?", mes+"%").
		Order("data ASC, id ASC").Find(&ls).Error
	return ls, err
}

func (r *lancamentoRepo) ListAll(ctx context.Context) ([]model.Lancamento, error) {
	var ls []model.Lancamento
	err := r.db.WithContext(ctx).Order("data ASC, id ASC").Find(&ls).Error
	return ls, err
}

func (r *lancamentoRepo) ListPorFonteCategoria(ctx context.Context, fonte, categoria string) ([]model.Lancamento, error) {
	var ls []model.Lancamento
	err := r.db.WithContext(ctx).
		Where("fonte = ? AND categoria = ?", fonte, categoria).
		Order("data ASC, id ASC").Find(&ls).Error
	return ls, err
}

func (r *lancamentoRepo) Update(ctx context.Context, l *model.Lancamento) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *lancamentoRepo) CreateReconciliacao(ctx context.Context, rec *model.Reconciliacao) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *lancamentoRepo) CountReconciliacoes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Reconciliacao{}).Count(&count).Error
	return count, err
}

func (r *lancamentoRepo) ListReconciliacoes(ctx context.Context) ([]model.Reconciliacao, error) {
	var recs []model.Reconciliacao
	err := r.db.WithContext(ctx).Order("id ASC").Find(&recs).Error
	return recs, err
}
