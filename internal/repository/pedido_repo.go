package repository

import (
	"context"

	"cafeops/internal/dto"
	"cafeops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	Update(ctx context.Context, p *model.Pedido) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	AddItem(ctx context.Context, item *model.ItemPedido) error
	RemoveItem(ctx context.Context, pedidoID, itemID uuid.UUID) error
	AddPagamento(ctx context.Context, pg *model.PagamentoPedido) error
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Create(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Itens").Preload("Pagamentos").First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) Update(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pedidoRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).Update("status", status).Error
}

func (r *pedidoRepo) AddItem(ctx context.Context, item *model.ItemPedido) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *pedidoRepo) RemoveItem(ctx context.Context, pedidoID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND pedido_id = ?", itemID, pedidoID).
		Delete(&model.ItemPedido{}).Error
}

func (r *pedidoRepo) AddPagamento(ctx context.Context, pg *model.PagamentoPedido) error {
	return r.db.WithContext(ctx).Create(pg).Error
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Data != "" {
		q = q.Where("DATE(created_at) = ?", filter.Data)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Itens").Preload("Pagamentos").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, total, err
}
