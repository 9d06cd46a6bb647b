package repository

import (
	"context"
	"time"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type PedidoFiltro struct {
	ProdutorID   *int
	FornecedorID *int
	Status       *model.StatusPedido
	Desde        *time.Time
	Ate          *time.Time
	Paginacao
}

type PedidoRepository interface {
	Criar(ctx context.Context, p *model.Pedido, abrir func(*model.Pedido) (*model.Proposta, error)) error
	ObterPorID(ctx context.Context, id int) (*model.Pedido, error)
	Listar(ctx context.Context, filtro PedidoFiltro) ([]model.Pedido, int64, error)
	// SalvarItem persists an item together with the order totals and deadline.
	SalvarItem(ctx context.Context, p *model.Pedido, item *model.PedidoItem) error
	RemoverItem(ctx context.Context, p *model.Pedido, itemID int) error
	AgendarTransporte(ctx context.Context, t *model.PedidoItemTransporte) error
	// RegistrarProposta inserts the proposal and updates the order header atomically.
	RegistrarProposta(ctx context.Context, p *model.Pedido, prop *model.Proposta) error
	ListarVencidos(ctx context.Context, agora time.Time, limite int) ([]model.Pedido, error)
	// AtualizarStatus moves an order still EmNegociacao to status.
	// Returns the number of rows changed (0 when it already left EmNegociacao).
	AtualizarStatus(ctx context.Context, id int, status model.StatusPedido, em time.Time) (int64, error)
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

// Criar inserts the order with its items. When abrir is set it builds the
// opening proposal once the order has an id, and both are stored in one transaction.
func (r *pedidoRepo) Criar(ctx context.Context, p *model.Pedido, abrir func(*model.Pedido) (*model.Proposta, error)) error {
	permiteContato, negociar := p.PermiteContato, p.NegociarPedido
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		// Create writes the column default back over false booleans
		p.PermiteContato, p.NegociarPedido = permiteContato, negociar
		err := tx.Model(&model.Pedido{}).Where("id = ?", p.ID).UpdateColumns(map[string]any{
			"permite_contato": permiteContato,
			"negociar_pedido": negociar,
		}).Error
		if err != nil || abrir == nil {
			return err
		}

		prop, err := abrir(p)
		if err != nil {
			return err
		}
		err = tx.Model(&model.Pedido{}).Where("id = ?", p.ID).UpdateColumns(map[string]any{
			"status":                p.Status,
			"data_limite_interacao": p.DataLimiteInteracao,
			"data_atualizacao":      p.DataAtualizacao,
		}).Error
		if err != nil {
			return err
		}
		return tx.Create(prop).Error
	})
}

func (r *pedidoRepo) ObterPorID(ctx context.Context, id int) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Itens", func(q *gorm.DB) *gorm.DB { return q.Order("id asc") }).
		Preload("Itens.Transportes", func(q *gorm.DB) *gorm.DB { return q.Order("id asc") }).
		Preload("Propostas", func(q *gorm.DB) *gorm.DB { return q.Order("id asc") }).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) Listar(ctx context.Context, filtro PedidoFiltro) ([]model.Pedido, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if filtro.ProdutorID != nil {
		q = q.Where("produtor_id = ?", *filtro.ProdutorID)
	}
	if filtro.FornecedorID != nil {
		q = q.Where("fornecedor_id = ?", *filtro.FornecedorID)
	}
	if filtro.Status != nil {
		q = q.Where("status = ?", *filtro.Status)
	}
	if filtro.Desde != nil {
		q = q.Where("data_criacao >= ?", *filtro.Desde)
	}
	if filtro.Ate != nil {
		q = q.Where("data_criacao <= ?", *filtro.Ate)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Pedido
	err := filtro.Paginacao.aplicar(q).Order("data_criacao desc, id desc").Find(&list).Error
	return list, total, err
}

func (r *pedidoRepo) salvarCabecalho(tx *gorm.DB, p *model.Pedido) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", p.ID).Updates(map[string]any{
		"status":                p.Status,
		"valor_total":           p.ValorTotal,
		"quantidade_itens":      p.QuantidadeItens,
		"data_limite_interacao": p.DataLimiteInteracao,
		"data_atualizacao":      p.DataAtualizacao,
	}).Error
}

func (r *pedidoRepo) SalvarItem(ctx context.Context, p *model.Pedido, item *model.PedidoItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Transportes").Save(item).Error; err != nil {
			return err
		}
		return r.salvarCabecalho(tx, p)
	})
}

func (r *pedidoRepo) RemoverItem(ctx context.Context, p *model.Pedido, itemID int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_item_id = ?", itemID).Delete(&model.PedidoItemTransporte{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pedido_id = ?", p.ID).Delete(&model.PedidoItem{}, itemID).Error; err != nil {
			return err
		}
		return r.salvarCabecalho(tx, p)
	})
}

func (r *pedidoRepo) AgendarTransporte(ctx context.Context, t *model.PedidoItemTransporte) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *pedidoRepo) RegistrarProposta(ctx context.Context, p *model.Pedido, prop *model.Proposta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the order must not have left EmNegociacao since it was loaded
		res := tx.Model(&model.Pedido{}).
			Where("id = ? AND status = ?", p.ID, model.StatusPedidoEmNegociacao).
			Updates(map[string]any{
				"status":                p.Status,
				"data_limite_interacao": p.DataLimiteInteracao,
				"data_atualizacao":      p.DataAtualizacao,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrTransicaoInvalida
		}
		return tx.Create(prop).Error
	})
}

func (r *pedidoRepo) ListarVencidos(ctx context.Context, agora time.Time, limite int) ([]model.Pedido, error) {
	var list []model.Pedido
	err := r.db.WithContext(ctx).
		Where("status = ? AND data_limite_interacao < ?", model.StatusPedidoEmNegociacao, agora).
		Order("data_limite_interacao asc").
		Limit(limite).
		Find(&list).Error
	return list, err
}

func (r *pedidoRepo) AtualizarStatus(ctx context.Context, id int, status model.StatusPedido, em time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ? AND status = ?", id, model.StatusPedidoEmNegociacao).
		Updates(map[string]any{"status": status, "data_atualizacao": em})
	return res.RowsAffected, res.Error
}
