package repository

import (
	"context"
	"time"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type ComboFiltro struct {
	FornecedorID *int
	SafraID      *int
	Status       *model.StatusCombo
}

type ComboRepository interface {
	Criar(ctx context.Context, c *model.Combo) error
	ObterPorID(ctx context.Context, id int) (*model.Combo, error)
	Listar(ctx context.Context, filtro ComboFiltro) ([]model.Combo, error)
	ListarAtivos(ctx context.Context, agora time.Time) ([]model.Combo, error)
	Atualizar(ctx context.Context, c *model.Combo) error
	AtualizarStatus(ctx context.Context, id int, status model.StatusCombo, em time.Time) error
	ExpirarVencidos(ctx context.Context, agora time.Time) (int64, error)
	Remover(ctx context.Context, id int) error
}

type comboRepo struct{ db *gorm.DB }

func NewComboRepository(db *gorm.DB) ComboRepository { return &comboRepo{db: db} }

func preloadCombo(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Itens", func(q *gorm.DB) *gorm.DB { return q.Order("ordem asc, id asc") }).
		Preload("LocaisRecebimento").
		Preload("CategoriasDesconto")
}

func (r *comboRepo) Criar(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *comboRepo) ObterPorID(ctx context.Context, id int) (*model.Combo, error) {
	var c model.Combo
	if err := preloadCombo(r.db.WithContext(ctx)).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *comboRepo) Listar(ctx context.Context, filtro ComboFiltro) ([]model.Combo, error) {
	q := r.db.WithContext(ctx)
	if filtro.FornecedorID != nil {
		q = q.Where("fornecedor_id = ?", *filtro.FornecedorID)
	}
	if filtro.SafraID != nil {
		q = q.Where("safra_id = ?", *filtro.SafraID)
	}
	if filtro.Status != nil {
		q = q.Where("status = ?", *filtro.Status)
	}
	var list []model.Combo
	err := preloadCombo(q).Order("data_inicio desc, id desc").Find(&list).Error
	return list, err
}

// ListarAtivos returns Ativo combos whose validity window contains agora.
func (r *comboRepo) ListarAtivos(ctx context.Context, agora time.Time) ([]model.Combo, error) {
	var list []model.Combo
	err := preloadCombo(r.db.WithContext(ctx)).
		Where("status = ? AND data_inicio <= ? AND data_fim >= ?", model.StatusComboAtivo, agora, agora).
		Order("data_fim asc").
		Find(&list).Error
	return list, err
}

// Atualizar saves the header and rebuilds the child collections.
func (r *comboRepo) Atualizar(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Itens", "LocaisRecebimento", "CategoriasDesconto").Save(c).Error; err != nil {
			return err
		}
		for _, filho := range []any{&model.ComboItem{}, &model.ComboLocalRecebimento{}, &model.ComboCategoriaDesconto{}} {
			if err := tx.Where("combo_id = ?", c.ID).Delete(filho).Error; err != nil {
				return err
			}
		}
		for i := range c.Itens {
			c.Itens[i].ID, c.Itens[i].ComboID = 0, c.ID
		}
		for i := range c.LocaisRecebimento {
			c.LocaisRecebimento[i].ID, c.LocaisRecebimento[i].ComboID = 0, c.ID
		}
		for i := range c.CategoriasDesconto {
			c.CategoriasDesconto[i].ID, c.CategoriasDesconto[i].ComboID = 0, c.ID
		}
		if len(c.Itens) > 0 {
			if err := tx.Create(&c.Itens).Error; err != nil {
				return err
			}
		}
		if len(c.LocaisRecebimento) > 0 {
			if err := tx.Create(&c.LocaisRecebimento).Error; err != nil {
				return err
			}
		}
		if len(c.CategoriasDesconto) > 0 {
			return tx.Create(&c.CategoriasDesconto).Error
		}
		return nil
	})
}

func (r *comboRepo) AtualizarStatus(ctx context.Context, id int, status model.StatusCombo, em time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Combo{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "data_atualizacao": em}).Error
}

// ExpirarVencidos marks every Ativo combo whose DataFim passed as Expirado.
func (r *comboRepo) ExpirarVencidos(ctx context.Context, agora time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Combo{}).
		Where("status = ? AND data_fim < ?", model.StatusComboAtivo, agora).
		Updates(map[string]any{"status": model.StatusComboExpirado, "data_atualizacao": agora})
	return res.RowsAffected, res.Error
}

func (r *comboRepo) Remover(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, filho := range []any{&model.ComboItem{}, &model.ComboLocalRecebimento{}, &model.ComboCategoriaDesconto{}} {
			if err := tx.Where("combo_id = ?", id).Delete(filho).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Combo{}, id).Error
	})
}
