package repository

import (
	"context"

	"agriis/internal/model"

	"gorm.io/gorm"
)

// CulturaRepository defines CRUD operations for Cultura.
type CulturaRepository interface {
	Criar(ctx context.Context, c *model.Cultura) error
	Listar(ctx context.Context, apenasAtivas bool) ([]model.Cultura, error)
	ObterPorID(ctx context.Context, id int) (*model.Cultura, error)
	ObterPorNome(ctx context.Context, nome string) (*model.Cultura, error)
	Atualizar(ctx context.Context, c *model.Cultura) error
	Desativar(ctx context.Context, id int) error
}

type culturaRepository struct{ db *gorm.DB }

func NewCulturaRepository(db *gorm.DB) CulturaRepository {
	return &culturaRepository{db: db}
}

func (r *culturaRepository) Criar(ctx context.Context, c *model.Cultura) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *culturaRepository) Listar(ctx context.Context, apenasAtivas bool) ([]model.Cultura, error) {
	var list []model.Cultura
	q := r.db.WithContext(ctx).Order("nome asc")
	if apenasAtivas {
		q = q.Where("ativo = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *culturaRepository) ObterPorID(ctx context.Context, id int) (*model.Cultura, error) {
	var c model.Cultura
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *culturaRepository) ObterPorNome(ctx context.Context, nome string) (*model.Cultura, error) {
	var c model.Cultura
	if err := r.db.WithContext(ctx).Where("LOWER(nome) = LOWER(?)", nome).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *culturaRepository) Atualizar(ctx context.Context, c *model.Cultura) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *culturaRepository) Desativar(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Model(&model.Cultura{}).Where("id = ?", id).Update("ativo", false).Error
}
