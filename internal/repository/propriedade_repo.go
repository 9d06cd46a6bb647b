package repository

import (
	"context"

	"agriis/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PropriedadeRepository interface {
	Criar(ctx context.Context, p *model.Propriedade) error
	ObterPorID(ctx context.Context, id int) (*model.Propriedade, error)
	ObterPorNirf(ctx context.Context, nirf string) (*model.Propriedade, error)
	ListarPorProdutor(ctx context.Context, produtorID int) ([]model.Propriedade, error)
	Atualizar(ctx context.Context, p *model.Propriedade) error
	Remover(ctx context.Context, id int) error
	AreaTotalPorProdutor(ctx context.Context, produtorID int) (decimal.Decimal, error)
	MunicipiosPorProdutor(ctx context.Context, produtorID int) ([]string, error)
}

type propriedadeRepo struct{ db *gorm.DB }

func NewPropriedadeRepository(db *gorm.DB) PropriedadeRepository { return &propriedadeRepo{db: db} }

func (r *propriedadeRepo) Criar(ctx context.Context, p *model.Propriedade) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *propriedadeRepo) ObterPorID(ctx context.Context, id int) (*model.Propriedade, error) {
	var p model.Propriedade
	if err := r.db.WithContext(ctx).Preload("Culturas").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propriedadeRepo) ObterPorNirf(ctx context.Context, nirf string) (*model.Propriedade, error) {
	var p model.Propriedade
	if err := r.db.WithContext(ctx).Where("nirf = ?", nirf).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propriedadeRepo) ListarPorProdutor(ctx context.Context, produtorID int) ([]model.Propriedade, error) {
	var list []model.Propriedade
	err := r.db.WithContext(ctx).Preload("Culturas").
		Where("produtor_id = ?", produtorID).
		Order("nome asc").
		Find(&list).Error
	return list, err
}

// Atualizar saves the property and replaces its crop areas in one transaction.
func (r *propriedadeRepo) Atualizar(ctx context.Context, p *model.Propriedade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Culturas").Save(p).Error; err != nil {
			return err
		}
		if err := tx.Where("propriedade_id = ?", p.ID).Delete(&model.PropriedadeCultura{}).Error; err != nil {
			return err
		}
		for i := range p.Culturas {
			p.Culturas[i].ID = 0
			p.Culturas[i].PropriedadeID = p.ID
		}
		if len(p.Culturas) == 0 {
			return nil
		}
		return tx.Create(&p.Culturas).Error
	})
}

func (r *propriedadeRepo) Remover(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("propriedade_id = ?", id).Delete(&model.PropriedadeCultura{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Propriedade{}, id).Error
	})
}

func (r *propriedadeRepo) AreaTotalPorProdutor(ctx context.Context, produtorID int) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Propriedade{}).
		Where("produtor_id = ?", produtorID).
		Select("SUM(area_total)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *propriedadeRepo) MunicipiosPorProdutor(ctx context.Context, produtorID int) ([]string, error) {
	var municipios []string
	err := r.db.WithContext(ctx).Model(&model.Propriedade{}).
		Where("produtor_id = ?", produtorID).
		Distinct().
		Order("municipio asc").
		Pluck("municipio", &municipios).Error
	return municipios, err
}
