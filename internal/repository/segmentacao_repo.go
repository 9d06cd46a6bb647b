package repository

import (
	"context"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type SegmentacaoRepository interface {
	Criar(ctx context.Context, s *model.Segmentacao) error
	ObterPorID(ctx context.Context, id int) (*model.Segmentacao, error)
	ListarPorFornecedor(ctx context.Context, fornecedorID int) ([]model.Segmentacao, error)
	ObterPadraoDoFornecedor(ctx context.Context, fornecedorID int) (*model.Segmentacao, error)
	Atualizar(ctx context.Context, s *model.Segmentacao) error
	Remover(ctx context.Context, id int) error
}

type segmentacaoRepo struct{ db *gorm.DB }

func NewSegmentacaoRepository(db *gorm.DB) SegmentacaoRepository { return &segmentacaoRepo{db: db} }

func preloadGrupos(db *gorm.DB) *gorm.DB {
	return db.Preload("Grupos", func(q *gorm.DB) *gorm.DB {
		return q.Order("area_minima asc")
	}).Preload("Grupos.Regras")
}

func (r *segmentacaoRepo) Criar(ctx context.Context, s *model.Segmentacao) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.EhPadrao {
			if err := limparPadrao(tx, s.FornecedorID, 0); err != nil {
				return err
			}
		}
		return tx.Create(s).Error
	})
}

func (r *segmentacaoRepo) ObterPorID(ctx context.Context, id int) (*model.Segmentacao, error) {
	var s model.Segmentacao
	if err := preloadGrupos(r.db.WithContext(ctx)).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *segmentacaoRepo) ListarPorFornecedor(ctx context.Context, fornecedorID int) ([]model.Segmentacao, error) {
	var list []model.Segmentacao
	err := preloadGrupos(r.db.WithContext(ctx)).
		Where("fornecedor_id = ?", fornecedorID).
		Order("nome asc").
		Find(&list).Error
	return list, err
}

func (r *segmentacaoRepo) ObterPadraoDoFornecedor(ctx context.Context, fornecedorID int) (*model.Segmentacao, error) {
	var s model.Segmentacao
	err := preloadGrupos(r.db.WithContext(ctx)).
		Where("fornecedor_id = ? AND eh_padrao = ? AND ativo = ?", fornecedorID, true, true).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Atualizar saves the segmentation and rebuilds its groups and rules.
func (r *segmentacaoRepo) Atualizar(ctx context.Context, s *model.Segmentacao) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.EhPadrao {
			if err := limparPadrao(tx, s.FornecedorID, s.ID); err != nil {
				return err
			}
		}
		if err := tx.Omit("Grupos").Save(s).Error; err != nil {
			return err
		}
		if err := removerGrupos(tx, s.ID); err != nil {
			return err
		}
		for i := range s.Grupos {
			g := &s.Grupos[i]
			g.ID, g.SegmentacaoID = 0, s.ID
			for j := range g.Regras {
				g.Regras[j].ID = 0
			}
		}
		if len(s.Grupos) == 0 {
			return nil
		}
		return tx.Create(&s.Grupos).Error
	})
}

func (r *segmentacaoRepo) Remover(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := removerGrupos(tx, id); err != nil {
			return err
		}
		return tx.Delete(&model.Segmentacao{}, id).Error
	})
}

func removerGrupos(tx *gorm.DB, segmentacaoID int) error {
	sub := tx.Model(&model.GrupoSegmentacao{}).Select("id").Where("segmentacao_id = ?", segmentacaoID)
	if err := tx.Where("grupo_segmentacao_id IN (?)", sub).Delete(&model.RegraDescontoSegmentacao{}).Error; err != nil {
		return err
	}
	return tx.Where("segmentacao_id = ?", segmentacaoID).Delete(&model.GrupoSegmentacao{}).Error
}

func limparPadrao(tx *gorm.DB, fornecedorID, excetoID int) error {
	return tx.Model(&model.Segmentacao{}).
		Where("fornecedor_id = ? AND id <> ?", fornecedorID, excetoID).
		Update("eh_padrao", false).Error
}
