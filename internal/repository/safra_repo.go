package repository

import (
	"context"
	"time"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type SafraRepository interface {
	Criar(ctx context.Context, s *model.Safra) error
	Listar(ctx context.Context) ([]model.Safra, error)
	ObterPorID(ctx context.Context, id int) (*model.Safra, error)
	ObterAtual(ctx context.Context, agora time.Time) (*model.Safra, error)
	ObterPorPeriodo(ctx context.Context, plantioNome string, anoColheita int) (*model.Safra, error)
	ListarPorAnoColheita(ctx context.Context, ano int) ([]model.Safra, error)
	Atualizar(ctx context.Context, s *model.Safra) error
	Remover(ctx context.Context, id int) error
}

type safraRepo struct{ db *gorm.DB }

func NewSafraRepository(db *gorm.DB) SafraRepository { return &safraRepo{db: db} }

func (r *safraRepo) Criar(ctx context.Context, s *model.Safra) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *safraRepo) Listar(ctx context.Context) ([]model.Safra, error) {
	var safras []model.Safra
	err := r.db.WithContext(ctx).Order("plantio_inicial desc").Find(&safras).Error
	return safras, err
}

func (r *safraRepo) ObterPorID(ctx context.Context, id int) (*model.Safra, error) {
	var s model.Safra
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ObterAtual returns the most recent safra whose planting window contains agora.
func (r *safraRepo) ObterAtual(ctx context.Context, agora time.Time) (*model.Safra, error) {
	var s model.Safra
	err := r.db.WithContext(ctx).
		Where("plantio_inicial <= ? AND plantio_final >= ?", agora, agora).
		Order("plantio_inicial desc").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *safraRepo) ObterPorPeriodo(ctx context.Context, plantioNome string, anoColheita int) (*model.Safra, error) {
	var s model.Safra
	err := r.db.WithContext(ctx).
		Where("LOWER(plantio_nome) = LOWER(?) AND ano_colheita = ?", plantioNome, anoColheita).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *safraRepo) ListarPorAnoColheita(ctx context.Context, ano int) ([]model.Safra, error) {
	var safras []model.Safra
	err := r.db.WithContext(ctx).Where("ano_colheita = ?", ano).Order("plantio_inicial asc").Find(&safras).Error
	return safras, err
}

func (r *safraRepo) Atualizar(ctx context.Context, s *model.Safra) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *safraRepo) Remover(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&model.Safra{}, id).Error
}
