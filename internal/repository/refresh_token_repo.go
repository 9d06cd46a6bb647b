package repository

import (
	"context"
	"time"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	Criar(ctx context.Context, t *model.RefreshToken) error
	ObterPorToken(ctx context.Context, token string) (*model.RefreshToken, error)
	Revogar(ctx context.Context, id int, em time.Time) (int64, error)
	RevogarTodosDoUsuario(ctx context.Context, usuarioID int, em time.Time) error
	RemoverExpirados(ctx context.Context, antes time.Time) (int64, error)
}

type refreshTokenRepo struct{ db *gorm.DB }

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepo{db: db}
}

func (r *refreshTokenRepo) Criar(ctx context.Context, t *model.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *refreshTokenRepo) ObterPorToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Revogar reports how many rows it revoked. Zero means another request
// revoked the token first.
func (r *refreshTokenRepo) Revogar(ctx context.Context, id int, em time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("id = ? AND revogado_em IS NULL", id).
		Update("revogado_em", em)
	return res.RowsAffected, res.Error
}

func (r *refreshTokenRepo) RevogarTodosDoUsuario(ctx context.Context, usuarioID int, em time.Time) error {
	return r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("usuario_id = ? AND revogado_em IS NULL", usuarioID).
		Update("revogado_em", em).Error
}

// RemoverExpirados deletes tokens that expired before antes.
func (r *refreshTokenRepo) RemoverExpirados(ctx context.Context, antes time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expira_em < ?", antes).Delete(&model.RefreshToken{})
	return res.RowsAffected, res.Error
}
