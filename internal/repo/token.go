package repo

import (
	"context"

	"github.com/Skotchmaster/techstore/internal/models"
)

func (r *GormRepo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return translate(r.DB.WithContext(ctx).Create(t).Error)
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// RevokeRefreshByHash marks the token with the given sha256 hash as revoked
// and reports how many rows changed.
func (r *GormRepo) RevokeRefreshByHash(ctx context.Context, tokenHash string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", tokenHash, false).
		Update("revoked", true)
	return res.RowsAffected, res.Error
}
