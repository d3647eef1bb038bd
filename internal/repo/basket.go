package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/techstore/internal/models"
)

var ErrQuantityLimit = errors.New("line quantity limit exceeded")

// GetOrCreateBasket inserts the user's basket unless it already exists and
// returns the stored row. Concurrent callers converge on the same basket.
func (r *GormRepo) GetOrCreateBasket(ctx context.Context, userID uint) (*models.Basket, error) {
	db := r.DB.WithContext(ctx)

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&models.Basket{UserID: userID}).Error; err != nil {
		return nil, err
	}

	return r.FindBasketByUser(ctx, userID)
}

func (r *GormRepo) FindBasketByUser(ctx context.Context, userID uint) (*models.Basket, error) {
	var basket models.Basket
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&basket).Error; err != nil {
		return nil, err
	}
	return &basket, nil
}

// LoadLines fills basket.Lines ordered by id, each with its device.
func (r *GormRepo) LoadLines(ctx context.Context, basket *models.Basket) error {
	lines := make([]models.BasketLine, 0)
	if err := r.DB.WithContext(ctx).
		Preload("Device").
		Where("basket_id = ?", basket.ID).
		Order("id ASC").
		Find(&lines).Error; err != nil {
		return err
	}
	basket.Lines = lines
	return nil
}

// AddLine inserts (basket, device) with qty or, when the pair already exists,
// adds qty to the stored quantity in the same statement. A merge that would
// push the line past models.MaxLineQuantity changes nothing and returns
// ErrQuantityLimit.
func (r *GormRepo) AddLine(ctx context.Context, basketID, deviceID, qty uint) (*models.BasketLine, error) {
	if qty > models.MaxLineQuantity {
		return nil, ErrQuantityLimit
	}
	db := r.DB.WithContext(ctx)

	line := models.BasketLine{BasketID: basketID, DeviceID: deviceID, Quantity: qty}
	res := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "basket_id"}, {Name: "device_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("basket_lines.quantity + excluded.quantity"),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("basket_lines.quantity + excluded.quantity <= ?", models.MaxLineQuantity),
		}},
	}).Omit(clause.Associations).Create(&line)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrQuantityLimit
	}

	var stored models.BasketLine
	if err := db.Where("basket_id = ? AND device_id = ?", basketID, deviceID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteLine removes the line only when it belongs to basketID.
func (r *GormRepo) DeleteLine(ctx context.Context, basketID, lineID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND basket_id = ?", lineID, basketID).
		Delete(&models.BasketLine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
