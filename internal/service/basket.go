package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
)

type BasketService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// GetBasket returns the user's basket with its lines, creating an empty one
// on first access.
func (s *BasketService) GetBasket(ctx context.Context, userID uint) (*models.Basket, error) {
	basket, err := s.Repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.LoadLines(ctx, basket); err != nil {
		return nil, err
	}
	return basket, nil
}

// AddDevice adds qty to the device's line, creating the line if needed.
func (s *BasketService) AddDevice(ctx context.Context, userID, deviceID uint, qty int) (*models.BasketLine, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if qty > models.MaxLineQuantity {
		return nil, fmt.Errorf("%w: quantity must be at most %d", ErrValidation, models.MaxLineQuantity)
	}
	if deviceID == 0 {
		return nil, fmt.Errorf("%w: device_id is required", ErrValidation)
	}

	ok, err := s.Repo.DeviceExists(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: device %d does not exist", ErrValidation, deviceID)
	}

	basket, err := s.Repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.Repo.AddLine(ctx, basket.ID, deviceID, uint(qty))
	if err != nil {
		if errors.Is(err, repo.ErrQuantityLimit) {
			return nil, fmt.Errorf("%w: a basket line cannot hold more than %d items", ErrValidation, models.MaxLineQuantity)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicBasket, userKey(userID), map[string]any{
		"type":      "basket_device_added",
		"user_id":   userID,
		"basket_id": basket.ID,
		"device_id": deviceID,
		"added":     qty,
		"quantity":  line.Quantity,
		"at":        time.Now().UTC(),
	})
	return line, nil
}

// RemoveLine deletes a line only if it belongs to the user's basket.
func (s *BasketService) RemoveLine(ctx context.Context, userID, lineID uint) error {
	basket, err := s.Repo.FindBasketByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: basket not found", ErrNotFound)
		}
		return err
	}

	if err := s.Repo.DeleteLine(ctx, basket.ID, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: device not found in your basket", ErrNotFound)
		}
		return err
	}

	publish(ctx, s.Events, events.TopicBasket, userKey(userID), map[string]any{
		"type":      "basket_device_removed",
		"user_id":   userID,
		"basket_id": basket.ID,
		"line_id":   lineID,
		"at":        time.Now().UTC(),
	})
	return nil
}
