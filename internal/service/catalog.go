package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/transport"
)

const maxNameLen = 255

var maxPrice = decimal.New(1, 8)

// DeviceIndexer keeps a full-text index of devices. *search.DeviceIndex
// implements it.
type DeviceIndexer interface {
	IndexDevice(ctx context.Context, d *models.Device) error
	DeleteDevice(ctx context.Context, id uint) error
	SearchDevices(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  DeviceIndexer
	Events events.Publisher
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	}
	return err
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len([]rune(name)) > maxNameLen {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrValidation, maxNameLen)
	}
	return name, nil
}

func duplicateName(err error, what, name string) error {
	if repo.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %s %q already exists", ErrConflict, what, name)
	}
	return err
}

func (s *CatalogService) catalogEvent(ctx context.Context, kind string, id uint) {
	publish(ctx, s.Events, events.TopicCatalog, strconv.FormatUint(uint64(id), 10), map[string]any{
		"type": kind,
		"id":   id,
		"at":   time.Now().UTC(),
	})
}

func (s *CatalogService) ListTypes(ctx context.Context) ([]models.Type, error) {
	return s.Repo.ListTypes(ctx)
}

func (s *CatalogService) GetType(ctx context.Context, id uint) (*models.Type, error) {
	t, err := s.Repo.GetType(ctx, id)
	return t, notFound(err, "type")
}

func (s *CatalogService) CreateType(ctx context.Context, name string) (*models.Type, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	t := models.Type{Name: name}
	if err := s.Repo.CreateType(ctx, &t); err != nil {
		return nil, duplicateName(err, "type", name)
	}

	s.catalogEvent(ctx, "type_created", t.ID)
	return &t, nil
}

func (s *CatalogService) UpdateType(ctx context.Context, id uint, name string) (*models.Type, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	t, err := s.Repo.GetType(ctx, id)
	if err != nil {
		return nil, notFound(err, "type")
	}
	t.Name = name
	if err := s.Repo.SaveType(ctx, t); err != nil {
		return nil, duplicateName(err, "type", name)
	}

	s.catalogEvent(ctx, "type_updated", t.ID)
	return t, nil
}

// DeleteType also removes every device of that type.
func (s *CatalogService) DeleteType(ctx context.Context, id uint) error {
	cascaded := s.indexedDevices(ctx, repo.DeviceFilter{TypeID: &id})
	if err := s.Repo.DeleteType(ctx, id); err != nil {
		return notFound(err, "type")
	}
	s.unindexDevices(ctx, cascaded...)
	s.catalogEvent(ctx, "type_deleted", id)
	return nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.Repo.ListBrands(ctx)
}

func (s *CatalogService) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	b, err := s.Repo.GetBrand(ctx, id)
	return b, notFound(err, "brand")
}

func (s *CatalogService) CreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	b := models.Brand{Name: name}
	if err := s.Repo.CreateBrand(ctx, &b); err != nil {
		return nil, duplicateName(err, "brand", name)
	}

	s.catalogEvent(ctx, "brand_created", b.ID)
	return &b, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id uint, name string) (*models.Brand, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	b, err := s.Repo.GetBrand(ctx, id)
	if err != nil {
		return nil, notFound(err, "brand")
	}
	b.Name = name
	if err := s.Repo.SaveBrand(ctx, b); err != nil {
		return nil, duplicateName(err, "brand", name)
	}

	s.catalogEvent(ctx, "brand_updated", b.ID)
	return b, nil
}

// DeleteBrand also removes every device of that brand.
func (s *CatalogService) DeleteBrand(ctx context.Context, id uint) error {
	cascaded := s.indexedDevices(ctx, repo.DeviceFilter{BrandID: &id})
	if err := s.Repo.DeleteBrand(ctx, id); err != nil {
		return notFound(err, "brand")
	}
	s.unindexDevices(ctx, cascaded...)
	s.catalogEvent(ctx, "brand_deleted", id)
	return nil
}

func (s *CatalogService) ListDevices(ctx context.Context, f repo.DeviceFilter) ([]models.Device, error) {
	return s.Repo.ListDevices(ctx, f)
}

func (s *CatalogService) GetDevice(ctx context.Context, id uint) (*models.Device, error) {
	d, err := s.Repo.GetDevice(ctx, id)
	return d, notFound(err, "device")
}

func validateDevice(d *models.Device) error {
	d.Title = strings.TrimSpace(d.Title)
	switch {
	case d.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case len([]rune(d.Title)) > maxNameLen:
		return fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxNameLen)
	case d.Price.IsNegative():
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	case !d.Price.Equal(d.Price.Round(2)):
		return fmt.Errorf("%w: price must have at most 2 decimal places", ErrValidation)
	case d.Price.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("%w: price must be less than %s", ErrValidation, maxPrice.String())
	case d.Rating < 0:
		return fmt.Errorf("%w: rating cannot be negative", ErrValidation)
	}
	return nil
}

func (s *CatalogService) checkRefs(ctx context.Context, typeID, brandID uint) error {
	ok, err := s.Repo.TypeExists(ctx, typeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: type %d does not exist", ErrValidation, typeID)
	}

	ok, err = s.Repo.BrandExists(ctx, brandID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: brand %d does not exist", ErrValidation, brandID)
	}
	return nil
}

func (s *CatalogService) saveDevice(ctx context.Context, d *models.Device, create bool) error {
	if err := validateDevice(d); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, d.TypeID, d.BrandID); err != nil {
		return err
	}
	d.Price = d.Price.Round(2)

	if create {
		return s.Repo.CreateDevice(ctx, d)
	}
	return s.Repo.SaveDevice(ctx, d)
}

func requiredPrice(p *decimal.Decimal) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: price is required", ErrValidation)
	}
	return *p, nil
}

func (s *CatalogService) CreateDevice(ctx context.Context, req transport.DeviceRequest) (*models.Device, error) {
	price, err := requiredPrice(req.Price)
	if err != nil {
		return nil, err
	}
	d := models.Device{
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
		Rating:      req.Rating,
		TypeID:      req.TypeID,
		BrandID:     req.BrandID,
	}
	if err := s.saveDevice(ctx, &d, true); err != nil {
		return nil, err
	}

	s.indexDevice(ctx, &d)
	s.catalogEvent(ctx, "device_created", d.ID)
	return &d, nil
}

// ReplaceDevice overwrites every writable field of the device.
func (s *CatalogService) ReplaceDevice(ctx context.Context, id uint, req transport.DeviceRequest) (*models.Device, error) {
	price, err := requiredPrice(req.Price)
	if err != nil {
		return nil, err
	}
	d, err := s.Repo.GetDevice(ctx, id)
	if err != nil {
		return nil, notFound(err, "device")
	}

	d.Title = req.Title
	d.Description = req.Description
	d.Price = price
	d.Rating = req.Rating
	d.TypeID = req.TypeID
	d.BrandID = req.BrandID
	if err := s.saveDevice(ctx, d, false); err != nil {
		return nil, err
	}

	s.indexDevice(ctx, d)
	s.catalogEvent(ctx, "device_updated", d.ID)
	return d, nil
}

func (s *CatalogService) PatchDevice(ctx context.Context, id uint, req transport.PatchDeviceRequest) (*models.Device, error) {
	d, err := s.Repo.GetDevice(ctx, id)
	if err != nil {
		return nil, notFound(err, "device")
	}

	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Price != nil {
		d.Price = *req.Price
	}
	if req.Rating != nil {
		d.Rating = *req.Rating
	}
	if req.TypeID != nil {
		d.TypeID = *req.TypeID
	}
	if req.BrandID != nil {
		d.BrandID = *req.BrandID
	}
	if err := s.saveDevice(ctx, d, false); err != nil {
		return nil, err
	}

	s.indexDevice(ctx, d)
	s.catalogEvent(ctx, "device_updated", d.ID)
	return d, nil
}

// DeleteDevice also removes the device from every basket holding it.
func (s *CatalogService) DeleteDevice(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteDevice(ctx, id); err != nil {
		return notFound(err, "device")
	}

	s.unindexDevices(ctx, id)
	s.catalogEvent(ctx, "device_deleted", id)
	return nil
}

// indexedDevices lists the devices a cascading delete is about to remove, so
// they can be dropped from the index afterwards.
func (s *CatalogService) indexedDevices(ctx context.Context, f repo.DeviceFilter) []uint {
	if s.Index == nil {
		return nil
	}
	ids, err := s.Repo.DeviceIDs(ctx, f)
	if err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "op", "list_cascaded", "error", err)
		return nil
	}
	return ids
}

func (s *CatalogService) unindexDevices(ctx context.Context, ids ...uint) {
	if s.Index == nil {
		return
	}
	for _, id := range ids {
		if err := s.Index.DeleteDevice(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "op", "delete", "device_id", id, "error", err)
		}
	}
}

func (s *CatalogService) indexDevice(ctx context.Context, d *models.Device) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexDevice(ctx, d); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "op", "index", "device_id", d.ID, "error", err)
	}
}

// SearchDevices asks the search index when one is configured and falls back
// to a LIKE query otherwise or when the index fails.
func (s *CatalogService) SearchDevices(ctx context.Context, q string, offset, limit int) (int64, []models.Device, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: q is required", ErrValidation)
	}

	if s.Index != nil {
		total, ids, err := s.Index.SearchDevices(ctx, q, offset, limit)
		if err == nil {
			devices, err := s.Repo.GetDevicesByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, devices, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "op", "search", "error", err)
	}

	return s.Repo.SearchDevices(ctx, q, offset, limit)
}
