package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/techstore/internal/models"
)

type DeviceFilter struct {
	TypeID  *uint
	BrandID *uint
}

func (r *GormRepo) ListTypes(ctx context.Context) ([]models.Type, error) {
	return listAll[models.Type](ctx, r.DB)
}

func (r *GormRepo) GetType(ctx context.Context, id uint) (*models.Type, error) {
	return getByID[models.Type](ctx, r.DB, id)
}

func (r *GormRepo) CreateType(ctx context.Context, t *models.Type) error {
	return translate(r.DB.WithContext(ctx).Create(t).Error)
}

func (r *GormRepo) SaveType(ctx context.Context, t *models.Type) error {
	return translate(r.DB.WithContext(ctx).Save(t).Error)
}

func (r *GormRepo) DeleteType(ctx context.Context, id uint) error {
	return deleteByID[models.Type](ctx, r.DB, id)
}

func (r *GormRepo) TypeExists(ctx context.Context, id uint) (bool, error) {
	return exists[models.Type](ctx, r.DB, id)
}

func (r *GormRepo) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return listAll[models.Brand](ctx, r.DB)
}

func (r *GormRepo) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	return getByID[models.Brand](ctx, r.DB, id)
}

func (r *GormRepo) CreateBrand(ctx context.Context, b *models.Brand) error {
	return translate(r.DB.WithContext(ctx).Create(b).Error)
}

func (r *GormRepo) SaveBrand(ctx context.Context, b *models.Brand) error {
	return translate(r.DB.WithContext(ctx).Save(b).Error)
}

func (r *GormRepo) DeleteBrand(ctx context.Context, id uint) error {
	return deleteByID[models.Brand](ctx, r.DB, id)
}

func (r *GormRepo) BrandExists(ctx context.Context, id uint) (bool, error) {
	return exists[models.Brand](ctx, r.DB, id)
}

func (r *GormRepo) devices(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Device{}).Preload("Type").Preload("Brand")
}

func (f DeviceFilter) apply(q *gorm.DB) *gorm.DB {
	if f.TypeID != nil {
		q = q.Where("type_id = ?", *f.TypeID)
	}
	if f.BrandID != nil {
		q = q.Where("brand_id = ?", *f.BrandID)
	}
	return q
}

func (r *GormRepo) ListDevices(ctx context.Context, f DeviceFilter) ([]models.Device, error) {
	q := f.apply(r.devices(ctx))

	items := make([]models.Device, 0)
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeviceIDs returns the ids of the devices matching f, ascending.
func (r *GormRepo) DeviceIDs(ctx context.Context, f DeviceFilter) ([]uint, error) {
	ids := make([]uint, 0)
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Device{})).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormRepo) GetDevice(ctx context.Context, id uint) (*models.Device, error) {
	var d models.Device
	if err := r.devices(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDevicesByIDs returns the devices in the order of ids; unknown ids are skipped.
func (r *GormRepo) GetDevicesByIDs(ctx context.Context, ids []uint) ([]models.Device, error) {
	if len(ids) == 0 {
		return []models.Device{}, nil
	}

	var found []models.Device
	if err := r.devices(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Device, len(found))
	for _, d := range found {
		byID[d.ID] = d
	}
	out := make([]models.Device, 0, len(found))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *GormRepo) CreateDevice(ctx context.Context, d *models.Device) error {
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(d).Error; err != nil {
		return translate(err)
	}
	return r.reloadDevice(ctx, d)
}

func (r *GormRepo) SaveDevice(ctx context.Context, d *models.Device) error {
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Save(d).Error; err != nil {
		return translate(err)
	}
	return r.reloadDevice(ctx, d)
}

func (r *GormRepo) reloadDevice(ctx context.Context, d *models.Device) error {
	fresh, err := r.GetDevice(ctx, d.ID)
	if err != nil {
		return err
	}
	*d = *fresh
	return nil
}

func (r *GormRepo) DeleteDevice(ctx context.Context, id uint) error {
	return deleteByID[models.Device](ctx, r.DB, id)
}

func (r *GormRepo) DeviceExists(ctx context.Context, id uint) (bool, error) {
	return exists[models.Device](ctx, r.DB, id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchDevices is a case-insensitive substring match on title and description.
func (r *GormRepo) SearchDevices(ctx context.Context, q string, offset, limit int) (int64, []models.Device, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	where := `LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Device{}).Where(where, pattern, pattern).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Device, 0, limit)
	if err := r.devices(ctx).
		Where(where, pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}
