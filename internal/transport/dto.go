package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/techstore/internal/models"
)

type NameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type DeviceRequest struct {
	Title       string           `json:"title"       validate:"required,max=255"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Rating      float64          `json:"rating"      validate:"gte=0"`
	TypeID      uint             `json:"type_id"     validate:"required"`
	BrandID     uint             `json:"brand_id"    validate:"required"`
}

type PatchDeviceRequest struct {
	Title       *string          `json:"title"       validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Rating      *float64         `json:"rating"      validate:"omitempty,gte=0"`
	TypeID      *uint            `json:"type_id"     validate:"omitempty,gt=0"`
	BrandID     *uint            `json:"brand_id"    validate:"omitempty,gt=0"`
}

type DeviceResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       string       `json:"price"`
	Rating      float64      `json:"rating"`
	Type        models.Type  `json:"type"`
	Brand       models.Brand `json:"brand"`
}

func NewDeviceResponse(d *models.Device) DeviceResponse {
	return DeviceResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price.StringFixed(2),
		Rating:      d.Rating,
		Type:        d.Type,
		Brand:       d.Brand,
	}
}

func NewDeviceList(devices []models.Device) []DeviceResponse {
	out := make([]DeviceResponse, 0, len(devices))
	for i := range devices {
		out = append(out, NewDeviceResponse(&devices[i]))
	}
	return out
}

type SearchResponse struct {
	Total   int64            `json:"total"`
	Devices []DeviceResponse `json:"devices"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin customer"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

type Profile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func NewProfile(u *models.User) Profile {
	return Profile{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

type AddDeviceRequest struct {
	DeviceID uint `json:"device_id" validate:"required"`
	Quantity int  `json:"quantity"  validate:"gte=1,lte=10000"`
}

type BasketLineResponse struct {
	ID          uint   `json:"id"`
	Device      uint   `json:"device"`
	DeviceTitle string `json:"device_title"`
	DevicePrice string `json:"device_price"`
	Quantity    uint   `json:"quantity"`
}

type BasketResponse struct {
	ID      uint                 `json:"id"`
	User    uint                 `json:"user"`
	Devices []BasketLineResponse `json:"devices"`
}

func NewBasketResponse(b *models.Basket) BasketResponse {
	lines := make([]BasketLineResponse, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, BasketLineResponse{
			ID:          l.ID,
			Device:      l.DeviceID,
			DeviceTitle: l.Device.Title,
			DevicePrice: l.Device.Price.StringFixed(2),
			Quantity:    l.Quantity,
		})
	}
	return BasketResponse{ID: b.ID, User: b.UserID, Devices: lines}
}

type MessageResponse struct {
	Message string `json:"message"`
}
