package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// MaxLineQuantity caps the quantity a single basket line can reach.
const MaxLineQuantity = 10000

type Type struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"`
}

type Brand struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"`
}

type Device struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"             json:"id"`
	Title       string          `gorm:"size:255;not null"                    json:"title"`
	Description string          `gorm:"type:text;not null"                    json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"          json:"price"`
	Rating      float64         `gorm:"not null;default:0"                   json:"rating"`
	TypeID      uint            `gorm:"index;not null"                       json:"type_id"`
	Type        Type            `gorm:"constraint:OnDelete:CASCADE"          json:"type"`
	BrandID     uint            `gorm:"index;not null"                       json:"brand_id"`
	Brand       Brand           `gorm:"constraint:OnDelete:CASCADE"          json:"brand"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"         json:"id"`
	Username     string `gorm:"size:150;uniqueIndex;not null"    json:"username"`
	Email        string `gorm:"size:254;uniqueIndex;not null"    json:"email"`
	PasswordHash string `gorm:"not null"                         json:"-"`
	Role         string `gorm:"size:20;not null;default:customer" json:"role"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"                 json:"id"`
	JTI       string `gorm:"uniqueIndex;not null"       json:"jti"`
	TokenHash string `gorm:"uniqueIndex;not null"       json:"-"`
	UserID    uint   `gorm:"index;not null"             json:"user_id"`
	User      User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt int64  `gorm:"not null"                   json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false"     json:"revoked"`
}

func (t *RefreshToken) Expired(now time.Time) bool { return now.Unix() > t.ExpiresAt }

type Basket struct {
	ID     uint         `gorm:"primaryKey;autoIncrement"                  json:"id"`
	UserID uint         `gorm:"uniqueIndex;not null"                      json:"user"`
	User   User         `gorm:"constraint:OnDelete:CASCADE"               json:"-"`
	Lines  []BasketLine `gorm:"foreignKey:BasketID;constraint:OnDelete:CASCADE" json:"devices"`
}

type BasketLine struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"                         json:"id"`
	BasketID uint   `gorm:"uniqueIndex:idx_basket_device;not null"           json:"basket"`
	DeviceID uint   `gorm:"uniqueIndex:idx_basket_device;not null;index"     json:"device"`
	Device   Device `gorm:"constraint:OnDelete:CASCADE"                      json:"-"`
	Quantity uint   `gorm:"not null;default:1;check:chk_basket_lines_quantity,quantity > 0" json:"quantity"`
}
