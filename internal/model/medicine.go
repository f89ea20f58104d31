package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Unrestricted medicines are visible to public name lookup.
	Unrestricted = 0
	// Restricted medicines are hidden from public name lookup.
	Restricted = 1
)

// Medicine is a catalog entry.
type Medicine struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"ten_thuoc" gorm:"uniqueIndex;size:191;not null"`
	Price      decimal.Decimal `json:"gia_thuoc" gorm:"type:decimal(20,2);not null"`
	ImageRef   *string         `json:"hinh_anh" gorm:"size:255;default:null"`
	Quantity   int             `json:"so_luong" gorm:"not null"`
	Restricted int             `json:"han_che" gorm:"not null;default:1;index"`
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
}

// IsRestricted reports whether the medicine is hidden from public lookup.
func (m *Medicine) IsRestricted() bool {
	return m.Restricted != Unrestricted
}
