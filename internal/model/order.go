package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a purchase submitted by a buyer. Line items are owned by the order
// and are only ever written together with it.
type Order struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	BuyerName string          `json:"nguoi_mua" gorm:"size:255;not null;index"`
	Total     decimal.Decimal `json:"tong_tien" gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time       `json:"ngay_tao"`

	// Relations
	Items []OrderLineItem `json:"chi_tiet" gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Sum returns Σ price×quantity over the order's line items.
func (o *Order) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderLineItem is one medicine entry of an order, snapshotting name, price
// and image at the time the order was placed.
type OrderLineItem struct {
	ID           uint            `json:"-" gorm:"primaryKey"`
	OrderID      uuid.UUID       `json:"-" gorm:"type:char(36);not null;index"`
	MedicineName string          `json:"ten_thuoc" gorm:"size:191;not null"`
	Quantity     int             `json:"so_luong" gorm:"not null"`
	Price        decimal.Decimal `json:"gia_thuoc" gorm:"type:decimal(20,2);not null"`
	ImageRef     *string         `json:"hinh_anh" gorm:"size:255;default:null"`
}

// Subtotal returns price×quantity.
func (i OrderLineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
