package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quality restricts the requested video quality to a closed set.
type Quality string

const (
	Quality720p  Quality = "720p"
	Quality1080p Quality = "1080p"
	Quality4K    Quality = "4k"
)

// ValidQuality reports whether q is a known quality.
func ValidQuality(q Quality) bool {
	return q == Quality720p || q == Quality1080p || q == Quality4K
}

// AudioPreference restricts the audio track preference to a closed set.
type AudioPreference string

const (
	AudioLatino     AudioPreference = "latino"
	AudioCastellano AudioPreference = "castellano"
	AudioOriginal   AudioPreference = "original"
)

// ValidAudioPreference reports whether a is a known audio preference.
func ValidAudioPreference(a AudioPreference) bool {
	return a == AudioLatino || a == AudioCastellano || a == AudioOriginal
}

// OrderStatus represents the status of a movie request.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Next returns the status one step along the pending -> processing ->
// completed path. Terminal statuses map to themselves.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case OrderStatusPending:
		return OrderStatusProcessing
	case OrderStatusProcessing:
		return OrderStatusCompleted
	}
	return s
}

// Order is a movie fulfillment request owned by a user.
type Order struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID          uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	MovieName       string          `json:"movieName" gorm:"size:255;not null"`
	MovieYear       *int            `json:"movieYear,omitempty"`
	Quality         Quality         `json:"quality" gorm:"type:varchar(10);not null"`
	AudioPreference AudioPreference `json:"audioPreference" gorm:"type:varchar(20);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes           string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderWithUser is an order joined with the minimal owner projection.
// User is nil when the owning account no longer exists.
type OrderWithUser struct {
	Order
	UserRef *UserRef `json:"user"`
}
