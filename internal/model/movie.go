package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movie is a catalog entry. Orders reference movies by free text only,
// never by foreign key.
type Movie struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Year        int       `json:"year" gorm:"not null"`
	Genre       string    `json:"genre" gorm:"size:100;not null;index"`
	Qualities   []string  `json:"qualities" gorm:"serializer:json;type:text"`
	ImageURL    string    `json:"imageUrl,omitempty" gorm:"size:512"`
	IsAvailable bool      `json:"isAvailable" gorm:"not null;index"`
	AddedAt     time.Time `json:"addedAt" gorm:"autoCreateTime;index"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MovieUpdate carries an optional-field patch for a movie. Nil fields are
// left untouched.
type MovieUpdate struct {
	Title       *string
	Year        *int
	Genre       *string
	Qualities   []string
	ImageURL    *string
	IsAvailable *bool
}
