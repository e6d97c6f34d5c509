package kilroy

import "kilroy/internal/circle"

// MaxCaptionLength is the hard cap applied after trimming.
const MaxCaptionLength = 200

// Kilroy is a photo+caption post anchored to a place. Never mutated after
// creation; there is no deletion path.
type Kilroy struct {
	ID       string        `gorm:"primaryKey" json:"id"`
	PlaceID  string        `gorm:"index;not null" json:"place_id"`
	ImageURL string        `gorm:"type:text;not null" json:"image_url"`
	Caption  string        `gorm:"type:text;not null;default:''" json:"caption"`
	Circle   circle.Circle `gorm:"type:text;not null" json:"circle"`
	// CreatedAt is client-side epoch millis, matching the generated id.
	CreatedAt int64 `gorm:"index;not null" json:"created_at"`
}

// PlaceMetadata is the persisted record for a place, written once the
// first time any post targets it.
type PlaceMetadata struct {
	PlaceID   string `gorm:"primaryKey" json:"place_id"`
	PlaceName string `gorm:"type:text;not null" json:"place_name"`
	Address   string `gorm:"type:text" json:"address,omitempty"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`
}

func (PlaceMetadata) TableName() string { return "places" }
