package movies

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Movie struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_movies_title" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	ReleaseDate *time.Time `json:"release_date"`
	DurationMin int        `json:"duration_min"`
	PosterURL   string     `gorm:"type:varchar(255);uniqueIndex:idx_movies_poster_url" json:"poster_url"`
	VideoURL    string     `gorm:"type:varchar(255);uniqueIndex:idx_movies_video_url" json:"video_url"`
	Quality     string     `gorm:"type:varchar(10);default:'HD'" json:"quality"`

	Genres []Genre       `gorm:"many2many:movie_genres" json:"genres"`
	Cast   []MoviePerson `gorm:"foreignKey:MovieID" json:"cast,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Streaming quality labels.
const (
	QualitySD     = "SD"
	QualityHD     = "HD"
	QualityFullHD = "FULL_HD"
	QualityUHD4K  = "UHD_4K"
)
