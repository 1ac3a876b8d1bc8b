package movies

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cast/crew roles.
const (
	RoleActor    = "ACTOR"
	RoleDirector = "DIRECTOR"
	RoleWriter   = "WRITER"
	RoleProducer = "PRODUCER"
)

func ValidPersonRole(r string) bool {
	switch r {
	case RoleActor, RoleDirector, RoleWriter, RoleProducer:
		return true
	}
	return false
}

type Person struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	Bio       string     `gorm:"type:text" json:"bio"`
	BirthDate *time.Time `json:"birth_date"`
	PhotoURL  string     `gorm:"type:varchar(255)" json:"photo_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MoviePerson links a person to a movie in a given role.
type MoviePerson struct {
	MovieID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"movie_id"`
	PersonID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"person_id"`
	Person    Person    `json:"person"`
	Role      string    `gorm:"type:varchar(10);primaryKey" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
