package mypage

import (
	"time"

	"github.com/DanmmGuide/server/internal/user"
)

// Profile is the one-to-one "my page" record. The pet fields stay strings:
// the mobile client sends free-form values and the defined "not set" state is
// the empty string.
type Profile struct {
	UserID       uint       `gorm:"primaryKey" json:"user_id"`
	User         user.User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GuardianName string     `json:"guardian_name"`
	PetName      string     `json:"pet_name"`
	Species      string     `json:"species"`
	Birth        string     `json:"birth"`
	Gender       string     `json:"gender"`
	Neutered     string     `json:"neutered"`
	Weight       string     `json:"weight"`
	ProfileImage *string    `json:"profile_image"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
