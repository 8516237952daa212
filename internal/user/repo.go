package user

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FindByUsername returns nil without error when no such user exists.
func FindByUsername(db *gorm.DB, username string) (*User, error) {
	var u User
	if err := db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func ExistsByUsername(db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.Model(&User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func ExistsByID(db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.Model(&User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func IsAdmin(db *gorm.DB, id uint) (bool, error) {
	var u User
	if err := db.Select("is_admin").First(&u, "id = ?", id).Error; err != nil {
		return false, err
	}
	return u.IsAdmin, nil
}

// ValidateCredentials returns the user when the username exists and the
// password matches its bcrypt hash, nil otherwise.
func ValidateCredentials(db *gorm.DB, username, password string) (*User, error) {
	u, err := FindByUsername(db, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, nil
	}
	return u, nil
}
