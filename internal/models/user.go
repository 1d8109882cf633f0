// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	UserType     UserType `json:"user_type" gorm:"type:varchar(20);not null;default:'user'"`
	IsPremium    bool     `json:"is_premium" gorm:"default:false"`

	// Relationships
	Favorites []Favorite   `json:"favorites,omitempty" gorm:"foreignKey:UserID"`
	Alerts    []PriceAlert `json:"alerts,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
