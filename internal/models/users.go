package models

import "golang.org/x/crypto/bcrypt"

// User is a row of the users table.
type User struct {
	Base
	FirstName    string `gorm:"not null" json:"first_name"`
	LastName     string `gorm:"not null" json:"last_name"`
	Age          int    `gorm:"not null" json:"age"`
	Phone        string `gorm:"uniqueIndex;not null" json:"phone"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	City         string `gorm:"not null;index" json:"city"`
	Country      string `gorm:"not null;index" json:"country"`
}

// HashPassword turns a plain password into a bcrypt hash.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&User{}, &Product{}, &Sale{}}
}
