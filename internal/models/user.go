package models

// User is a registered account holder. Password only ever holds a bcrypt hash.
type User struct {
	Base
	Name     string `gorm:"size:50;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
}
