// Package models contains data structures for the application's domain models.
package models

// Column limits shared by validation and the schema.
const (
	MaxUsernameLen     = 20
	MaxEmailLen        = 120
	MaxPasswordHashLen = 128
)

// User represents a registered account.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Posts        []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "user"
}
