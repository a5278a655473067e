package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey"`                    // Primary key
	Email     string    `gorm:"size:254;uniqueIndex;not null"` // Login identity
	Username  string    `gorm:"size:150;uniqueIndex;not null"` // Public unique name
	FirstName string    `gorm:"size:150;not null"`
	LastName  string    `gorm:"size:150;not null"`
	Password  string    `gorm:"not null"`       // Hashed password
	CreatedAt time.Time `gorm:"autoCreateTime"` // Registration time

	Recipes []Recipe `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Owned recipes
}

// Subscription Model, User follows Target
type Subscription struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscription_user_target"` // Follower
	TargetID  uint      `gorm:"not null;uniqueIndex:idx_subscription_user_target;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User   User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Target User `gorm:"foreignKey:TargetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
