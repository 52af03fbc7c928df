// internal/models/user.go
package models

import "time"

// User is the account document stored alongside content.
type User struct {
	ID           string     `json:"_id" bson:"_id"`
	Type         ContentType `json:"_type" bson:"_type"`
	Email        string     `json:"email" bson:"email"`
	Name         string     `json:"name,omitempty" bson:"name,omitempty"`
	PasswordHash string     `json:"-" bson:"passwordHash,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}
