package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffUser is a member of the practice who can sign in to the admin API.
type StaffUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
