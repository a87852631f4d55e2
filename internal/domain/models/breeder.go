package models

import "time"

// Breeder is the profile of the authenticated user; its id is the auth subject.
type Breeder struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	RegistryNumber string    `bson:"registry_number" json:"registryNumber"`
	Phone          string    `bson:"phone" json:"phone"`
	City           string    `bson:"city" json:"city"`
	PhotoURL       string    `bson:"photo_url,omitempty" json:"photoUrl,omitempty"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}
