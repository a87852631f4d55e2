package models

import "time"

// Gender identifies the sex recorded for a bird.
type Gender string

const (
	GenderMale         Gender = "MALE"
	GenderFemale       Gender = "FEMALE"
	GenderUndetermined Gender = "UNDETERMINED"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUndetermined:
		return true
	}
	return false
}

// BirdStatus is the lifecycle state of a bird.
type BirdStatus string

const (
	BirdAvailable BirdStatus = "AVAILABLE"
	BirdBreeding  BirdStatus = "BREEDING"
	BirdSold      BirdStatus = "SOLD"
	BirdDeceased  BirdStatus = "DECEASED"
)

// Valid reports whether s is one of the known bird statuses.
func (s BirdStatus) Valid() bool {
	switch s {
	case BirdAvailable, BirdBreeding, BirdSold, BirdDeceased:
		return true
	}
	return false
}

// LogType groups bird history entries.
type LogType string

const (
	LogHealth       LogType = "HEALTH"
	LogReproduction LogType = "REPRODUCTION"
	LogFeeding      LogType = "FEEDING"
)

// Valid reports whether t is one of the known log types.
func (t LogType) Valid() bool {
	switch t {
	case LogHealth, LogReproduction, LogFeeding:
		return true
	}
	return false
}

var logIcons = map[LogType]string{
	LogHealth:       "💊",
	LogReproduction: "❤️",
	LogFeeding:      "🥗",
}

// DefaultIcon is the icon shown for entries saved without one.
func (t LogType) DefaultIcon() string {
	return logIcons[t]
}

// ParentRole names the parent slot a reference is attached to.
type ParentRole string

const (
	RoleSelf   ParentRole = "SELF"
	RoleFather ParentRole = "FATHER"
	RoleMother ParentRole = "MOTHER"
)

// Bird is a single animal in a breeder's registry.
// FatherID and MotherID are weak references: they may be empty or point at a
// bird that is no longer part of the registry.
type Bird struct {
	ID         string       `bson:"_id" json:"id"`
	UserID     string       `bson:"user_id" json:"-"`
	Name       string       `bson:"name" json:"name"`
	RingNumber string       `bson:"ring_number" json:"ringNumber"`
	Species    string       `bson:"species" json:"species"`
	Mutation   string       `bson:"mutation" json:"mutation"`
	Gender     Gender       `bson:"gender" json:"gender"`
	BirthDate  string       `bson:"birth_date" json:"birthDate"`
	Status     BirdStatus   `bson:"status" json:"status"`
	Cage       string       `bson:"cage" json:"cage"`
	FatherID   string       `bson:"father_id,omitempty" json:"fatherId,omitempty"`
	MotherID   string       `bson:"mother_id,omitempty" json:"motherId,omitempty"`
	PhotoURL   string       `bson:"photo_url,omitempty" json:"photoUrl,omitempty"`
	Notes      string       `bson:"notes,omitempty" json:"notes,omitempty"`
	Logs       []BirdLog    `bson:"logs" json:"logs"`
	Weights    []BirdWeight `bson:"weights" json:"weights"`
	CreatedAt  time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time    `bson:"updated_at" json:"updatedAt"`
}

// ParentID returns the reference stored for role.
func (b Bird) ParentID(role ParentRole) string {
	switch role {
	case RoleFather:
		return b.FatherID
	case RoleMother:
		return b.MotherID
	}
	return ""
}

// BirdLog is one health, reproduction or feeding history entry.
type BirdLog struct {
	ID    string  `bson:"id" json:"id"`
	Type  LogType `bson:"type" json:"type"`
	Date  string  `bson:"date" json:"date"`
	Title string  `bson:"title" json:"title"`
	Notes string  `bson:"notes,omitempty" json:"notes,omitempty"`
	Icon  string  `bson:"icon" json:"icon"`
}

// BirdWeight is a biometric measurement. Weight is in grams, Height in cm.
type BirdWeight struct {
	ID     string   `bson:"id" json:"id"`
	Date   string   `bson:"date" json:"date"`
	Weight float64  `bson:"weight" json:"weight"`
	Height *float64 `bson:"height,omitempty" json:"height,omitempty"`
}
