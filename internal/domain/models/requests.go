package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used across the API and storage.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// BirdInput is the full replacement payload for creating or saving a bird.
type BirdInput struct {
	Name       string     `json:"name" binding:"required"`
	RingNumber string     `json:"ringNumber" binding:"required"`
	Species    string     `json:"species" binding:"required"`
	Mutation   string     `json:"mutation"`
	Gender     Gender     `json:"gender" binding:"required,oneof=MALE FEMALE UNDETERMINED"`
	BirthDate  string     `json:"birthDate" binding:"required,datetime=2006-01-02"`
	Status     BirdStatus `json:"status" binding:"required,oneof=AVAILABLE BREEDING SOLD DECEASED"`
	Cage       string     `json:"cage"`
	FatherID   string     `json:"fatherId"`
	MotherID   string     `json:"motherId"`
	PhotoURL   string     `json:"photoUrl" binding:"omitempty,url"`
	Notes      string     `json:"notes"`
}

// Validate checks the rules the store relies on.
func (in BirdInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return Invalid("name", "must be provided")
	case strings.TrimSpace(in.RingNumber) == "":
		return Invalid("ringNumber", "must be provided")
	case !in.Gender.Valid():
		return Invalid("gender", "unknown value %q", in.Gender)
	case !in.Status.Valid():
		return Invalid("status", "unknown value %q", in.Status)
	}
	if _, err := ParseDate(in.BirthDate); err != nil {
		return Invalid("birthDate", "expected YYYY-MM-DD")
	}
	return nil
}

// BirdStatusInput changes only the lifecycle status of a bird.
type BirdStatusInput struct {
	Status BirdStatus `json:"status" binding:"required,oneof=AVAILABLE BREEDING SOLD DECEASED"`
}

// ParentInput attaches a parent reference to a bird.
type ParentInput struct {
	ParentID string `json:"parentId" binding:"required"`
}

// LogInput creates or replaces a bird history entry.
type LogInput struct {
	Type  LogType `json:"type" binding:"required,oneof=HEALTH REPRODUCTION FEEDING"`
	Date  string  `json:"date" binding:"required,datetime=2006-01-02"`
	Title string  `json:"title" binding:"required"`
	Notes string  `json:"notes"`
	Icon  string  `json:"icon"`
}

// Validate checks the rules the store relies on.
func (in LogInput) Validate() error {
	if !in.Type.Valid() {
		return Invalid("type", "unknown value %q", in.Type)
	}
	if strings.TrimSpace(in.Title) == "" {
		return Invalid("title", "must be provided")
	}
	if _, err := ParseDate(in.Date); err != nil {
		return Invalid("date", "expected YYYY-MM-DD")
	}
	return nil
}

// WeightInput creates or replaces a biometric measurement.
type WeightInput struct {
	Date   string   `json:"date" binding:"required,datetime=2006-01-02"`
	Weight float64  `json:"weight" binding:"gt=0"`
	Height *float64 `json:"height" binding:"omitempty,gt=0"`
}

// Validate checks the rules the store relies on.
func (in WeightInput) Validate() error {
	if in.Weight <= 0 {
		return Invalid("weight", "must be greater than zero")
	}
	if in.Height != nil && *in.Height <= 0 {
		return Invalid("height", "must be greater than zero")
	}
	if _, err := ParseDate(in.Date); err != nil {
		return Invalid("date", "expected YYYY-MM-DD")
	}
	return nil
}

// PairInput is the full replacement payload for a breeding pair.
type PairInput struct {
	Name      string     `json:"name" binding:"required"`
	MaleID    string     `json:"maleId" binding:"required"`
	FemaleID  string     `json:"femaleId" binding:"required"`
	StartDate string     `json:"startDate" binding:"required,datetime=2006-01-02"`
	Status    PairStatus `json:"status" binding:"omitempty,oneof=ACTIVE INCUBATING FEEDING_CHICKS RESTING"`
	Cage      string     `json:"cage"`
}

// Validate checks the rules the store relies on. An empty status defaults to ACTIVE.
func (in *PairInput) Validate() error {
	if in.Status == "" {
		in.Status = PairActive
	}
	switch {
	case strings.TrimSpace(in.Name) == "":
		return Invalid("name", "must be provided")
	case in.MaleID == "" || in.FemaleID == "":
		return Invalid("maleId", "both partners must be provided")
	case in.MaleID == in.FemaleID:
		return Invalid("femaleId", "must differ from maleId")
	case !in.Status.Valid():
		return Invalid("status", "unknown value %q", in.Status)
	}
	if _, err := ParseDate(in.StartDate); err != nil {
		return Invalid("startDate", "expected YYYY-MM-DD")
	}
	return nil
}

// PairStatusInput changes only the status of a pair.
type PairStatusInput struct {
	Status PairStatus `json:"status" binding:"required,oneof=ACTIVE INCUBATING FEEDING_CHICKS RESTING"`
}

// CycleInput creates or replaces a breeding cycle.
type CycleInput struct {
	StartDate    string      `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate      string      `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	EggsCount    int         `json:"eggsCount" binding:"gte=0"`
	HatchedCount int         `json:"hatchedCount" binding:"gte=0"`
	Notes        string      `json:"notes"`
	Status       CycleStatus `json:"status" binding:"omitempty,oneof=IN_PROGRESS COMPLETED"`
}

// Validate checks the rules the store relies on. An empty status defaults to IN_PROGRESS.
func (in *CycleInput) Validate() error {
	if in.Status == "" {
		in.Status = CycleInProgress
	}
	if !in.Status.Valid() {
		return Invalid("status", "unknown value %q", in.Status)
	}
	if in.EggsCount < 0 || in.HatchedCount < 0 {
		return Invalid("eggsCount", "counts must not be negative")
	}
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return Invalid("startDate", "expected YYYY-MM-DD")
	}
	if in.EndDate != "" {
		end, err := ParseDate(in.EndDate)
		if err != nil {
			return Invalid("endDate", "expected YYYY-MM-DD")
		}
		if end.Before(start) {
			return Invalid("endDate", "must not precede startDate")
		}
	}
	return nil
}

// TransactionInput is the full replacement payload for a transaction.
type TransactionInput struct {
	Type        TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount      float64         `json:"amount" binding:"gte=0"`
	Category    string          `json:"category" binding:"required"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description"`
}

// Validate checks the rules the store relies on.
func (in TransactionInput) Validate() error {
	switch {
	case !in.Type.Valid():
		return Invalid("type", "unknown value %q", in.Type)
	case in.Amount < 0:
		return Invalid("amount", "must not be negative")
	case strings.TrimSpace(in.Category) == "":
		return Invalid("category", "must be provided")
	}
	if _, err := ParseDate(in.Date); err != nil {
		return Invalid("date", "expected YYYY-MM-DD")
	}
	return nil
}

// ProfileInput replaces the breeder profile.
type ProfileInput struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	RegistryNumber string `json:"registryNumber"`
	Phone          string `json:"phone"`
	City           string `json:"city"`
	PhotoURL       string `json:"photoUrl" binding:"omitempty,url"`
}
