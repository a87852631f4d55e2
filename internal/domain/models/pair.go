package models

import "time"

// PairStatus is the reproductive state of a breeding pair.
type PairStatus string

const (
	PairActive        PairStatus = "ACTIVE"
	PairIncubating    PairStatus = "INCUBATING"
	PairFeedingChicks PairStatus = "FEEDING_CHICKS"
	PairResting       PairStatus = "RESTING"
)

// Valid reports whether s is one of the known pair statuses.
func (s PairStatus) Valid() bool {
	switch s {
	case PairActive, PairIncubating, PairFeedingChicks, PairResting:
		return true
	}
	return false
}

// CycleStatus tracks whether a breeding cycle is still running.
type CycleStatus string

const (
	CycleInProgress CycleStatus = "IN_PROGRESS"
	CycleCompleted  CycleStatus = "COMPLETED"
)

// Valid reports whether s is one of the known cycle statuses.
func (s CycleStatus) Valid() bool {
	return s == CycleInProgress || s == CycleCompleted
}

// BreedingPair couples one male and one female bird of the same breeder.
type BreedingPair struct {
	ID        string          `bson:"_id" json:"id"`
	UserID    string          `bson:"user_id" json:"-"`
	Name      string          `bson:"name" json:"name"`
	MaleID    string          `bson:"male_id" json:"maleId"`
	FemaleID  string          `bson:"female_id" json:"femaleId"`
	StartDate string          `bson:"start_date" json:"startDate"`
	Status    PairStatus      `bson:"status" json:"status"`
	Cage      string          `bson:"cage" json:"cage"`
	Cycles    []BreedingCycle `bson:"cycles" json:"cycles"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updatedAt"`
}

// BreedingCycle is one laying-through-hatching attempt of a pair.
// HatchedCount is expected to stay at or below EggsCount but is not enforced.
type BreedingCycle struct {
	ID           string      `bson:"id" json:"id"`
	StartDate    string      `bson:"start_date" json:"startDate"`
	EndDate      string      `bson:"end_date,omitempty" json:"endDate,omitempty"`
	EggsCount    int         `bson:"eggs_count" json:"eggsCount"`
	HatchedCount int         `bson:"hatched_count" json:"hatchedCount"`
	Notes        string      `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       CycleStatus `bson:"status" json:"status"`
}

// PairView is a pair listing entry with the partner names resolved.
type PairView struct {
	BreedingPair
	MaleName   string `json:"maleName,omitempty"`
	FemaleName string `json:"femaleName,omitempty"`
}
