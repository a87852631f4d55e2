package models

import "time"

// WeeklyDigest represents the aggregated weekly activity of one breeder, stored in MongoDB.
type WeeklyDigest struct {
	ID               string    `bson:"_id" json:"id"`
	UserID           string    `bson:"user_id" json:"-"`
	PeriodStart      string    `bson:"period_start" json:"periodStart"`
	PeriodEnd        string    `bson:"period_end" json:"periodEnd"`
	ActiveBirds      int       `bson:"active_birds" json:"activeBirds"`
	BirdsBorn        int       `bson:"birds_born" json:"birdsBorn"`
	CyclesInProgress int       `bson:"cycles_in_progress" json:"cyclesInProgress"`
	EggsLaid         int       `bson:"eggs_laid" json:"eggsLaid"`
	ChicksHatched    int       `bson:"chicks_hatched" json:"chicksHatched"`
	Income           float64   `bson:"income" json:"income"`
	Expense          float64   `bson:"expense" json:"expense"`
	Balance          float64   `bson:"balance" json:"balance"`
	Delivered        bool      `bson:"delivered" json:"delivered"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
}

// DashboardStats are the headline counters of the home screen.
type DashboardStats struct {
	TotalBirds       int `json:"totalBirds"`
	TotalPairs       int `json:"totalPairs"`
	ActiveChicks     int `json:"activeChicks"`
	AvailableForSale int `json:"availableForSale"`
}
