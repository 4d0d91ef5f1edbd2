package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is the authenticated account.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Run is a single recorded activity.
type Run struct {
	ID              uuid.UUID       `json:"id"`
	Date            time.Time       `json:"date"`
	DistanceKm      decimal.Decimal `json:"distance_km"`
	DurationSeconds int             `json:"duration_seconds"`
	Notes           string          `json:"notes,omitempty"`
}

// NewRun is the payload for creating or updating a run.
type NewRun struct {
	Date            time.Time       `json:"date"`
	DistanceKm      decimal.Decimal `json:"distance_km"`
	DurationSeconds int             `json:"duration_seconds"`
	Notes           string          `json:"notes,omitempty"`
}

// Goal is a yearly distance target.
type Goal struct {
	Year       int             `json:"year"`
	TargetKm   decimal.Decimal `json:"target_km"`
	ProgressKm decimal.Decimal `json:"progress_km"`
}

// Race is a planned or completed race entry.
type Race struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Date       time.Time       `json:"date"`
	DistanceKm decimal.Decimal `json:"distance_km"`
	GoalTime   string          `json:"goal_time,omitempty"`
	ResultTime string          `json:"result_time,omitempty"`
}

// Stats summarizes recorded activity.
type Stats struct {
	TotalRuns       int             `json:"total_runs"`
	TotalDistanceKm decimal.Decimal `json:"total_distance_km"`
	TotalSeconds    int             `json:"total_seconds"`
	WeeklyKm        decimal.Decimal `json:"weekly_km"`
}
