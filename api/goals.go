package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// GoalService manages yearly distance targets.
type GoalService struct {
	t Transport
}

// List returns all goals.
func (s *GoalService) List(ctx context.Context) ([]Goal, error) {
	resp, err := s.t.Get(ctx, "/api/goals")
	if err != nil {
		return nil, err
	}

	var goals []Goal
	if err := resp.Decode(&goals); err != nil {
		return nil, fmt.Errorf("failed to parse goals: %w", err)
	}
	return goals, nil
}

// Set creates or replaces the target for a year.
func (s *GoalService) Set(ctx context.Context, year int, targetKm decimal.Decimal) (*Goal, error) {
	payload := struct {
		TargetKm decimal.Decimal `json:"target_km"`
	}{TargetKm: targetKm}

	resp, err := s.t.Put(ctx, "/api/goals/"+strconv.Itoa(year), payload)
	if err != nil {
		return nil, err
	}

	var goal Goal
	if err := resp.Decode(&goal); err != nil {
		return nil, fmt.Errorf("failed to parse goal: %w", err)
	}
	return &goal, nil
}
