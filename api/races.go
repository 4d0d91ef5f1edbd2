package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RaceService manages race entries.
type RaceService struct {
	t Transport
}

// List returns all race entries.
func (s *RaceService) List(ctx context.Context) ([]Race, error) {
	resp, err := s.t.Get(ctx, "/api/races")
	if err != nil {
		return nil, err
	}

	var races []Race
	if err := resp.Decode(&races); err != nil {
		return nil, fmt.Errorf("failed to parse races: %w", err)
	}
	return races, nil
}

// Create adds a race entry.
func (s *RaceService) Create(ctx context.Context, race Race) (*Race, error) {
	resp, err := s.t.Post(ctx, "/api/races", race)
	if err != nil {
		return nil, err
	}

	var created Race
	if err := resp.Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to parse race: %w", err)
	}
	return &created, nil
}

// Delete removes a race entry.
func (s *RaceService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.t.Delete(ctx, "/api/races/"+id.String())
	return err
}
