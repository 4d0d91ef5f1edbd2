package api

import (
	"context"
	"fmt"
)

// StatsService reads activity summaries.
type StatsService struct {
	t Transport
}

// Summary returns the aggregate statistics for the account.
func (s *StatsService) Summary(ctx context.Context) (*Stats, error) {
	resp, err := s.t.Get(ctx, "/api/stats")
	if err != nil {
		return nil, err
	}

	var stats Stats
	if err := resp.Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats: %w", err)
	}
	return &stats, nil
}
