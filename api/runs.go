package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	stride "github.com/striderun/stride-go"
)

// RunService manages recorded activities.
type RunService struct {
	t Transport
}

// List returns runs between from and to, newest first. Zero times leave the
// corresponding bound open.
func (s *RunService) List(ctx context.Context, from, to time.Time) ([]Run, error) {
	var opts []stride.RequestOption
	if !from.IsZero() {
		opts = append(opts, stride.Query("from", from.Format(time.RFC3339)))
	}
	if !to.IsZero() {
		opts = append(opts, stride.Query("to", to.Format(time.RFC3339)))
	}

	resp, err := s.t.Get(ctx, "/api/runs", opts...)
	if err != nil {
		return nil, err
	}

	var runs []Run
	if err := resp.Decode(&runs); err != nil {
		return nil, fmt.Errorf("failed to parse runs: %w", err)
	}
	return runs, nil
}

// Get returns a single run.
func (s *RunService) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	resp, err := s.t.Get(ctx, "/api/runs/"+id.String())
	if err != nil {
		return nil, err
	}

	var run Run
	if err := resp.Decode(&run); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	return &run, nil
}

// Create records a new run.
func (s *RunService) Create(ctx context.Context, run NewRun) (*Run, error) {
	resp, err := s.t.Post(ctx, "/api/runs", run)
	if err != nil {
		return nil, err
	}

	var created Run
	if err := resp.Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	return &created, nil
}

// Update replaces a run.
func (s *RunService) Update(ctx context.Context, id uuid.UUID, run NewRun) (*Run, error) {
	resp, err := s.t.Put(ctx, "/api/runs/"+id.String(), run)
	if err != nil {
		return nil, err
	}

	var updated Run
	if err := resp.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	return &updated, nil
}

// Delete removes a run.
func (s *RunService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.t.Delete(ctx, "/api/runs/"+id.String())
	return err
}
