package service

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/JathurSrishanth/e-voting-backend/internal/api/metrics"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
)

type TallyService struct {
	ballots ports.BallotRepository
	logger  zerolog.Logger
}

func NewTallyService(ballots ports.BallotRepository, logger zerolog.Logger) *TallyService {
	return &TallyService{ballots: ballots, logger: logger}
}

// ComputeResults returns the vote count per (candidate, position), highest
// first. No ballots yields an empty slice.
func (s *TallyService) ComputeResults(ctx context.Context) ([]domain.TallyEntry, error) {
	timer := prometheus.NewTimer(metrics.TallyDuration)
	defer timer.ObserveDuration()

	entries, err := s.ballots.Tally(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute results")
		return nil, fmt.Errorf("compute results: %w", err)
	}
	if entries == nil {
		return []domain.TallyEntry{}, nil
	}

	// Stores already sort; re-sorting keeps the tiebreak identical across backends.
	domain.SortTally(entries)
	return entries, nil
}
