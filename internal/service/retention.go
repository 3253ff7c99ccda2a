package service

import (
	"context"
	"time"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/repo"
	log "github.com/sirupsen/logrus"
)

// RetentionService expires old daily stats and, when configured,
// prunes old log entries. Run from a scheduler; reads of expired rows
// behave identically to never-written ones.
type RetentionService struct {
	entryRepo repo.Entry
	statsRepo repo.Stats

	statsDays int
	entryDays int
}

func NewRetentionService(er repo.Entry, sr repo.Stats, statsDays, entryDays int) *RetentionService {
	return &RetentionService{
		entryRepo: er,
		statsRepo: sr,
		statsDays: statsDays,
		entryDays: entryDays,
	}
}

func (s *RetentionService) Sweep(ctx context.Context) {
	s.sweepStats(ctx)
	s.sweepEntries(ctx)
}

func (s *RetentionService) sweepStats(ctx context.Context) {
	if s.statsDays <= 0 {
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.statsDays).Format(domain.DateLayout)
	deleted, err := s.statsRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.WithField("error", err).Error("Stats retention sweep failed")
		return
	}
	if deleted > 0 {
		log.WithFields(log.Fields{"deleted": deleted, "cutoff": cutoff}).Info("Expired daily stats")
	}
}

func (s *RetentionService) sweepEntries(ctx context.Context) {
	if s.entryDays <= 0 {
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.entryDays)
	deleted, err := s.entryRepo.PruneAll(ctx, cutoff)
	if err != nil {
		log.WithField("error", err).Error("Entry retention sweep failed")
		return
	}
	if deleted > 0 {
		log.WithFields(log.Fields{"deleted": deleted, "cutoff": cutoff}).Info("Pruned old log entries")
	}
}
