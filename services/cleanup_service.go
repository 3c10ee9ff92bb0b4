package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jetmil/dreamcapture/repository"
)

// SweepResult reports how many items one sweep pass hid.
type SweepResult struct {
	HiddenDreams  int64
	HiddenMoments int64
}

// CleanupService runs the visibility sweep: a periodic pass that flips
// expired items to hidden. The transition is one-way and idempotent, and
// rows are never deleted — "expired" stays distinguishable from "deleted".
type CleanupService interface {
	Sweep(now time.Time) (SweepResult, error)
	Start(ctx context.Context)
	Stop()
}

type cleanupService struct {
	dreamRepo  repository.DreamRepository
	momentRepo repository.MomentRepository
	interval   time.Duration
	wg         sync.WaitGroup
}

// NewCleanupService creates a new instance of CleanupService.
func NewCleanupService(dreamRepo repository.DreamRepository, momentRepo repository.MomentRepository, interval time.Duration) CleanupService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &cleanupService{
		dreamRepo:  dreamRepo,
		momentRepo: momentRepo,
		interval:   interval,
	}
}

// Sweep hides every visible item whose stored expiry is at or before now,
// one batched update per content kind. Re-running on already-hidden items is
// a no-op.
func (s *cleanupService) Sweep(now time.Time) (SweepResult, error) {
	hiddenMoments, err := s.momentRepo.HideExpired(now)
	if err != nil {
		return SweepResult{}, err
	}
	hiddenDreams, err := s.dreamRepo.HideExpired(now)
	if err != nil {
		return SweepResult{HiddenMoments: hiddenMoments}, err
	}

	if hiddenMoments > 0 || hiddenDreams > 0 {
		log.Printf("INFO: [CleanupService] Sweep complete: %d moments, %d dreams hidden.", hiddenMoments, hiddenDreams)
	}
	return SweepResult{HiddenDreams: hiddenDreams, HiddenMoments: hiddenMoments}, nil
}

// Start launches the periodic sweep on its own schedule, independent of
// request handling.
func (s *cleanupService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		log.Printf("INFO: [CleanupService] Sweep started (interval %s).", s.interval)
		for {
			select {
			case <-ctx.Done():
				log.Println("INFO: [CleanupService] Sweep stopping.")
				return
			case <-ticker.C:
				if _, err := s.Sweep(time.Now().UTC()); err != nil {
					log.Printf("ERROR: [CleanupService] Sweep failed: %v", err)
				}
			}
		}
	}()
}

// Stop waits for the sweep goroutine to exit after its context is cancelled.
func (s *cleanupService) Stop() {
	s.wg.Wait()
}
