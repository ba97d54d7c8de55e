package hold

import (
	"context"
	"log"
	"time"
)

const DefaultSweepInterval = 60 * time.Second

// Sweeper runs CleanupExpired on a fixed period until the context is
// canceled.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
}

func NewSweeper(manager *Manager, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{manager: manager, interval: interval}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.manager.CleanupExpired(ctx)
			if err != nil {
				log.Println("hold sweep error:", err)
				continue
			}
			if n > 0 {
				log.Printf("hold sweep: removed %d expired holds", n)
			}
		}
	}
}
