package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lacasita/telegram-bot-go/internal/config"
)

// Expirer deletes rows past their expiry and reports how many went
type Expirer interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type target struct {
	name    string
	expirer Expirer
}

// CleanupJob periodically sweeps expired sessions and invites. Failures are
// logged and retried on the next tick.
type CleanupJob struct {
	targets  []target
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewCleanupJob(sessions Expirer, invites Expirer, interval time.Duration) *CleanupJob {
	j := &CleanupJob{
		interval: interval,
		done:     make(chan struct{}),
	}
	if sessions != nil {
		j.targets = append(j.targets, target{name: "sessions", expirer: sessions})
	}
	if invites != nil {
		j.targets = append(j.targets, target{name: "invites", expirer: invites})
	}
	return j
}

func (j *CleanupJob) Start() {
	j.wg.Add(1)
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

// Stop signals the job and waits for an in-flight sweep to finish
func (j *CleanupJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.done)
		j.wg.Wait()
		log.Info().Msg("cleanup job stopped")
	})
}

func (j *CleanupJob) run() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), config.SweepTimeout)
	defer cancel()

	for _, t := range j.targets {
		j.runCleanup(ctx, t.name, t.expirer.DeleteExpired)
	}
}

func (j *CleanupJob) runCleanup(ctx context.Context, name string, fn func(context.Context) (int64, error)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msgf("panic during %s cleanup", name)
		}
	}()

	count, err := fn(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("failed to cleanup %s", name)
	} else if count > 0 {
		log.Info().Int64("count", count).Msgf("cleaned up %s", name)
	}
}
