package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/lacasita/telegram-bot-go/internal/bot"
)

// EventHandler runs one event through the bot
type EventHandler interface {
	HandleEvent(ctx context.Context, ev bot.Event) error
}

// UpdateSource yields updates; *tgbotapi.BotAPI implements it
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller receives updates by long polling and fans them out to workers.
// Updates of one chat always land on the same worker so they keep their order.
type Poller struct {
	source  UpdateSource
	handler EventHandler
	workers int
	timeout int
}

func NewPoller(source UpdateSource, handler EventHandler, workers, timeoutSeconds int) *Poller {
	if workers < 1 {
		workers = 1
	}
	return &Poller{
		source:  source,
		handler: handler,
		workers: workers,
		timeout: timeoutSeconds,
	}
}

// Run blocks until ctx is cancelled, then drains the workers
func (p *Poller) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.timeout
	updates := p.source.GetUpdatesChan(u)

	queues := make([]chan bot.Event, p.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan bot.Event, 16)
		wg.Add(1)
		go p.work(ctx, queues[i], &wg)
	}

	log.Info().Int("workers", p.workers).Msg("polling for updates")

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			ev, ok := ToEvent(update)
			if !ok {
				log.Debug().Int("updateId", update.UpdateID).Msg("ignoring update")
				continue
			}
			queues[shard(ev.ChatID, p.workers)] <- ev
		}
	}

	p.source.StopReceivingUpdates()
	for _, q := range queues {
		close(q)
	}
	wg.Wait()
	log.Info().Msg("polling stopped")
}

func (p *Poller) work(ctx context.Context, queue <-chan bot.Event, wg *sync.WaitGroup) {
	defer wg.Done()
	for ev := range queue {
		// in-flight turns finish even after shutdown starts
		if err := p.handler.HandleEvent(context.WithoutCancel(ctx), ev); err != nil {
			log.Debug().Err(err).Int64("chatId", ev.ChatID).Msg("turn ended with error")
		}
	}
}

func shard(chatID int64, n int) int {
	return int(uint64(chatID) % uint64(n))
}
