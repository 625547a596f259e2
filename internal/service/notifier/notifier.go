package notifier

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
)

const (
	defaultCountWorkers = 4
	defaultQueueSize    = 256
)

// Event is a user-facing alert about a payment status change or a balance
// sweep. Pushed after the database transaction committed, never before.
type Event struct {
	UserID    uuid.UUID
	PaymentID *uuid.UUID
	Status    string
	Message   string
}

// Pusher delivers an event over the real-time channel (websocket gateway,
// push provider, ...). Delivery is best effort: errors are logged by the
// dispatcher and dropped.
type Pusher interface {
	Push(ctx context.Context, event Event) error
}

// Notifier is the fire-and-forget dispatcher the webhook and withdrawal
// flows hand events to. Notify never blocks request handling: when the
// queue is full the event is dropped with a warning.
type Notifier struct {
	pusher Pusher
	logger logger.Logger

	countWorkers int
	queue        chan Event
}

func New(pusher Pusher, l logger.Logger) *Notifier {
	return &Notifier{
		pusher:       pusher,
		logger:       l,
		countWorkers: defaultCountWorkers,
		queue:        make(chan Event, defaultQueueSize),
	}
}

// Notify enqueues an event for asynchronous delivery
func (n *Notifier) Notify(event Event) {
	select {
	case n.queue <- event:
	default:
		n.logger.Warn("Notification queue full, dropping event", "user_id", event.UserID)
	}
}

// Run starts delivery workers and returns a channel closed when all of
// them drained the queue and stopped after context cancellation.
func (n *Notifier) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < n.countWorkers; i++ {
		wg.Add(1)
		go func() {
			n.worker(ctx)
			wg.Done()
		}()
	}

	go func() {
		defer close(idleStopped)
		wg.Wait()
		n.logger.Debug("Notifier stopped")
	}()

	return idleStopped
}

func (n *Notifier) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Drain what's queued already, then stop
			for {
				select {
				case event := <-n.queue:
					n.push(context.Background(), event)
				default:
					return
				}
			}

		case event := <-n.queue:
			n.push(ctx, event)
		}
	}
}

func (n *Notifier) push(ctx context.Context, event Event) {
	if err := n.pusher.Push(ctx, event); err != nil {
		n.logger.Error("Failed to push notification", "error", err, "user_id", event.UserID)
	}
}

// LogPusher writes events to the log only. The real-time delivery channel
// is an external collaborator; this is the default stand-in.
type LogPusher struct {
	Logger logger.Logger
}

func (p LogPusher) Push(_ context.Context, event Event) error {
	p.Logger.Info("Notification pushed", "user_id", event.UserID, "status", event.Status, "message", event.Message)
	return nil
}
