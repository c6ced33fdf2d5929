package notify

import (
	"anbsupport/app/util/mylog"
	"context"
	"log/slog"
	"sync"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

type Kind string

const (
	KindOrder        Kind = "order"
	KindLayBy        Kind = "lay-by"
	KindPayment      Kind = "payment"
	KindInstallment  Kind = "installment"
	KindUnmatchedPay Kind = "payment_without_order"
)

// Event is a ledger change the shop owner should hear about.
type Event struct {
	Kind      Kind
	SessionID string
	SaleID    int
	Item      string
	Amount    int
}

// Service forwards ledger events to the owner log channel. Adding never
// blocks a chat request: when the buffer is full the event is dropped.
type Service struct {
	queue chan Event

	mu     sync.RWMutex
	closed bool
}

func New(_ *do.Injector) (*Service, error) {
	return NewService(), nil
}

func NewService() *Service {
	return &Service{
		queue: make(chan Event, bufferSize),
	}
}

func (s *Service) Add(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.queue <- event:
	default:
		slog.Warn("notification queue is full", "kind", event.Kind, "sale_id", event.SaleID)
	}
}

func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.queue:
			if !ok {
				return
			}
			s.deliver(event)
		}
	}
}

func (s *Service) deliver(event Event) {
	slog.Info("Ledger updated",
		"kind", event.Kind,
		"sale_id", event.SaleID,
		"item", event.Item,
		"amount", event.Amount,
		"session", event.SessionID,
		mylog.TelegramKey, true,
	)
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.queue)
	}

	return nil
}
