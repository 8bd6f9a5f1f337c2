package events

import (
	"context"
	"sync"

	"meritum/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeLoginBonus     EventType = "login_bonus"
	EventTypeJankenPlayed   EventType = "janken_played"
	EventTypeTitleAwarded   EventType = "title_awarded"
)

// ChangeReason classifies what caused a balance change
type ChangeReason string

const (
	ReasonInitial     ChangeReason = "initial"
	ReasonLoginBonus  ChangeReason = "login_bonus"
	ReasonJankenWin   ChangeReason = "janken_win"
	ReasonJankenLoss  ChangeReason = "janken_loss"
	ReasonTransferIn  ChangeReason = "transfer_in"
	ReasonTransferOut ChangeReason = "transfer_out"
	ReasonGacha       ChangeReason = "gacha"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	DiscordID    string
	OldBalance   int64
	NewBalance   int64
	Reason       ChangeReason
	ChangeAmount int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account creation
type AccountCreatedEvent struct {
	DiscordID      string
	Name           string
	InitialBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// LoginBonusEvent represents a granted login bonus
type LoginBonusEvent struct {
	DiscordID  string
	Amount     int64
	NewBalance int64
}

func (e LoginBonusEvent) Type() EventType {
	return EventTypeLoginBonus
}

// JankenPlayedEvent represents a settled janken game
type JankenPlayedEvent struct {
	DiscordID  string
	PlayerHand models.Hand
	BotHand    models.Hand
	Verdict    models.JankenVerdict
	Bet        int64
}

func (e JankenPlayedEvent) Type() EventType {
	return EventTypeJankenPlayed
}

// TitleAwardedEvent represents a title won from the gacha
type TitleAwardedEvent struct {
	DiscordID string
	Title     string
	Cost      int64
}

func (e TitleAwardedEvent) Type() EventType {
	return EventTypeTitleAwarded
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events should be processed independently of the transaction lifecycle,
	// so emission uses a background context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
