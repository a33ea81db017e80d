package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	INSPECTION_FINALIZED Channel = "inspection.finalized"
	METRICS_INVALIDATED  Channel = "metrics.invalidated"
)

// originOnly channels reach handlers on the publishing instance alone. Their handlers
// have external side effects that must happen once per event, not once per instance.
var originOnly = map[Channel]bool{
	INSPECTION_FINALIZED: true,
}

type MessageType string

const (
	INSPECTION_FINALIZED_EVENT MessageType = "inspection_finalized"
	CACHE_INVALIDATION_EVENT   MessageType = "cache_invalidation"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	Origin    string         `json:"origin"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus fans events out to local handlers and, when a valkey client is present,
// to other API instances over pub/sub. Handlers always run in their own goroutine
// so publishers never wait on them.
type EventBus struct {
	client    valkey.Client
	instance  string
	logger    logger.Logger
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mutex     sync.RWMutex
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		instance:  uuid.NewString(),
		logger:    logger.New("EventBus"),
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	event.Origin = eb.instance

	if eb.client != nil && !originOnly[channel] {
		eventData, err := json.Marshal(event)
		if err != nil {
			return log.Err("failed to marshal event", err, "eventID", event.ID)
		}

		ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
		defer cancel()

		err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
			Error()
		if err != nil {
			log.Er("failed to publish event to valkey", err, "channel", channel, "eventID", event.ID)
		}
	}

	log.Info("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)

	eb.notifyLocalHandlers(channel, event)

	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	startListener := eb.client != nil && !originOnly[channel] && !eb.listening[channel]
	eb.listening[channel] = true
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if startListener {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		eb.wg.Add(1)
		go func(h EventHandler, handlerIndex int) {
			defer eb.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Warn("handler panicked", "channel", channel, "eventID", event.ID, "panic", r)
				}
			}()

			if err := h(event); err != nil {
				log.Er("handler failed", err, "channel", channel, "eventID", event.ID, "handlerIndex", handlerIndex)
			}
		}(handler, i)
	}
}

// listenToChannel relays events published by other instances. Events this
// instance published were already delivered locally and are skipped.
func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			eb.relay(channel, msg.Message)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

// relay delivers an event received from another instance. It reports whether local
// handlers were notified.
func (eb *EventBus) relay(channel Channel, message string) bool {
	log := eb.logger.Function("relay")

	if originOnly[channel] {
		return false
	}

	var event Event
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		log.Er("failed to unmarshal event", err, "channel", channel, "message", message)
		return false
	}

	if event.Origin == eb.instance {
		return false
	}

	log.Info("Received event from valkey", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	eb.notifyLocalHandlers(channel, event)
	return true
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()
	eb.wg.Wait()

	log.Info("EventBus closed")
	return nil
}

func (eb *EventBus) PublishInspectionFinalized(inspectionID uuid.UUID, userID uuid.UUID) error {
	return eb.Publish(INSPECTION_FINALIZED, Event{
		Type:   INSPECTION_FINALIZED_EVENT,
		UserID: &userID,
		Data: map[string]any{
			"inspectionId": inspectionID.String(),
		},
	})
}

func (eb *EventBus) PublishMetricsInvalidated(reason string) error {
	return eb.Publish(METRICS_INVALIDATED, Event{
		Type: CACHE_INVALIDATION_EVENT,
		Data: map[string]any{"reason": reason},
	})
}
