package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event in the Supreme system.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// RequestID is the associated orchestration request ID, if applicable.
	RequestID string `json:"request_id,omitempty"`

	// CommandID is the associated command ID, if applicable.
	CommandID string `json:"command_id,omitempty"`

	// DecisionID is the associated decision ID, if applicable.
	DecisionID string `json:"decision_id,omitempty"`

	// ExecutionID is the associated execution ID, if applicable.
	ExecutionID string `json:"execution_id,omitempty"`

	// Engine is the associated engine kind, if applicable.
	Engine string `json:"engine,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventRequestQueued     = "request.queued"
	EventRequestCompleted  = "request.completed"
	EventRequestFailed     = "request.failed"
	EventEngineCallFailed  = "engine.call_failed"
	EventEngineRegistered  = "engine.registered"
	EventCommandExecuted   = "command.executed"
	EventDecisionMade      = "decision.made"
	EventExecutionStarted  = "execution.started"
	EventExecutionFinished = "execution.finished"
	EventError             = "error"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher manages event publishing and subscriptions.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	filters     []EventFilter
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPublisher{
		config:      cfg,
		buffer:      make(chan Event, cfg.BufferSize),
		subscribers: make([]subscriberEntry, 0),
		filters:     make([]EventFilter, 0),
		ctx:         ctx,
		cancel:      cancel,
	}

	// Start the event processing goroutine
	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	return ep, nil
}

// NopEventPublisher returns a disabled publisher that drops every event.
// Used as the default when a component is built without explicit events.
func NopEventPublisher() *EventPublisher {
	return &EventPublisher{config: EventsConfig{Enabled: false}}
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	// Set ID and timestamp if not already set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Apply global filters
	ep.mu.RLock()
	for _, filter := range ep.filters {
		if !filter(event) {
			ep.mu.RUnlock()
			return nil // Event filtered out
		}
	}
	ep.mu.RUnlock()

	// Send to buffer if async, otherwise process immediately
	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			// Buffer full, drop event or log warning
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	// Synchronous publishing
	ep.deliverEvent(event)
	return nil
}

// PublishRequestQueued publishes a request queued event.
func (ep *EventPublisher) PublishRequestQueued(requestID, strategy string) error {
	return ep.Publish(Event{
		Type:      EventRequestQueued,
		Source:    "orchestrator",
		RequestID: requestID,
		Message:   fmt.Sprintf("Request %s queued with strategy %s", requestID, strategy),
		Level:     EventLevelInfo,
		Data: map[string]interface{}{
			"strategy": strategy,
		},
	})
}

// PublishRequestCompleted publishes a request completed event.
func (ep *EventPublisher) PublishRequestCompleted(requestID, status string, duration time.Duration) error {
	return ep.Publish(Event{
		Type:      EventRequestCompleted,
		Source:    "orchestrator",
		RequestID: requestID,
		Message:   fmt.Sprintf("Request %s completed with status: %s", requestID, status),
		Level:     EventLevelInfo,
		Data: map[string]interface{}{
			"status":   status,
			"duration": duration.Seconds(),
		},
	})
}

// PublishRequestFailed publishes a request failed event.
func (ep *EventPublisher) PublishRequestFailed(requestID, reason string) error {
	return ep.Publish(Event{
		Type:      EventRequestFailed,
		Source:    "orchestrator",
		RequestID: requestID,
		Message:   fmt.Sprintf("Request %s failed: %s", requestID, reason),
		Level:     EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishEngineCallFailed publishes an engine call failure event.
func (ep *EventPublisher) PublishEngineCallFailed(requestID, engine, reason string) error {
	return ep.Publish(Event{
		Type:      EventEngineCallFailed,
		Source:    "orchestrator",
		RequestID: requestID,
		Engine:    engine,
		Message:   fmt.Sprintf("Engine %s failed for request %s: %s", engine, requestID, reason),
		Level:     EventLevelWarning,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishEngineRegistered publishes an engine registration event.
func (ep *EventPublisher) PublishEngineRegistered(engine string, capabilities int) error {
	return ep.Publish(Event{
		Type:    EventEngineRegistered,
		Source:  "registry",
		Engine:  engine,
		Message: fmt.Sprintf("Engine %s registered with %d capabilities", engine, capabilities),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"capabilities": capabilities,
		},
	})
}

// PublishDecisionMade publishes a decision made event.
func (ep *EventPublisher) PublishDecisionMade(decisionID, archetype string, score float64) error {
	return ep.Publish(Event{
		Type:       EventDecisionMade,
		Source:     "decision",
		DecisionID: decisionID,
		Message:    fmt.Sprintf("Decision %s selected %s option (score %.3f)", decisionID, archetype, score),
		Level:      EventLevelInfo,
		Data: map[string]interface{}{
			"archetype": archetype,
			"score":     score,
		},
	})
}

// Subscribe adds a new event subscriber.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

// processEvents processes events from the buffer asynchronously.
func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	batch := make([]Event, 0, ep.config.MaxBatchSize)

	for {
		select {
		case event := <-ep.buffer:
			batch = append(batch, event)

			// Flush batch if it reaches max size
			if len(batch) >= ep.config.MaxBatchSize {
				ep.flushBatch(batch)
				batch = make([]Event, 0, ep.config.MaxBatchSize)
			}

		case <-ep.ctx.Done():
			// Flush remaining events before shutting down
			if len(batch) > 0 {
				ep.flushBatch(batch)
			}
			return
		}
	}
}

// flushBatch delivers a batch of events to subscribers.
func (ep *EventPublisher) flushBatch(events []Event) {
	for _, event := range events {
		ep.deliverEvent(event)
	}
}

// deliverEvent delivers an event to all subscribers.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		// Apply subscriber-specific filter
		if entry.filter != nil && !entry.filter(event) {
			continue
		}

		// Call subscriber in a goroutine to avoid blocking
		go entry.subscriber(event)
	}
}

// Shutdown gracefully shuts down the event publisher.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled {
		return nil
	}

	// Signal shutdown
	ep.cancel()

	// Wait for processing to complete with timeout
	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// Common event filters.

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}

	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterByRequestID creates a filter that only allows events for a specific request.
func FilterByRequestID(requestID string) EventFilter {
	return func(event Event) bool {
		return event.RequestID == requestID
	}
}

// FilterByEngine creates a filter that only allows events for a specific engine.
func FilterByEngine(engine string) EventFilter {
	return func(event Event) bool {
		return event.Engine == engine
	}
}
