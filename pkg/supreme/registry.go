package supreme

import (
	"sort"
	"sync"
	"time"

	"github.com/syncsphere/supreme/pkg/telemetry"
)

// mailboxSize bounds each engine's message channel. Send drops into a full
// mailbox are reported to the caller as a failed send.
const mailboxSize = 64

// defaultCoordinationHistoryLimit bounds the registry's coordination log.
const defaultCoordinationHistoryLimit = 256

// Envelope is a message delivered through an engine mailbox.
type Envelope struct {
	// From is the sending engine.
	From EngineKind `json:"from"`

	// To is the receiving engine.
	To EngineKind `json:"to"`

	// Body is the message payload.
	Body map[string]any `json:"body,omitempty"`

	// SentAt is when the message was enqueued.
	SentAt time.Time `json:"sent_at"`
}

// BlackboardEntry is one shared key/value slot. Writes are last-write-wins
// and each write is stamped with its source and timestamp.
type BlackboardEntry struct {
	// Value is the shared value.
	Value any `json:"value"`

	// Source is the engine that wrote the value.
	Source EngineKind `json:"source"`

	// UpdatedAt is when the value was written.
	UpdatedAt time.Time `json:"updated_at"`
}

// CoordinationRecord is one entry in the registry's bounded coordination
// log, covering message sends and blackboard writes.
type CoordinationRecord struct {
	Kind      string     `json:"kind"` // "message" or "data_share"
	From      EngineKind `json:"from,omitempty"`
	To        EngineKind `json:"to,omitempty"`
	Key       string     `json:"key,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Registry holds the set of registered capability engines, one mailbox per
// engine, and the shared blackboard. It assumes a single coordinating
// orchestrator per instance; the maps are mutex-guarded but blackboard
// writes are last-write-wins with no transactional guarantee, so concurrent
// writers may race. That is an accepted, documented limitation.
type Registry struct {
	mu         sync.RWMutex
	engines    map[EngineKind]*EngineDescriptor
	mailboxes  map[EngineKind]chan Envelope
	blackboard map[string]BlackboardEntry

	history      []CoordinationRecord
	historyLimit int

	logger *telemetry.Logger
}

// NewRegistry creates an empty engine registry.
func NewRegistry(logger *telemetry.Logger) *Registry {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	return &Registry{
		engines:      make(map[EngineKind]*EngineDescriptor),
		mailboxes:    make(map[EngineKind]chan Envelope),
		blackboard:   make(map[string]BlackboardEntry),
		historyLimit: defaultCoordinationHistoryLimit,
		logger:       logger.NewComponentLogger("registry"),
	}
}

// Register adds an engine to the registry with the given capabilities and
// priority. Registration is idempotent: re-registering an already-known
// kind replaces the prior descriptor (and its mailbox) and logs a warning,
// it never fails. Returns false only for an invalid kind or nil provider.
func (r *Registry) Register(kind EngineKind, provider Provider, capabilities []string, priority int) bool {
	if kind.Validate() != nil || provider == nil {
		r.logger.WithField("engine", string(kind)).Warn("rejecting invalid engine registration")
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[kind]; exists {
		r.logger.WithField("engine", string(kind)).Warn("engine already registered, replacing descriptor")
	}

	r.engines[kind] = &EngineDescriptor{
		Kind:         kind,
		Provider:     provider,
		Status:       EngineStatusActive,
		Capabilities: append([]string(nil), capabilities...),
		Priority:     priority,
		LastActivity: time.Now(),
	}
	r.mailboxes[kind] = make(chan Envelope, mailboxSize)

	r.logger.WithField("engine", string(kind)).
		WithField("capabilities", len(capabilities)).
		Info("engine registered")
	return true
}

// Unregister removes an engine and its mailbox. Returns false if the kind
// was not registered.
func (r *Registry) Unregister(kind EngineKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[kind]; !exists {
		return false
	}
	delete(r.engines, kind)
	delete(r.mailboxes, kind)

	r.logger.WithField("engine", string(kind)).Info("engine unregistered")
	return true
}

// Send enqueues a message onto the target engine's mailbox. Returns false
// if the target is not registered or its mailbox is full.
func (r *Registry) Send(from, to EngineKind, body map[string]any) bool {
	r.mu.Lock()
	mailbox, ok := r.mailboxes[to]
	if ok {
		r.record(CoordinationRecord{Kind: "message", From: from, To: to, Timestamp: time.Now()})
	}
	r.mu.Unlock()
	if !ok {
		return false
	}

	env := Envelope{From: from, To: to, Body: body, SentAt: time.Now()}
	select {
	case mailbox <- env:
		return true
	default:
		r.logger.WithField("engine", string(to)).Warn("mailbox full, dropping message")
		return false
	}
}

// Receive blocks up to timeout for a message addressed to the given engine.
// Returns nil when the engine is unknown or the wait times out; a timeout
// is not an error.
func (r *Registry) Receive(kind EngineKind, timeout time.Duration) *Envelope {
	r.mu.RLock()
	mailbox, ok := r.mailboxes[kind]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	select {
	case env := <-mailbox:
		return &env
	case <-time.After(timeout):
		return nil
	}
}

// ShareData writes a value to the shared blackboard, stamped with the
// source engine and write time. Last write wins.
func (r *Registry) ShareData(key string, value any, source EngineKind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blackboard[key] = BlackboardEntry{
		Value:     value,
		Source:    source,
		UpdatedAt: time.Now(),
	}
	r.record(CoordinationRecord{Kind: "data_share", From: source, Key: key, Timestamp: time.Now()})
}

// SharedData returns the blackboard value for key, or false if absent.
func (r *Registry) SharedData(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.blackboard[key]
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// SharedEntry returns the full blackboard entry for key, including its
// source stamp, or false if absent.
func (r *Registry) SharedEntry(key string) (BlackboardEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.blackboard[key]
	return entry, ok
}

// SetStatus updates an engine's liveness status and touches its
// last-activity timestamp. Returns false for unknown kinds or invalid
// statuses.
func (r *Registry) SetStatus(kind EngineKind, status EngineStatus) bool {
	if status.Validate() != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	desc, ok := r.engines[kind]
	if !ok {
		return false
	}
	desc.Status = status
	desc.LastActivity = time.Now()
	return true
}

// Status returns an engine's liveness status, or false if not registered.
func (r *Registry) Status(kind EngineKind) (EngineStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.engines[kind]
	if !ok {
		return "", false
	}
	return desc.Status, true
}

// Descriptor returns a copy of an engine's descriptor.
func (r *Registry) Descriptor(kind EngineKind) (EngineDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.engines[kind]
	if !ok {
		return EngineDescriptor{}, false
	}
	out := *desc
	out.Capabilities = append([]string(nil), desc.Capabilities...)
	return out, true
}

// Capabilities returns an engine's declared capability tags.
func (r *Registry) Capabilities(kind EngineKind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.engines[kind]
	if !ok {
		return nil
	}
	return append([]string(nil), desc.Capabilities...)
}

// Available returns the kinds of all active engines, sorted by kind for
// stable output.
func (r *Registry) Available() []EngineKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]EngineKind, 0, len(r.engines))
	for kind, desc := range r.engines {
		if desc.Status == EngineStatusActive {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Registered returns the number of registered engines.
func (r *Registry) Registered() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// OrderByPriority returns the given kinds sorted by descending registered
// priority. Unregistered kinds sort last with priority zero; ties keep
// their input order.
func (r *Registry) OrderByPriority(kinds []EngineKind) []EngineKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := append([]EngineKind(nil), kinds...)
	priority := func(kind EngineKind) int {
		if desc, ok := r.engines[kind]; ok {
			return desc.Priority
		}
		return 0
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return priority(ordered[i]) > priority(ordered[j])
	})
	return ordered
}

// CoordinationHistory returns up to limit of the most recent coordination
// records, oldest first. A non-positive limit returns the full log.
func (r *Registry) CoordinationHistory(limit int) []CoordinationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.history
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return append([]CoordinationRecord(nil), records...)
}

// EngineSummary reports per-engine status for introspection.
type EngineSummary struct {
	Status       EngineStatus `json:"status"`
	Capabilities int          `json:"capabilities"`
	Priority     int          `json:"priority"`
	LastActivity time.Time    `json:"last_activity"`
}

// Summary returns a status summary for every registered engine.
func (r *Registry) Summary() map[EngineKind]EngineSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := make(map[EngineKind]EngineSummary, len(r.engines))
	for kind, desc := range r.engines {
		summary[kind] = EngineSummary{
			Status:       desc.Status,
			Capabilities: len(desc.Capabilities),
			Priority:     desc.Priority,
			LastActivity: desc.LastActivity,
		}
	}
	return summary
}

// provider returns the provider and active flag for a kind. Used by the
// orchestrator at dispatch time.
func (r *Registry) provider(kind EngineKind) (Provider, EngineStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.engines[kind]
	if !ok {
		return nil, "", false
	}
	return desc.Provider, desc.Status, true
}

// touch updates an engine's last-activity timestamp after a dispatch.
func (r *Registry) touch(kind EngineKind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if desc, ok := r.engines[kind]; ok {
		desc.LastActivity = time.Now()
	}
}

// record appends to the bounded coordination log. Caller holds r.mu.
func (r *Registry) record(rec CoordinationRecord) {
	r.history = append(r.history, rec)
	if len(r.history) > r.historyLimit {
		r.history = r.history[len(r.history)-r.historyLimit:]
	}
}
