package supreme

import (
	"testing"
	"time"
)

func TestRegisterRejectsInvalidInput(t *testing.T) {
	reg := NewRegistry(nil)

	if reg.Register("warp_drive", &stubProvider{}, nil, 1) {
		t.Error("expected registration with invalid kind to fail")
	}
	if reg.Register(EngineAnalytics, nil, nil, 1) {
		t.Error("expected registration with nil provider to fail")
	}
	if reg.Registered() != 0 {
		t.Errorf("Registered() = %d, want 0", reg.Registered())
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	reg := NewRegistry(nil)

	first := &stubProvider{}
	second := &stubProvider{}
	if !reg.Register(EngineAnalytics, first, []string{"measure"}, 3) {
		t.Fatal("first registration failed")
	}
	if !reg.Register(EngineAnalytics, second, []string{"measure", "evaluate"}, 7) {
		t.Fatal("re-registration failed")
	}

	if reg.Registered() != 1 {
		t.Errorf("Registered() = %d, want 1", reg.Registered())
	}
	desc, ok := reg.Descriptor(EngineAnalytics)
	if !ok {
		t.Fatal("descriptor missing after re-registration")
	}
	if desc.Priority != 7 {
		t.Errorf("Priority = %d, want 7", desc.Priority)
	}
	if len(desc.Capabilities) != 2 {
		t.Errorf("Capabilities = %v, want 2 entries", desc.Capabilities)
	}
}

func TestUnregister(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineSecurity, &stubProvider{}, nil, 1)

	if !reg.Unregister(EngineSecurity) {
		t.Error("expected unregister of known engine to succeed")
	}
	if reg.Unregister(EngineSecurity) {
		t.Error("expected unregister of unknown engine to fail")
	}
	if _, ok := reg.Status(EngineSecurity); ok {
		t.Error("status still available after unregister")
	}
}

func TestSetStatusAndAvailable(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, nil, 1)
	reg.Register(EngineSecurity, &stubProvider{}, nil, 1)
	reg.Register(EngineReasoning, &stubProvider{}, nil, 1)

	if !reg.SetStatus(EngineSecurity, EngineStatusMaintenance) {
		t.Fatal("SetStatus failed for known engine")
	}
	if reg.SetStatus(EngineSecurity, "hibernating") {
		t.Error("expected invalid status to be rejected")
	}
	if reg.SetStatus(EngineProactive, EngineStatusActive) {
		t.Error("expected unknown engine to be rejected")
	}

	available := reg.Available()
	want := []EngineKind{EngineAnalytics, EngineReasoning}
	if len(available) != len(want) {
		t.Fatalf("Available() = %v, want %v", available, want)
	}
	for i, kind := range want {
		if available[i] != kind {
			t.Errorf("Available()[%d] = %s, want %s", i, available[i], kind)
		}
	}

	status, ok := reg.Status(EngineSecurity)
	if !ok || status != EngineStatusMaintenance {
		t.Errorf("Status = %s, want %s", status, EngineStatusMaintenance)
	}
}

func TestOrderByPriority(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, nil, 2)
	reg.Register(EngineSecurity, &stubProvider{}, nil, 9)
	reg.Register(EngineReasoning, &stubProvider{}, nil, 5)

	ordered := reg.OrderByPriority([]EngineKind{
		EngineAnalytics, EngineProactive, EngineSecurity, EngineReasoning,
	})
	want := []EngineKind{EngineSecurity, EngineReasoning, EngineAnalytics, EngineProactive}
	for i, kind := range want {
		if ordered[i] != kind {
			t.Errorf("ordered[%d] = %s, want %s", i, ordered[i], kind)
		}
	}
}

func TestOrderByPriorityKeepsTieOrder(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, nil, 5)
	reg.Register(EngineSecurity, &stubProvider{}, nil, 5)

	ordered := reg.OrderByPriority([]EngineKind{EngineSecurity, EngineAnalytics})
	if ordered[0] != EngineSecurity || ordered[1] != EngineAnalytics {
		t.Errorf("ordered = %v, want input order preserved on ties", ordered)
	}
}

func TestMailboxSendReceive(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, nil, 1)

	if !reg.Send(EngineSecurity, EngineAnalytics, map[string]any{"alert": "anomaly"}) {
		t.Fatal("Send to registered engine failed")
	}
	env := reg.Receive(EngineAnalytics, time.Second)
	if env == nil {
		t.Fatal("Receive returned nil for delivered message")
	}
	if env.From != EngineSecurity || env.To != EngineAnalytics {
		t.Errorf("envelope routing = %s->%s, want security->analytics", env.From, env.To)
	}
	if env.Body["alert"] != "anomaly" {
		t.Errorf("body = %v, want alert entry", env.Body)
	}
}

func TestMailboxUnknownAndTimeout(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, nil, 1)

	if reg.Send(EngineSecurity, EngineProactive, nil) {
		t.Error("expected send to unregistered engine to fail")
	}
	if env := reg.Receive(EngineProactive, 10*time.Millisecond); env != nil {
		t.Errorf("Receive for unknown engine = %v, want nil", env)
	}
	if env := reg.Receive(EngineAnalytics, 10*time.Millisecond); env != nil {
		t.Errorf("Receive on empty mailbox = %v, want nil", env)
	}
}

func TestMailboxFullDropsMessage(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, nil, 1)

	for i := 0; i < mailboxSize; i++ {
		if !reg.Send(EngineSecurity, EngineAnalytics, nil) {
			t.Fatalf("send %d failed before mailbox was full", i)
		}
	}
	if reg.Send(EngineSecurity, EngineAnalytics, nil) {
		t.Error("expected send into full mailbox to fail")
	}
}

func TestBlackboard(t *testing.T) {
	reg := NewRegistry(nil)

	reg.ShareData("threat_level", 0.2, EngineSecurity)
	reg.ShareData("threat_level", 0.8, EngineAnalytics)

	value, ok := reg.SharedData("threat_level")
	if !ok {
		t.Fatal("SharedData missing after write")
	}
	if value != 0.8 {
		t.Errorf("value = %v, want last write 0.8", value)
	}

	entry, ok := reg.SharedEntry("threat_level")
	if !ok {
		t.Fatal("SharedEntry missing after write")
	}
	if entry.Source != EngineAnalytics {
		t.Errorf("Source = %s, want %s", entry.Source, EngineAnalytics)
	}
	if entry.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}

	if _, ok := reg.SharedData("absent"); ok {
		t.Error("SharedData returned ok for absent key")
	}
}

func TestCoordinationHistory(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, nil, 1)

	reg.Send(EngineSecurity, EngineAnalytics, nil)
	reg.ShareData("state", "stable", EngineAnalytics)

	history := reg.CoordinationHistory(0)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Kind != "message" || history[1].Kind != "data_share" {
		t.Errorf("history kinds = %s, %s", history[0].Kind, history[1].Kind)
	}
	if history[1].Key != "state" {
		t.Errorf("data_share key = %q, want state", history[1].Key)
	}

	limited := reg.CoordinationHistory(1)
	if len(limited) != 1 || limited[0].Kind != "data_share" {
		t.Errorf("limited history = %v, want the most recent record", limited)
	}
}

func TestDescriptorReturnsCopy(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, []string{"measure"}, 1)

	desc, _ := reg.Descriptor(EngineAnalytics)
	desc.Capabilities[0] = "mutated"

	caps := reg.Capabilities(EngineAnalytics)
	if caps[0] != "measure" {
		t.Errorf("registry capability mutated through the returned copy: %v", caps)
	}
}

func TestSummary(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(EngineAnalytics, &stubProvider{}, []string{"measure", "evaluate"}, 4)
	reg.SetStatus(EngineAnalytics, EngineStatusBusy)

	summary := reg.Summary()
	s, ok := summary[EngineAnalytics]
	if !ok {
		t.Fatal("summary missing registered engine")
	}
	if s.Status != EngineStatusBusy {
		t.Errorf("Status = %s, want %s", s.Status, EngineStatusBusy)
	}
	if s.Capabilities != 2 {
		t.Errorf("Capabilities = %d, want 2", s.Capabilities)
	}
	if s.Priority != 4 {
		t.Errorf("Priority = %d, want 4", s.Priority)
	}
}
