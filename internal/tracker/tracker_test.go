package tracker

import "testing"

func TestObserveResolvesSmallestID(t *testing.T) {
	tr := New()
	tr.Reset(1)

	if active, changed := tr.Observe(1, "1.2", true); active != "1.2" || !changed {
		t.Errorf("after 1.2 enters: active = (%q, %v), want (1.2, true)", active, changed)
	}
	// 1.2 precedes 2 component-wise, so 2 entering changes nothing.
	if active, changed := tr.Observe(1, "2", true); active != "1.2" || changed {
		t.Errorf("after 2 enters: active = (%q, %v), want (1.2, false)", active, changed)
	}
}

func TestObserveExitPromotesRemaining(t *testing.T) {
	tr := New()
	tr.Reset(1)

	tr.Observe(1, "1.1", true)
	tr.Observe(1, "1.2", true)
	if tr.Active() != "1.1" {
		t.Fatalf("active = %q, want 1.1", tr.Active())
	}
	if active, changed := tr.Observe(1, "1.1", false); active != "1.2" || !changed {
		t.Errorf("after 1.1 exits: active = (%q, %v), want (1.2, true)", active, changed)
	}
}

func TestObserveEmptySetKeepsActive(t *testing.T) {
	tr := New()
	tr.Reset(1)

	tr.Observe(1, "1.2", true)
	if active, changed := tr.Observe(1, "1.2", false); active != "1.2" || changed {
		t.Errorf("after the set empties: active = (%q, %v), want (1.2, false)", active, changed)
	}
}

func TestObserveDiscardsStaleEpochs(t *testing.T) {
	tr := New()
	tr.Reset(2)

	if active, changed := tr.Observe(1, "1", true); active != "" || changed {
		t.Errorf("stale event applied: active = (%q, %v)", active, changed)
	}
	tr.Observe(2, "3", true)
	if active, changed := tr.Observe(1, "1", true); active != "3" || changed {
		t.Errorf("stale event moved active: (%q, %v), want (3, false)", active, changed)
	}
}

func TestResetClearsWorkingSet(t *testing.T) {
	tr := New()
	tr.Reset(1)
	tr.Observe(1, "1", true)

	tr.Reset(2)
	if tr.Active() != "" {
		t.Errorf("active after Reset = %q, want empty", tr.Active())
	}
	// The old document's pending exit must not resurrect anything.
	if active, _ := tr.Observe(1, "1", false); active != "" {
		t.Errorf("stale exit after Reset set active = %q", active)
	}
	if active, _ := tr.Observe(2, "1.1", true); active != "1.1" {
		t.Errorf("fresh event after Reset: active = %q, want 1.1", active)
	}
}

func TestTeardownStopsObservation(t *testing.T) {
	tr := New()
	tr.Reset(1)
	tr.Observe(1, "1", true)

	tr.Teardown()
	if tr.Active() != "" {
		t.Errorf("active after Teardown = %q, want empty", tr.Active())
	}
	if active, changed := tr.Observe(1, "2", true); active != "" || changed {
		t.Errorf("event applied after Teardown: (%q, %v)", active, changed)
	}
}

func TestDisableLeavesNothingActive(t *testing.T) {
	tr := New()
	tr.Reset(1)
	tr.Disable()

	if active, changed := tr.Observe(1, "1", true); active != "" || changed {
		t.Errorf("disabled tracker resolved (%q, %v)", active, changed)
	}
	tr.Reset(2)
	if active, _ := tr.Observe(2, "1", true); active != "" {
		t.Errorf("Disable did not survive Reset: active = %q", active)
	}
}

func TestObserveIgnoresEmptyID(t *testing.T) {
	tr := New()
	tr.Reset(1)
	if active, changed := tr.Observe(1, "", true); active != "" || changed {
		t.Errorf("empty id resolved (%q, %v)", active, changed)
	}
}

func TestObserveBeforeFirstReset(t *testing.T) {
	tr := New()
	if active, changed := tr.Observe(0, "1", true); active != "" || changed {
		t.Errorf("unarmed tracker resolved (%q, %v)", active, changed)
	}
}
