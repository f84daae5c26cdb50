package tray

import (
	"testing"

	"github.com/ayusman/folio/internal/gesture"
	"github.com/ayusman/folio/internal/showcase"
)

func TestTray_Toggle(t *testing.T) {
	tr := New(false)

	var got []bool
	tr.OnToggle(func(enabled bool) {
		got = append(got, enabled)
		// The callback may read the tray without deadlocking.
		if tr.IsEnabled() != enabled {
			t.Errorf("IsEnabled() = %v inside callback, want %v", tr.IsEnabled(), enabled)
		}
	})

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("toggle callbacks = %v, want [true false]", got)
	}
}

func TestTray_SetEnabledDoesNotNotify(t *testing.T) {
	tr := New(false)

	called := false
	tr.OnToggle(func(bool) { called = true })

	tr.SetEnabled(true)
	if !tr.IsEnabled() {
		t.Error("expected enabled after SetEnabled(true)")
	}
	if called {
		t.Error("SetEnabled should not invoke the toggle callback")
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New(true)

	// Unset callbacks are ignored
	tr.handleOpen()
	tr.handleQuit()

	var opened, quit int
	tr.OnOpen(func() { opened++ })
	tr.OnQuit(func() { quit++ })
	tr.handleOpen()
	tr.handleQuit()

	if opened != 1 || quit != 1 {
		t.Errorf("opened=%d quit=%d, want 1 and 1", opened, quit)
	}
}

func TestTray_Titles(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "enabled", got: toggleTitle(true), want: "● Gestures On"},
		{name: "disabled", got: toggleTitle(false), want: "○ Gestures Off"},
		{name: "no gesture", got: lastTitle(""), want: "Last: none"},
		{name: "left", got: lastTitle(gesture.Left), want: "Last: left"},
		{name: "no section", got: sectionTitle(showcase.Section{}), want: "Section: -"},
		{name: "first section", got: sectionTitle(showcase.Section{Index: 0, Total: 3}), want: "Section: 1/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTray_UpdatesBeforeReady(t *testing.T) {
	tr := New(false)

	// Menu items do not exist yet; state is kept for onReady.
	tr.SetLastGesture(gesture.Right)
	tr.SetSection(showcase.Section{Index: 1, Total: 3})

	if tr.last != gesture.Right || tr.section.Index != 1 {
		t.Errorf("state not kept: last=%q section=%+v", tr.last, tr.section)
	}
}
