// Package tray provides a system tray menu for switching gesture control.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/folio/internal/gesture"
	"github.com/ayusman/folio/internal/showcase"
)

// Tray is the system tray menu. Its toggle mirrors the detector's enable flag.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	last     gesture.Direction
	section  showcase.Section
	mu       sync.RWMutex

	// nil until the tray is ready
	menuToggle  *systray.MenuItem
	menuLast    *systray.MenuItem
	menuSection *systray.MenuItem
}

// New creates a Tray whose toggle starts at enabled.
func New(enabled bool) *Tray {
	return &Tray{enabled: enabled}
}

// OnToggle sets the callback invoked with the new state after a toggle click.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback for "Open Showcase...".
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback invoked before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// It blocks until Quit is called and must run on the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray, unblocking Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Folio")
	systray.SetTooltip("Folio gesture navigation")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture control")
	systray.AddSeparator()
	t.menuLast = systray.AddMenuItem(lastTitle(t.last), "Last detected swipe")
	t.menuLast.Disable()
	t.menuSection = systray.AddMenuItem(sectionTitle(t.section), "Visible showcase section")
	t.menuSection.Disable()
	toggle := t.menuToggle.ClickedCh
	t.mu.Unlock()

	systray.AddSeparator()
	menuOpen := systray.AddMenuItem("Open Showcase...", "Open the portfolio in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Folio")

	go func() {
		for {
			select {
			case <-toggle:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				systray.Quit()
				return
			}
		}
	}()
}

// handleToggle flips the state and reports it.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetEnabled updates the toggle after the state changed elsewhere.
// It does not invoke the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(d gesture.Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = d
	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(d))
	}
}

// SetSection updates the visible section display in the menu.
func (t *Tray) SetSection(s showcase.Section) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.section = s
	if t.menuSection != nil {
		t.menuSection.SetTitle(sectionTitle(s))
	}
}

// IsEnabled returns the current toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Gestures On"
	}
	return "○ Gestures Off"
}

func lastTitle(d gesture.Direction) string {
	if d == "" {
		return "Last: none"
	}
	return "Last: " + string(d)
}

func sectionTitle(s showcase.Section) string {
	if s.Total == 0 {
		return "Section: -"
	}
	return fmt.Sprintf("Section: %d/%d", s.Index+1, s.Total)
}
