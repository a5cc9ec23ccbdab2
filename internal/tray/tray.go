// Package tray provides the heartsketch system tray menu.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/heartsketch/internal/interaction"
)

// Tray is the system tray menu: a mode label, Reset, an Enabled toggle and Quit.
type Tray struct {
	onToggle func(enabled bool)
	onReset  func()
	onQuit   func()
	enabled  bool
	mode     interaction.Mode
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuMode   *systray.MenuItem
	menuToggle *systray.MenuItem
}

// New creates a Tray showing the given enabled state in drawing mode.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
		mode:    interaction.ModeDrawing,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnReset sets the callback function to be called when Reset is clicked.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Listener returns an interaction listener that keeps the mode label current.
func (t *Tray) Listener() interaction.Listener {
	return interaction.ListenerFuncs{
		Mode: func(_, to interaction.Mode) { t.SetMode(to) },
	}
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("heartsketch")
	systray.SetTooltip("Draw a heart, then pinch to zoom")

	t.mu.Lock()
	t.menuMode = systray.AddMenuItem(modeTitle(t.mode), "Current interaction mode")
	t.menuMode.Disable()
	systray.AddSeparator()

	menuReset := systray.AddMenuItem("Reset", "Return to drawing mode")
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume hand tracking")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit heartsketch")
	t.mu.Unlock()

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuReset.ClickedCh:
				t.handleReset()
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// handleToggle flips the enabled state and notifies the callback.
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

func (t *Tray) handleReset() {
	t.mu.RLock()
	callback := t.onReset
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

	systray.Quit()
}

// SetMode updates the mode label.
func (t *Tray) SetMode(mode interaction.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = mode
	if t.menuMode != nil {
		t.menuMode.SetTitle(modeTitle(mode))
	}
}

// SetEnabled reflects an enabled change made elsewhere without calling OnToggle.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Mode returns the mode shown in the label.
func (t *Tray) Mode() interaction.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func modeTitle(mode interaction.Mode) string {
	switch mode {
	case interaction.ModeManipulating, interaction.ModeDetected:
		return "♥ Manipulating"
	default:
		return "✎ Drawing"
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

// Quit stops a running tray. It is safe to call more than once.
func Quit() {
	systray.Quit()
}
