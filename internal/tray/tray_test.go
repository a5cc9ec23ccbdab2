package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/heartsketch/internal/interaction"
)

func TestTray_Toggle(t *testing.T) {
	tr := New(true)
	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	assert.Equal(t, []bool{false, true}, got)
	assert.True(t, tr.IsEnabled())
}

func TestTray_SetEnabledSkipsCallback(t *testing.T) {
	tr := New(true)
	called := false
	tr.OnToggle(func(bool) { called = true })

	tr.SetEnabled(false)

	assert.False(t, tr.IsEnabled())
	assert.False(t, called)
}

func TestTray_Reset(t *testing.T) {
	tr := New(true)
	tr.handleReset() // no callback yet

	resets := 0
	tr.OnReset(func() { resets++ })
	tr.handleReset()

	assert.Equal(t, 1, resets)
}

func TestTray_ModeListener(t *testing.T) {
	tr := New(false)
	assert.Equal(t, interaction.ModeDrawing, tr.Mode())

	l := tr.Listener()
	l.OnModeChange(interaction.ModeDrawing, interaction.ModeDetected)
	l.OnModeChange(interaction.ModeDetected, interaction.ModeManipulating)

	assert.Equal(t, interaction.ModeManipulating, tr.Mode())
	assert.NotPanics(t, func() { l.OnScaleChange(2) })
}

func TestTitles(t *testing.T) {
	tests := []struct {
		mode interaction.Mode
		want string
	}{
		{interaction.ModeDrawing, "✎ Drawing"},
		{interaction.ModeDetected, "♥ Manipulating"},
		{interaction.ModeManipulating, "♥ Manipulating"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, modeTitle(tt.mode))
		})
	}

	assert.Equal(t, "● Enabled", toggleTitle(true))
	assert.Equal(t, "○ Disabled", toggleTitle(false))
}
