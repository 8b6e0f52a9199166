package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
)

// clockText is a text-bearing display region owned by the clock updater.
// Writes arrive from the updater goroutine, so the canvas mutation is
// marshalled onto the UI thread with fyne.Do while the latest value stays
// synchronously readable for the snapshot endpoint and tests.
type clockText struct {
	text *canvas.Text

	mu      sync.RWMutex
	current string
}

func newClockText(size float32) clockText {
	t := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	t.TextSize = size
	t.Alignment = fyne.TextAlignCenter
	return clockText{text: t}
}

// SetText implements engine.DisplayTarget.
func (c *clockText) SetText(s string) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()

	fyne.Do(func() {
		c.text.Text = s
		c.text.Refresh()
	})
}

// Text returns the last value written to this region.
func (c *clockText) Text() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Object exposes the underlying canvas object for window layout.
func (c *clockText) Object() fyne.CanvasObject {
	return c.text
}

// TimeDisplay is the time target. Besides its visible text it carries the
// machine-readable ISO-8601 stamp of the displayed moment.
type TimeDisplay struct {
	clockText

	stampMu sync.RWMutex
	stamp   string
}

// NewTimeDisplay creates the time display region.
func NewTimeDisplay(size float32) *TimeDisplay {
	return &TimeDisplay{clockText: newClockText(size)}
}

// SetTimestamp implements engine.TimestampCarrier.
func (d *TimeDisplay) SetTimestamp(stamp string) {
	d.stampMu.Lock()
	d.stamp = stamp
	d.stampMu.Unlock()
}

// Timestamp returns the stamp of the currently displayed moment.
func (d *TimeDisplay) Timestamp() string {
	d.stampMu.RLock()
	defer d.stampMu.RUnlock()
	return d.stamp
}

// DateDisplay is the date target. Its text write is the last write of each
// tick, so the onUpdate hook fires when a complete snapshot is available.
type DateDisplay struct {
	clockText

	onUpdate func()
}

// NewDateDisplay creates the date display region. onUpdate may be nil.
func NewDateDisplay(size float32, onUpdate func()) *DateDisplay {
	return &DateDisplay{clockText: newClockText(size), onUpdate: onUpdate}
}

// SetText implements engine.DisplayTarget.
func (d *DateDisplay) SetText(s string) {
	d.clockText.SetText(s)
	if d.onUpdate != nil {
		d.onUpdate()
	}
}
