// Package widget holds the page's small UI state machines, kept free of any
// DOM so they can be driven and tested directly.
package widget

import (
	"sort"
	"sync"
)

// Key is a keyboard event as seen by a dialog.
type Key struct {
	Name  string // "Tab", "Escape", ...
	Shift bool
}

// Dialog is one modal overlay. Focusables are the IDs of its focusable
// descendants in tab order.
type Dialog struct {
	ID         string
	Focusables []string

	open    bool
	focused int
}

func (d *Dialog) focusedID() string {
	if !d.open || len(d.Focusables) == 0 {
		return ""
	}
	return d.Focusables[d.focused]
}

// Modals tracks every dialog on the page and the page scroll lock.
type Modals struct {
	mu      sync.Mutex
	dialogs map[string]*Dialog
}

func NewModals(dialogs ...*Dialog) *Modals {
	m := &Modals{dialogs: make(map[string]*Dialog, len(dialogs))}
	for _, d := range dialogs {
		m.dialogs[d.ID] = d
	}
	return m
}

// Show opens the dialog, locks scrolling and moves focus to its first
// focusable element. Unknown IDs are ignored.
func (m *Modals) Show(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dialogs[id]
	if !ok {
		return false
	}
	d.open = true
	d.focused = 0
	return true
}

func (m *Modals) Hide(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.dialogs[id]; ok {
		d.open = false
	}
}

// OverlayClick closes the dialog when the click landed on the overlay itself
// rather than on its content.
func (m *Modals) OverlayClick(id string, onOverlay bool) {
	if onOverlay {
		m.Hide(id)
	}
}

func (m *Modals) IsOpen(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dialogs[id]
	return ok && d.open
}

// ScrollLocked reports whether page scrolling is disabled.
func (m *Modals) ScrollLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.dialogs {
		if d.open {
			return true
		}
	}
	return false
}

// OpenIDs lists the open dialogs in ID order.
func (m *Modals) OpenIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, d := range m.dialogs {
		if d.open {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Focus records focus moving to the element with the given ID inside dialog id.
func (m *Modals) Focus(id, element string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dialogs[id]
	if !ok || !d.open {
		return
	}
	for i, f := range d.Focusables {
		if f == element {
			d.focused = i
			return
		}
	}
}

// Focused returns the focused element of dialog id.
func (m *Modals) Focused(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.dialogs[id]; ok {
		return d.focusedID()
	}
	return ""
}

// KeyDown handles a key pressed while focus is inside dialog id. Escape closes
// every open dialog. Tab and Shift+Tab cycle focus inside an open dialog,
// wrapping at both ends. It reports whether the browser's default action
// must be suppressed.
func (m *Modals) KeyDown(id string, k Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if k.Name == "Escape" {
		for _, d := range m.dialogs {
			d.open = false
		}
		return false
	}
	if k.Name != "Tab" {
		return false
	}
	d, ok := m.dialogs[id]
	if !ok || !d.open {
		return false
	}
	n := len(d.Focusables)
	if n == 0 {
		return true
	}
	if k.Shift {
		if d.focused == 0 {
			d.focused = n - 1
			return true
		}
		d.focused--
		return false
	}
	if d.focused == n-1 {
		d.focused = 0
		return true
	}
	d.focused++
	return false
}
