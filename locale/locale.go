// Package locale tracks the active UI locale and its text direction.
package locale

import (
	"sync"

	"github.com/viant/settingsflow/action"
	"github.com/viant/settingsflow/event"
	"golang.org/x/text/language"
)

// Direction is the text direction of a locale.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Thaa": true,
	"Syrc": true,
	"Nkoo": true,
	"Adlm": true,
	"Rohg": true,
	"Mand": true,
}

// DirectionOf returns the text direction of lang; unparsable tags are LTR.
func DirectionOf(lang string) Direction {
	tag, err := language.Parse(lang)
	if err != nil {
		return LTR
	}
	script, confidence := tag.Script()
	if confidence == language.No {
		return LTR
	}
	if rtlScripts[script.String()] {
		return RTL
	}
	return LTR
}

// Manager holds the active locale. HandleRTL applies the direction of the
// active locale and reports changes to the registered callback.
type Manager struct {
	mu        sync.RWMutex
	locale    string
	direction Direction
	onChange  func(locale string, direction Direction)
}

// Option customises a Manager.
type Option func(m *Manager)

// WithDirectionListener is invoked whenever HandleRTL changes the direction.
func WithDirectionListener(fn func(locale string, direction Direction)) Option {
	return func(m *Manager) { m.onChange = fn }
}

// New creates a manager starting at initial.
func New(initial string, opts ...Option) *Manager {
	ret := &Manager{locale: initial, direction: DirectionOf(initial)}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// SetLocale activates lang and returns the event recording it in the store.
func (m *Manager) SetLocale(lang string) *event.Event[any] {
	m.mu.Lock()
	m.locale = lang
	m.mu.Unlock()
	return action.SetLocale(lang)
}

// HandleRTL recomputes the text direction for the active locale.
func (m *Manager) HandleRTL() {
	m.mu.Lock()
	direction := DirectionOf(m.locale)
	changed := direction != m.direction
	m.direction = direction
	locale, onChange := m.locale, m.onChange
	m.mu.Unlock()
	if changed && onChange != nil {
		onChange(locale, direction)
	}
}

// Locale returns the active locale.
func (m *Manager) Locale() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locale
}

// Direction returns the direction applied by the last HandleRTL.
func (m *Manager) Direction() Direction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.direction
}
