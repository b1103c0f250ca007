// Package slots keeps the in-memory slot table, tracks the active slot and
// writes every change through to the persistence store.
package slots

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	// MinSlot is the first addressable slot
	MinSlot = 1
	// MaxSlot is the last addressable slot
	MaxSlot = 100
	// TotalSlots is the number of slots in a store
	TotalSlots = MaxSlot - MinSlot + 1
)

// Persister loads and saves the full slot mapping. Load never fails; Read
// reports why a document could not be used.
type Persister interface {
	Load() map[string]string
	Read() (map[string]string, error)
	Save(slots map[string]string) error
}

// Manager mediates between the UI and the persistence store.
// It is not safe for concurrent use; callers drive it from one goroutine.
type Manager struct {
	store   Persister
	data    map[string]string
	current int
}

// New loads the stored slots and selects slot 1
func New(store Persister) *Manager {
	data := store.Load()
	if data == nil {
		data = map[string]string{}
	}
	return &Manager{
		store:   store,
		data:    data,
		current: MinSlot,
	}
}

// ValidSlot reports whether n is an addressable slot number
func ValidSlot(n int) bool {
	return n >= MinSlot && n <= MaxSlot
}

// ParseSlot converts user input to a slot number
func ParseSlot(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: not a number", raw)
	}
	if !ValidSlot(n) {
		return 0, fmt.Errorf("invalid slot %d: must be between %d and %d", n, MinSlot, MaxSlot)
	}
	return n, nil
}

func key(n int) string {
	return strconv.Itoa(n)
}

// Get returns the code stored in slot n, or "" if it was never written
func (m *Manager) Get(n int) string {
	return m.data[key(n)]
}

// Set replaces the code in slot n and saves the whole mapping.
// Setting an empty string clears the slot.
func (m *Manager) Set(n int, code string) error {
	if code == "" {
		delete(m.data, key(n))
	} else {
		m.data[key(n)] = code
	}

	if err := m.store.Save(m.data); err != nil {
		return fmt.Errorf("failed to save slot %d: %w", n, err)
	}
	return nil
}

// SelectSlot makes n the current slot and returns its code. Out of range
// numbers leave the current slot unchanged and report false.
func (m *Manager) SelectSlot(n int) (string, bool) {
	if !ValidSlot(n) {
		return "", false
	}
	m.current = n
	return m.Get(n), true
}

// SelectInput is SelectSlot for raw user input; non-numeric input is
// ignored the same way as out of range numbers.
func (m *Manager) SelectInput(raw string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return m.SelectSlot(n)
}

// Current returns the active slot number
func (m *Manager) Current() int {
	return m.current
}

// CurrentCode returns the code of the active slot
func (m *Manager) CurrentCode() string {
	return m.Get(m.current)
}

// SetCurrent stores code in the active slot
func (m *Manager) SetCurrent(code string) error {
	return m.Set(m.current, code)
}

// Reload replaces the slot table with the stored document and reports
// whether the current slot's code changed. When the document cannot be
// read the table is kept, so a torn or foreign write never wipes slots.
func (m *Manager) Reload() (bool, error) {
	data, err := m.store.Read()
	if err != nil {
		return false, err
	}
	if data == nil {
		data = map[string]string{}
	}

	before := m.CurrentCode()
	m.data = data
	return m.CurrentCode() != before, nil
}

// Populated returns the slot numbers holding code, in ascending order.
// Keys in the document outside the slot range are ignored.
func (m *Manager) Populated() []int {
	var nums []int
	for k, code := range m.data {
		if code == "" {
			continue
		}
		n, err := strconv.Atoi(k)
		if err != nil || !ValidSlot(n) {
			continue
		}
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}
