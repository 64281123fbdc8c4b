package descriptor

import (
	"fmt"
	"sync"
)

// Library holds the full set of loaded CategoryDescriptions. It has two
// lifecycle phases: a single-threaded initialization phase, during which
// AddCategory may be called, and a read-only operating phase entered by the
// first call to Freeze (or implicitly the first time a Lookup happens after
// freezing). Once frozen it may be read from any number of goroutines
// concurrently without synchronization, matching spec.md §5's concurrency
// contract.
type Library struct {
	mu         sync.Mutex
	categories map[Category]*CategoryDescription
	frozen     bool
}

// NewLibrary creates an empty, unfrozen Library.
func NewLibrary() *Library {
	return &Library{categories: make(map[Category]*CategoryDescription)}
}

// AddCategory registers a category description. It is a programming error
// to call this after Freeze; doing so returns ErrAlreadyInitialized and
// leaves the library unmodified.
func (l *Library) AddCategory(cd *CategoryDescription) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.frozen {
		return fmt.Errorf("%w: cannot add %s after initialization", ErrAlreadyInitialized, cd.ID)
	}
	if !cd.ID.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, cd.ID)
	}
	if err := validateCategory(cd); err != nil {
		return fmt.Errorf("category %s: %w", cd.ID, err)
	}

	l.categories[cd.ID] = cd
	return nil
}

// Freeze ends the initialization phase. After Freeze, AddCategory fails and
// Lookup is safe to call concurrently without further synchronization.
func (l *Library) Freeze() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frozen = true
}

// Frozen reports whether the library has been frozen.
func (l *Library) Frozen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frozen
}

// Lookup returns the description for cat, if loaded.
func (l *Library) Lookup(cat Category) (*CategoryDescription, bool) {
	// Reads after Freeze never mutate l, so no lock is required for the
	// steady-state (frozen) path; but we still guard the rare case of a
	// Lookup racing a not-yet-frozen AddCategory in test code.
	l.mu.Lock()
	defer l.mu.Unlock()
	cd, ok := l.categories[cat]
	return cd, ok
}

// Categories returns the set of loaded category ids.
func (l *Library) Categories() []Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	cats := make([]Category, 0, len(l.categories))
	for c := range l.categories {
		cats = append(cats, c)
	}
	return cats
}

// validateCategory checks the structural invariants from spec.md §6.2:
// every UAP-referenced item id is defined (barring the reserved sentinels),
// there are no duplicate FRNs, and every FRN from 1 to the highest one has a
// slot.
func validateCategory(cd *CategoryDescription) error {
	if cd.UAP == nil {
		return fmt.Errorf("category has no UAP")
	}

	seenFRN := make(map[uint8]bool)
	for _, slot := range cd.UAP.Slots {
		if seenFRN[slot.FRN] {
			return fmt.Errorf("%w: %d", ErrDuplicateFRN, slot.FRN)
		}
		seenFRN[slot.FRN] = true

		switch slot.ItemID {
		case SlotUndefined, SlotRFS, SlotSPF:
			continue
		default:
			if _, ok := cd.Items[slot.ItemID]; !ok {
				return fmt.Errorf("%w: FRN %d -> %s", ErrUndefinedUAPItem, slot.FRN, slot.ItemID)
			}
		}
	}

	for frn := 1; frn <= int(cd.UAP.MaxFRN()); frn++ {
		if !seenFRN[uint8(frn)] {
			return fmt.Errorf("UAP has no slot for FRN %d", frn)
		}
	}

	return nil
}
