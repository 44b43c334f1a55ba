package differ

// MergeOrder computes the unified row order for two path sequences: current
// order is kept, and previous-only paths are interleaved directly after the
// nearest preceding surviving sibling (stable by previous ordinal). renames
// maps a previous path to the current path it survives at; pass nil when no
// mapping overrides apply.
func MergeOrder(previousPaths, currentPaths []string, renames map[string]string) []string {
	currentSet := make(map[string]bool, len(currentPaths))
	for _, p := range currentPaths {
		currentSet[p] = true
	}

	// For each previous-only path, record the surviving previous path it
	// follows; the empty anchor collects paths removed before any survivor.
	removedAfter := make(map[string][]string)
	anchor := ""
	for _, p := range previousPaths {
		survivesAt := ""
		if currentSet[p] {
			survivesAt = p
		} else if mapped, ok := renames[p]; ok {
			survivesAt = mapped
		}
		if survivesAt != "" {
			anchor = survivesAt
			continue
		}
		removedAfter[anchor] = append(removedAfter[anchor], p)
	}

	out := make([]string, 0, len(currentPaths)+len(previousPaths))
	out = append(out, removedAfter[""]...)
	for _, p := range currentPaths {
		out = append(out, p)
		out = append(out, removedAfter[p]...)
	}
	return out
}

// ChangeSet accumulates per-profile diff results across a run, preserving
// the order profiles were diffed in.
type ChangeSet struct {
	order   []string
	results map[string]*Result
}

// NewChangeSet creates an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{results: make(map[string]*Result)}
}

// Add records one profile's diff result. Adding the same profile twice
// replaces the earlier result but keeps its encounter position.
func (cs *ChangeSet) Add(result *Result) {
	if result == nil {
		return
	}
	if _, seen := cs.results[result.ProfileID]; !seen {
		cs.order = append(cs.order, result.ProfileID)
	}
	cs.results[result.ProfileID] = result
}

// ProfileIDs returns the diffed profile IDs in encounter order.
func (cs *ChangeSet) ProfileIDs() []string {
	out := make([]string, len(cs.order))
	copy(out, cs.order)
	return out
}

// Get returns the result for one profile, if present.
func (cs *ChangeSet) Get(profileID string) (*Result, bool) {
	r, ok := cs.results[profileID]
	return r, ok
}

// Changes returns one profile's change records in merge order, or nil when
// the profile was not diffed or had no changes.
func (cs *ChangeSet) Changes(profileID string) []ChangeRecord {
	if r, ok := cs.results[profileID]; ok {
		return r.Changes
	}
	return nil
}

// Len returns the number of profiles in the set.
func (cs *ChangeSet) Len() int {
	return len(cs.order)
}

// TotalChanges returns the number of change records across all profiles.
func (cs *ChangeSet) TotalChanges() int {
	total := 0
	for _, r := range cs.results {
		total += len(r.Changes)
	}
	return total
}

// HasBreakingChanges returns true if any profile has a breaking change.
func (cs *ChangeSet) HasBreakingChanges() bool {
	for _, r := range cs.results {
		if r.HasBreakingChanges {
			return true
		}
	}
	return false
}
