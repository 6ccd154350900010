// Package completion holds the session-local module completion overlay. It is
// owned by a viewing context and never written to the catalog store.
package completion

// Overlay maps module IDs to a session-local completion flag.
type Overlay map[string]bool

// NewOverlay returns an overlay with every module ID mapped to false.
func NewOverlay(moduleIDs []string) Overlay {
	o := make(Overlay, len(moduleIDs))
	for _, id := range moduleIDs {
		o[id] = false
	}
	return o
}

// Toggle flips the flag for moduleID and returns the new value. Unknown IDs
// are not rejected; they start from false and become true.
func (o Overlay) Toggle(moduleID string) bool {
	o[moduleID] = !o[moduleID]
	return o[moduleID]
}

// Reset overwrites the overlay so it holds exactly the given module IDs, all false.
// POST: prior toggles are discarded
func (o Overlay) Reset(moduleIDs []string) {
	for id := range o {
		delete(o, id)
	}
	for _, id := range moduleIDs {
		o[id] = false
	}
}

// IsComplete reports the session-local flag for moduleID.
func (o Overlay) IsComplete(moduleID string) bool {
	return o[moduleID]
}

// Clone returns an independent copy, safe to hand to renderers.
func (o Overlay) Clone() Overlay {
	out := make(Overlay, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
