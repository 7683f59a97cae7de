package jsonmodels

// Presence records how a stored property got its value.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// DefaultOnly reports whether the value was materialized by a default alone.
func (p Presence) DefaultOnly() bool {
	return p&PresenceDefaultApplied != 0 && p&PresenceSeen == 0 && p&PresenceWasNull == 0
}

// PresenceMap maps property names of one instance to their flags.
type PresenceMap map[string]Presence

// preserving returns a shallow copy of values without the default-only
// entries. Explicit nulls are kept.
func preserving(values map[string]any, pm PresenceMap) map[string]any {
	if values == nil {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		if pm[k].DefaultOnly() {
			continue
		}
		out[k] = v
	}
	return out
}
