package errorlist

// NewSince returns the records whose identity key is absent from baseline,
// preserving the input order. Records are compared by Key only, so a row that
// merely moved to a different position is not reported again.
func NewSince(current []Record, baseline map[Key]struct{}) []Record {
	var fresh []Record
	for _, r := range current {
		if _, seen := baseline[r.Key()]; !seen {
			fresh = append(fresh, r)
		}
	}
	return fresh
}
