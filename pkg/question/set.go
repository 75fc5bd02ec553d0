package question

// Set is the ordered Question Definition Set for one locale.
type Set []Question

// Index returns the position of id in the set, or -1.
func (s Set) Index(id string) int {
	for i, q := range s {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Lookup returns the question registered under id.
func (s Set) Lookup(id string) (Question, bool) {
	if idx := s.Index(id); idx >= 0 {
		return s[idx], true
	}
	return Question{}, false
}

// IDs lists question ids in order.
func (s Set) IDs() []string {
	out := make([]string, len(s))
	for i, q := range s {
		out[i] = q.ID
	}
	return out
}

// Clone deep-copies the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for i, q := range s {
		out[i] = q.Clone()
	}
	return out
}

// SameShape reports whether two sets share ids, types, order and conditions,
// ignoring localised text. Index based navigation relies on this.
func (s Set) SameShape(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		a, b := s[i], other[i]
		if a.ID != b.ID || a.Type != b.Type || a.IsWelcome != b.IsWelcome {
			return false
		}
		if (a.Conditional == nil) != (b.Conditional == nil) {
			return false
		}
		if a.Conditional != nil && *a.Conditional != *b.Conditional {
			return false
		}
	}
	return true
}

// Validate checks structural invariants. Conditions may only reference an
// earlier checkbox question; forward references are rejected.
func (s Set) Validate() error {
	const source = "question set"
	if len(s) == 0 {
		return Configf(source, "no questions defined")
	}

	seen := make(map[string]int, len(s))
	for i, q := range s {
		if q.ID == "" {
			return Configf(source, "question at index %d has an empty id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return Configf(source, "duplicate question id %q", q.ID)
		}
		if !q.Type.Valid() {
			return Configf(source, "question %q has unknown type %q", q.ID, q.Type)
		}
		if q.Type == TypeSelect && len(q.Options) == 0 {
			return Configf(source, "select question %q has no options", q.ID)
		}
		if cond := q.Conditional; cond != nil {
			parentIdx, ok := seen[cond.DependsOn]
			if !ok {
				if cond.DependsOn == q.ID {
					return Configf(source, "question %q depends on itself", q.ID)
				}
				if s.Index(cond.DependsOn) > i {
					return Configf(source, "question %q depends on later question %q", q.ID, cond.DependsOn)
				}
				return Configf(source, "question %q depends on unknown question %q", q.ID, cond.DependsOn)
			}
			if s[parentIdx].Type != TypeCheckbox {
				return Configf(source, "question %q depends on %q which is not a checkbox", q.ID, cond.DependsOn)
			}
		}
		seen[q.ID] = i
	}
	return nil
}
