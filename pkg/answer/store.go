package answer

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Store maps question ids to answers. Mutating helpers return a new Store and
// never touch the receiver, so a Store can be shared between steps freely.
type Store struct {
	values map[string]Value
}

// NewStore seeds a store from the given values; zero values are skipped.
func NewStore(values map[string]Value) Store {
	out := Store{values: make(map[string]Value, len(values))}
	for id, v := range values {
		if id == "" || v.IsZero() {
			continue
		}
		out.values[id] = v
	}
	return out
}

// Get returns the answer recorded for id.
func (s Store) Get(id string) (Value, bool) {
	v, ok := s.values[id]
	return v, ok
}

// Lookup satisfies visibility lookups with raw payloads.
func (s Store) Lookup(id string) (any, bool) {
	v, ok := s.values[id]
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// With returns a copy of the store holding value under id.
func (s Store) With(id string, value Value) Store {
	out := Store{values: make(map[string]Value, len(s.values)+1)}
	for k, v := range s.values {
		out.values[k] = v
	}
	if !value.IsZero() {
		out.values[id] = value
	}
	return out
}

func (s Store) Len() int { return len(s.values) }

// IDs returns the answered question ids in lexical order.
func (s Store) IDs() []string {
	ids := make([]string, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Map flattens the store into plain string/bool payloads.
func (s Store) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for id, v := range s.values {
		out[id] = v.Interface()
	}
	return out
}

func (s Store) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.values)
}

func (s *Store) UnmarshalJSON(data []byte) error {
	var values map[string]Value
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("answer: decode store: %w", err)
	}
	*s = NewStore(values)
	return nil
}
