package interpreter

import "sort"

// Store is the variable store of one run: a single flat namespace. Entries
// are created by assignment and never removed.
type Store struct {
	vars map[string]int32
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{vars: make(map[string]int32)}
}

// Get returns the value bound to name.
func (s *Store) Get(name string) (int32, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set binds name to v, replacing any earlier value.
func (s *Store) Set(name string, v int32) {
	s.vars[name] = v
}

// Len returns the number of bound variables.
func (s *Store) Len() int { return len(s.vars) }

// Var is one store entry.
type Var struct {
	Name  string `json:"name" yaml:"name"`
	Value int32  `json:"value" yaml:"value"`
}

// Snapshot returns the store contents sorted by name.
func (s *Store) Snapshot() []Var {
	out := make([]Var, 0, len(s.vars))
	for name, v := range s.vars {
		out = append(out, Var{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
