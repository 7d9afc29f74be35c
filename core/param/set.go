package param

// Set is an unordered collection of parameters keyed by identity.
// Membership is by pointer, so two parameters sharing a name stay distinct.
type Set map[*Parameter]struct{}

// NewSet creates a Set containing the given parameters.
func NewSet(params ...*Parameter) Set {
	s := make(Set, len(params))
	for _, p := range params {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts a parameter into the set.
func (s Set) Add(p *Parameter) { s[p] = struct{}{} }

// Has reports whether p is a member of the set.
func (s Set) Has(p *Parameter) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Union returns a new set containing the members of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for p := range s {
		out[p] = struct{}{}
	}
	for p := range other {
		out[p] = struct{}{}
	}
	return out
}

// Floating returns the subset of floating parameters.
func (s Set) Floating() Set {
	out := make(Set)
	for p := range s {
		if p.Floating() {
			out[p] = struct{}{}
		}
	}
	return out
}

// List returns the members as a slice. The order is unspecified; callers
// needing a fixed gradient order must pass an explicit parameter list.
func (s Set) List() []*Parameter {
	out := make([]*Parameter, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}
