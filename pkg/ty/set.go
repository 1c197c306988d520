package ty

// UniSet is a set of unique values.
type UniSet[T comparable] map[T]struct{}

// Add inserts values into the set.
func (s UniSet[T]) Add(values ...T) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

// Has reports whether the set contains v.
func (s UniSet[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members of the set in unspecified order.
func (s UniSet[T]) Values() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}
