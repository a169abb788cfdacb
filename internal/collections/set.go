package collections

import "github.com/maxpoletaev/clientcast/internal/generic"

// Set is an unordered set of comparable values. It is not safe for concurrent use.
type Set[T comparable] map[T]struct{}

// Add adds the value to the set and reports whether it was not there before.
func (s Set[T]) Add(val T) bool {
	if _, ok := s[val]; ok {
		return false
	}

	s[val] = struct{}{}

	return true
}

// Remove removes the value from the set and reports whether it was there.
func (s Set[T]) Remove(val T) bool {
	if _, ok := s[val]; !ok {
		return false
	}

	delete(s, val)

	return true
}

func (s Set[T]) Values() []T {
	return generic.MapKeys(s)
}

func (s Set[T]) Has(val T) bool {
	_, ok := s[val]
	return ok
}

func New[T comparable](sl ...T) Set[T] {
	set := make(Set[T], len(sl))
	for _, val := range sl {
		set.Add(val)
	}

	return set
}
