package domain

// Item is an opaque handle to one value held by a grid. Bookkeeping compares
// handles, so value-equal entries stay individually trackable.
type Item uint64

// Arena owns the values behind item handles.
type Arena[T any] struct {
	values map[Item]T
	next   Item
}

// NewArena constructs an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{values: map[Item]T{}}
}

// Add stores v and returns a fresh handle for it.
func (a *Arena[T]) Add(v T) Item {
	a.next++
	a.values[a.next] = v
	return a.next
}

// AddAll stores every value in order.
func (a *Arena[T]) AddAll(values []T) []Item {
	out := make([]Item, 0, len(values))
	for _, v := range values {
		out = append(out, a.Add(v))
	}
	return out
}

// Get returns the value behind item.
func (a *Arena[T]) Get(item Item) (T, bool) {
	v, ok := a.values[item]
	return v, ok
}

// Set replaces the value behind an existing item.
func (a *Arena[T]) Set(item Item, v T) bool {
	if _, ok := a.values[item]; !ok {
		return false
	}
	a.values[item] = v
	return true
}

// Len reports how many values the arena holds.
func (a *Arena[T]) Len() int {
	return len(a.values)
}
