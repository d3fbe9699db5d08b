package utils

// ----------------------------------------------------------------------------
// Ordered Map

// A Go built-in map does not guarantee iteration order, which means that lowering
// the same Program twice could emit label declarations (randomized by a monotonic
// counter that advances with every if/while lowered) in a different order on
// each run. OrderedMap keeps insertion order stable across the whole lifetime of the
// structure so that, given identical input, two runs always visit entries the same
// way and so produce byte-identical output (see the determinism contract, spec.md §5).
type OrderedMap[K comparable, V any] struct {
	index   map[K]int
	entries []MapEntry[K, V]
}

// A single key/value pair as stored by OrderedMap, exposed so callers can build
// or inspect the backing slice directly (e.g. before sorting it into a desired order).
type MapEntry[K comparable, V any] struct {
	Key   K
	Value V
}

// Initializes and returns to the caller a brand new, empty 'OrderedMap'.
func NewOrderedMap[K comparable, V any]() OrderedMap[K, V] {
	return OrderedMap[K, V]{index: map[K]int{}}
}

// Initializes an 'OrderedMap' from a slice of entries, preserving the slice's order.
// Used when the insertion order has to be computed ahead of time (e.g. sorted by key).
func NewOrderedMapFromList[K comparable, V any](entries []MapEntry[K, V]) OrderedMap[K, V] {
	om := NewOrderedMap[K, V]()
	for _, entry := range entries {
		om.Set(entry.Key, entry.Value)
	}
	return om
}

// Inserts or updates the value associated with 'key'. Updating an existing key keeps
// its original position in the iteration order (only the value changes).
func (om *OrderedMap[K, V]) Set(key K, value V) {
	if om.index == nil {
		om.index = map[K]int{}
	}

	if idx, found := om.index[key]; found {
		om.entries[idx].Value = value
		return
	}

	om.index[key] = len(om.entries)
	om.entries = append(om.entries, MapEntry[K, V]{Key: key, Value: value})
}

// Looks up the value associated with 'key', the second return value mirrors the
// 'comma ok' idiom used by the built-in map type.
func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	if idx, found := om.index[key]; found {
		return om.entries[idx].Value, true
	}
	var zero V
	return zero, false
}

// Returns the number of entries currently stored.
func (om *OrderedMap[K, V]) Size() int { return len(om.entries) }

// Returns the values in insertion order as a freshly built slice, so ranging over
// or modifying it does not affect the map's internal state.
func (om *OrderedMap[K, V]) Entries() []V {
	values := make([]V, len(om.entries))
	for i, entry := range om.entries {
		values[i] = entry.Value
	}
	return values
}

// Returns the keys in insertion order.
func (om *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(om.entries))
	for i, entry := range om.entries {
		keys[i] = entry.Key
	}
	return keys
}
