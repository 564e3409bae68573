package aggregate

// OrderedMap is a map that remembers first-insertion order. The bucket
// stores are built on it so that revenue ties in the product ranking
// resolve deterministically to the first-seen product, independent of
// Go's randomized map iteration.
//
// A single pipeline run owns each instance exclusively, so no locking
// is required.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		values: make(map[K]V),
	}
}

// Get retrieves a value by key.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	val, ok := m.values[key]
	return val, ok
}

// Set adds or updates a key-value pair. A new key is appended to the
// iteration order; updating an existing key keeps its position.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// GetOrCreate returns the value for key, inserting the result of
// create() first if the key is absent. Bucket creation is explicit at
// first write; there is no default-construction-on-read.
func (m *OrderedMap[K, V]) GetOrCreate(key K, create func() V) V {
	if val, ok := m.values[key]; ok {
		return val
	}
	val := create()
	m.keys = append(m.keys, key)
	m.values[key] = val
	return val
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.values)
}

// Keys returns the keys in first-insertion order. The returned slice
// is shared; callers must not mutate it.
func (m *OrderedMap[K, V]) Keys() []K {
	return m.keys
}

// Range calls fn for each entry in first-insertion order.
func (m *OrderedMap[K, V]) Range(fn func(key K, value V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}
