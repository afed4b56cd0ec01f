package annotate

// OrderedMap is a map that iterates in insertion order.
// Setting an existing key replaces its value and keeps its position.
// A nil *OrderedMap behaves as an empty, read-only map.
type OrderedMap[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

func NewOrderedMap[K comparable, V any](capacity int) *OrderedMap[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &OrderedMap[K, V]{keys: make([]K, 0, capacity), m: make(map[K]V, capacity)}
}

func (o *OrderedMap[K, V]) Set(k K, v V) {
	if _, ok := o.m[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.m[k] = v
}

func (o *OrderedMap[K, V]) Get(k K) (V, bool) {
	if o == nil {
		var zero V
		return zero, false
	}
	v, ok := o.m[k]
	return v, ok
}

func (o *OrderedMap[K, V]) Has(k K) bool {
	_, ok := o.Get(k)
	return ok
}

func (o *OrderedMap[K, V]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *OrderedMap[K, V]) Keys() []K {
	if o == nil {
		return nil
	}
	return append([]K(nil), o.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (o *OrderedMap[K, V]) Range(fn func(K, V) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.m[k]) {
			return
		}
	}
}
