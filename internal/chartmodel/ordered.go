package chartmodel

import "sort"

// TimeMap is an ordered map keyed by ScoreTime, used for every "ordered
// time -> value" aggregate in spec.md §3 (BPM changes, stops, scroll/speed
// changes, BGA layer changes, judge/option/text/volume events). Notes are
// kept in a plain slice instead, since several may share one time.
// Keys are kept sorted; at most one entry exists per key, mirroring the
// spec's invariant that duplication is resolved before insertion.
type TimeMap[V any] struct {
	keys   []ScoreTime
	values map[ScoreTime]V
}

func NewTimeMap[V any]() *TimeMap[V] {
	return &TimeMap[V]{values: make(map[ScoreTime]V)}
}

// Get returns the value at t and whether it exists.
func (m *TimeMap[V]) Get(t ScoreTime) (V, bool) {
	v, ok := m.values[t]
	return v, ok
}

// Set inserts or overwrites the value at t, keeping keys sorted.
func (m *TimeMap[V]) Set(t ScoreTime, v V) {
	if _, exists := m.values[t]; !exists {
		i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i].Compare(t) >= 0 })
		m.keys = append(m.keys, ScoreTime{})
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = t
	}
	m.values[t] = v
}

// Delete removes the entry at t, if any.
func (m *TimeMap[V]) Delete(t ScoreTime) {
	if _, exists := m.values[t]; !exists {
		return
	}
	delete(m.values, t)
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i].Compare(t) >= 0 })
	if i < len(m.keys) && m.keys[i] == t {
		m.keys = append(m.keys[:i], m.keys[i+1:]...)
	}
}

// Len returns the number of entries.
func (m *TimeMap[V]) Len() int { return len(m.keys) }

// Each calls fn for every entry in ascending key order.
func (m *TimeMap[V]) Each(fn func(t ScoreTime, v V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Keys returns the sorted keys.
func (m *TimeMap[V]) Keys() []ScoreTime {
	out := make([]ScoreTime, len(m.keys))
	copy(out, m.keys)
	return out
}

// IDMap is an insertion-ordered id -> value map (def tables: WAV paths, BPM
// defs, etc.) Order matters for unparse (spec.md §4.8: "definitions emit
// before messages", in original definition order).
type IDMap[V any] struct {
	order  []ObjectID
	values map[ObjectID]V
}

func NewIDMap[V any]() *IDMap[V] {
	return &IDMap[V]{values: make(map[ObjectID]V)}
}

func (m *IDMap[V]) Get(id ObjectID) (V, bool) {
	v, ok := m.values[id]
	return v, ok
}

func (m *IDMap[V]) Set(id ObjectID, v V) {
	if _, exists := m.values[id]; !exists {
		m.order = append(m.order, id)
	}
	m.values[id] = v
}

func (m *IDMap[V]) Has(id ObjectID) bool {
	_, ok := m.values[id]
	return ok
}

func (m *IDMap[V]) Len() int { return len(m.order) }

func (m *IDMap[V]) Each(fn func(id ObjectID, v V)) {
	for _, id := range m.order {
		fn(id, m.values[id])
	}
}

func (m *IDMap[V]) Ids() []ObjectID {
	out := make([]ObjectID, len(m.order))
	copy(out, m.order)
	return out
}
