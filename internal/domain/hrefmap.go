package domain

import (
	"encoding/json"
	"fmt"
)

// HrefMap is the insertion-ordered mapping from rel=me href to its
// discovery record. It serializes as an ordered list of [key, record]
// pairs so that insertion order survives a persist/load round trip.
//
// HrefMap is not safe for concurrent use on its own; the store accessor
// serializes all access to the shared instance. Mutators receive a
// snapshot and must Clone before modifying.
type HrefMap struct {
	keys  []string
	items map[string]HrefData
}

// NewHrefMap returns an empty mapping.
func NewHrefMap() *HrefMap {
	return &HrefMap{items: make(map[string]HrefData)}
}

// Get returns the record for href, if present.
func (m *HrefMap) Get(href string) (HrefData, bool) {
	data, ok := m.items[href]
	return data, ok
}

// Has reports whether href is present.
func (m *HrefMap) Has(href string) bool {
	_, ok := m.items[href]
	return ok
}

// Set inserts or replaces the record for data.RelMeHref. A new key is
// appended to the iteration order; an existing key keeps its position.
func (m *HrefMap) Set(data HrefData) {
	if _, ok := m.items[data.RelMeHref]; !ok {
		m.keys = append(m.keys, data.RelMeHref)
	}
	m.items[data.RelMeHref] = data
}

// Delete removes href from the mapping. No-op when absent.
func (m *HrefMap) Delete(href string) {
	if _, ok := m.items[href]; !ok {
		return
	}
	delete(m.items, href)
	for i, key := range m.keys {
		if key == href {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of records.
func (m *HrefMap) Len() int {
	return len(m.items)
}

// Values returns all records in insertion order.
func (m *HrefMap) Values() []HrefData {
	values := make([]HrefData, 0, len(m.keys))
	for _, key := range m.keys {
		values = append(values, m.items[key])
	}
	return values
}

// Clone returns an independent copy. Records are value types, so a shallow
// copy of the map is a full copy.
func (m *HrefMap) Clone() *HrefMap {
	clone := &HrefMap{
		keys:  make([]string, len(m.keys)),
		items: make(map[string]HrefData, len(m.items)),
	}
	copy(clone.keys, m.keys)
	for key, value := range m.items {
		clone.items[key] = value
	}
	return clone
}

// MarshalJSON encodes the mapping as [["href", {record}], ...].
func (m *HrefMap) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, 0, len(m.keys))
	for _, key := range m.keys {
		record := m.items[key]
		pairs = append(pairs, [2]any{key, record})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON rebuilds the mapping from the pair-list form. Later pairs
// with a duplicate key replace earlier ones, keeping the first position.
func (m *HrefMap) UnmarshalJSON(data []byte) error {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("href store pair list: %w", err)
	}

	m.keys = m.keys[:0]
	m.items = make(map[string]HrefData, len(pairs))
	for _, pair := range pairs {
		var key string
		if err := json.Unmarshal(pair[0], &key); err != nil {
			return fmt.Errorf("href store pair key: %w", err)
		}
		var record HrefData
		if err := json.Unmarshal(pair[1], &record); err != nil {
			return fmt.Errorf("href store record for %q: %w", key, err)
		}
		// The key column is authoritative even if the embedded record
		// disagrees.
		record.RelMeHref = key
		m.Set(record)
	}
	return nil
}
