package facts

import "sort"

// Bag is an immutable collection of observed facts about a single target.
// Values are strings, float64 numbers, or booleans; an absent key means the
// fact was not observed. Bags are safe for concurrent reads.
type Bag struct {
	values map[string]any
}

// NewBag creates a bag from a map of observed values. The input map is
// copied, so later mutation of it does not affect the bag. Integer values
// are normalized to float64 so threshold predicates see one numeric type.
func NewBag(values map[string]any) *Bag {
	copied := make(map[string]any, len(values))
	for key, value := range values {
		copied[key] = normalize(value)
	}
	return &Bag{values: copied}
}

// normalize widens integer types to float64. Other values pass through.
func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}

// Has reports whether a fact with the given key was observed.
func (b *Bag) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// String returns the fact's string value. The second return is false if the
// fact is absent or not a string.
func (b *Bag) String(key string) (string, bool) {
	v, ok := b.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Number returns the fact's numeric value. The second return is false if the
// fact is absent or not numeric.
func (b *Bag) Number(key string) (float64, bool) {
	v, ok := b.values[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Bool returns the fact's boolean value. The second return is false if the
// fact is absent or not boolean.
func (b *Bag) Bool(key string) (bool, bool) {
	v, ok := b.values[key]
	if !ok {
		return false, false
	}
	t, ok := v.(bool)
	return t, ok
}

// Keys returns all observed fact keys in sorted order.
func (b *Bag) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for key := range b.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of observed facts.
func (b *Bag) Len() int {
	return len(b.values)
}
