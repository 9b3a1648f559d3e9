package fiber

import (
	"reflect"
	"sort"

	"github.com/vango-dev/minifiber/pkg/element"
)

// AttrChange sets one plain attribute.
type AttrChange struct {
	Key   string
	Value any
}

// Binding is one event listener bound through an event key.
type Binding struct {
	Key   string // Attribute key, e.g. "onClick"
	Event string // Event name, e.g. "click"
	Fn    any
}

// AttrDelta is the host mutation set for one host fiber.
// Commit applies Unbind, Remove, Set, Bind in that order.
type AttrDelta struct {
	Remove []string
	Set    []AttrChange
	Unbind []Binding
	Bind   []Binding
}

// Len returns the number of host operations in the delta.
func (d *AttrDelta) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Remove) + len(d.Set) + len(d.Unbind) + len(d.Bind)
}

// Empty reports whether the delta has no operations.
func (d *AttrDelta) Empty() bool {
	return d.Len() == 0
}

// CreateDelta returns the delta for a freshly created host node: every
// attribute set, every listener bound.
func CreateDelta(attrs element.Attrs) *AttrDelta {
	return DiffAttrs(nil, attrs)
}

// DiffAttrs compares the attributes of two passes.
//
// Plain keys present before and absent now are removed; keys absent before or
// with a different value are set; unchanged keys are skipped. Event keys
// unbind the previous listener and bind the new one instead. Keys are
// visited in sorted order so the result is deterministic.
func DiffAttrs(prev, next element.Attrs) *AttrDelta {
	d := &AttrDelta{}

	for _, key := range sortedKeys(prev) {
		prevVal := prev[key]
		nextVal, exists := next[key]

		if element.IsEventKey(key) {
			if prevVal != nil && (!exists || !Same(prevVal, nextVal)) {
				d.Unbind = append(d.Unbind, Binding{Key: key, Event: element.EventName(key), Fn: prevVal})
			}
			continue
		}
		if !exists {
			d.Remove = append(d.Remove, key)
		}
	}

	for _, key := range sortedKeys(next) {
		nextVal := next[key]
		prevVal, exists := prev[key]
		if exists && Same(prevVal, nextVal) {
			continue
		}

		if element.IsEventKey(key) {
			if nextVal != nil {
				d.Bind = append(d.Bind, Binding{Key: key, Event: element.EventName(key), Fn: nextVal})
			}
			continue
		}
		d.Set = append(d.Set, AttrChange{Key: key, Value: nextVal})
	}

	return d
}

// Same reports whether two attribute values are shallowly equal.
//
// Comparable values compare with ==, so pointers compare by identity. Maps
// and slices are the same only when they share the backing store and
// length. Functions are never the same, so listeners are rebound on every
// update.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func:
		return false
	case reflect.Map, reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return false
}

func sortedKeys(attrs element.Attrs) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if k == element.ChildrenKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
