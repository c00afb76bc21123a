// Package listkey enforces list and leaf-list invariants: key completeness,
// key tuple uniqueness among sibling instances, max-elements and leaf-list
// value uniqueness.
package listkey

import (
	"strings"

	"github.com/reoring/datatree/internal/fault"
)

// CheckKeyCount verifies that a positional key set matches the declared key count.
func CheckKeyCount(list string, expected, actual int) error {
	if actual == expected {
		return nil
	}
	code := fault.CodeTooFewKeys
	if actual > expected {
		code = fault.CodeTooManyKeys
	}
	return fault.New(code, map[string]string{
		"list":     list,
		"expected": fault.Count(expected),
		"actual":   fault.Count(actual),
	})
}

// Tuple is the ordered set of key values of one list instance.
type Tuple []string

func (t Tuple) id() string { return strings.Join(t, "\x00") }

// CollectKeys builds the key tuple of an instance in declared key order.
// lookup returns the value of a key leaf present in the instance.
func CollectKeys(list string, keys []string, lookup func(name string) (string, bool)) (Tuple, error) {
	tuple := make(Tuple, 0, len(keys))
	for _, k := range keys {
		v, ok := lookup(k)
		if !ok {
			return nil, fault.New(fault.CodeMissingKeys, map[string]string{"list": list})
		}
		tuple = append(tuple, v)
	}
	return tuple, nil
}

// Siblings tracks the instances of one list under one parent.
type Siblings struct {
	list   string
	max    uint64
	count  int
	tuples map[string]struct{}
}

// NewSiblings starts tracking list instances bounded by max (0 = unbounded).
func NewSiblings(list string, max uint64) *Siblings {
	return &Siblings{list: list, max: max, tuples: make(map[string]struct{})}
}

// AddInstance accounts for one more instance and enforces max-elements.
func (s *Siblings) AddInstance() error {
	if s.max > 0 && uint64(s.count+1) > s.max {
		return fault.New(fault.CodeTooManyInstances, map[string]string{
			"list": s.list,
			"max":  fault.Count(s.max),
		})
	}
	s.count++
	return nil
}

// AddKey registers the key tuple of an instance; a tuple already seen among
// the siblings is rejected. Instances of keyless lists are never compared.
func (s *Siblings) AddKey(t Tuple) error {
	if len(t) == 0 {
		return nil
	}
	id := t.id()
	if _, dup := s.tuples[id]; dup {
		return fault.New(fault.CodeKeyNotUnique, map[string]string{"list": s.list})
	}
	s.tuples[id] = struct{}{}
	return nil
}

// Count returns the number of instances accounted for.
func (s *Siblings) Count() int { return s.count }

// ValueSet tracks the values of one leaf-list.
type ValueSet struct {
	leafList string
	max      uint64
	values   map[string]struct{}
}

// NewValueSet starts tracking the values of leafList bounded by max (0 = unbounded).
func NewValueSet(leafList string, max uint64) *ValueSet {
	return &ValueSet{leafList: leafList, max: max, values: make(map[string]struct{})}
}

// Add registers value. Duplicates and values beyond max-elements are rejected.
func (v *ValueSet) Add(value string) error {
	if _, dup := v.values[value]; dup {
		return fault.New(fault.CodeDuplicateValue, map[string]string{
			"leaflist": v.leafList,
			"value":    `"` + value + `"`,
		})
	}
	if v.max > 0 && uint64(len(v.values)+1) > v.max {
		return fault.New(fault.CodeTooManyInstances, map[string]string{
			"list": v.leafList,
			"max":  fault.Count(v.max),
		})
	}
	v.values[value] = struct{}{}
	return nil
}

// Len returns the number of distinct values.
func (v *ValueSet) Len() int { return len(v.values) }
