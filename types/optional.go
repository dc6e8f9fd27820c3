// Package types holds small value types shared by the sequencer and recall
// layers.
package types

type (
	// OptionalInteger is an integer that may be absent. It is used for values
	// like choke groups, where "no group" is meaningful and distinct from
	// group 0.
	OptionalInteger struct {
		value  int
		exists bool
	}
)

func NewOptionalInteger(value int, exists bool) OptionalInteger {
	return OptionalInteger{value, exists}
}

func NewOptionalIntegerOf(value int) OptionalInteger {
	return OptionalInteger{value: value, exists: true}
}

func NewEmptyOptionalInteger() OptionalInteger {
	return OptionalInteger{}
}

func (i OptionalInteger) Unpack() (int, bool) {
	return i.value, i.exists
}

func (i OptionalInteger) Empty() bool {
	return !i.exists
}

func (i OptionalInteger) Equals(value int) bool {
	return i.exists && i.value == value
}
