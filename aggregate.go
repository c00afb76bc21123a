package datatree

// opClass partitions elemental operations for aggregation.
type opClass uint8

const (
	classEdit opClass = iota
	classDelete
)

func classify(op OpType) opClass {
	if op.IsDelete() {
		return classDelete
	}
	return classEdit
}

// aggState is the set of operation classes seen so far in one group.
type aggState uint8

const (
	aggEmpty aggState = iota
	aggEdit
	aggDelete
	aggBoth
)

// aggTransitions[state][class] is the state after one more member joins.
var aggTransitions = [4][2]aggState{
	aggEmpty:  {classEdit: aggEdit, classDelete: aggDelete},
	aggEdit:   {classEdit: aggEdit, classDelete: aggBoth},
	aggDelete: {classEdit: aggBoth, classDelete: aggDelete},
	aggBoth:   {classEdit: aggBoth, classDelete: aggBoth},
}

var aggResults = [4]AppOpType{
	aggEmpty:  AppOpNone,
	aggEdit:   AppOpOtherEdit,
	aggDelete: AppOpDeleteOnly,
	aggBoth:   AppOpBoth,
}

func (s aggState) join(op OpType) aggState { return aggTransitions[s][classify(op)] }

func (s aggState) result() AppOpType { return aggResults[s] }
