package datatree

import (
	"fmt"
	"strings"
)

// OpType is the edit operation carried by a data node.
type OpType int

const (
	// OpUnset asks the Work Bench to inherit the parent's operation.
	OpUnset OpType = iota
	OpMerge
	OpDelete
	OpReplace
	OpCreate
	OpRemove
	OpNone
)

var opNames = [...]string{
	OpUnset:   "unset",
	OpMerge:   "merge",
	OpDelete:  "delete",
	OpReplace: "replace",
	OpCreate:  "create",
	OpRemove:  "remove",
	OpNone:    "none",
}

func (o OpType) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op-%d", int(o))
}

// ParseOpType maps a protocol operation name ("merge", "DELETE", ...) to an OpType.
func ParseOpType(s string) (OpType, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for i, name := range opNames {
		if name == n && OpType(i) != OpUnset {
			return OpType(i), nil
		}
	}
	return OpUnset, fmt.Errorf("datatree: unknown operation %q", s)
}

// IsDelete reports whether o removes data (delete or remove).
func (o OpType) IsDelete() bool { return o == OpDelete || o == OpRemove }

// NodeKind is the cardinality class of a data node.
type NodeKind int

const (
	// SingleInstance is the logical root, a module or a container.
	SingleInstance NodeKind = iota
	// MultiInstance is one instance of a list.
	MultiInstance
	Leaf
	// LeafList holds every value of one leaf-list under its parent.
	LeafList
)

func (k NodeKind) String() string {
	switch k {
	case SingleInstance:
		return "single-instance"
	case MultiInstance:
		return "multi-instance"
	case Leaf:
		return "leaf"
	case LeafList:
		return "leaf-list"
	}
	return fmt.Sprintf("kind-%d", int(k))
}

// AppOpType is the aggregate operation of an Application-Tree node.
type AppOpType int

const (
	// AppOpNone is reported by the application root and by groups without members.
	AppOpNone AppOpType = iota
	AppOpOtherEdit
	AppOpDeleteOnly
	AppOpBoth
)

func (a AppOpType) String() string {
	switch a {
	case AppOpNone:
		return "NONE"
	case AppOpOtherEdit:
		return "OTHER_EDIT"
	case AppOpDeleteOnly:
		return "DELETE_ONLY"
	case AppOpBoth:
		return "BOTH"
	}
	return fmt.Sprintf("app-op-%d", int(a))
}
