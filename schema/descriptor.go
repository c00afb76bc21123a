package schema

import "fmt"

// Kind is the statement kind of a schema node.
type Kind int

const (
	KindModule Kind = iota
	KindContainer
	KindList
	KindLeaf
	KindLeafList
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindContainer:
		return "container"
	case KindList:
		return "list"
	case KindLeaf:
		return "leaf"
	case KindLeafList:
		return "leaf-list"
	}
	return fmt.Sprintf("kind-%d", int(k))
}

// Descriptor is the immutable schema fact sheet of one node. Once the owning
// Registry is compiled, descriptors must not be modified.
type Descriptor struct {
	Name      string
	Namespace string
	Kind      Kind
	// Type is set for leaves and leaf-lists.
	Type *Type
	// Keys lists the key leaf names of a list in declaration order.
	Keys []string
	// MaxElements bounds the sibling instance count of a list or the value
	// count of a leaf-list. Zero means unbounded.
	MaxElements uint64
	// Module is the module that owns the node. For augment-contributed nodes
	// this is the augmenting module.
	Module string
	// AugmentTarget is the schema path the node was augmented into, empty for
	// nodes declared in place.
	AugmentTarget string
	// Path is the schema path, for example "/food:food/chocolate".
	Path string

	Parent   *Descriptor
	Children []*Descriptor
}

// IsAugmented reports whether the node was contributed by an augment.
func (d *Descriptor) IsAugmented() bool { return d.AugmentTarget != "" }

// IsKey reports whether name is one of the list's key leaves.
func (d *Descriptor) IsKey(name string) bool {
	for _, k := range d.Keys {
		if k == name {
			return true
		}
	}
	return false
}

// KeyLeaf returns the descriptor of the list key leaf name, matched in the list's own
// namespace.
func (d *Descriptor) KeyLeaf(name string) (*Descriptor, bool) {
	if !d.IsKey(name) {
		return nil, false
	}
	return d.Child(name, d.Namespace)
}

// Child finds a direct child by name. A non-empty namespace must match too.
// When several children share the name across namespaces and namespace is
// empty, the first declared wins.
func (d *Descriptor) Child(name, namespace string) (*Descriptor, bool) {
	for _, c := range d.Children {
		if c.Name != name {
			continue
		}
		if namespace == "" || c.Namespace == namespace {
			return c, true
		}
	}
	return nil, false
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s %s", d.Kind, d.Path)
}

// NewModule declares a module with its top-level nodes.
func NewModule(name, namespace string, children ...*Descriptor) *Descriptor {
	return &Descriptor{Name: name, Namespace: namespace, Kind: KindModule, Children: children}
}

// NewContainer declares a container.
func NewContainer(name string, children ...*Descriptor) *Descriptor {
	return &Descriptor{Name: name, Kind: KindContainer, Children: children}
}

// NewList declares a list keyed by keys. maxElements of zero is unbounded.
func NewList(name string, keys []string, maxElements uint64, children ...*Descriptor) *Descriptor {
	return &Descriptor{Name: name, Kind: KindList, Keys: keys, MaxElements: maxElements, Children: children}
}

// NewLeaf declares a leaf of type t.
func NewLeaf(name string, t *Type) *Descriptor {
	return &Descriptor{Name: name, Kind: KindLeaf, Type: t}
}

// NewLeafList declares a leaf-list of type t.
func NewLeafList(name string, t *Type, maxElements uint64) *Descriptor {
	return &Descriptor{Name: name, Kind: KindLeafList, Type: t, MaxElements: maxElements}
}
