package schema

import "errors"

// ErrNotFound is returned (wrapped) by an Oracle when a name cannot be resolved.
var ErrNotFound = errors.New("schema: node not found")

// Oracle resolves schema facts for the Work Bench. Implementations must be
// safe for concurrent use; caching is the implementation's concern. Resolve
// must return the same *Descriptor for the same schema node on every call.
type Oracle interface {
	// Resolve finds the child of parent named name. A nil parent resolves a
	// module. An empty namespace matches any namespace.
	Resolve(parent *Descriptor, name, namespace string) (*Descriptor, error)
	// ResolveAugmentingApp returns the application (module) identifier that
	// owns the node at schemaPath.
	ResolveAugmentingApp(schemaPath string) (string, error)
}

// NamespaceResolver is implemented by oracles that can map module names to
// namespaces. Document drivers use it for "module:name" member qualifiers.
type NamespaceResolver interface {
	NamespaceOf(module string) (string, bool)
}
