// Package schema describes the external data model that constrains a data tree.
//
// A Descriptor captures everything the Work Bench needs to know about one schema
// node: its kind, its built-in type and facets when it is a leaf, its ordered key
// leaves and max-elements when it is a list, the module that owns it and, for
// nodes contributed through an augment, the schema path of the augment target.
//
// Descriptors are served by an Oracle. Registry is the in-memory Oracle shipped
// with this package; sub-package yamlschema fills a Registry from YAML files.
//
// Typical usage:
//
//	reg := schema.NewRegistry()
//	reg.AddModule(schema.NewModule("food", "ydt.food",
//		schema.NewContainer("food",
//			schema.NewLeaf("chocolate", schema.String()),
//		),
//	))
//	if err := reg.Compile(); err != nil {
//		return err
//	}
package schema
