package datatree

// Package datatree provides:
//
// - A Work Bench that builds a schema-validated data tree one navigation step at a time
// - A stable error model (Kind, code, data path, parameterized message)
// - An Application Tree grouping data nodes by owning module and augment target
// - Aggregate operations per group (NONE, OTHER_EDIT, DELETE_ONLY, BOTH)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Schema access goes through schema.Oracle; schema/yamlschema loads one from YAML.
// - Document drivers live under decode/, traversal under walk/ and the CLI under cmd/datatree.
//
// Typical usage:
//
//  b, err := datatree.NewWorkBench(oracle, "root", "food")
//  err = b.AddChild("food", "", datatree.OpMerge)
//  err = b.AddLeaf("chocolate", "", "dark")
//  err = b.TraverseToParent()
//  tree, apps, err := b.Finish()
//
//  tree, apps, err := decode.JSONBytes(ctx, oracle, "root", data)
//
