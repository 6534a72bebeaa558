// Package data holds YANG instance data conforming to a schema.Context.
//
// # Trees
//
// A Tree owns every node of a data forest. Parse reads RFC 7951 JSON or
// RFC 7950 XML into a tree and, unless ParseOnly is given, validates it:
//
//	t, err := data.Parse(ctx, doc, format.JSONFormat, 0, 0)
//
// Validation adds the nodes implied by schema defaults, flagged as implicit
// defaults, and checks the schema constraints: mandatory nodes, element
// counts, choice exclusivity, duplicate entries, if-feature, when
// conditions and leafref targets. Any mutation clears the validated state.
//
// # References
//
// Nodes are reached through NodeRef values, which are small handles into
// the tree. A NodeRef obtained before a mutation is stale afterwards; its
// accessors then return zero values and Err reports ErrStaleReference.
//
// Siblings are kept in schema order, with list and leaf-list entries in
// insertion order among themselves, so printing a tree always gives the
// canonical layout.
//
// # Paths
//
// Find, FindSingle, NewPath and Remove take schema-node-id paths in the
// RFC 7951 style:
//
//	/ex:top/item[id='1']/label
//	/ex:top/item[2]
//	/ex:top/item/tags[.='x']
//	//label
//
// Key and value predicates are compared in canonical form, so
// [id='01'] matches the entry with id 1.
//
// # Diffs
//
// Diff computes the difference between two trees as a Diff, a tree whose
// nodes carry yang:operation annotations (create, delete, replace, none)
// together with the original values needed to reverse it. Entries of
// ordered-by user lists and leaf-lists carry yang:key or yang:value
// annotations naming their predecessor. DiffApply replays a diff onto a
// tree and Reverse inverts one. Diffs print and parse like any data tree.
//
// JSON Patch (RFC 6902) and JSON Merge Patch (RFC 7386) documents can be
// applied to the JSON rendering of a tree with ApplyJSONPatch and
// ApplyMergePatch.
//
// # Concurrency
//
// A Tree is not safe for concurrent mutation. Readers may share a tree as
// long as nothing mutates it. A schema.Context may be shared freely.
package data
