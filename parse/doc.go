// Package parse decodes YANG instance data into IR nodes.
//
// # Usage
//
//	// RFC 7951 JSON
//	nodes, err := parse.Parse([]byte(`{"ex:top": {"name": "a"}}`), parse.ParseJSON())
//
//	// XML, one element per top-level node
//	nodes, err := parse.Parse([]byte(`<top xmlns="urn:ex"><name>a</name></top>`))
//
// The result has one node per top-level data node. JSON arrays are
// flattened into sibling nodes marked Array; JSON names carry the module
// qualifier, XML elements the namespace. Metadata is read from "@" members
// and from namespaced XML attributes.
//
// # Related Packages
//
//   - github.com/signadot/ydata/ir - IR representation
//   - github.com/signadot/ydata/encode - Encode IR to text
package parse
