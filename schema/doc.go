// Package schema provides the schema context instance data is validated
// against.
//
// Modules are described in YAML:
//
//	module: ex
//	namespace: urn:example:ex
//	features: [fast]
//	nodes:
//	  - name: items
//	    kind: container
//	    children:
//	      - name: item
//	        kind: list
//	        key: name
//	        ordered-by: user
//	        children:
//	          - {name: name, kind: leaf, type: string}
//	          - {name: size, kind: leaf, type: uint16, range: "1..100", default: "10"}
//	  - name: mode
//	    kind: choice
//	    default: auto
//	    children:
//	      - {name: auto, kind: leaf, type: empty}
//	      - {name: manual, kind: leaf, type: string, if-feature: fast}
//	augments:
//	  - target: /other:top
//	    nodes:
//	      - {name: extra, kind: leaf, type: int32}
//
// Loaded modules are added to a Context, which resolves augments and leafref
// targets. A Context is read-only once loaded and may be shared by any
// number of data trees.
package schema
