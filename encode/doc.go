// Package encode encodes IR nodes as YANG instance data text.
//
// # Usage
//
//	// RFC 7951 JSON, indented
//	err := encode.Encode(nodes, os.Stdout, encode.EncodeFormat(format.JSONFormat))
//
//	// XML without indentation
//	err := encode.Encode(nodes, w, encode.EncodeShrink(true))
//
//	// terminal colors
//	err := encode.Encode(nodes, w, encode.EncodeColors(encode.NewColors()))
//
// JSON sibling nodes marked Array with the same qualified name are grouped
// into one array member; annotations become "@" members. XML annotations
// become namespaced attributes.
//
// # Related Packages
//
//   - github.com/signadot/ydata/ir - IR representation
//   - github.com/signadot/ydata/parse - Parse text to IR
package encode
