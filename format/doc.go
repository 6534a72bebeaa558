// Package format identifies the serialization formats understood by the
// parse and encode packages.
//
// # Usage
//
//	f, err := format.ParseFormat("json")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(f.Suffix()) // .json
//
// # Related Packages
//
//   - github.com/signadot/ydata/parse - decode text to IR
//   - github.com/signadot/ydata/encode - encode IR to text
package format
