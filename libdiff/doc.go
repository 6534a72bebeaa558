// Package libdiff computes edit scripts between sequences of distinct
// identities, such as the instance keys of a user-ordered list.
//
// # Usage
//
//	edits := libdiff.Sequence([]string{"a", "b", "c"}, []string{"b", "c", "a"})
//	moved := libdiff.Moved(edits, from, to) // {"a": true}
//
// The diff itself is computed by diffmatchpatch over runes standing for the
// identities.
package libdiff
