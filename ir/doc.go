// Package ir provides the schema-less intermediate representation exchanged
// between the serialization codecs and the data tree.
//
// # Overview
//
// The parse package decodes JSON (RFC 7951) or XML instance data into a list
// of top-level ir.Node elements, and the encode package writes such a list
// back out.  Neither step knows about YANG schemas: deciding whether an
// element is a container, a list entry or a leaf, and checking values is the
// job of the data package, which binds ir nodes to schema nodes.
//
// # Node Structure
//
// A Node is either an object with Children, or a scalar carrying its text in
// String.  Module holds the module name qualifying a JSON member (or the
// module resolved from an XML namespace), Namespace holds the XML namespace.
// Both are empty when inherited from the parent, see EffectiveModule and
// EffectiveNamespace.
//
// JSON arrays are flattened: every array member becomes a sibling with the
// same name and Array set.  The encoder regroups consecutive Array siblings
// of the same name.
//
// Metadata annotations (RFC 7952) are kept in Attrs.
package ir
