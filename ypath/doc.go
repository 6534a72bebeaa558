// Package ypath parses the path expressions used to query and create YANG
// instance data.
//
// The dialect is the JSON flavour of the libyang data path: every step is a
// node identifier, optionally qualified by the name of its module, followed
// by predicates.
//
//	/ietf-interfaces:interfaces/interface[name='eth0']/mtu
//	/mod:list[k1='a'][k2="b"]/value
//	/mod:leaf-list[.='v']
//	/mod:cont/*
//	//mod:leaf
//	../sibling
//
// Unqualified steps inherit the module of the previous step.  Predicates are
// either equality tests on a child ([name='v']), on the node value ([.='v'])
// or 1-based positions ([2]).
//
// Parse does not check paths against a schema; that is done by the data
// package when a path is evaluated.
package ypath
