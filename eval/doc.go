// Package eval compiles and evaluates the conditions attached to schema
// nodes with "when".
//
// Conditions are expr-lang expressions yielding a boolean.  Paths inside a
// condition are resolved by the caller through a Resolver, relative to the
// context node, which is the data node carrying the condition:
//
//	exists("../enabled") && value("../type") == "ethernet"
//	count("../address") > 0
//	int(value("../mtu")) >= 1280
//	current() != "none"
//
// Functions:
//
//	value(path)   first value at path, "" when absent
//	values(path)  all values at path
//	exists(path)  whether path matches any node
//	count(path)   number of nodes matching path
//	current()     value of the context node, "" for non-terminals
package eval
