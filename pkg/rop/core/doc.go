// Package core carries evaluation options through context.Context: the
// structured logger and the node observer. The interpreter and behaviors read
// them from the ambient context so that a plan never captures configuration.
package core
