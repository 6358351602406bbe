package plan

import "fmt"

// Kind is the category of a node.
type Kind int

const (
	KindSucceed Kind = iota
	KindFail
	KindCreate
	KindTransform
	KindSequence
	KindValidate
	KindRecover
	KindOnSuccess
	KindOnFailure
	KindAll
	KindAny
	KindResource
)

var kindNames = [...]string{
	KindSucceed:   "succeed",
	KindFail:      "fail",
	KindCreate:    "create",
	KindTransform: "transform",
	KindSequence:  "sequence",
	KindValidate:  "validate",
	KindRecover:   "recover",
	KindOnSuccess: "on_success",
	KindOnFailure: "on_failure",
	KindAll:       "all",
	KindAny:       "any",
	KindResource:  "resource",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Inspectable is the type-erased view of a node. It exposes the static shape
// of a plan without invoking any callable. Nodes produced at run time by
// Sequence, Recover and Resource callables are not part of that shape.
type Inspectable interface {
	Kind() Kind
	Children() []Inspectable
}

// Walk visits root and its static descendants depth-first, parents before
// children. Returning false from fn skips the node's children.
func Walk(root Inspectable, fn func(node Inspectable, depth int) bool) {
	walk(root, 0, fn)
}

func walk(node Inspectable, depth int, fn func(node Inspectable, depth int) bool) {
	if node == nil || !fn(node, depth) {
		return
	}
	for _, child := range node.Children() {
		walk(child, depth+1, fn)
	}
}
