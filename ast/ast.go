// Package ast implements the AST overlay: parent/operand pointers layered on a token list to
// express expression trees. The overlay is intrinsically cyclic (parent <-> child) and so must
// only be mutated through the guarded setters in this package -- never by poking token.Node's
// raw pointers directly from other packages.
package ast

import "go.uber.org/c2goflow/token"

// CycleError is returned when an operand assignment would introduce a cycle into the AST.
type CycleError struct {
	Parent, Child token.Node
}

func (e *CycleError) Error() string {
	return "ast: assigning operand would introduce a cycle in the expression tree"
}

// SetOperand1 sets parent's first AST child to child, detaching child from any prior parent and
// rejecting the assignment if it would form a cycle: a check walks the parent chain upward from
// the prospective new parent and rejects the assignment if child is encountered along the way.
// Passing a nil child clears the operand.
func SetOperand1(parent, child token.Node) error { return setOperand(parent, child, false) }

// SetOperand2 is the binary-operator counterpart of [SetOperand1].
func SetOperand2(parent, child token.Node) error { return setOperand(parent, child, true) }

func setOperand(parent, child token.Node, second bool) error {
	if !child.IsNil() {
		if wouldCycle(parent, child) {
			return &CycleError{Parent: parent, Child: child}
		}
		detachFromParent(child)
	}
	setChildSlot(parent, child, second)
	if !child.IsNil() {
		setParentField(child, parent)
	}
	return nil
}

// wouldCycle reports whether making child an operand of parent would create a cycle, i.e.
// whether parent is reachable from child by walking ast-parent pointers upward (which would mean
// child is already an ancestor of parent).
func wouldCycle(parent, child token.Node) bool {
	for cur := parent; !cur.IsNil(); cur = cur.AstParent() {
		if same(cur, child) {
			return true
		}
	}
	return false
}

// detachFromParent nulls child's prior parent's corresponding operand slot, then child's own
// parent pointer, so both sides of the old edge are consistent before the new edge is formed.
func detachFromParent(child token.Node) {
	oldParent := child.AstParent()
	if oldParent.IsNil() {
		return
	}
	if same(oldParent.AstOperand1(), child) {
		setChildSlot(oldParent, token.Node{}, false)
	}
	if same(oldParent.AstOperand2(), child) {
		setChildSlot(oldParent, token.Node{}, true)
	}
	setParentField(child, token.Node{})
}

// same reports whether a and b are both non-nil and refer to the same token. A nil Node's zero
// Index would otherwise collide with a real token at arena slot 0, so this must never compare
// raw indices without first checking IsNil on both sides.
func same(a, b token.Node) bool {
	return !a.IsNil() && !b.IsNil() && a.List() == b.List() && a.Index() == b.Index()
}

func setChildSlot(parent, child token.Node, second bool) {
	if second {
		parent.SetAstOperand2Raw(child)
	} else {
		parent.SetAstOperand1Raw(child)
	}
}

func setParentField(child, parent token.Node) { child.SetAstParentRaw(parent) }

// AstTop walks up from tok through AST parents to the expression root.
func AstTop(tok token.Node) token.Node {
	cur := tok
	for {
		p := cur.AstParent()
		if p.IsNil() {
			return cur
		}
		cur = p
	}
}

// FindExpressionStartEnd walks left down Operand1 for the start and right down Operand2 for the
// end, then skips balanced parentheses outward.
func FindExpressionStartEnd(top token.Node) (start, end token.Node) {
	start = top
	for o1 := start.AstOperand1(); !o1.IsNil(); o1 = start.AstOperand1() {
		start = o1
	}
	end = top
	for {
		if o2 := end.AstOperand2(); !o2.IsNil() {
			end = o2
			continue
		}
		// No second operand: if this node is a unary postfix operator (e.g. `x++`), its single
		// operand is still textually to the left of the operator, so it is not part of "the
		// end" of the expression; descending further would walk backwards. Stop here instead.
		break
	}

	for {
		prev := start.Prev()
		next := end.Next()
		if prev.IsNil() || next.IsNil() {
			break
		}
		if prev.Str() != "(" || next.Str() != ")" {
			break
		}
		if !prev.Link().IsNil() && prev.Link().Index() != next.Index() {
			break
		}
		start, end = prev, next
	}
	return start, end
}
