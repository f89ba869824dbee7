package cst

// Node is a "red" wrapper: a cheap, position-aware view over a shared
// GreenNode. Two Node values may point at the same GreenNode (structural
// sharing) while differing in Parent/Offset. Safe to share across threads
// once built, since the underlying green tree is immutable (spec.md §3.2).
type Node struct {
	green  *GreenNode
	parent *Node
	offset int
	// indexInParent is this node's index among its parent's GreenElement
	// children, used to locate siblings without rescanning from the start.
	indexInParent int
}

// Token is a red wrapper around a leaf GreenToken.
type Token struct {
	green  *GreenToken
	parent *Node
	offset int
	index  int
}

// NewRoot builds the red root wrapping a green tree built by a Builder.
func NewRoot(green *GreenNode) *Node {
	return &Node{green: green, parent: nil, offset: 0, indexInParent: -1}
}

func (n *Node) Kind() Kind      { return n.green.Kind }
func (n *Node) StartOffset() int { return n.offset }
func (n *Node) EndOffset() int   { return n.offset + n.green.Len() }
func (n *Node) Len() int         { return n.green.Len() }
func (n *Node) Text() string     { return n.green.Text() }
func (n *Node) Parent() *Node    { return n.parent }

// Range returns the [start,end) byte range as a pair, matching
// diagnostic.Location's Offset/Length fields.
func (n *Node) Range() (start, end int) { return n.offset, n.offset + n.green.Len() }

// Children yields the direct child nodes in source order, skipping tokens.
func (n *Node) Children() []*Node {
	var out []*Node
	off := n.offset
	for i, c := range n.green.Children {
		if c.Node != nil {
			out = append(out, &Node{green: c.Node, parent: n, offset: off, indexInParent: i})
		}
		off += c.Len()
	}
	return out
}

// Element is either a *Node or a *Token, mirroring GreenElement but with
// positions attached.
type Element struct {
	Node  *Node
	Token *Token
}

func (e Element) Kind() Kind {
	if e.Node != nil {
		return e.Node.Kind()
	}
	return e.Token.Kind()
}

func (e Element) Range() (int, int) {
	if e.Node != nil {
		return e.Node.Range()
	}
	return e.Token.Range()
}

func (e Element) Text() string {
	if e.Node != nil {
		return e.Node.Text()
	}
	return e.Token.Text()
}

// ChildrenWithTokens yields every direct child (node or token) in source
// order, covering the full range of n — the basis for the span-totality
// invariant (spec.md §3.4: sum(len(token_i)) == len(source)).
func (n *Node) ChildrenWithTokens() []Element {
	out := make([]Element, 0, len(n.green.Children))
	off := n.offset
	for i, c := range n.green.Children {
		if c.Node != nil {
			out = append(out, Element{Node: &Node{green: c.Node, parent: n, offset: off, indexInParent: i}})
		} else {
			out = append(out, Element{Token: &Token{green: c.Token, parent: n, offset: off, index: i}})
		}
		off += c.Len()
	}
	return out
}

// FirstChildOfKind returns the first direct child node of the given kind.
func (n *Node) FirstChildOfKind(kind Kind) *Node {
	for _, c := range n.Children() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns every direct child node of the given kind.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstTokenOfKind returns the first direct child token of the given kind.
func (n *Node) FirstTokenOfKind(kind Kind) *Token {
	for _, e := range n.ChildrenWithTokens() {
		if e.Token != nil && e.Token.Kind() == kind {
			return e.Token
		}
	}
	return nil
}

// NextSibling returns the following sibling node or token, whichever comes
// first in source order, or nil at the end of the parent's children.
func (n *Node) NextSibling() *Element {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.ChildrenWithTokens()
	if i := n.indexInParent; i >= 0 && i+1 < len(siblings) {
		next := siblings[i+1]
		return &next
	}
	return nil
}

// PrecedingSibling returns the preceding sibling node or token.
func (n *Node) PrecedingSibling() *Element {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.ChildrenWithTokens()
	if i := n.indexInParent; i > 0 && i <= len(siblings) {
		prev := siblings[i-1]
		return &prev
	}
	return nil
}

// Descendants walks n's subtree in preorder, including n itself.
func (n *Node) Descendants() []*Node {
	out := []*Node{n}
	for _, c := range n.Children() {
		out = append(out, c.Descendants()...)
	}
	return out
}

// Ancestors walks up from n (exclusive) to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

func (t *Token) Kind() Kind        { return t.green.Kind }
func (t *Token) Text() string      { return t.green.Text }
func (t *Token) StartOffset() int  { return t.offset }
func (t *Token) EndOffset() int    { return t.offset + t.green.Len() }
func (t *Token) Len() int          { return t.green.Len() }
func (t *Token) Range() (int, int) { return t.offset, t.offset + t.green.Len() }
func (t *Token) Parent() *Node     { return t.parent }
func (t *Token) IsTrivia() bool    { return t.green.Kind.IsTrivia() }
