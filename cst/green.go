package cst

// GreenNode and GreenToken form the immutable, structurally-shared tree
// ("green" tree in rowan terminology): plain data owned by no particular
// position in the file, safe to share across multiple red trees or threads.
// This mirrors original_source/crates/fsh-lint-core's rowan::GreenNode
// usage, expressed directly in Go since no rowan-equivalent crate exists
// in the retrieved corpus — a from-scratch green/red tree is the idiomatic
// Go rendering of spec.md §3.2's structural-sharing requirement.
type GreenToken struct {
	Kind Kind
	Text string
}

func (t *GreenToken) Len() int { return len(t.Text) }

// GreenElement is either a *GreenNode or a *GreenToken.
type GreenElement struct {
	Node  *GreenNode
	Token *GreenToken
}

func (e GreenElement) Len() int {
	if e.Node != nil {
		return e.Node.Len()
	}
	return e.Token.Len()
}

func (e GreenElement) Kind() Kind {
	if e.Node != nil {
		return e.Node.Kind
	}
	return e.Token.Kind
}

// GreenNode is an immutable inner tree node. Its length is cached so that
// red wrappers can compute absolute offsets in O(children) per level
// without re-walking subtrees.
type GreenNode struct {
	Kind     Kind
	Children []GreenElement
	length   int
}

// NewGreenNode builds a GreenNode and caches its total byte length.
func NewGreenNode(kind Kind, children []GreenElement) *GreenNode {
	n := &GreenNode{Kind: kind, Children: children}
	for _, c := range children {
		n.length += c.Len()
	}
	return n
}

func (n *GreenNode) Len() int { return n.length }

// Text reconstructs the exact source bytes covered by n, verbatim — the
// round-trip invariant of spec.md §3.4.
func (n *GreenNode) Text() string {
	var b []byte
	n.appendText(&b)
	return string(b)
}

func (n *GreenNode) appendText(b *[]byte) {
	for _, c := range n.Children {
		if c.Token != nil {
			*b = append(*b, c.Token.Text...)
		} else {
			c.Node.appendText(b)
		}
	}
}
