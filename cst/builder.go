package cst

// Builder accumulates (open node | token | close node) events and produces
// an immutable GreenNode tree, per spec.md §4.2: "a builder which records
// (open node | token | close node) events." This is the Go analogue of
// rowan::GreenNodeBuilder used throughout original_source's parser.
type Builder struct {
	stack [][]GreenElement
}

// NewBuilder returns a Builder ready to accept events for a single tree.
func NewBuilder() *Builder {
	return &Builder{stack: make([][]GreenElement, 0, 16)}
}

// StartNode opens a new inner node; subsequent Token/StartNode calls add
// children to it until the matching FinishNode.
func (b *Builder) StartNode() {
	b.stack = append(b.stack, nil)
}

// Token appends a leaf token to the currently open node.
func (b *Builder) Token(kind Kind, text string) {
	top := len(b.stack) - 1
	b.stack[top] = append(b.stack[top], GreenElement{Token: &GreenToken{Kind: kind, Text: text}})
}

// FinishNode closes the most recently opened node, tagging it with kind,
// and attaches it as a child of its (now current) parent.
func (b *Builder) FinishNode(kind Kind) {
	top := len(b.stack) - 1
	children := b.stack[top]
	b.stack = b.stack[:top]
	node := NewGreenNode(kind, children)
	if len(b.stack) == 0 {
		// Root: push back so Finish() can retrieve it.
		b.stack = append(b.stack, []GreenElement{{Node: node}})
		return
	}
	parent := len(b.stack) - 1
	b.stack[parent] = append(b.stack[parent], GreenElement{Node: node})
}

// Checkpoint marks a position in the currently open node's children so a
// caller can later wrap everything emitted since the checkpoint into a new
// node (used by the parser to retroactively wrap a prefix, e.g. turning a
// sequence of already-emitted tokens into an Error node during recovery).
type Checkpoint struct {
	depth int
	index int
}

func (b *Builder) Checkpoint() Checkpoint {
	top := len(b.stack) - 1
	return Checkpoint{depth: top, index: len(b.stack[top])}
}

// StartNodeAt opens a new node whose children are the elements emitted
// since cp, removing them from the current node and re-parenting them
// under the new node once FinishNode is called.
func (b *Builder) StartNodeAt(cp Checkpoint) {
	top := cp.depth
	tail := append([]GreenElement{}, b.stack[top][cp.index:]...)
	b.stack[top] = b.stack[top][:cp.index]
	b.stack = append(b.stack, tail)
}

// Finish closes the builder and returns the completed green root. The
// builder must have exactly one completed top-level node.
func (b *Builder) Finish() *GreenNode {
	if len(b.stack) != 1 || len(b.stack[0]) != 1 || b.stack[0][0].Node == nil {
		panic("cst.Builder: Finish called with unbalanced node stack")
	}
	return b.stack[0][0].Node
}
