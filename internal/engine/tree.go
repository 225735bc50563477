package engine

// TreeNode is a reset node placed in the tree.
type TreeNode struct {
	ID    string
	Color string
	// Reset is the state this node wipes; nil nodes only take part in
	// propagation.
	Reset      *Reset
	Visibility Condition
	// Glow returns a highlight colour, "" for none.
	Glow func() string
}

func (n *TreeNode) Visible() bool { return n.Visibility.holds() }

func (n *TreeNode) GlowColor() string {
	if n.Glow == nil {
		return ""
	}
	return n.Glow()
}

// Branch is a directed edge between two nodes. Only Propagate edges carry
// resets.
type Branch struct {
	From      *TreeNode
	To        *TreeNode
	Propagate bool
}

// Propagation resets the nodes reachable from the resetting node and returns
// them in the order they were reset.
type Propagation func(t *Tree, from *TreeNode) []*TreeNode

type TreeConfig struct {
	Nodes       [][]*TreeNode
	Branches    func() []Branch
	Propagation Propagation
	// OnReset runs after propagation with the node that started the reset.
	OnReset func(resetting *TreeNode)
}

// Tree arranges reset nodes and cascades resets along branches.
type Tree struct {
	cfg       TreeConfig
	resetting *TreeNode
	hooks     []func(*TreeNode)
}

func NewTree(cfg TreeConfig) *Tree {
	return &Tree{cfg: cfg}
}

func (t *Tree) Nodes() [][]*TreeNode { return t.cfg.Nodes }

func (t *Tree) Branches() []Branch {
	if t.cfg.Branches == nil {
		return nil
	}
	return t.cfg.Branches()
}

// ResettingNode is the node whose reset is in progress, nil otherwise.
func (t *Tree) ResettingNode() *TreeNode { return t.resetting }

// OnReset registers a listener notified after every tree reset.
func (t *Tree) OnReset(fn func(resetting *TreeNode)) {
	t.hooks = append(t.hooks, fn)
}

// Reset cascades a reset started by node: the propagation policy resets the
// reachable nodes, then the tree's own hook and listeners run. node's own
// state is left alone; callers wipe it through node.Reset when they mean to.
func (t *Tree) Reset(node *TreeNode) []*TreeNode {
	t.resetting = node
	defer func() { t.resetting = nil }()

	var visited []*TreeNode
	if t.cfg.Propagation != nil {
		visited = t.cfg.Propagation(t, node)
	}
	if t.cfg.OnReset != nil {
		t.cfg.OnReset(node)
	}
	for _, fn := range t.hooks {
		fn(node)
	}
	return visited
}

// BranchedPropagation resets every node reachable from the resetting node over
// Propagate branches, depth first, each node at most once per call. The
// resetting node counts as visited, so cycles back to it are ignored.
func BranchedPropagation(t *Tree, from *TreeNode) []*TreeNode {
	branches := t.Branches()
	if len(branches) == 0 {
		return nil
	}
	seen := map[*TreeNode]bool{from: true}
	var order []*TreeNode
	var visit func(n *TreeNode)
	visit = func(n *TreeNode) {
		for _, b := range branches {
			if b.From != n || !b.Propagate || b.To == nil || seen[b.To] {
				continue
			}
			seen[b.To] = true
			if b.To.Reset != nil {
				b.To.Reset.Reset()
			}
			order = append(order, b.To)
			visit(b.To)
		}
	}
	visit(from)
	return order
}
