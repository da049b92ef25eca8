package document

// Node is a live graph node. Layout code mutates X, Y, FX, FY, VX, VY and
// IsLocked in place. A nil X or Y means the node has not been placed yet.
type Node struct {
	ID       string
	Label    string
	Color    *string
	IsLocked bool

	X, Y   *float64
	FX, FY *float64 // pinned position while locked
	VX, VY float64  // simulation velocity
}

// Link is a live edge. Source and Target are always members of the owning
// document's Nodes.
type Link struct {
	Source *Node
	Target *Node
	Stroke string
}

// Lock pins n at its current position.
func (n *Node) Lock() {
	n.IsLocked = true
	n.FX = copyFloat(n.X)
	n.FY = copyFloat(n.Y)
}

// Unlock releases a pinned node.
func (n *Node) Unlock() {
	n.IsLocked = false
	n.FX, n.FY = nil, nil
}

// MoveTo sets the node position. Locked nodes move their pin as well.
func (n *Node) MoveTo(x, y float64) {
	n.X, n.Y = &x, &y
	if n.IsLocked {
		n.FX, n.FY = copyFloat(n.X), copyFloat(n.Y)
	}
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
