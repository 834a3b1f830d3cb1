// Package scene provides the hierarchical node tree and the flag sets
// attached to nodes and placed geometry.
package scene

import (
	"errors"

	"github.com/Faultbox/saio/pkg/math"
	"github.com/Faultbox/saio/pkg/mesh"
)

// Scene errors.
var (
	ErrEmptyForest   = errors.New("forest has no root nodes")
	ErrMultipleRoots = errors.New("forest has more than one root node")
)

// Node is a scene-graph node. A node exclusively owns its children.
type Node struct {
	Label      string         `yaml:"label"`
	Position   math.Vec3      `yaml:"position"`
	Rotation   math.Vec3      `yaml:"rotation"` // euler, radians
	Scale      math.Vec3      `yaml:"scale"`
	Attributes NodeAttributes `yaml:"attributes"`
	Attach     *mesh.Attach   `yaml:"-"`
	Children   []*Node        `yaml:"children,omitempty"`
}

// NewNode returns a node with unit scale.
func NewNode(label string) *Node {
	return &Node{Label: label, Scale: math.Vec3One}
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// RotationOrder returns the euler order selected by the RotateZYX flag.
func (n *Node) RotationOrder() math.RotationOrder {
	if n.Attributes.Has(NodeRotateZYX) {
		return math.OrderZYX
	}
	return math.OrderXYZ
}

// UpdateTransforms sets position, rotation and scale at once.
func (n *Node) UpdateTransforms(position, rotation, scale math.Vec3) {
	n.Position = position
	n.Rotation = rotation
	n.Scale = scale
}

// LocalMatrix composes the node transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale, n.RotationOrder())
}

// Walk visits n and its descendants depth-first, parents before children.
// parent is nil for n itself.
func (n *Node) Walk(fn func(node, parent *Node)) {
	n.walk(nil, fn)
}

func (n *Node) walk(parent *Node, fn func(node, parent *Node)) {
	fn(n, parent)
	for _, c := range n.Children {
		c.walk(n, fn)
	}
}

// WalkPostOrder visits descendants before n.
func (n *Node) WalkPostOrder(fn func(node *Node)) {
	for _, c := range n.Children {
		c.WalkPostOrder(fn)
	}
	fn(n)
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node, *Node) { total++ })
	return total
}

// InferredAttributes returns the flags that follow from the node state:
// zero position, zero rotation, unit scale, no attach and no children.
func (n *Node) InferredAttributes() NodeAttributes {
	var a NodeAttributes
	if n.Position == (math.Vec3{}) {
		a |= NodeNoPosition
	}
	if n.Rotation == (math.Vec3{}) {
		a |= NodeNoRotation
	}
	if n.Scale == math.Vec3One {
		a |= NodeNoScale
	}
	if n.Attach == nil {
		a |= NodeSkipDraw
	}
	if len(n.Children) == 0 {
		a |= NodeSkipChildren
	}
	return a
}

// AutoNodeAttributes applies the inferred flags to n. With override the
// inferable bits are replaced; otherwise missing ones are only added.
func (n *Node) AutoNodeAttributes(override bool) {
	inferred := n.InferredAttributes()
	if override {
		n.Attributes = n.Attributes&^nodeAutoMask | inferred
		return
	}
	n.Attributes |= inferred
}

// EnsurePositiveEulerAnglesTree maps every rotation in the subtree into
// [0, 2*pi), children first.
func (n *Node) EnsurePositiveEulerAnglesTree() {
	n.WalkPostOrder(func(node *Node) {
		node.Rotation = math.PositiveEuler(node.Rotation)
	})
}

// Forest is a list of sibling roots.
type Forest struct {
	Roots []*Node
}

// SingleRoot returns the only root, or ErrEmptyForest / ErrMultipleRoots.
func (f Forest) SingleRoot() (*Node, error) {
	switch len(f.Roots) {
	case 0:
		return nil, ErrEmptyForest
	case 1:
		return f.Roots[0], nil
	default:
		return nil, ErrMultipleRoots
	}
}

// Nodes returns every node of the forest depth-first, roots in order.
func (f Forest) Nodes() []*Node {
	var out []*Node
	for _, r := range f.Roots {
		r.Walk(func(n, _ *Node) { out = append(out, n) })
	}
	return out
}
