package convert

import (
	"fmt"

	"github.com/Faultbox/saio/pkg/math"
	"github.com/Faultbox/saio/pkg/scene"
)

// FlatNode is one node of a flat hierarchy. Parents precede their children;
// ParentIndex is -1 for roots.
type FlatNode struct {
	Label       string               `yaml:"label"`
	WorldMatrix math.Mat4            `yaml:"world_matrix,flow"`
	ParentIndex int                  `yaml:"parent_index"`
	Attributes  scene.NodeAttributes `yaml:"attributes"`
}

// Reconstruct builds a node tree from a flat hierarchy. The returned slice
// has the same length and order as nodes. Roots are returned as siblings in
// the forest.
func Reconstruct(nodes []FlatNode) ([]*scene.Node, scene.Forest, error) {
	if len(nodes) == 0 {
		return nil, scene.Forest{}, ErrNoNodes
	}

	out := make([]*scene.Node, len(nodes))
	var forest scene.Forest

	for i, fn := range nodes {
		p := fn.ParentIndex
		if p < -1 || p >= i {
			return nil, scene.Forest{}, fmt.Errorf("node %d (%s) has parent %d: %w", i, fn.Label, p, ErrParentOrder)
		}

		local := fn.WorldMatrix
		if p >= 0 {
			inv, ok := nodes[p].WorldMatrix.Inverse()
			if !ok {
				return nil, scene.Forest{}, fmt.Errorf("parent %d of node %d: %w", p, i, math.ErrDegenerateMatrix)
			}
			local = inv.Mul(fn.WorldMatrix)
		}

		node, err := PlaceNode(fn.Label, local, fn.Attributes)
		if err != nil {
			return nil, scene.Forest{}, fmt.Errorf("node %d: %w", i, err)
		}

		if p >= 0 {
			out[p].AppendChild(node)
		} else {
			forest.Roots = append(forest.Roots, node)
		}
		out[i] = node
	}

	return out, forest, nil
}

// PlaceNode creates a childless node whose transform is the decomposition of
// m. The euler order follows the RotateZYX flag in attrs.
func PlaceNode(label string, m math.Mat4, attrs scene.NodeAttributes) (*scene.Node, error) {
	node := scene.NewNode(label)
	node.Attributes = attrs

	position, rotation, scale, err := math.DecomposeEuler(m, node.RotationOrder())
	if err != nil {
		return nil, fmt.Errorf("decomposing %q: %w", label, err)
	}
	node.UpdateTransforms(position, rotation, scale)
	return node, nil
}

// Flatten is the inverse of Reconstruct: it lists the forest depth-first
// with world matrices and parent indices.
func Flatten(forest scene.Forest) []FlatNode {
	var out []FlatNode
	for _, root := range forest.Roots {
		out = flatten(out, root, -1, math.Identity())
	}
	return out
}

func flatten(out []FlatNode, n *scene.Node, parent int, parentWorld math.Mat4) []FlatNode {
	world := parentWorld.Mul(n.LocalMatrix())
	index := len(out)
	out = append(out, FlatNode{
		Label:       n.Label,
		WorldMatrix: world,
		ParentIndex: parent,
		Attributes:  n.Attributes,
	})
	for _, c := range n.Children {
		out = flatten(out, c, index, world)
	}
	return out
}
