package convert

import (
	"fmt"

	"github.com/Faultbox/saio/pkg/math"
	"github.com/Faultbox/saio/pkg/mesh"
)

// countingCodec records how often each mesh label is encoded per family.
type countingCodec struct {
	mesh.Codec
	calls map[string]int
}

func newCountingCodec() *countingCodec {
	return &countingCodec{calls: make(map[string]int)}
}

func (c *countingCodec) Encode(m *mesh.Weighted, family mesh.Family, optimize bool) (*mesh.Attach, error) {
	c.calls[fmt.Sprintf("%s/%s", family, m.Label)]++
	return c.Codec.Encode(m, family, optimize)
}

func triangle(label string, root int) *mesh.Weighted {
	return &mesh.Weighted{
		Label: label,
		Vertices: []mesh.Vertex{
			{Position: math.Vec3{X: 0}, Normal: math.Vec3{Y: 1}, Weights: []mesh.Weight{{Node: root, Weight: 1}}},
			{Position: math.Vec3{X: 1}, Normal: math.Vec3{Y: 1}, Weights: []mesh.Weight{{Node: root, Weight: 1}}},
			{Position: math.Vec3{Z: 1}, Normal: math.Vec3{Y: 1}, Weights: []mesh.Weight{{Node: root, Weight: 1}}},
		},
		TriangleSets: [][]mesh.Corner{{
			{Vertex: 0, Color: [4]uint8{10, 20, 30, 40}},
			{Vertex: 1, UV: [2]float32{1, 0}, Color: [4]uint8{10, 20, 30, 40}},
			{Vertex: 2, UV: [2]float32{0, 1}, Color: [4]uint8{10, 20, 30, 40}},
		}},
		Materials:       []mesh.Material{{Diffuse: mesh.White}},
		RootNodeIndex:   root,
		HasVertexColors: true,
	}
}

func translation(x, y, z float32) math.Mat4 {
	return math.Translate(x, y, z)
}

func transform(pos, euler, scale math.Vec3) math.Mat4 {
	return math.Compose(pos, euler, scale, math.OrderXYZ)
}
