// Package mesh holds the weighted mesh exchanged with content tools and the
// encoded attach objects stored in level and model containers.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/saio/pkg/math"
)

// Mesh errors.
var (
	ErrUnknownFamily   = errors.New("unknown attach encoding family")
	ErrInvalidCorner   = errors.New("corner references a missing vertex")
	ErrInvalidSets     = errors.New("triangle set count does not match material count")
	ErrTooManyVertices = errors.New("mesh has more vertices than corners can address")
	ErrTooManyWeights  = errors.New("vertex has too many weights")
)

// Corner vertex indices are 16 bit and weight counts are stored in one byte.
const (
	MaxVertices = 1 << 16
	MaxWeights  = 255
)

// Weight binds a vertex to a node index with a blend factor.
type Weight struct {
	Node   int     `yaml:"node"`
	Weight float32 `yaml:"weight"`
}

// Vertex is a mesh vertex with optional skin weights.
type Vertex struct {
	Position math.Vec3 `yaml:"position"`
	Normal   math.Vec3 `yaml:"normal"`
	Weights  []Weight  `yaml:"weights,omitempty"`
}

// Corner is one triangle corner.
type Corner struct {
	Vertex uint16     `yaml:"vertex"`
	UV     [2]float32 `yaml:"uv,flow"`
	Color  [4]uint8   `yaml:"color,flow"` // RGBA
}

// Material describes how one triangle set is rendered.
type Material struct {
	Diffuse          [4]uint8 `yaml:"diffuse,flow"`
	Specular         [4]uint8 `yaml:"specular,flow"`
	Ambient          [4]uint8 `yaml:"ambient,flow"`
	SpecularExponent float32  `yaml:"specular_exponent"`
	TextureIndex     uint32   `yaml:"texture_index"`
	Attributes       uint32   `yaml:"attributes"`
	UseAlpha         bool     `yaml:"use_alpha"`
	Culling          bool     `yaml:"culling"`
}

// White is the neutral vertex color.
var White = [4]uint8{255, 255, 255, 255}

// Weighted is the flat, tool-side mesh: weighted vertices, one triangle set
// per material and the encoding hints used when it is converted to an attach.
type Weighted struct {
	Label             string     `yaml:"label"`
	Vertices          []Vertex   `yaml:"vertices"`
	TriangleSets      [][]Corner `yaml:"triangle_sets"`
	Materials         []Material `yaml:"materials"`
	RootNodeIndex     int        `yaml:"root_node_index"`
	HasVertexColors   bool       `yaml:"has_vertex_colors"`
	ForceVertexColors bool       `yaml:"force_vertex_colors"`
	WriteSpecular     bool       `yaml:"write_specular"`
	TexcoordPrecision uint8      `yaml:"texcoord_precision"`
}

// Validate checks the vertex and weight limits, that every corner references
// an existing vertex and that each triangle set has a material.
func (m *Weighted) Validate() error {
	if len(m.Vertices) > MaxVertices {
		return fmt.Errorf("mesh %q: %w (%d > %d)", m.Label, ErrTooManyVertices, len(m.Vertices), MaxVertices)
	}
	for i, v := range m.Vertices {
		if len(v.Weights) > MaxWeights {
			return fmt.Errorf("mesh %q vertex %d: %w (%d > %d)", m.Label, i, ErrTooManyWeights, len(v.Weights), MaxWeights)
		}
	}
	if len(m.TriangleSets) != len(m.Materials) {
		return fmt.Errorf("mesh %q: %w (%d sets, %d materials)",
			m.Label, ErrInvalidSets, len(m.TriangleSets), len(m.Materials))
	}
	for s, set := range m.TriangleSets {
		if len(set)%3 != 0 {
			return fmt.Errorf("mesh %q set %d: corner count %d is not a multiple of 3", m.Label, s, len(set))
		}
		for c, corner := range set {
			if int(corner.Vertex) >= len(m.Vertices) {
				return fmt.Errorf("mesh %q set %d corner %d: %w (%d >= %d)",
					m.Label, s, c, ErrInvalidCorner, corner.Vertex, len(m.Vertices))
			}
		}
	}
	return nil
}

// IsWeighted reports whether any vertex is influenced by a node other than
// the mesh root or by more than one node.
func (m *Weighted) IsWeighted() bool {
	for _, v := range m.Vertices {
		if len(v.Weights) > 1 {
			return true
		}
		if len(v.Weights) == 1 && v.Weights[0].Node != m.RootNodeIndex {
			return true
		}
	}
	return false
}

// TriangleCount returns the number of triangles across all sets.
func (m *Weighted) TriangleCount() int {
	n := 0
	for _, set := range m.TriangleSets {
		n += len(set) / 3
	}
	return n
}

// FlipColorChannels swaps red with green and blue with alpha on every corner.
// Some tools hand vertex colors over in that byte order.
func (m *Weighted) FlipColorChannels() {
	for _, set := range m.TriangleSets {
		for i := range set {
			c := set[i].Color
			set[i].Color = [4]uint8{c[1], c[0], c[3], c[2]}
		}
	}
}

// MergeAtRoots combines meshes that share a root node into one mesh per root,
// in order of first appearance. It fails if a merged mesh would need more
// vertices than corners can address.
func MergeAtRoots(meshes []*Weighted) ([]*Weighted, error) {
	var result []*Weighted
	byRoot := make(map[int]*Weighted)

	for _, m := range meshes {
		target, ok := byRoot[m.RootNodeIndex]
		if !ok {
			clone := *m
			clone.Vertices = append([]Vertex(nil), m.Vertices...)
			clone.TriangleSets = append([][]Corner(nil), m.TriangleSets...)
			clone.Materials = append([]Material(nil), m.Materials...)
			byRoot[m.RootNodeIndex] = &clone
			result = append(result, &clone)
			continue
		}

		if len(target.Vertices)+len(m.Vertices) > MaxVertices {
			return nil, fmt.Errorf("merging %q into %q at root %d: %w (%d + %d > %d)",
				m.Label, target.Label, m.RootNodeIndex, ErrTooManyVertices,
				len(target.Vertices), len(m.Vertices), MaxVertices)
		}
		offset := uint16(len(target.Vertices))
		target.Vertices = append(target.Vertices, m.Vertices...)
		for _, set := range m.TriangleSets {
			shifted := make([]Corner, len(set))
			for i, c := range set {
				c.Vertex += offset
				shifted[i] = c
			}
			target.TriangleSets = append(target.TriangleSets, shifted)
		}
		target.Materials = append(target.Materials, m.Materials...)
		target.HasVertexColors = target.HasVertexColors || m.HasVertexColors
		target.ForceVertexColors = target.ForceVertexColors || m.ForceVertexColors
	}

	return result, nil
}
