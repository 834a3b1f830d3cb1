package mesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tiendc/go-deepcopy"
)

// BufferMode controls how an attach is unbuffered back into a weighted mesh.
type BufferMode uint8

const (
	// BufferNone returns the attach geometry as stored.
	BufferNone BufferMode = iota
	// BufferOptimize merges duplicate vertices while unbuffering.
	BufferOptimize
)

// maxTexcoordPrecision caps the GC texcoord precision level.
const maxTexcoordPrecision = 7

// Codec converts weighted meshes to attaches and back.
type Codec struct{}

// Encode converts m into a new attach of the given family. The attach owns a
// deep copy of the mesh data. With optimize set, duplicate vertices are merged.
func (Codec) Encode(m *Weighted, family Family, optimize bool) (*Attach, error) {
	if !family.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFamily, family)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	a := NewAttach(family, m.Label)
	if err := deepcopy.Copy(&a.Vertices, m.Vertices); err != nil {
		return nil, fmt.Errorf("copying vertices of %q: %w", m.Label, err)
	}
	if err := deepcopy.Copy(&a.TriangleSets, m.TriangleSets); err != nil {
		return nil, fmt.Errorf("copying corners of %q: %w", m.Label, err)
	}
	a.Materials = append([]Material(nil), m.Materials...)
	a.WriteSpecular = m.WriteSpecular
	a.TexcoordPrecision = m.TexcoordPrecision
	a.HasVertexColors = m.HasVertexColors || m.ForceVertexColors

	if family.KeepsWeights() {
		a.Weighted = m.IsWeighted()
	} else {
		for i := range a.Vertices {
			a.Vertices[i].Weights = nil
		}
	}

	if !a.HasVertexColors && family != FamilyBuffer {
		for _, set := range a.TriangleSets {
			for i := range set {
				set[i].Color = White
			}
		}
	}

	if !a.WriteSpecular && family != FamilyBuffer {
		for i := range a.Materials {
			a.Materials[i].Specular = [4]uint8{}
			a.Materials[i].SpecularExponent = 0
		}
	}

	if family == FamilyGC {
		quantizeTexcoords(a.TriangleSets, a.TexcoordPrecision)
	}

	if optimize {
		a.Vertices, a.TriangleSets = mergeVertices(a.Vertices, a.TriangleSets)
	}

	return a, nil
}

// Decode converts an attach back into a weighted mesh. RootNodeIndex is left
// at -1; the caller knows which node the attach hangs from.
func (Codec) Decode(a *Attach, mode BufferMode) (*Weighted, error) {
	m := &Weighted{
		Label:             a.Label,
		RootNodeIndex:     -1,
		HasVertexColors:   a.HasVertexColors,
		WriteSpecular:     a.WriteSpecular,
		TexcoordPrecision: a.TexcoordPrecision,
		Materials:         append([]Material(nil), a.Materials...),
	}
	if err := deepcopy.Copy(&m.Vertices, a.Vertices); err != nil {
		return nil, fmt.Errorf("copying vertices of %q: %w", a.Label, err)
	}
	if err := deepcopy.Copy(&m.TriangleSets, a.TriangleSets); err != nil {
		return nil, fmt.Errorf("copying corners of %q: %w", a.Label, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if mode == BufferOptimize {
		m.Vertices, m.TriangleSets = mergeVertices(m.Vertices, m.TriangleSets)
	}

	return m, nil
}

func quantizeTexcoords(sets [][]Corner, precision uint8) {
	if precision > maxTexcoordPrecision {
		precision = maxTexcoordPrecision
	}
	scale := float64(uint32(1) << (8 + uint32(precision)))
	for _, set := range sets {
		for i := range set {
			for j := 0; j < 2; j++ {
				set[i].UV[j] = float32(math.Round(float64(set[i].UV[j])*scale) / scale)
			}
		}
	}
}

// vertexKey identifies a vertex by value. Weights are packed into a string
// since slices are not comparable.
type vertexKey struct {
	geometry [6]float32
	weights  string
}

func keyOf(v Vertex) vertexKey {
	k := vertexKey{geometry: [6]float32{
		v.Position.X, v.Position.Y, v.Position.Z,
		v.Normal.X, v.Normal.Y, v.Normal.Z,
	}}
	if len(v.Weights) > 0 {
		buf := make([]byte, 0, len(v.Weights)*12)
		for _, w := range v.Weights {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(w.Node)))
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(w.Weight))
		}
		k.weights = string(buf)
	}
	return k
}

// mergeVertices drops vertices that are exact duplicates and remaps corners.
func mergeVertices(vertices []Vertex, sets [][]Corner) ([]Vertex, [][]Corner) {
	seen := make(map[vertexKey]uint16, len(vertices))
	remap := make([]uint16, len(vertices))
	merged := make([]Vertex, 0, len(vertices))

	for i, v := range vertices {
		key := keyOf(v)
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		idx := uint16(len(merged))
		seen[key] = idx
		remap[i] = idx
		merged = append(merged, v)
	}

	for _, set := range sets {
		for i := range set {
			set[i].Vertex = remap[set[i].Vertex]
		}
	}
	return merged, sets
}
