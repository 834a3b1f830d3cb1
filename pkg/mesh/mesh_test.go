package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/saio/pkg/math"
)

// strip returns a mesh with n distinct vertices and one triangle using the
// last two of them.
func strip(label string, n int) *Weighted {
	m := &Weighted{Label: label, Materials: []Material{{Diffuse: White}}}
	m.Vertices = make([]Vertex, n)
	for i := range m.Vertices {
		m.Vertices[i].Position = math.Vec3{X: float32(i)}
	}
	m.TriangleSets = [][]Corner{{{Vertex: 0}, {Vertex: uint16(n - 2)}, {Vertex: uint16(n - 1)}}}
	return m
}

func TestIsWeighted(t *testing.T) {
	m := quad("q")
	assert.True(t, m.IsWeighted())

	m.Vertices[2].Weights = []Weight{{Node: 0, Weight: 1}}
	assert.False(t, m.IsWeighted())
}

func TestFlipColorChannels(t *testing.T) {
	m := quad("q")
	m.FlipColorChannels()
	assert.Equal(t, [4]uint8{2, 1, 4, 3}, m.TriangleSets[0][0].Color)
}

func TestMergeAtRoots(t *testing.T) {
	a := quad("a")
	b := quad("b")
	c := quad("c")
	c.RootNodeIndex = 3

	merged, err := MergeAtRoots([]*Weighted{a, b, c})
	require.NoError(t, err)
	require.Len(t, merged, 2)

	assert.Equal(t, "a", merged[0].Label)
	assert.Len(t, merged[0].Vertices, 10)
	assert.Len(t, merged[0].TriangleSets, 2)
	assert.Equal(t, uint16(5), merged[0].TriangleSets[1][0].Vertex)
	require.NoError(t, merged[0].Validate())

	assert.Len(t, a.Vertices, 5, "inputs must stay untouched")
	assert.Equal(t, 4, merged[0].TriangleCount())
}

func TestMergeAtRootsVertexLimit(t *testing.T) {
	merged, err := MergeAtRoots([]*Weighted{strip("a", 65000), strip("b", 536)})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Len(t, merged[0].Vertices, MaxVertices)
	assert.Equal(t, uint16(65535), merged[0].TriangleSets[1][2].Vertex)
	require.NoError(t, merged[0].Validate())

	_, err = MergeAtRoots([]*Weighted{strip("a", 65000), strip("b", 1000)})
	assert.ErrorIs(t, err, ErrTooManyVertices)

	other := strip("b", 1000)
	other.RootNodeIndex = 1
	merged, err = MergeAtRoots([]*Weighted{strip("a", 65000), other})
	require.NoError(t, err)
	assert.Len(t, merged, 2, "different roots are never merged")
}

func TestValidateLimits(t *testing.T) {
	m := strip("big", MaxVertices+1)
	assert.ErrorIs(t, m.Validate(), ErrTooManyVertices)

	m = quad("heavy")
	m.Vertices[1].Weights = make([]Weight, MaxWeights+1)
	assert.ErrorIs(t, m.Validate(), ErrTooManyWeights)

	m.Vertices[1].Weights = make([]Weight, MaxWeights)
	assert.NoError(t, m.Validate())
}
