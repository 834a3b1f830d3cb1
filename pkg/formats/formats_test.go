package formats

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/saio/pkg/math"
	"github.com/Faultbox/saio/pkg/mesh"
	"github.com/Faultbox/saio/pkg/scene"
)

func testAttach(label string) *mesh.Attach {
	a := mesh.NewAttach(mesh.FamilyBasic, label)
	a.HasVertexColors = true
	a.TexcoordPrecision = 3
	a.Vertices = []mesh.Vertex{
		{Position: math.Vec3{X: 1}, Normal: math.Vec3{Y: 1}},
		{Position: math.Vec3{Y: 2}, Normal: math.Vec3{Y: 1}, Weights: []mesh.Weight{{Node: 2, Weight: 0.5}}},
		{Position: math.Vec3{Z: 3}, Normal: math.Vec3{Y: 1}},
	}
	a.Materials = []mesh.Material{{
		Diffuse:          [4]uint8{1, 2, 3, 4},
		SpecularExponent: 11,
		TextureIndex:     7,
		UseAlpha:         true,
	}}
	a.TriangleSets = [][]mesh.Corner{{
		{Vertex: 0, UV: [2]float32{0.5, 0.25}, Color: [4]uint8{9, 8, 7, 6}},
		{Vertex: 1},
		{Vertex: 2},
	}}
	return a
}

func testLevel() *Level {
	shared := testAttach("shared")
	other := testAttach("other")

	first := NewLandEntry(shared, scene.SurfaceVisible|scene.SurfaceSolid)
	first.BlockBit = 4
	first.Model.Label = "first"
	first.Model.Position = math.Vec3{X: 10, Y: -2, Z: 3}
	first.Model.Rotation = math.Vec3{Y: 1.5}

	second := NewLandEntry(shared, scene.SurfaceSolid|scene.SurfaceWater)
	second.Model.Label = "second"

	third := NewLandEntry(other, scene.SurfaceVisible)

	motionRoot := scene.NewNode("door")
	motionRoot.AppendChild(&scene.Node{Label: "hinge", Scale: math.Vec3{X: 2, Y: 2, Z: 2}, Attach: shared})

	return &Level{
		MetaData: MetaData{Author: "ソニック", Description: "test stage"},
		LandTable: &LandTable{
			Label:           "landtable_stage",
			Format:          FormatSA2,
			DrawDistance:    3000,
			Attributes:      LandTableEnableMotion | LandTableLoadTexlist,
			TextureFileName: "STG01",
			TexListPtr:      0x1234,
			GeometryLabel:   "collist_stage",
			Geometry:        []*LandEntry{first, second, third},
			MotionsLabel:    "animlist_stage",
			Motions: []*GeometryMotion{{
				Label:    "door",
				Step:     0.5,
				MaxFrame: 60,
				Model:    motionRoot,
			}},
		},
	}
}

func TestLevelRoundTrip(t *testing.T) {
	fs := memfs.New()
	in := testLevel()

	require.NoError(t, WriteLevelFile(fs, "levels/stage.salvl", in))
	out, err := ReadLevelFile(fs, "levels/stage.salvl")
	require.NoError(t, err)

	assert.Equal(t, in.MetaData, out.MetaData)

	lt := out.LandTable
	assert.Equal(t, "landtable_stage", lt.Label)
	assert.Equal(t, FormatSA2, lt.Format)
	assert.Equal(t, float32(3000), lt.DrawDistance)
	assert.Equal(t, LandTableEnableMotion|LandTableLoadTexlist, lt.Attributes)
	assert.Equal(t, "STG01", lt.TextureFileName)
	assert.Equal(t, uint32(0x1234), lt.TexListPtr)
	assert.Equal(t, "collist_stage", lt.GeometryLabel)
	require.Len(t, lt.Geometry, 3)

	first := lt.Geometry[0]
	assert.Equal(t, uint32(4), first.BlockBit)
	assert.Equal(t, scene.SurfaceVisible|scene.SurfaceSolid, first.SurfaceAttributes)
	assert.Equal(t, "first", first.Model.Label)
	assert.Equal(t, math.Vec3{X: 10, Y: -2, Z: 3}, first.Model.Position)
	assert.Equal(t, math.Vec3One, first.Model.Scale)

	a := first.Model.Attach
	require.NotNil(t, a)
	want := in.LandTable.Geometry[0].Model.Attach
	assert.Equal(t, want.Label, a.Label)
	assert.Equal(t, want.Vertices, a.Vertices)
	assert.Equal(t, want.Materials, a.Materials)
	assert.Equal(t, want.TriangleSets, a.TriangleSets)
	assert.Equal(t, want.TexcoordPrecision, a.TexcoordPrecision)
	assert.True(t, a.HasVertexColors)
	assert.False(t, a.Weighted)

	require.Len(t, lt.Motions, 1)
	m := lt.Motions[0]
	assert.Equal(t, "door", m.Label)
	assert.Equal(t, float32(0.5), m.Step)
	assert.Equal(t, uint32(60), m.MaxFrame)
	require.Len(t, m.Model.Children, 1)
	assert.Equal(t, math.Vec3{X: 2, Y: 2, Z: 2}, m.Model.Children[0].Scale)
}

func TestLevelPreservesSharedAttaches(t *testing.T) {
	data, err := EncodeLevel(testLevel())
	require.NoError(t, err)
	out, err := DecodeLevel(data)
	require.NoError(t, err)

	geo := out.LandTable.Geometry
	assert.Same(t, geo[0].Model.Attach, geo[1].Model.Attach)
	assert.NotSame(t, geo[0].Model.Attach, geo[2].Model.Attach)
	assert.Same(t, geo[0].Model.Attach, out.LandTable.Motions[0].Model.Children[0].Attach)
	assert.Nil(t, out.LandTable.Motions[0].Model.Attach)
}

func TestModelRoundTrip(t *testing.T) {
	fs := memfs.New()
	root := scene.NewNode("root")
	root.Attributes = scene.NodeNoScale
	child := scene.NewNode("child")
	child.Attach = testAttach("body")
	root.AppendChild(child)
	second := scene.NewNode("second")

	in := &Model{Roots: []*scene.Node{root, second}, MetaData: MetaData{Author: "a"}}
	require.NoError(t, WriteModelFile(fs, "chr.samdl", in))

	out, err := ReadModelFile(fs, "chr.samdl")
	require.NoError(t, err)
	require.Len(t, out.Roots, 2)
	assert.Equal(t, "a", out.MetaData.Author)
	assert.Equal(t, scene.NodeNoScale, out.Roots[0].Attributes)
	require.Len(t, out.Roots[0].Children, 1)
	assert.Equal(t, "body", out.Roots[0].Children[0].Attach.Label)
	assert.Equal(t, "second", out.Roots[1].Label)
}

func TestEncodeErrors(t *testing.T) {
	_, err := EncodeLevel(&Level{})
	assert.ErrorIs(t, err, ErrMissingLandTable)

	_, err = EncodeLevel(&Level{LandTable: &LandTable{Format: ModelFormat(42)}})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = EncodeLevel(&Level{LandTable: &LandTable{Geometry: []*LandEntry{{}}}})
	assert.ErrorIs(t, err, ErrMissingModelNode)

	_, err = EncodeModel(&Model{})
	assert.ErrorIs(t, err, ErrEmptyModelHierarchy)
}

func TestDecodeErrors(t *testing.T) {
	valid, err := EncodeLevel(testLevel())
	require.NoError(t, err)

	badMagic := append([]byte("XXXX"), valid[4:]...)
	badVersion := append([]byte{}, valid...)
	badVersion[4] = 9
	badFormat := append([]byte{}, valid...)
	badFormat[5] = 200

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncatedData},
		{"bad magic", badMagic, ErrInvalidMagic},
		{"bad version", badVersion, ErrUnsupportedVersion},
		{"bad format", badFormat, ErrUnknownFormat},
		{"truncated", valid[:len(valid)-3], ErrTruncatedData},
		{"valid", valid, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLevel(tt.data)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = DecodeModel(valid)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDecodeRejectsBadAttachIndex(t *testing.T) {
	w := &writer{}
	w.magic(modelMagic, modelVersion)
	w.cstring("")
	w.cstring("")
	w.count(0) // no attaches
	w.count(1)
	writeNode(w, scene.NewNode("n"), newAttachTable())
	data := w.bytes()

	// patch the attach index of the only node from -1 to 0
	idx := len(data) - 8
	data[idx], data[idx+1], data[idx+2], data[idx+3] = 0, 0, 0, 0

	_, err := DecodeModel(data)
	assert.ErrorIs(t, err, ErrInvalidAttachIndex)
}

func TestDecodeRejectsCornerPastVertexTable(t *testing.T) {
	a := testAttach("broken")
	a.TriangleSets[0][2].Vertex = 9

	w := &writer{}
	w.magic(modelMagic, modelVersion)
	w.cstring("")
	w.cstring("")
	w.count(1)
	writeAttach(w, a)
	w.count(1)
	root := scene.NewNode("root")
	root.Attach = a
	table := newAttachTable()
	table.collect(root)
	writeNode(w, root, table)

	_, err := DecodeModel(w.bytes())
	assert.ErrorIs(t, err, mesh.ErrInvalidCorner)
}

func TestEncodeRejectsUnrepresentableAttach(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*mesh.Attach)
		want   error
	}{
		{"corner past vertex table", func(a *mesh.Attach) { a.TriangleSets[0][2].Vertex = 9 }, mesh.ErrInvalidCorner},
		{"too many weights", func(a *mesh.Attach) { a.Vertices[0].Weights = make([]mesh.Weight, mesh.MaxWeights+1) }, mesh.ErrTooManyWeights},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := testLevel()
			tt.modify(level.LandTable.Geometry[2].Model.Attach)
			_, err := EncodeLevel(level)
			assert.ErrorIs(t, err, tt.want)

			root := scene.NewNode("root")
			root.Attach = testAttach("m")
			tt.modify(root.Attach)
			_, err = EncodeModel(&Model{Roots: []*scene.Node{root}})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeRejectsHugeCount(t *testing.T) {
	w := &writer{}
	w.magic(modelMagic, modelVersion)
	w.cstring("")
	w.cstring("")
	w.u32(maxElementCount + 1)

	_, err := DecodeModel(w.bytes())
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestLabelsOutsideShiftJIS(t *testing.T) {
	labels := []string{"café_ü", "ステージ_ñ", "road→01", "plain"}

	for _, label := range labels {
		t.Run(label, func(t *testing.T) {
			root := scene.NewNode(label)
			root.Attach = testAttach(label)
			root.AppendChild(scene.NewNode(label + "_child"))

			data, err := EncodeModel(&Model{Roots: []*scene.Node{root}, MetaData: MetaData{Author: label}})
			require.NoError(t, err)
			decoded, err := DecodeModel(data)
			require.NoError(t, err)

			got := decoded.Roots[0]
			assert.Equal(t, label, got.Label)
			assert.Equal(t, label, got.Attach.Label)
			assert.Equal(t, label+"_child", got.Children[0].Label)
			assert.Equal(t, label, decoded.MetaData.Author)
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadLevelFile(memfs.New(), "nope.salvl")
	assert.Error(t, err)
}
