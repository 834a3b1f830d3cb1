package convert

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/saio/pkg/formats"
	"github.com/Faultbox/saio/pkg/math"
	"github.com/Faultbox/saio/pkg/mesh"
	"github.com/Faultbox/saio/pkg/scene"
)

func singleMeshRequest() *LevelExport {
	return &LevelExport{
		Entries: []FlatGeometryEntry{
			{
				Label:             "bridge",
				MeshIndex:         2,
				BlockBit:          1,
				WorldMatrix:       transform(math.Vec3{X: 10, Y: 2, Z: -4}, math.Vec3{X: -0.4, Y: 1.2, Z: 0.1}, math.Vec3{X: 1, Y: 2, Z: 1}),
				NodeAttributes:    scene.NodeNoAnimate,
				SurfaceAttributes: scene.SurfaceVisible | scene.SurfaceSolid,
			},
			{
				Label:             "pool",
				MeshIndex:         0,
				BlockBit:          2,
				WorldMatrix:       translation(0, -3, 0),
				SurfaceAttributes: scene.SurfaceWater | scene.SurfaceSolid,
			},
			{
				Label:             "bridge_copy",
				MeshIndex:         2,
				WorldMatrix:       math.Compose(math.Vec3{Z: 8}, math.Vec3{Z: -2.5}, math.Vec3One, math.OrderZYX),
				NodeAttributes:    scene.NodeRotateZYX,
				SurfaceAttributes: scene.SurfaceVisible,
			},
		},
		Meshes:          []*mesh.Weighted{triangle("water", 0), triangle("unused", 0), triangle("planks", 0)},
		Format:          formats.FormatSA1,
		Name:            "stage01",
		DrawDistance:    2500,
		TextureFileName: "  ",
		TexListPtr:      0x8000,
		Options: ExportOptions{
			Optimize:                  true,
			EnsurePositiveEulerAngles: true,
		},
		MetaData: formats.MetaData{Author: "tester", Description: "round trip"},
	}
}

func TestLevelRoundTrip(t *testing.T) {
	fs := memfs.New()
	req := singleMeshRequest()

	require.NoError(t, ExportLevel(fs, "out/stage01.salvl", req))
	result, err := ImportLevel(fs, "out/stage01.salvl", false)
	require.NoError(t, err)

	assert.Equal(t, req.MetaData, result.MetaData)
	assert.Nil(t, result.VisualCount)

	lt := result.LandTable
	assert.Equal(t, "stage01", lt.Label)
	assert.Equal(t, float32(2500), lt.DrawDistance)
	assert.Equal(t, "", lt.TextureFileName)
	assert.Equal(t, uint32(0x8000), lt.TexListPtr)
	assert.Equal(t, formats.LandTableLoadTextureFile, lt.Attributes)
	assert.True(t, strings.HasPrefix(lt.GeometryLabel, "geometry_"))

	require.Len(t, result.Entries, len(req.Entries))
	for i, got := range result.Entries {
		want := req.Entries[i]
		assert.Equal(t, want.Label, got.Label)
		assert.Equal(t, want.BlockBit, got.BlockBit)
		assert.Equal(t, want.NodeAttributes, got.NodeAttributes)
		assert.Equal(t, want.SurfaceAttributes, got.SurfaceAttributes)
		assert.True(t, got.WorldMatrix.ApproxEqual(want.WorldMatrix, matrixTolerance),
			"entry %d: got %v, want %v", i, got.WorldMatrix, want.WorldMatrix)
	}

	// sharing survives, unreferenced meshes are dropped
	assert.Equal(t, result.Entries[0].MeshIndex, result.Entries[2].MeshIndex)
	assert.NotEqual(t, result.Entries[0].MeshIndex, result.Entries[1].MeshIndex)
	require.Len(t, result.Meshes, 2)
	assert.Equal(t, "planks", result.Meshes[result.Entries[0].MeshIndex].Label)
	assert.Equal(t, "water", result.Meshes[result.Entries[1].MeshIndex].Label)
}

func TestLevelRoundTripDual(t *testing.T) {
	fs := memfs.New()
	req := &LevelExport{
		Entries: []FlatGeometryEntry{
			{Label: "floor", MeshIndex: 0, WorldMatrix: math.Identity(), SurfaceAttributes: scene.SurfaceVisible | scene.SurfaceSolid},
			{Label: "wall", MeshIndex: 1, WorldMatrix: translation(0, 0, 5), SurfaceAttributes: scene.SurfaceUnclimbable},
			{Label: "pool", MeshIndex: 0, WorldMatrix: translation(3, 0, 0), SurfaceAttributes: scene.SurfaceVisible | scene.SurfaceWater},
		},
		Meshes: []*mesh.Weighted{triangle("floor", 0), triangle("wall", 0)},
		Format: formats.FormatSA2,
		Name:   "dual",
	}

	require.NoError(t, ExportLevel(fs, "dual.salvl", req))
	result, err := ImportLevel(fs, "dual.salvl", true)
	require.NoError(t, err)

	labels := make([]string, len(result.Entries))
	for i, e := range result.Entries {
		labels[i] = e.Label
	}
	assert.Equal(t, []string{"floor", "pool", "wall", "pool"}, labels)

	require.NotNil(t, result.VisualCount)
	assert.Equal(t, 2, *result.VisualCount)

	// floor and pool share the chunk attach; the basic attaches are distinct
	e := result.Entries
	assert.Equal(t, e[0].MeshIndex, e[1].MeshIndex)
	assert.NotEqual(t, e[1].MeshIndex, e[3].MeshIndex)
	assert.Len(t, result.Meshes, 3)
	assert.Equal(t, scene.SurfaceVisible, e[1].SurfaceAttributes)
	assert.Equal(t, scene.SurfaceWater, e[3].SurfaceAttributes)
}

func TestProcessLandTableErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*LevelExport)
		want   error
	}{
		{"no entries", func(r *LevelExport) { r.Entries = nil }, ErrNoGeometry},
		{"mesh index too large", func(r *LevelExport) { r.Entries[0].MeshIndex = 9 }, ErrMeshIndexOutOfRange},
		{"negative mesh index", func(r *LevelExport) { r.Entries[1].MeshIndex = -1 }, ErrMeshIndexOutOfRange},
		{"nil mesh", func(r *LevelExport) { r.Meshes[2] = nil }, ErrMeshIndexOutOfRange},
		{"unknown format", func(r *LevelExport) { r.Format = formats.ModelFormat(42) }, ErrFormatMismatch},
		{"degenerate matrix", func(r *LevelExport) { r.Entries[0].WorldMatrix = math.Scale(1, 0, 1) }, math.ErrDegenerateMatrix},
		{"invalid mesh", func(r *LevelExport) { r.Meshes[0].Materials = nil }, mesh.ErrInvalidSets},
		{"motion without model", func(r *LevelExport) { r.Motions = []*formats.GeometryMotion{{Label: "mot"}} }, formats.ErrMissingModelNode},
		{"nil motion", func(r *LevelExport) { r.Motions = []*formats.GeometryMotion{nil} }, formats.ErrMissingModelNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := singleMeshRequest()
			tt.modify(req)
			_, err := ProcessLandTable(req, mesh.Codec{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExportWritesNothingOnFailure(t *testing.T) {
	fs := memfs.New()
	req := singleMeshRequest()
	req.Format = formats.ModelFormat(42)

	require.Error(t, ExportLevel(fs, "broken.salvl", req))
	_, err := fs.Stat("broken.salvl")
	assert.Error(t, err)
}

func TestProcessLandTableMotionsAndEuler(t *testing.T) {
	motion := scene.NewNode("spinner")
	motion.Rotation = math.Vec3{Y: -1}

	req := singleMeshRequest()
	req.Motions = []*formats.GeometryMotion{{Label: "spin", MaxFrame: 30, Model: motion}}

	lt, err := ProcessLandTable(req, mesh.Codec{})
	require.NoError(t, err)

	assert.Equal(t, "animlist_stage01", lt.MotionsLabel)
	require.Len(t, lt.Motions, 1)
	assert.InDelta(t, 2*3.14159265-1, float64(motion.Rotation.Y), 1e-5)

	for _, e := range lt.Geometry {
		for _, a := range []float32{e.Model.Rotation.X, e.Model.Rotation.Y, e.Model.Rotation.Z} {
			assert.GreaterOrEqual(t, a, float32(0))
			assert.Less(t, a, float32(2*3.14159266))
		}
	}
}

func TestPlaceEntryAutoNodeAttributes(t *testing.T) {
	attach := mesh.NewAttach(mesh.FamilyBasic, "a")
	entry := FlatGeometryEntry{
		Label:          "still",
		WorldMatrix:    math.Identity(),
		NodeAttributes: scene.NodeNoMorph | scene.NodeSkipDraw,
	}

	tests := []struct {
		mode scene.AutoNodeAttributeMode
		want scene.NodeAttributes
	}{
		{scene.AutoNone, scene.NodeNoMorph | scene.NodeSkipDraw},
		{scene.AutoMissing, scene.NodeNoMorph | scene.NodeSkipDraw | scene.NodeNoPosition |
			scene.NodeNoRotation | scene.NodeNoScale | scene.NodeSkipChildren},
		{scene.AutoOverride, scene.NodeNoMorph | scene.NodeNoPosition |
			scene.NodeNoRotation | scene.NodeNoScale | scene.NodeSkipChildren},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			le, err := PlaceEntry(entry, attach, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, le.Model.Attributes)
			assert.Same(t, attach, le.Model.Attach)
			assert.Equal(t, "still", le.Model.Label)
		})
	}
}

func TestFlattenSkipsEntriesWithoutMesh(t *testing.T) {
	attach := mesh.NewAttach(mesh.FamilyBasic, "a")
	attach.Vertices = []mesh.Vertex{{}, {}, {}}
	attach.TriangleSets = [][]mesh.Corner{{{Vertex: 0}, {Vertex: 1}, {Vertex: 2}}}
	attach.Materials = []mesh.Material{{}}

	empty := formats.NewLandEntry(nil, scene.SurfaceVisible)
	empty.Model.Label = "ghost"
	kept := formats.NewLandEntry(attach, scene.SurfaceVisible)
	kept.Model.Label = "kept"

	level := &formats.Level{LandTable: &formats.LandTable{
		Format:   formats.FormatSA1,
		Geometry: []*formats.LandEntry{empty, kept, {BlockBit: 3}},
	}}

	result, err := FlattenLandTable(level, false, mesh.Codec{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "kept", result.Entries[0].Label)
	assert.Equal(t, 0, result.Entries[0].MeshIndex)
	require.Len(t, result.Meshes, 1)
	assert.Equal(t, -1, result.Meshes[0].RootNodeIndex)

	_, err = FlattenLandTable(&formats.Level{}, false, mesh.Codec{})
	assert.ErrorIs(t, err, formats.ErrMissingLandTable)
}

func TestLevelImportToExport(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, ExportLevel(fs, "a.salvl", singleMeshRequest()))

	imported, err := ImportLevel(fs, "a.salvl", false)
	require.NoError(t, err)

	again := imported.ToExport(ExportOptions{})
	assert.Equal(t, formats.FormatSA1, again.Format)
	assert.Equal(t, "stage01", again.Name)

	lt, err := ProcessLandTable(again, mesh.Codec{})
	require.NoError(t, err)
	assert.Len(t, lt.Geometry, 3)
}
