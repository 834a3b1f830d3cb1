package convert

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/saio/internal/logger"
	"github.com/Faultbox/saio/pkg/formats"
	"github.com/Faultbox/saio/pkg/math"
	"github.com/Faultbox/saio/pkg/mesh"
	"github.com/Faultbox/saio/pkg/scene"
)

// FlatGeometryEntry is one placed piece of level geometry in flat form.
type FlatGeometryEntry struct {
	Label             string                  `yaml:"label"`
	MeshIndex         int                     `yaml:"mesh_index"`
	BlockBit          uint32                  `yaml:"block_bit"`
	WorldMatrix       math.Mat4               `yaml:"world_matrix,flow"`
	NodeAttributes    scene.NodeAttributes    `yaml:"node_attributes"`
	SurfaceAttributes scene.SurfaceAttributes `yaml:"surface_attributes"`
}

// ExportOptions are the behavior flags of a level export.
type ExportOptions struct {
	Optimize                  bool                        `yaml:"optimize"`
	WriteSpecular             bool                        `yaml:"write_specular"`
	FallbackSurfaceAttributes bool                        `yaml:"fallback_surface_attributes"`
	AutoNodeAttributes        scene.AutoNodeAttributeMode `yaml:"auto_node_attributes"`
	EnsurePositiveEulerAngles bool                        `yaml:"ensure_positive_euler_angles"`
}

// LevelExport is everything needed to build and write a land table.
type LevelExport struct {
	Entries         []FlatGeometryEntry       `yaml:"entries"`
	Meshes          []*mesh.Weighted          `yaml:"meshes"`
	Motions         []*formats.GeometryMotion `yaml:"motions,omitempty"`
	Format          formats.ModelFormat       `yaml:"format"`
	Name            string                    `yaml:"name"`
	DrawDistance    float32                   `yaml:"draw_distance"`
	TextureFileName string                    `yaml:"texture_file_name"`
	TexListPtr      uint32                    `yaml:"texlist_pointer"`
	Options         ExportOptions             `yaml:"options"`
	MetaData        formats.MetaData          `yaml:"metadata"`
}

// ProcessLandTable builds a land table from req, encoding meshes with enc.
// The caller's entries and meshes are not modified; motions are attached as
// given.
func ProcessLandTable(req *LevelExport, enc Encoder) (*formats.LandTable, error) {
	if len(req.Entries) == 0 {
		return nil, ErrNoGeometry
	}
	for i, e := range req.Entries {
		if e.MeshIndex < 0 || e.MeshIndex >= len(req.Meshes) || req.Meshes[e.MeshIndex] == nil {
			return nil, fmt.Errorf("entry %d (%s): %w: %d of %d",
				i, e.Label, ErrMeshIndexOutOfRange, e.MeshIndex, len(req.Meshes))
		}
	}
	for i, m := range req.Motions {
		if m == nil || m.Model == nil {
			return nil, fmt.Errorf("motion %d: %w", i, formats.ErrMissingModelNode)
		}
	}

	lt := &formats.LandTable{
		Label:        req.Name,
		Format:       req.Format,
		DrawDistance: req.DrawDistance,
		TexListPtr:   req.TexListPtr,
	}
	if strings.TrimSpace(req.TextureFileName) != "" {
		lt.TextureFileName = req.TextureFileName
	}

	meshes := make([]*mesh.Weighted, len(req.Meshes))
	for i, m := range req.Meshes {
		if m == nil {
			continue
		}
		prepared := *m
		prepared.WriteSpecular = req.Options.WriteSpecular
		meshes[i] = &prepared
	}

	entries := append([]FlatGeometryEntry(nil), req.Entries...)
	if req.Options.FallbackSurfaceAttributes {
		if n := NormalizeSurfaceAttributes(entries); n > 0 {
			logger.Debug("normalized surface attributes", zap.Int("entries", n))
		}
	}

	var err error
	switch {
	case req.Format.IsSingle():
		err = exportSingle(lt, entries, meshes, enc, req.Options)
	case req.Format.IsDual():
		err = exportDouble(lt, entries, meshes, enc, req.Options)
	default:
		err = fmt.Errorf("%w: %s", ErrFormatMismatch, req.Format)
	}
	if err != nil {
		return nil, err
	}

	if len(req.Motions) > 0 {
		lt.MotionsLabel = "animlist_" + lt.Label
		lt.Motions = req.Motions
	}

	if req.Options.EnsurePositiveEulerAngles {
		for _, e := range lt.Geometry {
			e.Model.EnsurePositiveEulerAnglesTree()
		}
		for _, m := range lt.Motions {
			m.Model.EnsurePositiveEulerAnglesTree()
		}
	}

	logger.Info("processed land table",
		zap.String("label", lt.Label),
		zap.Stringer("format", lt.Format),
		zap.Int("entries", len(entries)),
		zap.Int("geometry", len(lt.Geometry)),
		zap.Int("motions", len(lt.Motions)))

	return lt, nil
}

func exportSingle(lt *formats.LandTable, entries []FlatGeometryEntry, meshes []*mesh.Weighted, enc Encoder, opts ExportOptions) error {
	family, err := SingleFamily(lt.Format)
	if err != nil {
		return err
	}
	if family == mesh.FamilyBasic {
		lt.Attributes = formats.LandTableLoadTextureFile
	}

	d := NewDispatcher(enc, family, opts.Optimize)
	subset := Whole(entries)
	attaches, err := d.Dispatch(meshes, subset.Meshes)
	if err != nil {
		return err
	}

	geometry, err := placeSubset(subset, attaches, opts.AutoNodeAttributes)
	if err != nil {
		return err
	}

	lt.GeometryLabel = "geometry_" + generateIdentifier()
	lt.Geometry = geometry
	return nil
}

func exportDouble(lt *formats.LandTable, entries []FlatGeometryEntry, meshes []*mesh.Weighted, enc Encoder, opts ExportOptions) error {
	visualFamily, collisionFamily, err := DualFamilies(lt.Format)
	if err != nil {
		return err
	}

	visual, collision := Classify(entries)

	visualAttaches, err := NewDispatcher(enc, visualFamily, opts.Optimize).Dispatch(meshes, visual.Meshes)
	if err != nil {
		return err
	}
	collisionAttaches, err := NewDispatcher(enc, collisionFamily, opts.Optimize).Dispatch(meshes, collision.Meshes)
	if err != nil {
		return err
	}

	visualGeometry, err := placeSubset(visual, visualAttaches, opts.AutoNodeAttributes)
	if err != nil {
		return fmt.Errorf("visual geometry: %w", err)
	}
	collisionGeometry, err := placeSubset(collision, collisionAttaches, opts.AutoNodeAttributes)
	if err != nil {
		return fmt.Errorf("collision geometry: %w", err)
	}

	logger.Debug("classified geometry",
		zap.Int("visual", len(visualGeometry)),
		zap.Int("collision", len(collisionGeometry)),
		zap.Uint64("visual_meshes", visual.Meshes.GetCardinality()),
		zap.Uint64("collision_meshes", collision.Meshes.GetCardinality()))

	lt.GeometryLabel = "collist_" + generateIdentifier()
	lt.Geometry = append(visualGeometry, collisionGeometry...)
	return nil
}

// placeSubset turns every entry of s into a land entry using the attach
// converted for its mesh index.
func placeSubset(s Subset, attaches []*mesh.Attach, mode scene.AutoNodeAttributeMode) ([]*formats.LandEntry, error) {
	out := make([]*formats.LandEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		var attach *mesh.Attach
		if e.MeshIndex >= 0 && e.MeshIndex < len(attaches) {
			attach = attaches[e.MeshIndex]
		}
		if attach == nil {
			return nil, fmt.Errorf("%w: mesh %d of entry %s", ErrAttachMissing, e.MeshIndex, e.Label)
		}

		le, err := PlaceEntry(e, attach, mode)
		if err != nil {
			return nil, err
		}
		le.SurfaceAttributes &= s.Mask
		out = append(out, le)
	}
	return out, nil
}

// PlaceEntry converts a flat entry into a land entry carrying attach. The
// world matrix is decomposed directly; land entries have no hierarchy.
func PlaceEntry(e FlatGeometryEntry, attach *mesh.Attach, mode scene.AutoNodeAttributeMode) (*formats.LandEntry, error) {
	node, err := PlaceNode(e.Label, e.WorldMatrix, e.NodeAttributes)
	if err != nil {
		return nil, err
	}
	node.Attach = attach
	mode.Apply(node)

	return &formats.LandEntry{
		BlockBit:          e.BlockBit,
		SurfaceAttributes: e.SurfaceAttributes,
		Model:             node,
	}, nil
}

func generateIdentifier() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ExportLevel builds a land table from req and writes it to path.
func ExportLevel(fsys billy.Filesystem, path string, req *LevelExport) error {
	lt, err := ProcessLandTable(req, mesh.Codec{})
	if err != nil {
		return err
	}
	level := &formats.Level{LandTable: lt, MetaData: req.MetaData}
	if err := formats.WriteLevelFile(fsys, path, level); err != nil {
		return fmt.Errorf("writing level: %w", err)
	}
	logger.Info("exported level", zap.String("path", path))
	return nil
}

// LevelImport is a land table flattened for content tools.
type LevelImport struct {
	LandTable *formats.LandTable
	MetaData  formats.MetaData
	Entries   []FlatGeometryEntry
	Meshes    []*mesh.Weighted

	// VisualCount is the entry position where basic attaches begin in a
	// dual-mesh land table, or nil.
	VisualCount *int
}

// FlattenLandTable flattens the geometry of level. Entries without an attach
// are skipped. Each distinct attach becomes one mesh, in order of first use.
func FlattenLandTable(level *formats.Level, optimize bool, dec Decoder) (*LevelImport, error) {
	lt := level.LandTable
	if lt == nil {
		return nil, formats.ErrMissingLandTable
	}

	index := NewAttachIndex()
	var entries []FlatGeometryEntry

	for _, le := range lt.Geometry {
		if le.Model == nil || le.Model.Attach == nil {
			label := ""
			if le.Model != nil {
				label = le.Model.Label
			}
			logger.Warn("land entry did not have a model", zap.String("label", label))
			continue
		}

		attach := le.Model.Attach
		if lt.Format.IsDual() {
			index.MarkVisualCount(len(entries), attach)
		}

		entries = append(entries, FlatGeometryEntry{
			Label:             le.Model.Label,
			MeshIndex:         index.IndexOf(attach),
			BlockBit:          le.BlockBit,
			WorldMatrix:       le.Model.LocalMatrix(),
			NodeAttributes:    le.Model.Attributes,
			SurfaceAttributes: le.SurfaceAttributes,
		})
	}

	mode := mesh.BufferNone
	if optimize {
		mode = mesh.BufferOptimize
	}

	meshes := make([]*mesh.Weighted, index.Len())
	for i, a := range index.Attaches() {
		m, err := dec.Decode(a, mode)
		if err != nil {
			return nil, fmt.Errorf("decoding attach %d (%s): %w", i, a.Label, err)
		}
		meshes[i] = m
	}

	return &LevelImport{
		LandTable:   lt,
		MetaData:    level.MetaData,
		Entries:     entries,
		Meshes:      meshes,
		VisualCount: index.VisualCount(),
	}, nil
}

// ImportLevel reads a level file and flattens it.
func ImportLevel(fsys billy.Filesystem, path string, optimize bool) (*LevelImport, error) {
	level, err := formats.ReadLevelFile(fsys, path)
	if err != nil {
		return nil, err
	}
	result, err := FlattenLandTable(level, optimize, mesh.Codec{})
	if err != nil {
		return nil, err
	}
	logger.Info("imported level",
		zap.String("path", path),
		zap.Int("entries", len(result.Entries)),
		zap.Int("meshes", len(result.Meshes)))
	return result, nil
}

// ToExport turns an imported level back into an export request using opts,
// so the flattened data can be edited and written again.
func (l *LevelImport) ToExport(opts ExportOptions) *LevelExport {
	return &LevelExport{
		Entries:         l.Entries,
		Meshes:          l.Meshes,
		Motions:         l.LandTable.Motions,
		Format:          l.LandTable.Format,
		Name:            l.LandTable.Label,
		DrawDistance:    l.LandTable.DrawDistance,
		TextureFileName: l.LandTable.TextureFileName,
		TexListPtr:      l.LandTable.TexListPtr,
		Options:         opts,
		MetaData:        l.MetaData,
	}
}
