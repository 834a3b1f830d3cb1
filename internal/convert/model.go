package convert

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/Faultbox/saio/internal/logger"
	"github.com/Faultbox/saio/pkg/formats"
	"github.com/Faultbox/saio/pkg/mesh"
	"github.com/Faultbox/saio/pkg/scene"
)

// ModelExport is everything needed to build and write a model file.
type ModelExport struct {
	Nodes              []FlatNode                  `yaml:"nodes"`
	Meshes             []*mesh.Weighted            `yaml:"meshes"`
	Family             mesh.Family                 `yaml:"family"`
	Optimize           bool                        `yaml:"optimize"`
	WriteSpecular      bool                        `yaml:"write_specular"`
	AutoNodeAttributes scene.AutoNodeAttributeMode `yaml:"auto_node_attributes"`
	FlipVertexColors   bool                        `yaml:"flip_vertex_colors"`
	RequireSingleRoot  bool                        `yaml:"require_single_root"`
	MetaData           formats.MetaData            `yaml:"metadata"`
}

// BuildModel reconstructs the node tree of req and hangs every mesh from the
// node at its root index. Meshes sharing a root are merged first so each
// node carries at most one attach.
func BuildModel(req *ModelExport, enc Encoder) (scene.Forest, error) {
	nodes, forest, err := Reconstruct(req.Nodes)
	if err != nil {
		return scene.Forest{}, err
	}
	if req.RequireSingleRoot {
		if _, err := forest.SingleRoot(); err != nil {
			return scene.Forest{}, fmt.Errorf("%d roots: %w", len(forest.Roots), err)
		}
	}

	prepared := make([]*mesh.Weighted, 0, len(req.Meshes))
	for i, m := range req.Meshes {
		if m == nil {
			continue
		}
		if m.RootNodeIndex < 0 || m.RootNodeIndex >= len(nodes) {
			return scene.Forest{}, fmt.Errorf("mesh %d (%s): %w: %d of %d",
				i, m.Label, ErrRootNodeOutOfRange, m.RootNodeIndex, len(nodes))
		}

		p := *m
		p.WriteSpecular = req.WriteSpecular
		if req.FlipVertexColors {
			p.TriangleSets = copyCorners(m.TriangleSets)
			p.FlipColorChannels()
		}
		prepared = append(prepared, &p)
	}

	merged, err := mesh.MergeAtRoots(prepared)
	if err != nil {
		return scene.Forest{}, err
	}
	d := NewDispatcher(enc, req.Family, req.Optimize)
	for i, m := range merged {
		a, err := d.Attach(merged, i)
		if err != nil {
			return scene.Forest{}, err
		}
		nodes[m.RootNodeIndex].Attach = a
	}

	for _, n := range nodes {
		req.AutoNodeAttributes.Apply(n)
	}

	logger.Debug("built model",
		zap.Int("nodes", len(nodes)),
		zap.Int("roots", len(forest.Roots)),
		zap.Int("attaches", len(merged)))

	return forest, nil
}

func copyCorners(sets [][]mesh.Corner) [][]mesh.Corner {
	out := make([][]mesh.Corner, len(sets))
	for i, set := range sets {
		out[i] = append([]mesh.Corner(nil), set...)
	}
	return out
}

// ExportModel builds the model of req and writes it to path.
func ExportModel(fsys billy.Filesystem, path string, req *ModelExport) error {
	forest, err := BuildModel(req, mesh.Codec{})
	if err != nil {
		return err
	}
	model := &formats.Model{Roots: forest.Roots, MetaData: req.MetaData}
	if err := formats.WriteModelFile(fsys, path, model); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	logger.Info("exported model", zap.String("path", path), zap.Int("nodes", len(req.Nodes)))
	return nil
}

// ModelImport is a model flattened for content tools.
type ModelImport struct {
	Forest   scene.Forest
	Nodes    []FlatNode
	Meshes   []*mesh.Weighted
	Weighted bool // any mesh influenced by more than its root
	MetaData formats.MetaData
}

// FlattenModel flattens model depth-first. Each distinct attach becomes one
// mesh rooted at the first node that carries it. Unweighted meshes are merged
// per root node.
func FlattenModel(model *formats.Model, optimize, flipVertexColors bool, dec Decoder) (*ModelImport, error) {
	forest := scene.Forest{Roots: model.Roots}
	if len(forest.Roots) == 0 {
		return nil, formats.ErrEmptyModelHierarchy
	}

	mode := mesh.BufferNone
	if optimize {
		mode = mesh.BufferOptimize
	}

	index := NewAttachIndex()
	var meshes []*mesh.Weighted
	for i, n := range forest.Nodes() {
		if n.Attach == nil {
			continue
		}
		before := index.Len()
		if index.IndexOf(n.Attach) < before {
			continue
		}
		m, err := dec.Decode(n.Attach, mode)
		if err != nil {
			return nil, fmt.Errorf("decoding attach of node %d (%s): %w", i, n.Label, err)
		}
		m.RootNodeIndex = i
		meshes = append(meshes, m)
	}

	weighted := false
	for _, m := range meshes {
		if m.IsWeighted() {
			weighted = true
			break
		}
	}
	// without weights every node keeps one mesh
	if len(meshes) > 0 && !weighted {
		merged, err := mesh.MergeAtRoots(meshes)
		if err != nil {
			return nil, err
		}
		meshes = merged
	}
	if flipVertexColors {
		for _, m := range meshes {
			m.FlipColorChannels()
		}
	}

	return &ModelImport{
		Forest:   forest,
		Nodes:    Flatten(forest),
		Meshes:   meshes,
		Weighted: weighted,
		MetaData: model.MetaData,
	}, nil
}

// ImportModel reads a model file and flattens it.
func ImportModel(fsys billy.Filesystem, path string, optimize, flipVertexColors bool) (*ModelImport, error) {
	model, err := formats.ReadModelFile(fsys, path)
	if err != nil {
		return nil, err
	}
	result, err := FlattenModel(model, optimize, flipVertexColors, mesh.Codec{})
	if err != nil {
		return nil, err
	}
	logger.Info("imported model",
		zap.String("path", path),
		zap.Int("nodes", len(result.Nodes)),
		zap.Int("meshes", len(result.Meshes)),
		zap.Bool("weighted", result.Weighted))
	return result, nil
}

// ToExport turns an imported model back into an export request encoding
// meshes as family.
func (m *ModelImport) ToExport(family mesh.Family) *ModelExport {
	return &ModelExport{
		Nodes:    m.Nodes,
		Meshes:   m.Meshes,
		Family:   family,
		MetaData: m.MetaData,
	}
}

// DominantFamily returns the family used by most attaches in forest, or
// fallback when it has none.
func DominantFamily(forest scene.Forest, fallback mesh.Family) mesh.Family {
	counts := make(map[mesh.Family]int)
	for _, n := range forest.Nodes() {
		if n.Attach != nil {
			counts[n.Attach.Family()]++
		}
	}
	best, bestCount := fallback, 0
	for f := mesh.FamilyBasic; f <= mesh.FamilyBuffer; f++ {
		if counts[f] > bestCount {
			best, bestCount = f, counts[f]
		}
	}
	return best
}
