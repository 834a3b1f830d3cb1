package formats

import (
	"fmt"

	"github.com/Faultbox/saio/pkg/mesh"
	"github.com/Faultbox/saio/pkg/scene"
)

// Attach flag bits.
const (
	attachVertexColors uint8 = 1 << iota
	attachWeighted
	attachWriteSpecular
)

// Material flag bits.
const (
	materialUseAlpha uint8 = 1 << iota
	materialCulling
)

// attachTable assigns dense indices to attaches by identity while writing.
type attachTable struct {
	index   map[uint64]int32
	entries []*mesh.Attach
}

func newAttachTable() *attachTable {
	return &attachTable{index: make(map[uint64]int32)}
}

// collect registers every attach in the subtree of n.
func (t *attachTable) collect(n *scene.Node) {
	n.Walk(func(node, _ *scene.Node) {
		if node.Attach == nil {
			return
		}
		if _, ok := t.index[node.Attach.ID()]; ok {
			return
		}
		t.index[node.Attach.ID()] = int32(len(t.entries))
		t.entries = append(t.entries, node.Attach)
	})
}

func (t *attachTable) indexOf(a *mesh.Attach) int32 {
	if a == nil {
		return -1
	}
	return t.index[a.ID()]
}

// check rejects attaches the container layout cannot represent.
func (t *attachTable) check() error {
	for _, a := range t.entries {
		for i, v := range a.Vertices {
			if len(v.Weights) > mesh.MaxWeights {
				return fmt.Errorf("attach %q vertex %d: %w (%d > %d)",
					a.Label, i, mesh.ErrTooManyWeights, len(v.Weights), mesh.MaxWeights)
			}
		}
		for s, set := range a.TriangleSets {
			for c, corner := range set {
				if int(corner.Vertex) >= len(a.Vertices) {
					return fmt.Errorf("attach %q set %d corner %d: %w (%d >= %d)",
						a.Label, s, c, mesh.ErrInvalidCorner, corner.Vertex, len(a.Vertices))
				}
			}
		}
	}
	return nil
}

func (t *attachTable) write(w *writer) {
	w.count(len(t.entries))
	for _, a := range t.entries {
		writeAttach(w, a)
	}
}

func writeAttach(w *writer, a *mesh.Attach) {
	w.u8(uint8(a.Family()))
	w.cstring(a.Label)

	var flags uint8
	if a.HasVertexColors {
		flags |= attachVertexColors
	}
	if a.Weighted {
		flags |= attachWeighted
	}
	if a.WriteSpecular {
		flags |= attachWriteSpecular
	}
	w.u8(flags)
	w.u8(a.TexcoordPrecision)

	w.count(len(a.Vertices))
	for _, v := range a.Vertices {
		w.vec3(v.Position)
		w.vec3(v.Normal)
		w.u8(uint8(len(v.Weights)))
		for _, wt := range v.Weights {
			w.i32(int32(wt.Node))
			w.f32(wt.Weight)
		}
	}

	w.count(len(a.Materials))
	for _, m := range a.Materials {
		w.write(m.Diffuse)
		w.write(m.Specular)
		w.write(m.Ambient)
		w.f32(m.SpecularExponent)
		w.u32(m.TextureIndex)
		w.u32(m.Attributes)
		var mf uint8
		if m.UseAlpha {
			mf |= materialUseAlpha
		}
		if m.Culling {
			mf |= materialCulling
		}
		w.u8(mf)
	}

	w.count(len(a.TriangleSets))
	for _, set := range a.TriangleSets {
		w.count(len(set))
		for _, c := range set {
			w.u16(c.Vertex)
			w.write(c.UV)
			w.write(c.Color)
		}
	}
}

func readAttachTable(r *reader) []*mesh.Attach {
	n := r.count("attaches")
	attaches := make([]*mesh.Attach, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		attaches = append(attaches, readAttach(r))
	}
	return attaches
}

func readAttach(r *reader) *mesh.Attach {
	family := mesh.Family(r.u8())
	if r.err == nil && !family.Valid() {
		r.err = fmt.Errorf("%w: %d", mesh.ErrUnknownFamily, family)
		return nil
	}
	a := mesh.NewAttach(family, r.cstring())

	flags := r.u8()
	a.HasVertexColors = flags&attachVertexColors != 0
	a.Weighted = flags&attachWeighted != 0
	a.WriteSpecular = flags&attachWriteSpecular != 0
	a.TexcoordPrecision = r.u8()

	vertexCount := r.count("vertices")
	a.Vertices = make([]mesh.Vertex, vertexCount)
	for i := 0; i < vertexCount && r.err == nil; i++ {
		v := &a.Vertices[i]
		v.Position = r.vec3()
		v.Normal = r.vec3()
		if wc := int(r.u8()); wc > 0 {
			v.Weights = make([]mesh.Weight, wc)
			for j := range v.Weights {
				v.Weights[j].Node = int(r.i32())
				v.Weights[j].Weight = r.f32()
			}
		}
	}

	materialCount := r.count("materials")
	a.Materials = make([]mesh.Material, materialCount)
	for i := 0; i < materialCount && r.err == nil; i++ {
		m := &a.Materials[i]
		r.read(&m.Diffuse)
		r.read(&m.Specular)
		r.read(&m.Ambient)
		m.SpecularExponent = r.f32()
		m.TextureIndex = r.u32()
		m.Attributes = r.u32()
		mf := r.u8()
		m.UseAlpha = mf&materialUseAlpha != 0
		m.Culling = mf&materialCulling != 0
	}

	setCount := r.count("triangle sets")
	a.TriangleSets = make([][]mesh.Corner, setCount)
	for i := 0; i < setCount && r.err == nil; i++ {
		cornerCount := r.count("corners")
		set := make([]mesh.Corner, cornerCount)
		for j := 0; j < cornerCount && r.err == nil; j++ {
			set[j].Vertex = r.u16()
			r.read(&set[j].UV)
			r.read(&set[j].Color)
			if r.err == nil && int(set[j].Vertex) >= vertexCount {
				r.err = fmt.Errorf("attach %q set %d corner %d: %w (%d >= %d)",
					a.Label, i, j, mesh.ErrInvalidCorner, set[j].Vertex, vertexCount)
			}
		}
		a.TriangleSets[i] = set
	}

	return a
}

func writeNode(w *writer, n *scene.Node, table *attachTable) {
	w.cstring(n.Label)
	w.u32(uint32(n.Attributes))
	w.vec3(n.Position)
	w.vec3(n.Rotation)
	w.vec3(n.Scale)
	w.i32(table.indexOf(n.Attach))
	w.count(len(n.Children))
	for _, c := range n.Children {
		writeNode(w, c, table)
	}
}

func readNode(r *reader, attaches []*mesh.Attach, depth int) *scene.Node {
	if depth > maxNodeDepth {
		r.err = ErrNodeDepthExceeded
		return nil
	}

	n := scene.NewNode(r.cstring())
	n.Attributes = scene.NodeAttributes(r.u32())
	n.Position = r.vec3()
	n.Rotation = r.vec3()
	n.Scale = r.vec3()

	idx := r.i32()
	if r.err != nil {
		return nil
	}
	if idx >= 0 {
		if int(idx) >= len(attaches) {
			r.err = fmt.Errorf("%w: %d of %d", ErrInvalidAttachIndex, idx, len(attaches))
			return nil
		}
		n.Attach = attaches[idx]
	}

	childCount := r.count("children")
	for i := 0; i < childCount && r.err == nil; i++ {
		if c := readNode(r, attaches, depth+1); c != nil {
			n.AppendChild(c)
		}
	}
	return n
}
