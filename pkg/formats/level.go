package formats

import (
	"fmt"

	"github.com/Faultbox/saio/pkg/scene"
)

const (
	levelMagic   = "SALV"
	levelVersion = 1
)

// EncodeLevel serializes a level. Attaches shared between entries are
// written once and referenced by index, so sharing survives a round trip.
func EncodeLevel(level *Level) ([]byte, error) {
	lt := level.LandTable
	if lt == nil {
		return nil, ErrMissingLandTable
	}
	if !lt.Format.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, lt.Format)
	}

	table := newAttachTable()
	for i, e := range lt.Geometry {
		if e == nil || e.Model == nil {
			return nil, fmt.Errorf("geometry entry %d: %w", i, ErrMissingModelNode)
		}
		table.collect(e.Model)
	}
	for i, m := range lt.Motions {
		if m == nil || m.Model == nil {
			return nil, fmt.Errorf("motion %d: %w", i, ErrMissingModelNode)
		}
		table.collect(m.Model)
	}
	if err := table.check(); err != nil {
		return nil, err
	}

	w := &writer{}
	w.magic(levelMagic, levelVersion)
	w.u8(uint8(lt.Format))
	w.cstring(level.MetaData.Author)
	w.cstring(level.MetaData.Description)

	w.cstring(lt.Label)
	w.f32(lt.DrawDistance)
	w.u16(uint16(lt.Attributes))
	w.cstring(lt.TextureFileName)
	w.u32(lt.TexListPtr)

	table.write(w)

	w.cstring(lt.GeometryLabel)
	w.count(len(lt.Geometry))
	for _, e := range lt.Geometry {
		w.u32(e.BlockBit)
		w.u64(uint64(e.SurfaceAttributes))
		writeNode(w, e.Model, table)
	}

	w.cstring(lt.MotionsLabel)
	w.count(len(lt.Motions))
	for _, m := range lt.Motions {
		w.cstring(m.Label)
		w.f32(m.Frame)
		w.f32(m.Step)
		w.u32(m.MaxFrame)
		w.u32(m.TexListPtr)
		writeNode(w, m.Model, table)
	}

	return w.bytes(), nil
}

// DecodeLevel parses a level written by EncodeLevel.
func DecodeLevel(data []byte) (*Level, error) {
	r := newReader(data)
	r.magic(levelMagic, levelVersion)

	format := ModelFormat(r.u8())
	if r.err == nil && !format.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}

	level := &Level{}
	level.MetaData.Author = r.cstring()
	level.MetaData.Description = r.cstring()

	lt := &LandTable{Format: format}
	lt.Label = r.cstring()
	lt.DrawDistance = r.f32()
	lt.Attributes = LandTableAttributes(r.u16())
	lt.TextureFileName = r.cstring()
	lt.TexListPtr = r.u32()

	attaches := readAttachTable(r)

	lt.GeometryLabel = r.cstring()
	geometryCount := r.count("geometry entries")
	for i := 0; i < geometryCount && r.err == nil; i++ {
		e := &LandEntry{}
		e.BlockBit = r.u32()
		e.SurfaceAttributes = scene.SurfaceAttributes(r.u64())
		e.Model = readNode(r, attaches, 0)
		lt.Geometry = append(lt.Geometry, e)
	}

	lt.MotionsLabel = r.cstring()
	motionCount := r.count("motions")
	for i := 0; i < motionCount && r.err == nil; i++ {
		m := &GeometryMotion{}
		m.Label = r.cstring()
		m.Frame = r.f32()
		m.Step = r.f32()
		m.MaxFrame = r.u32()
		m.TexListPtr = r.u32()
		m.Model = readNode(r, attaches, 0)
		lt.Motions = append(lt.Motions, m)
	}

	if r.err != nil {
		return nil, fmt.Errorf("decode level: %w", r.err)
	}
	level.LandTable = lt
	return level, nil
}
