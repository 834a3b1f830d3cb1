package convert

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/Faultbox/saio/pkg/formats"
	"github.com/Faultbox/saio/pkg/mesh"
)

// Encoder converts a weighted mesh into an attach of one family.
type Encoder interface {
	Encode(m *mesh.Weighted, family mesh.Family, optimize bool) (*mesh.Attach, error)
}

// Decoder converts an attach back into a weighted mesh.
type Decoder interface {
	Decode(a *mesh.Attach, mode mesh.BufferMode) (*mesh.Weighted, error)
}

// SingleFamily returns the mesh family of a single-mesh format.
func SingleFamily(format formats.ModelFormat) (mesh.Family, error) {
	switch format {
	case formats.FormatSA1, formats.FormatSADX:
		return mesh.FamilyBasic, nil
	case formats.FormatBuffer:
		return mesh.FamilyBuffer, nil
	}
	return 0, fmt.Errorf("%w: %s is not a single mesh format", ErrFormatMismatch, format)
}

// DualFamilies returns the visual and collision mesh families of a dual-mesh
// format.
func DualFamilies(format formats.ModelFormat) (visual, collision mesh.Family, err error) {
	switch format {
	case formats.FormatSA2:
		return mesh.FamilyChunk, mesh.FamilyBasic, nil
	case formats.FormatSA2B:
		return mesh.FamilyGC, mesh.FamilyBasic, nil
	}
	return 0, 0, fmt.Errorf("%w: %s is not a double mesh format", ErrFormatMismatch, format)
}

// Dispatcher encodes meshes into one family, at most once per mesh index.
// Entries that reference the same index share the resulting attach.
type Dispatcher struct {
	encoder  Encoder
	family   mesh.Family
	optimize bool
	cache    map[int]*mesh.Attach
}

// NewDispatcher returns a dispatcher with an empty cache.
func NewDispatcher(encoder Encoder, family mesh.Family, optimize bool) *Dispatcher {
	return &Dispatcher{
		encoder:  encoder,
		family:   family,
		optimize: optimize,
		cache:    make(map[int]*mesh.Attach),
	}
}

// Family returns the target family.
func (d *Dispatcher) Family() mesh.Family {
	return d.family
}

// Attach returns the attach for meshes[index], encoding it on first use.
func (d *Dispatcher) Attach(meshes []*mesh.Weighted, index int) (*mesh.Attach, error) {
	if a, ok := d.cache[index]; ok {
		return a, nil
	}
	if index < 0 || index >= len(meshes) || meshes[index] == nil {
		return nil, fmt.Errorf("%w: %d of %d", ErrMeshIndexOutOfRange, index, len(meshes))
	}

	a, err := d.encoder.Encode(meshes[index], d.family, d.optimize)
	if err != nil {
		return nil, fmt.Errorf("encoding mesh %d as %s: %w", index, d.family, err)
	}
	d.cache[index] = a
	return a, nil
}

// Dispatch encodes every referenced mesh and returns a sparse slice with one
// slot per mesh; unreferenced slots are nil.
func (d *Dispatcher) Dispatch(meshes []*mesh.Weighted, referenced *roaring.Bitmap) ([]*mesh.Attach, error) {
	out := make([]*mesh.Attach, len(meshes))
	it := referenced.Iterator()
	for it.HasNext() {
		index := int(it.Next())
		a, err := d.Attach(meshes, index)
		if err != nil {
			return nil, err
		}
		out[index] = a
	}
	return out, nil
}
