package convert

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/Faultbox/saio/pkg/scene"
)

// Subset is one classified slice of a geometry list together with the set of
// mesh indices its entries reference and the surface bits it keeps.
type Subset struct {
	Entries []FlatGeometryEntry
	Meshes  *roaring.Bitmap
	Mask    scene.SurfaceAttributes
}

func newSubset(mask scene.SurfaceAttributes) Subset {
	return Subset{Meshes: roaring.New(), Mask: mask}
}

func (s *Subset) add(e FlatGeometryEntry) {
	s.Entries = append(s.Entries, e)
	s.Meshes.Add(uint32(e.MeshIndex))
}

// Classify splits entries into the visual and collision subsets of a
// dual-mesh land table. An entry is collision if any collision bit is set,
// and visual if it is not collision or is also Visible. An entry may land in
// both. Mesh indices must already be validated as non-negative.
func Classify(entries []FlatGeometryEntry) (visual, collision Subset) {
	visual = newSubset(scene.SurfaceVisualMask)
	collision = newSubset(scene.SurfaceCollisionMask)

	for _, e := range entries {
		isCollision := e.SurfaceAttributes.IsCollision()
		// neither visible nor collision stays as an invisible visual entry
		isVisual := !isCollision || e.SurfaceAttributes.Has(scene.SurfaceVisible)

		if isVisual {
			visual.add(e)
		}
		if isCollision {
			collision.add(e)
		}
	}
	return visual, collision
}

// Whole returns every entry as a single subset that keeps all surface bits,
// as used by single-mesh formats.
func Whole(entries []FlatGeometryEntry) Subset {
	s := newSubset(^scene.SurfaceAttributes(0))
	for _, e := range entries {
		s.add(e)
	}
	return s
}

// NormalizeSurfaceAttributes forces entries without any valid surface bit to
// Visible|Solid. It reports how many entries were changed.
func NormalizeSurfaceAttributes(entries []FlatGeometryEntry) int {
	changed := 0
	for i := range entries {
		if entries[i].SurfaceAttributes&scene.SurfaceValidMask == 0 {
			entries[i].SurfaceAttributes = scene.SurfaceVisible | scene.SurfaceSolid
			changed++
		}
	}
	return changed
}
