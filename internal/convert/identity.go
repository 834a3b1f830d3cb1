package convert

import "github.com/Faultbox/saio/pkg/mesh"

// AttachIndex maps attaches to dense indices by identity. The first new
// attach gets 0, the next 1, and so on; a repeated attach returns its
// earlier index.
type AttachIndex struct {
	index    map[uint64]int
	attaches []*mesh.Attach

	visualCount    int
	hasVisualCount bool
}

// NewAttachIndex returns an empty index.
func NewAttachIndex() *AttachIndex {
	return &AttachIndex{index: make(map[uint64]int)}
}

// IndexOf returns the index of a, assigning the next one on first sight.
func (x *AttachIndex) IndexOf(a *mesh.Attach) int {
	if i, ok := x.index[a.ID()]; ok {
		return i
	}
	i := len(x.attaches)
	x.index[a.ID()] = i
	x.attaches = append(x.attaches, a)
	return i
}

// At returns the attach stored at index i.
func (x *AttachIndex) At(i int) *mesh.Attach {
	return x.attaches[i]
}

// Len returns the number of distinct attaches seen.
func (x *AttachIndex) Len() int {
	return len(x.attaches)
}

// Attaches returns the distinct attaches in index order.
func (x *AttachIndex) Attaches() []*mesh.Attach {
	return x.attaches
}

// MarkVisualCount records position as the visual count the first time it is
// called with a basic attach. In a dual-mesh land table that is where the
// basic (collision or legacy) geometry begins.
func (x *AttachIndex) MarkVisualCount(position int, a *mesh.Attach) {
	if x.hasVisualCount || !a.IsBasic() {
		return
	}
	x.visualCount = position
	x.hasVisualCount = true
}

// VisualCount returns the recorded visual count, or nil if none was marked.
func (x *AttachIndex) VisualCount() *int {
	if !x.hasVisualCount {
		return nil
	}
	v := x.visualCount
	return &v
}
