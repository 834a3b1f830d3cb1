package mesh

import "sync/atomic"

var nextAttachID atomic.Uint64

// Attach is a mesh encoded into one Family. Identity matters: entries that
// share geometry hold the same *Attach, and ID is a surrogate key for that
// identity which stays stable for the lifetime of the process.
//
// An Attach must not be mutated once it is shared.
type Attach struct {
	id     uint64
	family Family

	Label             string
	Vertices          []Vertex
	TriangleSets      [][]Corner
	Materials         []Material
	HasVertexColors   bool
	Weighted          bool
	WriteSpecular     bool
	TexcoordPrecision uint8
}

// NewAttach creates an empty attach of the given family with a fresh id.
func NewAttach(family Family, label string) *Attach {
	return &Attach{
		id:     nextAttachID.Add(1),
		family: family,
		Label:  label,
	}
}

// ID returns the surrogate identity key.
func (a *Attach) ID() uint64 {
	return a.id
}

// Family returns the encoding family.
func (a *Attach) Family() Family {
	return a.family
}

// IsBasic reports whether the attach uses the basic encoding.
func (a *Attach) IsBasic() bool {
	return a.family == FamilyBasic
}

// VertexCount returns the number of vertices.
func (a *Attach) VertexCount() int {
	return len(a.Vertices)
}
