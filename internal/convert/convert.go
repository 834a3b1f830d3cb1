// Package convert turns the flat node and geometry arrays handed over by
// content tools into scene trees and land tables, and back.
//
// Export runs fallback surface normalization, classification into visual and
// collision subsets for dual-mesh formats, per-subset attach encoding and
// placement. Import flattens placed geometry and deduplicates attaches by
// identity so shared meshes stay shared.
package convert

import "errors"

// Conversion errors.
var (
	ErrNoNodes             = errors.New("no nodes passed over")
	ErrNoGeometry          = errors.New("no land entries passed over")
	ErrParentOrder         = errors.New("parent index must precede the node")
	ErrFormatMismatch      = errors.New("format does not match the requested mesh layout")
	ErrAttachMissing       = errors.New("attach was not converted for a referenced mesh")
	ErrMeshIndexOutOfRange = errors.New("mesh index out of range")
	ErrRootNodeOutOfRange  = errors.New("mesh root node index out of range")
)
