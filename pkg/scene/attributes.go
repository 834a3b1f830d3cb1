package scene

import (
	"fmt"
	"math/bits"
	"strings"
)

// NodeAttributes are per-node behavior flags.
type NodeAttributes uint32

const (
	NodeNoPosition NodeAttributes = 1 << iota
	NodeNoRotation
	NodeNoScale
	NodeSkipDraw
	NodeSkipChildren
	NodeRotateZYX
	NodeNoAnimate
	NodeNoMorph
)

// nodeAutoMask holds the bits that can be inferred from node state.
const nodeAutoMask = NodeNoPosition | NodeNoRotation | NodeNoScale | NodeSkipDraw | NodeSkipChildren

var nodeAttributeNames = []string{
	"NoPosition", "NoRotation", "NoScale", "SkipDraw",
	"SkipChildren", "RotateZYX", "NoAnimate", "NoMorph",
}

// Has reports whether all bits of flag are set.
func (a NodeAttributes) Has(flag NodeAttributes) bool {
	return a&flag == flag
}

// String returns the set flag names joined by "|".
func (a NodeAttributes) String() string {
	return strings.Join(namesOf(uint64(a), nodeAttributeNames), "|")
}

// ComposeNodeAttributes builds a flag set from individual booleans.
func ComposeNodeAttributes(noPosition, noRotation, noScale, skipDraw, skipChildren, rotateZYX, noAnimate, noMorph bool) NodeAttributes {
	var result NodeAttributes
	for i, set := range []bool{noPosition, noRotation, noScale, skipDraw, skipChildren, rotateZYX, noAnimate, noMorph} {
		if set {
			result |= 1 << i
		}
	}
	return result
}

// Decompose returns one boolean per flag, in ComposeNodeAttributes order.
func (a NodeAttributes) Decompose() [8]bool {
	var out [8]bool
	for i := range out {
		out[i] = a&(1<<i) != 0
	}
	return out
}

// SurfaceAttributes describe visibility, solidity and collision behavior of
// placed geometry.
type SurfaceAttributes uint64

const (
	SurfaceVisible SurfaceAttributes = 1 << iota
	SurfaceSolid
	SurfaceWater
	SurfaceWaterNoAlpha
	SurfaceAccelerate
	SurfaceLowAcceleration
	SurfaceNoAcceleration
	SurfaceIncreasedAcceleration
	SurfaceTubeAcceleration
	SurfaceNoFriction
	SurfaceCannotLand
	SurfaceUnclimbable
	SurfaceStairs
	SurfaceDiggable
	SurfaceHurt
	SurfaceDynamicCollision
	SurfaceWaterCollision
	SurfaceGravity
	SurfaceFootprints
	SurfaceNoShadows
	SurfaceNoFog
	SurfaceLowDepth
	SurfaceUseSkyDrawDistance
	SurfaceEasyDraw
	SurfaceNoZWrite
	SurfaceDrawByMesh
	SurfaceEnableManipulation
	SurfaceWaterfall
	SurfaceChaos0Land
	SurfaceTransformBounds
	SurfaceBoundsRadiusSmall
	SurfaceBoundsRadiusTiny
	SurfaceSA1Unknown9
	SurfaceSA1Unknown11
	SurfaceSA1Unknown15
	SurfaceSA1Unknown19
	SurfaceSA2Unknown6
	SurfaceSA2Unknown9
	SurfaceSA2Unknown14
	SurfaceSA2Unknown16
	SurfaceSA2Unknown17
	SurfaceSA2Unknown18
	SurfaceSA2Unknown25
	SurfaceSA2Unknown26
)

// Surface attribute groups.
const (
	// SurfaceCollisions are the collision-category bits. Any of them makes an
	// entry part of the collision geometry.
	SurfaceCollisions = SurfaceWater | SurfaceAccelerate | SurfaceLowAcceleration |
		SurfaceNoAcceleration | SurfaceIncreasedAcceleration | SurfaceTubeAcceleration |
		SurfaceNoFriction | SurfaceCannotLand | SurfaceUnclimbable | SurfaceStairs |
		SurfaceDiggable | SurfaceHurt | SurfaceDynamicCollision | SurfaceWaterCollision |
		SurfaceGravity | SurfaceEnableManipulation

	// SurfaceVisuals are bits that only affect rendering.
	SurfaceVisuals = SurfaceVisible | SurfaceWaterNoAlpha | SurfaceFootprints |
		SurfaceNoShadows | SurfaceNoFog | SurfaceLowDepth | SurfaceUseSkyDrawDistance |
		SurfaceEasyDraw | SurfaceNoZWrite | SurfaceDrawByMesh | SurfaceWaterfall |
		SurfaceChaos0Land

	// SurfaceBoundTransforms affect bounds calculation on both subsets.
	SurfaceBoundTransforms = SurfaceTransformBounds | SurfaceBoundsRadiusSmall | SurfaceBoundsRadiusTiny

	SurfaceSA1Unknowns = SurfaceSA1Unknown9 | SurfaceSA1Unknown11 | SurfaceSA1Unknown15 | SurfaceSA1Unknown19
	SurfaceSA2Unknowns = SurfaceSA2Unknown6 | SurfaceSA2Unknown9 | SurfaceSA2Unknown14 |
		SurfaceSA2Unknown16 | SurfaceSA2Unknown17 | SurfaceSA2Unknown18 |
		SurfaceSA2Unknown25 | SurfaceSA2Unknown26
	SurfaceUnknowns = SurfaceSA1Unknowns | SurfaceSA2Unknowns

	// SurfaceShared are kept on both subsets.
	SurfaceShared = SurfaceSolid | SurfaceBoundTransforms | SurfaceUnknowns

	// SurfaceVisualMask is what survives on a visual entry.
	SurfaceVisualMask = SurfaceVisuals | SurfaceShared
	// SurfaceCollisionMask is what survives on a collision entry.
	SurfaceCollisionMask = SurfaceCollisions | SurfaceShared

	// SurfaceValidMask holds the bits that give an entry a category. Entries
	// with none of them can be normalized to Visible|Solid.
	SurfaceValidMask = SurfaceVisible | SurfaceCollisions
)

var surfaceAttributeNames = []string{
	"Visible", "Solid", "Water", "WaterNoAlpha", "Accelerate", "LowAcceleration",
	"NoAcceleration", "IncreasedAcceleration", "TubeAcceleration", "NoFriction",
	"CannotLand", "Unclimbable", "Stairs", "Diggable", "Hurt", "DynamicCollision",
	"WaterCollision", "Gravity", "Footprints", "NoShadows", "NoFog", "LowDepth",
	"UseSkyDrawDistance", "EasyDraw", "NoZWrite", "DrawByMesh", "EnableManipulation",
	"Waterfall", "Chaos0Land", "TransformBounds", "BoundsRadiusSmall", "BoundsRadiusTiny",
	"SA1_Unknown9", "SA1_Unknown11", "SA1_Unknown15", "SA1_Unknown19",
	"SA2_Unknown6", "SA2_Unknown9", "SA2_Unknown14", "SA2_Unknown16",
	"SA2_Unknown17", "SA2_Unknown18", "SA2_Unknown25", "SA2_Unknown26",
}

// Has reports whether all bits of flag are set.
func (s SurfaceAttributes) Has(flag SurfaceAttributes) bool {
	return s&flag == flag
}

// IsCollision reports whether any collision-category bit is set.
func (s SurfaceAttributes) IsCollision() bool {
	return s&SurfaceCollisions != 0
}

// IsVisual reports whether an entry with these attributes is rendered
// geometry: it is either not collision or explicitly visible. Entries with
// neither bit count as (invisible) visual geometry.
func (s SurfaceAttributes) IsVisual() bool {
	return !s.IsCollision() || s.Has(SurfaceVisible)
}

// String returns the set flag names joined by "|".
func (s SurfaceAttributes) String() string {
	return strings.Join(s.Names(), "|")
}

// Names returns the names of all set flags in bit order.
func (s SurfaceAttributes) Names() []string {
	return namesOf(uint64(s), surfaceAttributeNames)
}

// ComposeSurfaceAttributes builds a flag set from flag names.
func ComposeSurfaceAttributes(names []string) (SurfaceAttributes, error) {
	var result SurfaceAttributes
	for _, name := range names {
		idx := indexOf(surfaceAttributeNames, name)
		if idx < 0 {
			return 0, fmt.Errorf("unknown surface attribute %q", name)
		}
		result |= 1 << idx
	}
	return result, nil
}

func namesOf(v uint64, names []string) []string {
	out := make([]string, 0, bits.OnesCount64(v))
	for i, name := range names {
		if v&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
