package formats

import (
	"github.com/Faultbox/saio/pkg/mesh"
	"github.com/Faultbox/saio/pkg/scene"
)

// LandTableAttributes are land table level flags.
type LandTableAttributes uint16

const (
	LandTableEnableMotion LandTableAttributes = 1 << iota
	LandTableLoadTextureFile
	LandTableCustomDrawDistance
	LandTableLoadTexlist
)

// MetaData holds descriptive container information.
type MetaData struct {
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
}

// LandEntry is one piece of placed level geometry.
type LandEntry struct {
	BlockBit          uint32
	SurfaceAttributes scene.SurfaceAttributes
	Model             *scene.Node
}

// NewLandEntry creates a land entry whose model node carries attach.
func NewLandEntry(attach *mesh.Attach, surface scene.SurfaceAttributes) *LandEntry {
	model := scene.NewNode("")
	model.Attach = attach
	return &LandEntry{SurfaceAttributes: surface, Model: model}
}

// GeometryMotion is an animated piece of level geometry.
type GeometryMotion struct {
	Label      string      `yaml:"label"`
	Frame      float32     `yaml:"frame"`
	Step       float32     `yaml:"step"`
	MaxFrame   uint32      `yaml:"max_frame"`
	TexListPtr uint32      `yaml:"texlist_pointer"`
	Model      *scene.Node `yaml:"model"`
}

// LandTable is the level geometry container.
type LandTable struct {
	Label           string
	Format          ModelFormat
	DrawDistance    float32
	Attributes      LandTableAttributes
	TextureFileName string
	TexListPtr      uint32

	GeometryLabel string
	Geometry      []*LandEntry

	MotionsLabel string
	Motions      []*GeometryMotion
}

// Level is a land table together with its file metadata.
type Level struct {
	LandTable *LandTable
	MetaData  MetaData
}

// Model is a node hierarchy together with its file metadata.
type Model struct {
	Roots    []*scene.Node
	MetaData MetaData
}
