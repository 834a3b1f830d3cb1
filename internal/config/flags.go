package config

import (
	"github.com/spf13/pflag"

	"github.com/Faultbox/saio/pkg/scene"
)

// Flag names shared by every command.
const (
	FlagConfig             = "config"
	FlagDebug              = "debug"
	FlagLogFile            = "log-file"
	FlagOptimize           = "optimize"
	FlagWriteSpecular      = "write-specular"
	FlagFallbackSurface    = "fallback-surface"
	FlagAutoNodeAttributes = "auto-node-attributes"
	FlagPositiveEuler      = "positive-euler"
	FlagSingleRoot         = "single-root"
	FlagDrawDistance       = "draw-distance"
	FlagAuthor             = "author"
	FlagDescription        = "description"
	FlagFlipVertexColors   = "flip-vertex-colors"
)

// BindFlags registers the configuration overrides on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file")
	fs.Bool(FlagDebug, false, "Enable debug logging")
	fs.String(FlagLogFile, "", "Write logs to this file as well")
	fs.Bool(FlagOptimize, true, "Merge duplicate vertices when encoding or decoding meshes")
	fs.Bool(FlagWriteSpecular, false, "Keep specular material colors")
	fs.Bool(FlagFallbackSurface, true, "Give entries without valid surface flags Visible|Solid")
	fs.String(FlagAutoNodeAttributes, "missing", "Infer node attributes: none, missing or override")
	fs.Bool(FlagPositiveEuler, true, "Map euler angles into [0, 2pi)")
	fs.Bool(FlagSingleRoot, false, "Fail model export when the hierarchy has several roots")
	fs.Float32(FlagDrawDistance, 0, "Land table draw distance")
	fs.String(FlagAuthor, "", "Container author")
	fs.String(FlagDescription, "", "Container description")
	fs.Bool(FlagFlipVertexColors, false, "Swap vertex color channels on import")
}

// ConfigPath returns the explicit config path if provided via --config.
func ConfigPath(fs *pflag.FlagSet) string {
	path, _ := fs.GetString(FlagConfig)
	return path
}

// ApplyFlags applies the flags that were set explicitly on fs to cfg.
// Flags left at their defaults do not override file values.
func ApplyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return err == nil && f != nil && f.Changed
	}

	if changed(FlagDebug) {
		var debug bool
		if debug, err = fs.GetBool(FlagDebug); debug {
			cfg.Logging.Level = "debug"
		}
	}
	if changed(FlagLogFile) {
		cfg.Logging.LogFile, err = fs.GetString(FlagLogFile)
	}
	if changed(FlagOptimize) {
		var optimize bool
		optimize, err = fs.GetBool(FlagOptimize)
		cfg.Export.Optimize = optimize
		cfg.Import.Optimize = optimize
	}
	if changed(FlagWriteSpecular) {
		cfg.Export.WriteSpecular, err = fs.GetBool(FlagWriteSpecular)
	}
	if changed(FlagFallbackSurface) {
		cfg.Export.FallbackSurfaceAttributes, err = fs.GetBool(FlagFallbackSurface)
	}
	if changed(FlagAutoNodeAttributes) {
		var mode string
		if mode, err = fs.GetString(FlagAutoNodeAttributes); err == nil {
			cfg.Export.AutoNodeAttributes, err = scene.ParseAutoNodeAttributeMode(mode)
		}
	}
	if changed(FlagPositiveEuler) {
		cfg.Export.EnsurePositiveEulerAngles, err = fs.GetBool(FlagPositiveEuler)
	}
	if changed(FlagSingleRoot) {
		cfg.Export.RequireSingleRoot, err = fs.GetBool(FlagSingleRoot)
	}
	if changed(FlagDrawDistance) {
		cfg.Export.DrawDistance, err = fs.GetFloat32(FlagDrawDistance)
	}
	if changed(FlagAuthor) {
		cfg.Export.Author, err = fs.GetString(FlagAuthor)
	}
	if changed(FlagDescription) {
		cfg.Export.Description, err = fs.GetString(FlagDescription)
	}
	if changed(FlagFlipVertexColors) {
		cfg.Import.FlipVertexColors, err = fs.GetBool(FlagFlipVertexColors)
	}

	return err
}
