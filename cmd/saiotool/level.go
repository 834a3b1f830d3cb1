package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/saio/internal/convert"
	"github.com/Faultbox/saio/pkg/formats"
)

var (
	levelFormat string
	replay      bool
)

var exportLevelCmd = &cobra.Command{
	Use:   "export-level <dump.yaml> <output>",
	Short: "Build a level file from a level dump",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, inName, err := fileSystem(args[0])
		if err != nil {
			return err
		}
		req, err := convert.LoadDebugLevel(in, inName)
		if err != nil {
			return err
		}

		if !replay {
			req.Options = exportOptions()
			if cfg.Export.DrawDistance > 0 {
				req.DrawDistance = cfg.Export.DrawDistance
			}
			if cfg.Export.Author != "" {
				req.MetaData.Author = cfg.Export.Author
			}
			if cfg.Export.Description != "" {
				req.MetaData.Description = cfg.Export.Description
			}
		}
		if levelFormat != "" {
			if req.Format, err = formats.ParseModelFormat(levelFormat); err != nil {
				return err
			}
		}

		out, outName, err := fileSystem(args[1])
		if err != nil {
			return err
		}
		if err := convert.ExportLevel(out, outName, req); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%s, %d entries, %d meshes)\n", args[1], req.Format, len(req.Entries), len(req.Meshes))
		return nil
	},
}

var importLevelCmd = &cobra.Command{
	Use:   "import-level <level> <dump.yaml>",
	Short: "Flatten a level file into a level dump",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, inName, err := fileSystem(args[0])
		if err != nil {
			return err
		}
		result, err := convert.ImportLevel(in, inName, cfg.Import.Optimize)
		if err != nil {
			return err
		}

		out, outName, err := fileSystem(args[1])
		if err != nil {
			return err
		}
		if err := convert.SaveDebugLevel(out, outName, result.ToExport(exportOptions())); err != nil {
			return err
		}

		fmt.Printf("Wrote %s (%d entries, %d meshes)\n", args[1], len(result.Entries), len(result.Meshes))
		if result.VisualCount != nil {
			fmt.Printf("Visual entries: %d\n", *result.VisualCount)
		}
		return nil
	},
}

func exportOptions() convert.ExportOptions {
	return convert.ExportOptions{
		Optimize:                  cfg.Export.Optimize,
		WriteSpecular:             cfg.Export.WriteSpecular,
		FallbackSurfaceAttributes: cfg.Export.FallbackSurfaceAttributes,
		AutoNodeAttributes:        cfg.Export.AutoNodeAttributes,
		EnsurePositiveEulerAngles: cfg.Export.EnsurePositiveEulerAngles,
	}
}

func init() {
	exportLevelCmd.Flags().StringVar(&levelFormat, "format", "", "Override the target format (SA1, SADX, SA2, SA2B, Buffer)")
	exportLevelCmd.Flags().BoolVar(&replay, "replay", false, "Use the options stored in the dump instead of the config")
	rootCmd.AddCommand(exportLevelCmd, importLevelCmd)
}
