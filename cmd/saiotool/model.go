package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/saio/internal/convert"
	"github.com/Faultbox/saio/pkg/mesh"
)

var (
	modelFamily  string
	modelReplay  bool
	importFamily string
)

var exportModelCmd = &cobra.Command{
	Use:   "export-model <dump.yaml> <output>",
	Short: "Build a model file from a model dump",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, inName, err := fileSystem(args[0])
		if err != nil {
			return err
		}
		req, err := convert.LoadDebugModel(in, inName)
		if err != nil {
			return err
		}

		if !modelReplay {
			req.Optimize = cfg.Export.Optimize
			req.WriteSpecular = cfg.Export.WriteSpecular
			req.AutoNodeAttributes = cfg.Export.AutoNodeAttributes
			req.FlipVertexColors = cfg.Import.FlipVertexColors
			req.RequireSingleRoot = cfg.Export.RequireSingleRoot
			if cfg.Export.Author != "" {
				req.MetaData.Author = cfg.Export.Author
			}
			if cfg.Export.Description != "" {
				req.MetaData.Description = cfg.Export.Description
			}
		}
		if modelFamily != "" {
			if req.Family, err = mesh.ParseFamily(modelFamily); err != nil {
				return err
			}
		}

		out, outName, err := fileSystem(args[1])
		if err != nil {
			return err
		}
		if err := convert.ExportModel(out, outName, req); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%s, %d nodes, %d meshes)\n", args[1], req.Family, len(req.Nodes), len(req.Meshes))
		return nil
	},
}

var importModelCmd = &cobra.Command{
	Use:   "import-model <model> <dump.yaml>",
	Short: "Flatten a model file into a model dump",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, inName, err := fileSystem(args[0])
		if err != nil {
			return err
		}
		result, err := convert.ImportModel(in, inName, cfg.Import.Optimize, cfg.Import.FlipVertexColors)
		if err != nil {
			return err
		}

		family := convert.DominantFamily(result.Forest, mesh.FamilyBasic)
		if importFamily != "" {
			if family, err = mesh.ParseFamily(importFamily); err != nil {
				return err
			}
		}

		out, outName, err := fileSystem(args[1])
		if err != nil {
			return err
		}
		if err := convert.SaveDebugModel(out, outName, result.ToExport(family)); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d nodes, %d meshes, weighted: %t)\n", args[1], len(result.Nodes), len(result.Meshes), result.Weighted)
		return nil
	},
}

func init() {
	exportModelCmd.Flags().StringVar(&modelFamily, "family", "", "Override the mesh family (BASIC, CHUNK, GC, BUFFER)")
	exportModelCmd.Flags().BoolVar(&modelReplay, "replay", false, "Use the options stored in the dump instead of the config")
	importModelCmd.Flags().StringVar(&importFamily, "family", "", "Mesh family written to the dump (default: most used)")
	rootCmd.AddCommand(exportModelCmd, importModelCmd)
}
