package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/cobra"

	"github.com/Faultbox/saio/pkg/formats"
	"github.com/Faultbox/saio/pkg/scene"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print a summary of a level or model file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, name, err := fileSystem(args[0])
		if err != nil {
			return err
		}
		data, err := util.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		level, err := formats.DecodeLevel(data)
		if err == nil {
			printLevel(out, level)
			return nil
		}
		if !errors.Is(err, formats.ErrInvalidMagic) {
			return err
		}

		model, err := formats.DecodeModel(data)
		if err != nil {
			return err
		}
		printModel(out, model)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printLevel(w io.Writer, level *formats.Level) {
	lt := level.LandTable
	fmt.Fprintf(w, "Level:         %s\n", lt.Label)
	fmt.Fprintf(w, "Format:        %s\n", lt.Format)
	fmt.Fprintf(w, "Draw distance: %.1f\n", lt.DrawDistance)
	if lt.TextureFileName != "" {
		fmt.Fprintf(w, "Textures:      %s\n", lt.TextureFileName)
	}
	printMetaData(w, level.MetaData)

	var visual, collision int
	for _, e := range lt.Geometry {
		if e.SurfaceAttributes.IsCollision() {
			collision++
		}
		if e.SurfaceAttributes.IsVisual() {
			visual++
		}
	}
	fmt.Fprintf(w, "Geometry:      %d entries (%s)\n", len(lt.Geometry), lt.GeometryLabel)
	fmt.Fprintf(w, "  Visual:      %d\n", visual)
	fmt.Fprintf(w, "  Collision:   %d\n", collision)
	if len(lt.Motions) > 0 {
		fmt.Fprintf(w, "Motions:       %d (%s)\n", len(lt.Motions), lt.MotionsLabel)
	}
}

func printModel(w io.Writer, model *formats.Model) {
	var nodes, attaches int
	for _, root := range model.Roots {
		root.Walk(func(n, _ *scene.Node) {
			nodes++
			if n.Attach != nil {
				attaches++
			}
		})
	}
	fmt.Fprintf(w, "Model:         %d roots\n", len(model.Roots))
	printMetaData(w, model.MetaData)
	fmt.Fprintf(w, "Nodes:         %d\n", nodes)
	fmt.Fprintf(w, "Attached:      %d\n", attaches)
}

func printMetaData(w io.Writer, md formats.MetaData) {
	if md.Author != "" {
		fmt.Fprintf(w, "Author:        %s\n", md.Author)
	}
	if md.Description != "" {
		fmt.Fprintf(w, "Description:   %s\n", md.Description)
	}
}
