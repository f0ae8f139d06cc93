// Command exogen builds an Exodus II mesh file from a YAML mesh
// description.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "exogen",
		Short:         "Generate Exodus II mesh files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		output   string
		wordSize int
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "generate <mesh.yaml>",
		Short: "Write an Exodus II file from a YAML mesh description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: false,
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			mesh, err := loadMesh(args[0])
			if err != nil {
				return fmt.Errorf("loading mesh description: %w", err)
			}
			if err := writeMesh(mesh, output, wordSize, logger); err != nil {
				return err
			}
			logger.Info("wrote exodus file", "path", output,
				"nodes", mesh.nodeCount(), "elems", mesh.elemCount(), "blocks", len(mesh.Blocks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "mesh.exo", "output file path")
	cmd.Flags().IntVar(&wordSize, "word-size", 8, "floating point storage width (4 or 8)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
