package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/export"
	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/hierarchy"
)

var (
	exportOut     string
	exportDocName string
)

var exportCmd = &cobra.Command{
	Use:   "export <tree.json>",
	Short: "Export a parsed document tree as graph-ready JSON",
	Long: `Export converts a parsed hierarchy tree into graph-database-ready
files: one node/edge file per section, a document metadata file, and
per-article embedding texts.

Without --out the files are written next to the input tree in a graph/
subdirectory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, logger, err := setup()
		if err != nil {
			return err
		}
		treePath := args[0]

		data, err := os.ReadFile(treePath)
		if err != nil {
			return fmt.Errorf("failed to read tree: %w", err)
		}
		tree, err := hierarchy.Deserialize(data)
		if err != nil {
			return fmt.Errorf("failed to decode tree: %w", err)
		}

		outDir := exportOut
		if outDir == "" {
			outDir = filepath.Join(filepath.Dir(treePath), "graph")
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		docName := exportDocName
		if docName == "" {
			docName = strings.TrimSuffix(filepath.Base(treePath), filepath.Ext(treePath))
		}

		if err := export.WriteAll(outDir, tree, export.WriteOptions{
			DocName: docName,
			Logger:  logger,
		}); err != nil {
			return err
		}
		logger.Info("export complete", "dir", outDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default: graph/ next to the tree)")
	exportCmd.Flags().StringVar(&exportDocName, "doc-name", "", "document name recorded in the export (default: tree file name)")
}
