package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/blocks"
	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/hierarchy"
)

var (
	parseDocName      string
	parseWorkers      int
	parsePDF          string
	parseOutput       string
	parseSectionsOnly bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <input-dir>",
	Short: "Parse a directory of page_*.json layout blocks into a document tree",
	Long: `Parse reads the layout stage's page_*.json files from the input
directory, reconstructs the document's legal hierarchy and writes the
resolved tree as JSON.

Without --output the tree is stored under the doclayout home directory
at docs/<doc-id>/hierarchy.json, where <doc-id> is derived from the
input directory name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, hd, logger, err := setup()
		if err != nil {
			return err
		}
		cfg := cm.Get()
		inputDir := args[0]

		bs, err := blocks.Load(inputDir, blocks.LoadOptions{
			Retries: cfg.Parse.LoadRetries,
			Logger:  logger,
		})
		if err != nil {
			return err
		}

		if parsePDF != "" {
			if err := blocks.CrossCheckPDF(parsePDF, bs); err != nil {
				return fmt.Errorf("page count mismatch: %w", err)
			}
			logger.Debug("pdf page count verified", "pdf", parsePDF)
		}

		docName := parseDocName
		if docName == "" {
			docName = cfg.Parse.DocName
		}
		if docName == "" {
			docName = blocks.DeriveDocName(bs, inputDir)
			logger.Debug("derived document name", "doc_name", docName)
		}

		workers := parseWorkers
		if workers == 0 {
			workers = cfg.Parse.SectionWorkers
		}

		parser := hierarchy.NewParser(hierarchy.ParserOptions{
			DocName: docName,
			Workers: workers,
			Logger:  logger,
		})
		tree, err := parser.Parse(cmd.Context(), blocks.Fragments(bs))
		if err != nil {
			return err
		}

		if parseSectionsOnly {
			for _, sec := range tree.Sections() {
				n := tree.Nodes[sec]
				fmt.Printf("%s\t%s\t(page %d)\n", n.Marker, n.Title, n.Page)
			}
			return nil
		}

		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}

		outPath := parseOutput
		if outPath == "" {
			docID := filepath.Base(filepath.Clean(inputDir))
			if err := hd.EnsureDocDir(docID); err != nil {
				return fmt.Errorf("failed to create document directory: %w", err)
			}
			outPath = hd.HierarchyPath(docID)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}
		logger.Info("wrote document tree", "path", outPath, "doc_name", docName)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseDocName, "doc-name", "", "document's own name (default: derived from the blocks)")
	parseCmd.Flags().IntVar(&parseWorkers, "workers", 0, "concurrent section parses (default: from config)")
	parseCmd.Flags().StringVar(&parsePDF, "pdf", "", "source PDF to cross-check page counts against")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output file for the tree JSON")
	parseCmd.Flags().BoolVar(&parseSectionsOnly, "sections-only", false, "list detected sections instead of writing the tree")
}
