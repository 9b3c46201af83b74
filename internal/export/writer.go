package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/hierarchy"
)

// WriteOptions configures a graph export run.
type WriteOptions struct {
	DocName string
	Logger  *slog.Logger
}

// WriteAll exports the whole tree under dir: one <section-marker>.json
// per section, document.json with the section inventory and EXTENDS
// edges, and embeddings.json with per-article flattened text.
func WriteAll(dir string, tree *hierarchy.Tree, opts WriteOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, sec := range tree.Sections() {
		sg, err := BuildSection(tree, sec)
		if err != nil {
			return err
		}
		name := tree.Nodes[sec].Marker + ".json"
		if err := writeJSON(filepath.Join(dir, name), sg); err != nil {
			return err
		}
		logger.Debug("exported section",
			"file", name, "nodes", len(sg.Nodes), "edges", len(sg.Edges))
	}

	meta := BuildDocumentMeta(tree, opts.DocName)
	if err := writeJSON(filepath.Join(dir, "document.json"), meta); err != nil {
		return err
	}

	docs := BuildEmbeddingDocs(tree)
	if err := writeJSON(filepath.Join(dir, "embeddings.json"), docs); err != nil {
		return err
	}

	logger.Info("graph export complete",
		"dir", dir, "sections", len(meta.Sections), "embedding_docs", len(docs))
	return nil
}

// writeJSON writes v atomically: full temp file first, rename after.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize %s: %w", filepath.Base(path), err)
	}
	return nil
}
