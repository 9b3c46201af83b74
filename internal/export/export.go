// Package export converts a parsed document tree into graph-ready
// node/edge listings, one file per section, plus document metadata and
// embedding-text preparation. It only shapes data; no database client.
package export

import (
	"fmt"
	"strings"

	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/hierarchy"
)

// Graph labels per node type. These are the statutory unit names in
// romanization, the vocabulary downstream graph consumers key on.
const (
	LabelDocument = "Document"
	LabelSection  = "Section"
	LabelPyeon    = "Pyeon"
	LabelJang     = "Jang"
	LabelJeol     = "Jeol"
	LabelGwan     = "Gwan"
	LabelJo       = "Jo"
	LabelHang     = "Hang"
	LabelHo       = "Ho"
	LabelMok      = "Mok"
	LabelSemok    = "Semok"
	LabelDash     = "Dash"
	LabelSpecial  = "Special"
)

// Label maps a node type to its graph label.
func Label(t hierarchy.NodeType) (string, error) {
	switch t {
	case hierarchy.TypeDocument:
		return LabelDocument, nil
	case hierarchy.TypeSection:
		return LabelSection, nil
	case hierarchy.TypePart:
		return LabelPyeon, nil
	case hierarchy.TypeChapter:
		return LabelJang, nil
	case hierarchy.TypeGroup:
		return LabelJeol, nil
	case hierarchy.TypeSubdiv:
		return LabelGwan, nil
	case hierarchy.TypeArticle:
		return LabelJo, nil
	case hierarchy.TypePara:
		return LabelHang, nil
	case hierarchy.TypeItem:
		return LabelHo, nil
	case hierarchy.TypeSubitem:
		return LabelMok, nil
	case hierarchy.TypeSubsub:
		return LabelSemok, nil
	case hierarchy.TypeDash:
		return LabelDash, nil
	case hierarchy.TypeSpecial:
		return LabelSpecial, nil
	default:
		return "", fmt.Errorf("unknown node type %q", t)
	}
}

// Edge types.
const (
	EdgeHasChild   = "HAS_CHILD"
	EdgeReferences = "REFERENCES"
	EdgeCitesLaw   = "CITES_LAW"
	EdgeExtends    = "EXTENDS"
)

// GraphNode is one exported node.
type GraphNode struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Marker   string         `json:"marker,omitempty"`
	Title    string         `json:"title,omitempty"`
	Content  string         `json:"content,omitempty"`
	Page     int            `json:"page"`
	Number   *int           `json:"number,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GraphEdge is one exported relation. REFERENCES edges point at node
// ids; CITES_LAW edges carry the statute name and target detail as
// properties since the statute is not a node of this document.
type GraphEdge struct {
	Type       string         `json:"type"`
	From       string         `json:"from"`
	To         string         `json:"to,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// SectionGraph is the export of one section.
type SectionGraph struct {
	SectionID string      `json:"section_id"`
	Title     string      `json:"title"`
	Type      string      `json:"section_type"`
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
}

// Section type classification.
const (
	SectionBase         = "base"
	SectionSpecial      = "special"
	SectionAdditional   = "additional"
	SectionLawReference = "law_reference"
	SectionDispute      = "dispute"
	SectionOther        = "other"
)

// SectionType classifies a section by its title.
func SectionType(title string) string {
	switch {
	case strings.Contains(title, "추가특별약관"), strings.Contains(title, "추가약관"):
		return SectionAdditional
	case strings.Contains(title, "특별약관"):
		return SectionSpecial
	case strings.Contains(title, "보통약관"):
		return SectionBase
	case strings.Contains(title, "법규"),
		strings.HasSuffix(title, "법"), strings.HasSuffix(title, "령"),
		strings.HasSuffix(title, "규정"), strings.HasSuffix(title, "규칙"):
		return SectionLawReference
	case strings.Contains(title, "분쟁"), strings.Contains(title, "민원"),
		strings.Contains(title, "유의사항"):
		return SectionDispute
	default:
		return SectionOther
	}
}

// BuildSection exports the subtree rooted at the section with arena
// index sec.
func BuildSection(tree *hierarchy.Tree, sec int) (*SectionGraph, error) {
	root := &tree.Nodes[sec]
	out := &SectionGraph{
		SectionID: root.ID,
		Title:     root.Title,
		Type:      SectionType(root.Title),
	}

	var walkErr error
	tree.Walk(sec, func(idx int, n *hierarchy.Node) {
		if walkErr != nil {
			return
		}
		label, err := Label(n.Type)
		if err != nil {
			walkErr = err
			return
		}
		out.Nodes = append(out.Nodes, GraphNode{
			ID:       n.ID,
			Label:    label,
			Marker:   n.Marker,
			Title:    n.Title,
			Content:  n.Content,
			Page:     n.Page,
			Number:   n.Number,
			Metadata: n.Meta,
		})
		for _, c := range n.Children {
			out.Edges = append(out.Edges, GraphEdge{
				Type: EdgeHasChild,
				From: n.ID,
				To:   tree.Nodes[c].ID,
			})
		}
		for _, ref := range n.Refs {
			out.Edges = append(out.Edges, refEdge(ref))
		}
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

// refEdge shapes one reference as a graph edge. Unresolved internal
// references still export, without a target node, so downstream can
// count them.
func refEdge(ref hierarchy.Reference) GraphEdge {
	props := map[string]any{"raw_text": ref.RawText}
	if ref.TargetJo != nil {
		props["target_jo"] = *ref.TargetJo
	}
	if ref.TargetJoBr != nil {
		props["target_jo_branch"] = *ref.TargetJoBr
	}
	if ref.TargetHang != nil {
		props["target_hang"] = *ref.TargetHang
	}
	if ref.TargetHo != nil {
		props["target_ho"] = *ref.TargetHo
	}
	if ref.TargetMok != "" {
		props["target_mok"] = ref.TargetMok
	}

	if ref.RefType == hierarchy.RefExternal {
		props["law"] = ref.TargetLaw
		return GraphEdge{
			Type:       EdgeCitesLaw,
			From:       ref.SourceID,
			Properties: props,
		}
	}
	return GraphEdge{
		Type:       EdgeReferences,
		From:       ref.SourceID,
		To:         ref.ResolvedID,
		Properties: props,
	}
}

// DocumentMeta is the document-level export: section inventory plus
// EXTENDS relations from riders to the base policy section.
type DocumentMeta struct {
	DocName  string        `json:"doc_name"`
	Sections []SectionInfo `json:"sections"`
	Extends  []GraphEdge   `json:"extends"`
}

// SectionInfo is one section's inventory entry.
type SectionInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"section_type"`
	Articles int    `json:"articles"`
}

// BuildDocumentMeta inventories sections and derives EXTENDS edges:
// every special/additional rider extends the first base section.
func BuildDocumentMeta(tree *hierarchy.Tree, docName string) *DocumentMeta {
	meta := &DocumentMeta{DocName: docName}

	baseID := ""
	for _, sec := range tree.Sections() {
		n := &tree.Nodes[sec]
		info := SectionInfo{
			ID:    n.ID,
			Title: n.Title,
			Type:  SectionType(n.Title),
		}
		tree.Walk(sec, func(_ int, c *hierarchy.Node) {
			if c.Type == hierarchy.TypeArticle {
				info.Articles++
			}
		})
		if info.Type == SectionBase && baseID == "" {
			baseID = info.ID
		}
		meta.Sections = append(meta.Sections, info)
	}

	if baseID != "" {
		for _, s := range meta.Sections {
			if s.Type == SectionSpecial || s.Type == SectionAdditional {
				meta.Extends = append(meta.Extends, GraphEdge{
					Type: EdgeExtends,
					From: s.ID,
					To:   baseID,
				})
			}
		}
	}
	return meta
}

// EmbeddingDoc is one article's flattened text, the unit embedding
// models consume.
type EmbeddingDoc struct {
	NodeID string `json:"node_id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// BuildEmbeddingDocs flattens every article subtree into one text blob
// per article, in document order.
func BuildEmbeddingDocs(tree *hierarchy.Tree) []EmbeddingDoc {
	var docs []EmbeddingDoc
	tree.Walk(0, func(idx int, n *hierarchy.Node) {
		if n.Type != hierarchy.TypeArticle {
			return
		}
		var sb strings.Builder
		tree.Walk(idx, func(_ int, c *hierarchy.Node) {
			text := strings.TrimSpace(c.Content)
			if text == "" {
				return
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		})
		docs = append(docs, EmbeddingDoc{
			NodeID: n.ID,
			Title:  n.Title,
			Text:   sb.String(),
		})
	})
	return docs
}
