// Package hierarchy reconstructs the legal hierarchy of a scanned
// insurance-policy or statute document from layout-stage content blocks.
//
// The structure it recovers, top to bottom:
//
//	Section (약관/법률) > Part (편) > Chapter (장) > ClauseGroup (절) >
//	Subdivision (관) > Article (조) > Paragraph (항) > Item (호) >
//	Subitem (목) > Subsubitem (세목) > Dash (-)
//
// Special blocks (appendix tables, glossaries, bracketed annotations) sit
// outside the numbered hierarchy and attach as siblings at any depth.
package hierarchy

import (
	"encoding/json"
	"fmt"
)

// Level is a node's depth in the legal hierarchy. Document and Special
// nodes sit outside the numbered levels.
type Level int

const (
	LevelDocument Level = -1
	LevelSpecial  Level = -1
	LevelSection  Level = 0
	LevelPart     Level = 1 // 편
	LevelChapter  Level = 2 // 장
	LevelGroup    Level = 3 // 절
	LevelSubdiv   Level = 4 // 관
	LevelArticle  Level = 5 // 조
	LevelPara     Level = 6 // 항
	LevelItem     Level = 7 // 호
	LevelSubitem  Level = 8 // 목
	LevelSubsub   Level = 9 // 세목
	LevelDash     Level = 10
)

// NodeType identifies what kind of provision a node represents.
type NodeType string

const (
	TypeDocument NodeType = "document"
	TypeSection  NodeType = "section"
	TypePart     NodeType = "part"         // 편
	TypeChapter  NodeType = "chapter"      // 장
	TypeGroup    NodeType = "clause_group" // 절
	TypeSubdiv   NodeType = "subdivision"  // 관
	TypeArticle  NodeType = "article"      // 조
	TypePara     NodeType = "paragraph"    // 항
	TypeItem     NodeType = "item"         // 호
	TypeSubitem  NodeType = "subitem"      // 목
	TypeSubsub   NodeType = "subsubitem"   // 세목
	TypeDash     NodeType = "dash"
	TypeSpecial  NodeType = "special"
)

// TypeLevel maps a node type to its hierarchy level.
func TypeLevel(t NodeType) Level {
	switch t {
	case TypeDocument, TypeSpecial:
		return LevelDocument
	case TypeSection:
		return LevelSection
	case TypePart:
		return LevelPart
	case TypeChapter:
		return LevelChapter
	case TypeGroup:
		return LevelGroup
	case TypeSubdiv:
		return LevelSubdiv
	case TypeArticle:
		return LevelArticle
	case TypePara:
		return LevelPara
	case TypeItem:
		return LevelItem
	case TypeSubitem:
		return LevelSubitem
	case TypeSubsub:
		return LevelSubsub
	case TypeDash:
		return LevelDash
	}
	return LevelDocument
}

// RefType classifies a citation as pointing inside the document or at an
// external statute.
type RefType string

const (
	RefInternal RefType = "internal"
	RefExternal RefType = "external"
)

// Reference is a single extracted citation. TargetJo and friends use the
// statutory unit names (조/항/호/목) since those are what the raw text
// carries and what downstream graph consumers key on.
type Reference struct {
	RefType    RefType `json:"ref_type"`
	SourceID   string  `json:"source_id"`
	TargetLaw  string  `json:"target_law,omitempty"`
	TargetJo   *int    `json:"target_jo,omitempty"`
	TargetJoBr *int    `json:"target_jo_branch,omitempty"`
	TargetHang *int    `json:"target_hang,omitempty"`
	TargetHo   *int    `json:"target_ho,omitempty"`
	TargetMok  string  `json:"target_mok,omitempty"`
	RawText    string  `json:"raw_text"`
	ResolvedID string  `json:"resolved_id,omitempty"`
}

// Node is one provision in the tree. Nodes live in a Tree's arena and
// address each other by index; ID is the derived dot-path label kept for
// serialization and reference resolution.
type Node struct {
	ID       string
	Type     NodeType
	Level    Level
	Number   *int
	Branch   *int
	Marker   string
	Title    string
	Content  string
	Page     int
	Parent   int // arena index, -1 for the root
	Children []int
	Refs     []Reference
	Meta     map[string]any
}

// Tree owns all nodes of one parsed document. Index 0 is always the
// Document root.
type Tree struct {
	Nodes []Node
}

// NewTree returns a tree holding only the Document root (id "root").
func NewTree() *Tree {
	return &Tree{Nodes: []Node{{
		ID:     "root",
		Type:   TypeDocument,
		Level:  LevelDocument,
		Parent: -1,
	}}}
}

// Add appends n to the arena and links it under parent. Returns the new
// node's arena index.
func (t *Tree) Add(parent int, n Node) int {
	n.Parent = parent
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	return idx
}

// AppendContent joins text onto a node's content with a newline.
func (t *Tree) AppendContent(idx int, text string) {
	n := &t.Nodes[idx]
	if n.Content == "" {
		n.Content = text
	} else {
		n.Content += "\n" + text
	}
}

// Sections returns the arena indexes of the Document root's children.
func (t *Tree) Sections() []int {
	return t.Nodes[0].Children
}

// Walk visits idx and its descendants depth-first in child order.
func (t *Tree) Walk(idx int, fn func(idx int, n *Node)) {
	fn(idx, &t.Nodes[idx])
	for _, c := range t.Nodes[idx].Children {
		t.Walk(c, fn)
	}
}

// References flattens every node's reference list in document order.
func (t *Tree) References() []Reference {
	var refs []Reference
	t.Walk(0, func(_ int, n *Node) {
		refs = append(refs, n.Refs...)
	})
	return refs
}

// CountByType tallies nodes per type, the shape the parse log reports.
func (t *Tree) CountByType() map[NodeType]int {
	counts := make(map[NodeType]int)
	t.Walk(0, func(_ int, n *Node) {
		counts[n.Type]++
	})
	return counts
}

// nodeJSON is the wire form of a node.
type nodeJSON struct {
	ID         string         `json:"id"`
	Type       NodeType       `json:"type"`
	Level      Level          `json:"level"`
	Number     *int           `json:"number"`
	Branch     *int           `json:"branch,omitempty"`
	Marker     string         `json:"marker"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Page       int            `json:"page"`
	Children   []nodeJSON     `json:"children"`
	References []Reference    `json:"references,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (t *Tree) toJSON(idx int) nodeJSON {
	n := &t.Nodes[idx]
	out := nodeJSON{
		ID:         n.ID,
		Type:       n.Type,
		Level:      n.Level,
		Number:     n.Number,
		Branch:     n.Branch,
		Marker:     n.Marker,
		Title:      n.Title,
		Content:    n.Content,
		Page:       n.Page,
		Children:   make([]nodeJSON, 0, len(n.Children)),
		References: n.Refs,
		Metadata:   n.Meta,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, t.toJSON(c))
	}
	return out
}

// MarshalJSON serializes the whole tree as nested nodes rooted at the
// Document node.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toJSON(0))
}

// Deserialize rebuilds a tree from its serialized form. The result is
// structurally identical to the tree that produced the data: same ids,
// types, child order and reference payloads.
func Deserialize(data []byte) (*Tree, error) {
	var root nodeJSON
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode hierarchy: %w", err)
	}
	if root.Type != TypeDocument {
		return nil, fmt.Errorf("unexpected root type %q", root.Type)
	}
	t := &Tree{}
	t.fromJSON(&root, -1)
	return t, nil
}

func (t *Tree) fromJSON(n *nodeJSON, parent int) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{
		ID:      n.ID,
		Type:    n.Type,
		Level:   n.Level,
		Number:  n.Number,
		Branch:  n.Branch,
		Marker:  n.Marker,
		Title:   n.Title,
		Content: n.Content,
		Page:    n.Page,
		Parent:  parent,
		Refs:    n.References,
		Meta:    n.Metadata,
	})
	if parent >= 0 {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}
	for i := range n.Children {
		t.fromJSON(&n.Children[i], idx)
	}
	return idx
}

// graft copies the subtree rooted at srcIdx in src under dstParent,
// remapping arena indexes. Used when sections are parsed into separate
// arenas and assembled into the document tree afterward.
func (t *Tree) graft(src *Tree, srcIdx, dstParent int) int {
	n := src.Nodes[srcIdx]
	children := n.Children
	n.Children = nil
	idx := t.Add(dstParent, n)
	for _, c := range children {
		t.graft(src, c, idx)
	}
	return idx
}

func intPtr(v int) *int { return &v }
