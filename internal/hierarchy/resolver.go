package hierarchy

import (
	"fmt"
	"log/slog"
)

type articleKey struct {
	section int
	jo      int
	branch  int
}

// Resolver maps internal references to the node IDs of their targets.
// External references are left untouched: statute text lives outside
// the document.
type Resolver struct {
	articles map[articleKey]string
	logger   *slog.Logger
}

// NewResolver indexes every article in tree by (section, number,
// branch). Sections are numbered in document order.
func NewResolver(tree *Tree, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{articles: make(map[articleKey]string), logger: logger}
	for si, sec := range tree.Sections() {
		tree.Walk(sec, func(idx int, n *Node) {
			if n.Type != TypeArticle || n.Number == nil {
				return
			}
			branch := 0
			if n.Branch != nil {
				branch = *n.Branch
			}
			key := articleKey{section: si, jo: *n.Number, branch: branch}
			if first, dup := r.articles[key]; dup {
				// Marker-path ids collide when an article number repeats
				// in one section; the first declaration keeps the key.
				r.logger.Debug("duplicate article shadowed",
					"id", n.ID, "kept", first)
				return
			}
			r.articles[key] = n.ID
		})
	}
	return r
}

// Resolve fills ResolvedID on every internal reference whose target
// article exists in the same section. Sections renumber their articles
// independently, so a target missing from the source's own section
// stays unresolved.
func (r *Resolver) Resolve(tree *Tree) {
	for si, sec := range tree.Sections() {
		tree.Walk(sec, func(idx int, n *Node) {
			for i := range n.Refs {
				ref := &n.Refs[i]
				if ref.RefType != RefInternal || ref.TargetJo == nil {
					continue
				}
				ref.ResolvedID = r.resolve(si, ref)
			}
		})
	}
}

func (r *Resolver) resolve(section int, ref *Reference) string {
	branch := 0
	if ref.TargetJoBr != nil {
		branch = *ref.TargetJoBr
	}
	articleID, ok := r.articles[articleKey{section: section, jo: *ref.TargetJo, branch: branch}]
	if !ok {
		r.logger.Debug("unresolved internal reference", "raw", ref.RawText)
		return ""
	}

	id := articleID
	if ref.TargetHang != nil {
		id += "." + hangMarker(*ref.TargetHang)
		if ref.TargetHo != nil {
			id += "." + fmt.Sprintf("%d.", *ref.TargetHo)
			if ref.TargetMok != "" {
				id += "." + ref.TargetMok + "."
			}
		}
	}
	return id
}

// hangMarker renders a paragraph number the way node markers do:
// circled glyphs up to ⑳, the textual form past that.
func hangMarker(n int) string {
	if n >= 1 && n <= 20 {
		return CircledNumber(n)
	}
	return fmt.Sprintf("제%d항", n)
}
