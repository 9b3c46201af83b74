package hierarchy

import (
	"log/slog"
	"regexp"
	"strings"
)

// Fragment is the core's view of one layout-stage content block: final
// text plus the page and box metadata the special-block rules need.
type Fragment struct {
	Page      int
	Text      string
	InsideBox bool
	BoxID     *int
}

// Global special-block triggers. These reset the whole parse context:
// appendix tables, glossaries and notes interrupt the numbered
// hierarchy entirely rather than nesting inside it.
var (
	reAppendix  = regexp.MustCompile(`^[\[【]별표\s*(\d*)[\]】]`)
	reGlossary  = regexp.MustCompile(`^※\s*용어`)
	reNote      = regexp.MustCompile(`^비고\s*$|^비고\s*\d`)
	reLawHeader = regexp.MustCompile(`^[\[【]법규\s*\d*[\]】]`)
)

type globalSpecial struct {
	kind   string
	marker string
}

func matchGlobalSpecial(text string) *globalSpecial {
	if g := reAppendix.FindStringSubmatch(text); g != nil {
		return &globalSpecial{kind: "appendix", marker: "[별표" + g[1] + "]"}
	}
	if reGlossary.MatchString(text) {
		return &globalSpecial{kind: "glossary", marker: "※용어정의"}
	}
	if reNote.MatchString(text) {
		return &globalSpecial{kind: "note", marker: "비고"}
	}
	if reLawHeader.MatchString(text) {
		return &globalSpecial{kind: "law", marker: firstRunes(text, 20)}
	}
	return nil
}

// Builder drives one section's parse: it consumes fragments in order,
// classifies them, mutates the ParseContext and grows the tree.
type Builder struct {
	tree    *Tree
	section int
	ctx     *ParseContext
	matcher *Matcher
	refs    *ReferenceExtractor
	logger  *slog.Logger
}

// NewBuilder prepares a builder for one section node of tree.
func NewBuilder(tree *Tree, section int, m *Matcher, refs *ReferenceExtractor, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		tree:    tree,
		section: section,
		ctx:     NewParseContext(section),
		matcher: m,
		refs:    refs,
		logger:  logger,
	}
}

// Consume processes one fragment.
func (b *Builder) Consume(f Fragment) {
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return
	}

	if gs := matchGlobalSpecial(text); gs != nil {
		b.openGlobalSpecial(f, text, gs)
		return
	}

	if b.ctx.InSpecial() {
		if b.consumeInSpecial(f, text) {
			return
		}
		// Special block ended; the fragment reprocesses normally.
	}

	m := b.matcher.Match(text)
	if m == nil {
		b.consumeProse(f, text)
		return
	}
	b.consumeMatch(f, text, m)
}

// openGlobalSpecial resets the entire context and opens an appendix/
// glossary/note block as a child of the section.
func (b *Builder) openGlobalSpecial(f Fragment, text string, gs *globalSpecial) {
	b.ctx.ResetAll()
	idx := b.tree.Add(b.section, Node{
		ID:      b.tree.Nodes[b.section].ID + "." + gs.marker,
		Type:    TypeSpecial,
		Level:   LevelSpecial,
		Marker:  gs.marker,
		Title:   firstRunes(text, 50),
		Content: text,
		Page:    f.Page,
		Meta:    map[string]any{"special_type": gs.kind, "global": true},
	})
	b.ctx.EnterSpecial(idx, true, false, 0)
}

// consumeInSpecial handles a fragment while a special block is open.
// Returns true when the fragment was absorbed; false when the block
// ended and the fragment must reprocess normally.
func (b *Builder) consumeInSpecial(f Fragment, text string) bool {
	sp := b.ctx.special
	if sp.global {
		// Appendix mode survives anything below an article; only
		// Part..Article markers resume normal parsing.
		if m := b.matcher.Match(text); m != nil && m.Level >= LevelPart && m.Level <= LevelArticle {
			b.ctx.ExitSpecial()
			return false
		}
		b.tree.AppendContent(sp.node, text)
		return true
	}

	if sp.boxBound {
		if f.InsideBox && f.BoxID != nil && *f.BoxID == sp.boxID {
			b.appendToSpecial(sp.node, text)
			return true
		}
		b.ctx.ExitSpecial()
		return false
	}

	if m := b.matcher.Match(text); m != nil {
		b.ctx.ExitSpecial()
		return false
	}
	b.appendToSpecial(sp.node, text)
	return true
}

func (b *Builder) appendToSpecial(idx int, text string) {
	b.tree.AppendContent(idx, text)
	n := &b.tree.Nodes[idx]
	n.Refs = append(n.Refs, b.refs.Extract(text, n.ID, b.ctx.Article())...)
}

// consumeMatch applies context management for a structural match and
// creates the node.
func (b *Builder) consumeMatch(f Fragment, text string, m *MatchResult) {
	if m.Type == TypeSpecial {
		b.openInlineSpecial(f, text, m)
		return
	}

	switch {
	case m.Level >= LevelPart && m.Level <= LevelArticle:
		b.ctx.ResetBelow(m.Level)
		b.ctx.ZeroCountersBelow(m.Level)

	case m.Type == TypePara:
		b.ctx.ResetBelow(LevelPara)
		b.ctx.ZeroCountersBelow(LevelPara)

	case m.Type == TypeItem:
		sequential := m.Number == 1 || m.Number == b.ctx.LastNumber(LevelItem)+1
		b.ensureParagraph(f.Page)
		if sequential {
			b.ctx.ResetBelow(LevelItem)
			b.ctx.ZeroCountersBelow(LevelItem)
		} else {
			// Out-of-order items are kept without resetting deeper
			// counters; the numbering gap stays visible downstream.
			b.logger.Debug("non-sequential item",
				"number", m.Number, "last", b.ctx.LastNumber(LevelItem), "page", f.Page)
		}

	case m.Type == TypeSubitem:
		if m.Number == 1 || m.Number == b.ctx.LastNumber(LevelSubitem)+1 {
			b.ctx.ResetBelow(LevelSubitem)
			b.ctx.ZeroCountersBelow(LevelSubitem)
		} else {
			b.logger.Debug("non-sequential subitem",
				"number", m.Number, "last", b.ctx.LastNumber(LevelSubitem), "page", f.Page)
		}

	case m.Type == TypeSubsub:
		if m.Number == 1 {
			b.ctx.ResetBelow(LevelSubsub)
		}
	}

	// An article body reached a nested level without any paragraph
	// marker: the unmarked text is an implicit first paragraph.
	if m.Level > LevelPara && b.ctx.At(LevelArticle) >= 0 && b.ctx.At(LevelPara) < 0 {
		b.ensureParagraph(f.Page)
	}

	parent := b.ctx.DeepestBelow(m.Level)
	title := m.Title
	content := text
	if m.Type == TypeArticle {
		if m.Heading != m.Marker {
			title = m.Heading
		}
		// Body text moves into the implicit first paragraph; without a
		// body the whole fragment stays on the article (the bare form
		// keeps its tail here, the Title being only a 20-rune excerpt).
		if m.Body != "" {
			content = m.Heading
		}
	}
	node := Node{
		ID:      b.tree.Nodes[parent].ID + "." + m.Marker,
		Type:    m.Type,
		Level:   m.Level,
		Branch:  m.Branch,
		Marker:  m.Marker,
		Title:   title,
		Content: content,
		Page:    f.Page,
	}
	var number *int
	if m.Type != TypeDash {
		number = intPtr(m.Number)
	}
	node.Number = number
	node.Refs = b.refs.Extract(text, node.ID, b.ctx.Article())

	idx := b.tree.Add(parent, node)
	b.ctx.Open(m.Level, idx, number)

	if m.Type == TypeArticle {
		b.ctx.SetArticle(m.Number)
		if m.Body != "" {
			b.implicitParagraph(idx, f.Page, m.Body)
		}
	}
}

// openInlineSpecial attaches an annotation as a sibling of the deepest
// active node: annotations sit alongside provisions, not inside them.
func (b *Builder) openInlineSpecial(f Fragment, text string, m *MatchResult) {
	deepest := b.ctx.Deepest()
	parent := b.section
	if deepest >= 0 && deepest != b.section {
		parent = b.tree.Nodes[deepest].Parent
	}
	meta := map[string]any{"special_type": m.Title, "inline": true}
	boxBound := f.InsideBox && f.BoxID != nil
	boxID := 0
	if boxBound {
		boxID = *f.BoxID
		meta["box_id"] = boxID
	}
	idx := b.tree.Add(parent, Node{
		ID:      b.tree.Nodes[parent].ID + "." + m.Marker,
		Type:    TypeSpecial,
		Level:   LevelSpecial,
		Marker:  m.Marker,
		Title:   m.Title,
		Content: text,
		Page:    f.Page,
		Meta:    meta,
	})
	b.ctx.EnterSpecial(idx, false, boxBound, boxID)
}

// consumeProse routes a fragment with no structural marker.
func (b *Builder) consumeProse(f Fragment, text string) {
	if b.ctx.At(LevelArticle) >= 0 && b.ctx.At(LevelPara) < 0 {
		b.implicitParagraph(b.ctx.At(LevelArticle), f.Page, text)
		return
	}
	target := b.ctx.Deepest()
	if target < 0 || target == b.section {
		// Nothing open yet; stray prose before the first provision is
		// dropped, as the section title already captured the heading.
		b.logger.Debug("dropping prose outside any provision", "page", f.Page)
		return
	}
	b.tree.AppendContent(target, text)
	n := &b.tree.Nodes[target]
	n.Refs = append(n.Refs, b.refs.Extract(text, n.ID, b.ctx.Article())...)
}

// implicitParagraph synthesizes the unmarked first paragraph of an
// article, seeded with whatever text triggered it.
func (b *Builder) implicitParagraph(articleIdx, page int, content string) {
	id := b.tree.Nodes[articleIdx].ID + ".①"
	node := Node{
		ID:      id,
		Type:    TypePara,
		Level:   LevelPara,
		Number:  intPtr(1),
		Marker:  "①",
		Title:   firstRunes(content, 30),
		Content: content,
		Page:    page,
		Meta:    map[string]any{"auto_generated": true},
	}
	node.Refs = b.refs.Extract(content, id, b.ctx.Article())
	idx := b.tree.Add(articleIdx, node)
	b.ctx.Open(LevelPara, idx, nil)
}

// ensureParagraph guarantees an active paragraph exists under the
// active article, synthesizing an empty implicit one when needed.
func (b *Builder) ensureParagraph(page int) {
	if b.ctx.At(LevelArticle) < 0 || b.ctx.At(LevelPara) >= 0 {
		return
	}
	b.implicitParagraph(b.ctx.At(LevelArticle), page, "")
}

func firstRunes(s string, n int) string {
	return truncateRunes(strings.TrimSpace(s), n)
}
