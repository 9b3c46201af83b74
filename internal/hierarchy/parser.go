package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// ParserOptions configures a document parse.
type ParserOptions struct {
	// DocName is the policy's own name; statute citations containing it
	// are self-references, not external law.
	DocName string

	// Workers bounds concurrent section parses. Zero or one parses
	// sections sequentially.
	Workers int

	Logger *slog.Logger
}

// Parser turns an ordered fragment stream into a resolved document
// tree. Sections are independent scopes, so each one parses against
// its own context and the results join in document order.
type Parser struct {
	opts     ParserOptions
	matcher  *Matcher
	detector *SectionDetector
	logger   *slog.Logger
}

// NewParser builds a parser; pattern compilation happens once here.
func NewParser(opts ParserOptions) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := NewMatcher()
	return &Parser{
		opts:     opts,
		matcher:  m,
		detector: NewSectionDetector(m),
		logger:   logger,
	}
}

// Parse runs the full pipeline: harvest statute names, detect section
// boundaries, parse each section, graft the results and resolve
// internal references.
func (p *Parser) Parse(ctx context.Context, fragments []Fragment) (*Tree, error) {
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}

	laws := HarvestLawNames(texts)
	refs := NewReferenceExtractor(laws, p.opts.DocName)
	spans := p.detector.Detect(texts)
	p.logger.Info("parsing document",
		"fragments", len(fragments), "sections", len(spans), "statutes", len(laws))

	subs := make([]*Tree, len(spans))
	if p.opts.Workers > 1 {
		if err := p.parseParallel(ctx, fragments, texts, spans, refs, subs); err != nil {
			return nil, err
		}
	} else {
		for i, sp := range spans {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			subs[i] = p.parseSection(i, sp, fragments, texts, refs)
		}
	}

	tree := NewTree()
	for _, sub := range subs {
		for _, sec := range sub.Sections() {
			tree.graft(sub, sec, 0)
		}
	}

	NewResolver(tree, p.logger).Resolve(tree)
	counts := tree.CountByType()
	p.logger.Info("parse complete",
		"sections", counts[TypeSection], "articles", counts[TypeArticle],
		"references", len(tree.References()))
	return tree, nil
}

func (p *Parser) parseParallel(ctx context.Context, fragments []Fragment, texts []string, spans []SectionSpan, refs *ReferenceExtractor, subs []*Tree) error {
	sem := make(chan struct{}, p.opts.Workers)
	var wg sync.WaitGroup
	for i, sp := range spans {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, sp SectionSpan) {
			defer wg.Done()
			defer func() { <-sem }()
			subs[i] = p.parseSection(i, sp, fragments, texts, refs)
		}(i, sp)
	}
	wg.Wait()
	return ctx.Err()
}

// parseSection parses one span into its own tree, rooted at a fresh
// section node.
func (p *Parser) parseSection(i int, sp SectionSpan, fragments []Fragment, texts []string, refs *ReferenceExtractor) *Tree {
	st := NewTree()
	slug := SectionSlug(i, sp.Title)
	page := 0
	if sp.Start < len(fragments) {
		page = fragments[sp.Start].Page
	}
	sec := st.Add(0, Node{
		ID:     st.Nodes[0].ID + "." + slug,
		Type:   TypeSection,
		Level:  LevelSection,
		Marker: slug,
		Title:  sp.Title,
		Page:   page,
	})

	start := sp.Start
	// A detected title fragment names the section; it is not content.
	if start < sp.End && strings.TrimSpace(texts[start]) == sp.Title {
		start++
	}

	b := NewBuilder(st, sec, p.matcher, refs, p.logger)
	for _, f := range fragments[start:sp.End] {
		b.Consume(f)
	}
	return st
}

var slugStrip = regexp.MustCompile(`[^가-힣A-Za-z0-9]+`)

// SectionSlug derives a stable, filename-safe identifier for a section
// from its position and title.
func SectionSlug(i int, title string) string {
	s := slugStrip.ReplaceAllString(title, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "section"
	}
	return fmt.Sprintf("%d_%s", i+1, truncateRunes(s, 40))
}
