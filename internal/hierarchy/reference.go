package hierarchy

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// lawHeaderRe matches the "【법규N】 <law name>" header lines the layout
// stage emits for the statute appendix of a policy document.
var lawHeaderRe = regexp.MustCompile(`^[\[【]법규\s*\d*[\]】]\s*(.+)$`)

// bareLawRe matches a standalone statute name line (ends in 법/령/규정/규칙).
var bareLawRe = regexp.MustCompile(`^[가-힣][가-힣·\s]{0,38}(?:법|령|규정|규칙)$`)

// HarvestLawNames scans every fragment for external-law name lines.
// The resulting set drives external-citation matching for the document.
func HarvestLawNames(fragments []string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		var name string
		if g := lawHeaderRe.FindStringSubmatch(f); g != nil {
			name = strings.TrimSpace(g[1])
		} else if bareLawRe.MatchString(f) {
			name = f
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// ReferenceExtractor finds internal and external citations in fragment
// text. It is built once per document, after the law-name harvesting
// pass, and is safe for concurrent use.
type ReferenceExtractor struct {
	docName string

	reExternal *regexp.Regexp
	reInternal *regexp.Regexp
	reHangOnly *regexp.Regexp
	reJoNear   *regexp.Regexp
}

// NewReferenceExtractor compiles citation patterns. When laws is
// non-empty the external pattern is an alternation over exactly those
// names; otherwise a generic Hangul-run-ending-in-법/령/규정/규칙
// pattern is used. docName filters self-references out of the external
// pass.
func NewReferenceExtractor(laws []string, docName string) *ReferenceExtractor {
	joPart := `제\s*(\d+)\s*조(?:의\s*(\d+))?`
	tail := `(?:\s*제\s*(\d+)\s*항)?(?:\s*제\s*(\d+)\s*호)?`

	var lawPat string
	if len(laws) > 0 {
		// Longest names first so compounds win over their prefixes.
		sorted := make([]string, len(laws))
		copy(sorted, laws)
		sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
		quoted := make([]string, len(sorted))
		for i, l := range sorted {
			quoted[i] = regexp.QuoteMeta(l)
		}
		lawPat = `(` + strings.Join(quoted, `|`) + `)`
	} else {
		lawPat = `([가-힣]+(?:법|령|규정|규칙))`
	}

	return &ReferenceExtractor{
		docName:    docName,
		reExternal: regexp.MustCompile(lawPat + `\s*` + joPart + tail),
		reInternal: regexp.MustCompile(joPart + `(?:\([^)]*\))?` + tail +
			`(?:\s*([` + subitemChars + `])목)?`),
		reHangOnly: regexp.MustCompile(`제\s*(\d+)\s*항(?:\s*제\s*(\d+)\s*호)?`),
		reJoNear:   regexp.MustCompile(`제\s*\d+\s*조`),
	}
}

type span struct{ start, end int }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Extract returns every citation found in text, attributed to sourceID.
// currentArticle enables paragraph-only relative references ("제1항에
// 따라" inside an article body); pass nil when no article is active.
// The three passes (external, internal, paragraph-only) run
// independently; nothing is discarded for being unresolvable.
func (e *ReferenceExtractor) Extract(text, sourceID string, currentArticle *int) []Reference {
	var refs []Reference
	var taken []span

	for _, idx := range e.reExternal.FindAllStringSubmatchIndex(text, -1) {
		law := text[idx[2]:idx[3]]
		if strings.Contains(law, "약관") || (e.docName != "" && strings.Contains(law, e.docName)) {
			continue
		}
		ref := Reference{
			RefType:   RefExternal,
			SourceID:  sourceID,
			TargetLaw: law,
			TargetJo:  intPtr(atoiGroup(text, idx, 2)),
			RawText:   text[idx[0]:idx[1]],
		}
		if idx[6] >= 0 {
			ref.TargetJoBr = intPtr(atoiGroup(text, idx, 3))
		}
		if idx[8] >= 0 {
			ref.TargetHang = intPtr(atoiGroup(text, idx, 4))
		}
		if idx[10] >= 0 {
			ref.TargetHo = intPtr(atoiGroup(text, idx, 5))
		}
		refs = append(refs, ref)
		taken = append(taken, span{idx[0], idx[1]})
	}

	for _, idx := range e.reInternal.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(taken, idx[0], idx[1]) {
			continue
		}
		ref := Reference{
			RefType:  RefInternal,
			SourceID: sourceID,
			TargetJo: intPtr(atoiGroup(text, idx, 1)),
			RawText:  text[idx[0]:idx[1]],
		}
		if idx[4] >= 0 {
			ref.TargetJoBr = intPtr(atoiGroup(text, idx, 2))
		}
		if idx[6] >= 0 {
			ref.TargetHang = intPtr(atoiGroup(text, idx, 3))
		}
		if idx[8] >= 0 {
			ref.TargetHo = intPtr(atoiGroup(text, idx, 4))
		}
		if idx[10] >= 0 {
			ref.TargetMok = text[idx[10]:idx[11]]
		}
		refs = append(refs, ref)
		taken = append(taken, span{idx[0], idx[1]})
	}

	if currentArticle != nil {
		for _, idx := range e.reHangOnly.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(taken, idx[0], idx[1]) {
				continue
			}
			// "제N조" shortly before means this 항 belongs to an
			// article citation already handled above.
			if e.reJoNear.MatchString(lastRunes(text[:idx[0]], 20)) {
				continue
			}
			ref := Reference{
				RefType:    RefInternal,
				SourceID:   sourceID,
				TargetJo:   intPtr(*currentArticle),
				TargetHang: intPtr(atoiGroup(text, idx, 1)),
				RawText:    text[idx[0]:idx[1]],
			}
			if idx[4] >= 0 {
				ref.TargetHo = intPtr(atoiGroup(text, idx, 2))
			}
			refs = append(refs, ref)
		}
	}

	return refs
}

// atoiGroup parses capture group n of a FindAllStringSubmatchIndex entry.
func atoiGroup(text string, idx []int, n int) int {
	v, _ := strconv.Atoi(text[idx[2*n]:idx[2*n+1]])
	return v
}

// lastRunes returns the trailing n runes of s.
func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
