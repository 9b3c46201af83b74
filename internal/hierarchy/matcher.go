package hierarchy

import (
	"regexp"
	"strconv"
	"strings"
)

// circledNumbers are the paragraph (항) markers, index+1 = number.
const circledNumbers = "①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮⑯⑰⑱⑲⑳"

// subitemChars are the 목 markers in their fixed order, index+1 = number.
const subitemChars = "가나다라마바사아자차카타파하"

// romanValues maps both the Unicode small Roman glyphs and their ASCII
// spellings to 세목 numbers.
var romanValues = map[string]int{
	"ⅰ": 1, "ⅱ": 2, "ⅲ": 3, "ⅳ": 4, "ⅴ": 5,
	"ⅵ": 6, "ⅶ": 7, "ⅷ": 8, "ⅸ": 9, "ⅹ": 10,
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5,
	"vi": 6, "vii": 7, "viii": 8, "ix": 9, "x": 10,
}

// CircledNumber returns the glyph for a paragraph number, or "" when the
// number is out of the ①–⑳ range.
func CircledNumber(n int) string {
	runes := []rune(circledNumbers)
	if n < 1 || n > len(runes) {
		return ""
	}
	return string(runes[n-1])
}

// MatchResult is a structural classification of one fragment.
type MatchResult struct {
	Type   NodeType
	Level  Level
	Number int
	Branch *int
	Marker string // raw marker glyphs, e.g. "제5조의2", "①", "1."
	Title  string
	// Heading is the full declaration text up to (and including) the
	// title, e.g. "제2조(정의)". Only set for articles.
	Heading string
	// Body is text glued onto the same fragment after an article title.
	// Non-empty Body seeds an implicit first paragraph.
	Body string
	// Rest is the fragment text after the marker for list-like levels.
	Rest string
}

// Matcher classifies single fragments as structural markers. It is
// stateless and safe for concurrent use.
type Matcher struct {
	// Reference-sentence guard: an article phrase used in running prose
	// ("제5조제1항에 따라 …") rather than declaring a provision. Branch
	// articles (제N조의M) get their own guard so the 의 of 조의M is never
	// read as the genitive particle.
	reGuard        *regexp.Regexp
	reGuardBranch  *regexp.Regexp
	reBranchPrefix *regexp.Regexp

	reSpecialBracket *regexp.Regexp
	reSpecialAngle   *regexp.Regexp

	rePart    *regexp.Regexp
	reChapter *regexp.Regexp
	reGroup   *regexp.Regexp
	reSubdiv  *regexp.Regexp

	reArtBranchBracket *regexp.Regexp
	reArtBranchParen   *regexp.Regexp
	reArtBracket       *regexp.Regexp
	reArtParen         *regexp.Regexp
	reArtBare          *regexp.Regexp

	rePara    *regexp.Regexp
	reItem    *regexp.Regexp
	reSubitem *regexp.Regexp
	reSubsub  *regexp.Regexp
	reDash    *regexp.Regexp
}

// NewMatcher compiles the structural patterns.
func NewMatcher() *Matcher {
	// Longer particles first so "에 따라" wins over bare "에".
	particles := `(?:에\s*따라|에\s*의하여|에\s*해당|에\s*관한|에\s*대하여|에서|으로|부터|의|에|를|와|과)`
	return &Matcher{
		reGuard: regexp.MustCompile(
			`^제\s*\d+\s*조(?:\([^)]*\))?` +
				`(?:\s*제\s*\d+\s*[항호목](?:\s*및\s*제\s*\d+\s*[항호목])*)?\s*` + particles),
		reGuardBranch: regexp.MustCompile(
			`^제\s*\d+\s*조의\s*\d+(?:\([^)]*\))?` +
				`(?:\s*제\s*\d+\s*[항호목](?:\s*및\s*제\s*\d+\s*[항호목])*)?\s*` + particles),
		reBranchPrefix: regexp.MustCompile(`^제\s*\d+\s*조의\s*\d+`),

		reSpecialBracket: regexp.MustCompile(`^【([^】]+)】$`),
		reSpecialAngle:   regexp.MustCompile(`^<([^>]+)>$`),

		rePart:    regexp.MustCompile(`^제\s*(\d+)\s*편\s*(.*)$`),
		reChapter: regexp.MustCompile(`^제\s*(\d+)\s*장(?:의\s*(\d+))?\s*(.*)$`),
		reGroup:   regexp.MustCompile(`^제\s*(\d+)\s*절\s*(.*)$`),
		reSubdiv:  regexp.MustCompile(`^제\s*(\d+)\s*관\s*(.*)$`),

		reArtBranchBracket: regexp.MustCompile(`(?s)^제\s*(\d+)\s*조의\s*(\d+)\s*\[([^\]]*)\](.*)$`),
		reArtBranchParen:   regexp.MustCompile(`(?s)^제\s*(\d+)\s*조의\s*(\d+)\s*[(（]([^)）]*)[)）](.*)$`),
		reArtBracket:       regexp.MustCompile(`(?s)^제\s*(\d+)\s*조\s*\[([^\]]*)\](.*)$`),
		reArtParen:         regexp.MustCompile(`(?s)^제\s*(\d+)\s*조\s*[(（]([^)）]*)[)）](.*)$`),
		reArtBare:          regexp.MustCompile(`(?s)^제\s*(\d+)\s*조\s+(.*)$`),

		rePara:    regexp.MustCompile(`^([` + circledNumbers + `])\s*(.*)$`),
		reItem:    regexp.MustCompile(`(?s)^(\d+)\.\s+(.+)$`),
		reSubitem: regexp.MustCompile(`(?s)^([` + subitemChars + `])\.\s+(.+)$`),
		reSubsub:  regexp.MustCompile(`(?si)^\s*[(（]\s*([ⅰⅱⅲⅳⅴⅵⅶⅷⅸⅹ]|i{1,3}|iv|vi{0,3}|ix|x)\s*[)）]\s*(.+)$`),
		reDash:    regexp.MustCompile(`(?s)^[-－‐–—]\s+(.+)$`),
	}
}

// Match classifies a fragment. A nil result means the fragment is prose
// (or a reference sentence) and falls through to content handling.
func (m *Matcher) Match(text string) *MatchResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// An article phrase followed by a grammatical particle mentions a
	// provision; it does not declare one. The branch guard fires only
	// for 제N조의M prefixes: there the branch digits must be consumed
	// before particle matching, or 제5조의2(…) would be rejected via the
	// 의 of 조의2.
	guard := m.reGuard
	if m.reBranchPrefix.MatchString(text) {
		guard = m.reGuardBranch
	}
	if guard.MatchString(text) {
		return nil
	}

	if g := m.reSpecialBracket.FindStringSubmatch(text); g != nil {
		return &MatchResult{
			Type:   TypeSpecial,
			Level:  LevelSpecial,
			Marker: "【" + g[1] + "】",
			Title:  g[1],
			Rest:   text,
		}
	}
	if g := m.reSpecialAngle.FindStringSubmatch(text); g != nil {
		return &MatchResult{
			Type:   TypeSpecial,
			Level:  LevelSpecial,
			Marker: "<" + g[1] + ">",
			Title:  g[1],
			Rest:   text,
		}
	}

	if g := m.rePart.FindStringSubmatch(text); g != nil {
		return unitResult(TypePart, LevelPart, g[1], "편", g[2])
	}
	if g := m.reChapter.FindStringSubmatch(text); g != nil {
		r := unitResult(TypeChapter, LevelChapter, g[1], "장", g[3])
		if g[2] != "" {
			br, _ := strconv.Atoi(g[2])
			r.Branch = &br
			r.Marker += "의" + g[2]
		}
		return r
	}
	if g := m.reGroup.FindStringSubmatch(text); g != nil {
		return unitResult(TypeGroup, LevelGroup, g[1], "절", g[2])
	}
	if g := m.reSubdiv.FindStringSubmatch(text); g != nil {
		return unitResult(TypeSubdiv, LevelSubdiv, g[1], "관", g[2])
	}

	if r := m.matchArticle(text); r != nil {
		return r
	}

	if g := m.rePara.FindStringSubmatch(text); g != nil {
		n := 1
		for i, r := range []rune(circledNumbers) {
			if string(r) == g[1] {
				n = i + 1
				break
			}
		}
		return &MatchResult{
			Type:   TypePara,
			Level:  LevelPara,
			Number: n,
			Marker: g[1],
			Title:  truncateRunes(g[2], 50),
			Rest:   g[2],
		}
	}
	if g := m.reItem.FindStringSubmatch(text); g != nil {
		n, _ := strconv.Atoi(g[1])
		return &MatchResult{
			Type:   TypeItem,
			Level:  LevelItem,
			Number: n,
			Marker: g[1] + ".",
			Title:  truncateRunes(g[2], 50),
			Rest:   g[2],
		}
	}
	if g := m.reSubitem.FindStringSubmatch(text); g != nil {
		return &MatchResult{
			Type:   TypeSubitem,
			Level:  LevelSubitem,
			Number: strings.Index(subitemChars, g[1])/len("가") + 1,
			Marker: g[1] + ".",
			Title:  truncateRunes(g[2], 50),
			Rest:   g[2],
		}
	}
	if g := m.reSubsub.FindStringSubmatch(text); g != nil {
		n, ok := romanValues[strings.ToLower(g[1])]
		if !ok {
			n = 1
		}
		return &MatchResult{
			Type:   TypeSubsub,
			Level:  LevelSubsub,
			Number: n,
			Marker: "(" + g[1] + ")",
			Title:  truncateRunes(g[2], 50),
			Rest:   g[2],
		}
	}
	if g := m.reDash.FindStringSubmatch(text); g != nil {
		return &MatchResult{
			Type:   TypeDash,
			Level:  LevelDash,
			Marker: "-",
			Title:  truncateRunes(g[1], 50),
			Rest:   g[1],
		}
	}

	return nil
}

// matchArticle tries the four article surface forms in order: bracketed
// title (branch first), parenthesized title (branch first), then the
// bare "제N조 rest" form.
func (m *Matcher) matchArticle(text string) *MatchResult {
	type artForm struct {
		re     *regexp.Regexp
		branch bool
		open   string
		close  string
	}
	forms := []artForm{
		{m.reArtBranchBracket, true, "[", "]"},
		{m.reArtBranchParen, true, "(", ")"},
		{m.reArtBracket, false, "[", "]"},
		{m.reArtParen, false, "(", ")"},
	}
	for _, f := range forms {
		g := f.re.FindStringSubmatch(text)
		if g == nil {
			continue
		}
		num, _ := strconv.Atoi(g[1])
		marker := "제" + g[1] + "조"
		var branch *int
		title, body := g[2], g[3]
		if f.branch {
			b, _ := strconv.Atoi(g[2])
			branch = &b
			marker += "의" + g[2]
			title, body = g[3], g[4]
		}
		title = strings.TrimSpace(title)
		return &MatchResult{
			Type:    TypeArticle,
			Level:   LevelArticle,
			Number:  num,
			Branch:  branch,
			Marker:  marker,
			Title:   title,
			Heading: marker + f.open + title + f.close,
			Body:    strings.TrimSpace(body),
			Rest:    text,
		}
	}
	if g := m.reArtBare.FindStringSubmatch(text); g != nil {
		num, _ := strconv.Atoi(g[1])
		rest := strings.TrimSpace(g[2])
		marker := "제" + g[1] + "조"
		return &MatchResult{
			Type:    TypeArticle,
			Level:   LevelArticle,
			Number:  num,
			Marker:  marker,
			Title:   truncateRunes(rest, 20),
			Heading: marker,
			Rest:    text,
		}
	}
	return nil
}

func unitResult(t NodeType, lvl Level, num, unit, title string) *MatchResult {
	n, _ := strconv.Atoi(num)
	return &MatchResult{
		Type:   t,
		Level:  lvl,
		Number: n,
		Marker: "제" + num + unit,
		Title:  strings.TrimSpace(title),
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
