package hierarchy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultSectionTitle names the implicit section used when a document
// carries no detectable rider or statute titles.
const DefaultSectionTitle = "본문"

// maxTitleLen is the longest fragment still considered a candidate
// section title. Real titles run well under this.
const maxTitleLen = 80

// SectionSpan is one detected top-level scope: a rider, statute or
// notice whose fragments [Start, End) are parsed independently.
type SectionSpan struct {
	Title string
	Start int
	End   int
}

// SectionDetector splits a fragment stream into independent top-level
// scopes by recognizing title-shaped fragments.
type SectionDetector struct {
	matcher  *Matcher
	titles   []*regexp.Regexp
	sentence []*regexp.Regexp
}

// NewSectionDetector compiles the title and sentence pattern sets.
func NewSectionDetector(m *Matcher) *SectionDetector {
	return &SectionDetector{
		matcher: m,
		titles: []*regexp.Regexp{
			// "XXX 보통약관", "XXX 특별약관", "XXX 추가(특별)약관"
			regexp.MustCompile(`^[가-힣A-Za-z0-9\s()（）]+(보통약관|특별약관|추가약관|추가특별약관)\s*$`),
			// "XXX 특별약관(YYY)"
			regexp.MustCompile(`^[가-힣A-Za-z0-9\s]+(보통약관|특별약관|추가약관)\s*[(（][^)）]*[)）]\s*$`),
			// compound titles: "A특별약관/B특별약관"
			regexp.MustCompile(`^[가-힣A-Za-z0-9\s()（）]+약관(\s*/\s*[가-힣A-Za-z0-9\s()（）]+약관)+\s*$`),
			// standalone statute name
			regexp.MustCompile(`^[가-힣][가-힣·\s]*(법|령|규정|규칙)\s*$`),
			// "【법규N】 ..." headers
			regexp.MustCompile(`^[\[【]법규\s*\d*[\]】]`),
			// dispute / complaint notice headers
			regexp.MustCompile(`^[가-힣\s]*(민원|분쟁조정|분쟁해결|유의사항)[가-힣\s]*(안내)?\s*$`),
		},
		sentence: []*regexp.Regexp{
			regexp.MustCompile(`^이\s`),
			regexp.MustCompile(`^본\s`),
			regexp.MustCompile(`^회사는\s`),
			regexp.MustCompile(`^보통약관에서\s`),
			regexp.MustCompile(`^상기`),
			regexp.MustCompile(`합니다\.?\s*$`),
			regexp.MustCompile(`않습니다\.?\s*$`),
			regexp.MustCompile(`됩니다\.?\s*$`),
			regexp.MustCompile(`입니다\.?\s*$`),
		},
	}
}

// IsTitle reports whether a single fragment looks like a section title.
func (d *SectionDetector) IsTitle(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxTitleLen {
		return false
	}
	// Structural markers (제N조, ①, 1. …) are provisions, not titles.
	if m := d.matcher.Match(text); m != nil && m.Type != TypeSpecial {
		return false
	}
	for _, re := range d.sentence {
		if re.MatchString(text) {
			return false
		}
	}
	for _, re := range d.titles {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Detect splits fragments into section spans. Each detected title opens
// a section running to the next title or end of stream. With no titles
// at all, the whole stream is one implicit "본문" section.
func (d *SectionDetector) Detect(fragments []string) []SectionSpan {
	var spans []SectionSpan
	for i, f := range fragments {
		if d.IsTitle(f) {
			spans = append(spans, SectionSpan{Title: strings.TrimSpace(f), Start: i})
		}
	}
	if len(spans) == 0 {
		return []SectionSpan{{Title: DefaultSectionTitle, Start: 0, End: len(fragments)}}
	}
	for i := range spans {
		if i+1 < len(spans) {
			spans[i].End = spans[i+1].Start
		} else {
			spans[i].End = len(fragments)
		}
	}
	return spans
}
