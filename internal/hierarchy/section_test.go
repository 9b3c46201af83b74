package hierarchy

import (
	"strings"
	"testing"
)

func TestSectionIsTitle(t *testing.T) {
	d := NewSectionDetector(NewMatcher())

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"base terms", "무배당 종합보험 보통약관", true},
		{"rider", "상해사망 특별약관", true},
		{"rider with qualifier", "암진단 특별약관(갱신형)", true},
		{"compound riders", "상해사망 특별약관/질병사망 특별약관", true},
		{"statute", "보험업감독규정", true},
		{"law header", "【법규1】 민법", true},
		{"dispute notice", "분쟁조정 안내", true},
		{"article is not a title", "제1조(목적)", false},
		{"paragraph is not a title", "① 회사는 보험금을 지급합니다", false},
		{"sentence about terms", "이 특별약관은 보통약관에 우선합니다.", false},
		{"sentence ending", "보험금은 청구일부터 3영업일 이내에 지급됩니다.", false},
		{"overlong", strings.Repeat("무배당 장기 ", 12) + "특별약관", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsTitle(tt.text); got != tt.want {
				t.Errorf("IsTitle(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSectionDetect(t *testing.T) {
	d := NewSectionDetector(NewMatcher())

	t.Run("two sections", func(t *testing.T) {
		fragments := []string{
			"무배당 종합보험 보통약관",
			"제1조(목적)",
			"① 이 약관은 보험계약의 성립을 정합니다.",
			"상해사망 특별약관",
			"제1조(보험금의 지급사유)",
		}
		spans := d.Detect(fragments)
		if len(spans) != 2 {
			t.Fatalf("got %d spans, want 2: %+v", len(spans), spans)
		}
		if spans[0].Start != 0 || spans[0].End != 3 {
			t.Errorf("span[0] = %+v, want [0,3)", spans[0])
		}
		if spans[1].Start != 3 || spans[1].End != 5 {
			t.Errorf("span[1] = %+v, want [3,5)", spans[1])
		}
		if spans[1].Title != "상해사망 특별약관" {
			t.Errorf("span[1].Title = %q", spans[1].Title)
		}
	})

	t.Run("no titles falls back to implicit section", func(t *testing.T) {
		fragments := []string{
			"제1조(목적)",
			"① 이 약관은 보험계약의 성립을 정합니다.",
		}
		spans := d.Detect(fragments)
		if len(spans) != 1 {
			t.Fatalf("got %d spans, want 1", len(spans))
		}
		if spans[0].Title != DefaultSectionTitle || spans[0].Start != 0 || spans[0].End != 2 {
			t.Errorf("implicit span = %+v", spans[0])
		}
	})
}
