package hierarchy

import "testing"

func TestMatcherPrecedence(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name   string
		text   string
		want   NodeType
		number int
	}{
		{"part", "제1편 보통약관", TypePart, 1},
		{"chapter", "제2장 보험금의 지급", TypeChapter, 2},
		{"group", "제1절 총칙", TypeGroup, 1},
		{"subdiv", "제3관 보험료의 납입", TypeSubdiv, 3},
		{"article paren", "제5조(보험금의 지급사유)", TypeArticle, 5},
		{"article bracket", "제5조[보험금의 지급사유]", TypeArticle, 5},
		{"article branch", "제5조의2(특별약관의 적용)", TypeArticle, 5},
		{"article bare", "제9조 보험금 지급에 관한 세부규정", TypeArticle, 9},
		{"paragraph", "① 회사는 보험금을 지급합니다.", TypePara, 1},
		{"paragraph twenty", "⑳ 마지막 항", TypePara, 20},
		{"item", "3. 사망보험금", TypeItem, 3},
		{"subitem", "다. 후유장해보험금", TypeSubitem, 3},
		{"subsub roman glyph", "(ⅱ) 세부 기준", TypeSubsub, 2},
		{"subsub roman ascii", "(iv) 세부 기준", TypeSubsub, 4},
		{"dash", "- 부속 조건", TypeDash, 0},
		{"special bracket", "【주의사항】", TypeSpecial, 0},
		{"special angle", "<유의사항>", TypeSpecial, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.text)
			if got == nil {
				t.Fatalf("Match(%q) = nil, want %s", tt.text, tt.want)
			}
			if got.Type != tt.want {
				t.Errorf("Match(%q).Type = %s, want %s", tt.text, got.Type, tt.want)
			}
			if got.Number != tt.number {
				t.Errorf("Match(%q).Number = %d, want %d", tt.text, got.Number, tt.number)
			}
		})
	}
}

func TestMatcherReferenceGuard(t *testing.T) {
	m := NewMatcher()

	// Article phrases in running prose must stay prose.
	prose := []string{
		"제5조에 따라 보험금을 지급합니다.",
		"제5조제1항에 의하여 처리합니다.",
		"제5조의2에 해당하는 경우",
		"제3조(보험금의 지급)에 따라 지급합니다.",
		"제5조제1항 및 제2항의 규정은",
		"제10조제2호에 관한 사항",
		"제5조의2(보험금의 지급)에 따라 지급합니다.",
		"제13조의2제1항에 의하여 처리합니다.",
		"제5조의 규정에 따라 처리합니다.",
	}
	for _, text := range prose {
		if got := m.Match(text); got != nil {
			t.Errorf("Match(%q) = %s, want nil (reference sentence)", text, got.Type)
		}
	}

	// Declarations survive the guard.
	decls := []string{
		"제5조(보험금의 지급사유)",
		"제5조의2(특별약관)",
		"제5조의2(특별약관의 적용)",
		"제13조의2[감염병에 관한 특칙]",
		"제9조 총칙",
	}
	for _, text := range decls {
		if got := m.Match(text); got == nil || got.Type != TypeArticle {
			t.Errorf("Match(%q) should declare an article, got %+v", text, got)
		}
	}
}

func TestMatcherArticleForms(t *testing.T) {
	m := NewMatcher()

	t.Run("title and heading", func(t *testing.T) {
		got := m.Match("제2조(정의) 이 약관에서 사용되는 용어의 정의는 다음과 같습니다.")
		if got == nil || got.Type != TypeArticle {
			t.Fatalf("expected article, got %+v", got)
		}
		if got.Title != "정의" {
			t.Errorf("Title = %q, want %q", got.Title, "정의")
		}
		if got.Heading != "제2조(정의)" {
			t.Errorf("Heading = %q, want %q", got.Heading, "제2조(정의)")
		}
		if got.Body != "이 약관에서 사용되는 용어의 정의는 다음과 같습니다." {
			t.Errorf("Body = %q", got.Body)
		}
	})

	t.Run("branch number", func(t *testing.T) {
		got := m.Match("제13조의2(감염병에 관한 특칙)")
		if got == nil || got.Branch == nil || *got.Branch != 2 {
			t.Fatalf("expected branch 2, got %+v", got)
		}
		if got.Marker != "제13조의2" {
			t.Errorf("Marker = %q, want 제13조의2", got.Marker)
		}
	})

	t.Run("bare form truncates title", func(t *testing.T) {
		got := m.Match("제9조 이 계약의 해지와 해지환급금 등에 관한 세부사항을 정한다")
		if got == nil || got.Type != TypeArticle {
			t.Fatalf("expected article, got %+v", got)
		}
		if rn := len([]rune(got.Title)); rn > 20 {
			t.Errorf("bare title length = %d runes, want <= 20", rn)
		}
		if got.Heading != "제9조" {
			t.Errorf("Heading = %q, want 제9조", got.Heading)
		}
	})
}

func TestMatcherSpecialRequiresFullWrap(t *testing.T) {
	m := NewMatcher()

	// Partial wraps are prose, not annotations.
	for _, text := range []string{
		"【주의사항】 보험금 청구 시 유의하세요",
		"<주의> 아래 내용을 확인하세요",
	} {
		if got := m.Match(text); got != nil && got.Type == TypeSpecial {
			t.Errorf("Match(%q) classified as special, want prose", text)
		}
	}
}

func TestMatcherProse(t *testing.T) {
	m := NewMatcher()

	for _, text := range []string{
		"회사는 피보험자가 보험기간 중에 사망한 경우 보험금을 지급합니다.",
		"",
		"   ",
		"1912년에 제정된 기준", // digits without ". " are prose
	} {
		if got := m.Match(text); got != nil {
			t.Errorf("Match(%q) = %+v, want nil", text, got)
		}
	}
}

func TestCircledNumber(t *testing.T) {
	if got := CircledNumber(1); got != "①" {
		t.Errorf("CircledNumber(1) = %q, want ①", got)
	}
	if got := CircledNumber(20); got != "⑳" {
		t.Errorf("CircledNumber(20) = %q, want ⑳", got)
	}
	if got := CircledNumber(21); got != "" {
		t.Errorf("CircledNumber(21) = %q, want empty", got)
	}
}
