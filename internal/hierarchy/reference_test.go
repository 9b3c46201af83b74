package hierarchy

import "testing"

func TestHarvestLawNames(t *testing.T) {
	fragments := []string{
		"제1조(목적)",
		"【법규1】 민법",
		"[법규2] 상법",
		"보험업감독규정",
		"【법규1】 민법", // duplicate
		"회사는 보험금을 지급합니다.",
	}
	got := HarvestLawNames(fragments)
	want := []string{"민법", "상법", "보험업감독규정"}
	if len(got) != len(want) {
		t.Fatalf("HarvestLawNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("HarvestLawNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractExternal(t *testing.T) {
	e := NewReferenceExtractor([]string{"민법", "상법"}, "무배당 종합보험")

	t.Run("law with article", func(t *testing.T) {
		refs := e.Extract("민법 제750조에 따라 손해를 배상합니다.", "src", nil)
		if len(refs) != 1 {
			t.Fatalf("got %d refs, want 1: %+v", len(refs), refs)
		}
		r := refs[0]
		if r.RefType != RefExternal || r.TargetLaw != "민법" {
			t.Errorf("ref = %+v, want external 민법", r)
		}
		if r.TargetJo == nil || *r.TargetJo != 750 {
			t.Errorf("TargetJo = %v, want 750", r.TargetJo)
		}
		if r.ResolvedID != "" {
			t.Errorf("external ref must not resolve, got %q", r.ResolvedID)
		}
	})

	t.Run("hang and ho tail", func(t *testing.T) {
		refs := e.Extract("상법 제638조의2 제1항 제3호에 의하여", "src", nil)
		if len(refs) != 1 {
			t.Fatalf("got %d refs: %+v", len(refs), refs)
		}
		r := refs[0]
		if r.TargetJoBr == nil || *r.TargetJoBr != 2 {
			t.Errorf("TargetJoBr = %v, want 2", r.TargetJoBr)
		}
		if r.TargetHang == nil || *r.TargetHang != 1 {
			t.Errorf("TargetHang = %v, want 1", r.TargetHang)
		}
		if r.TargetHo == nil || *r.TargetHo != 3 {
			t.Errorf("TargetHo = %v, want 3", r.TargetHo)
		}
	})

	t.Run("generic fallback without harvested names", func(t *testing.T) {
		g := NewReferenceExtractor(nil, "")
		refs := g.Extract("자동차손해배상보장법 제3조에 따라", "src", nil)
		if len(refs) == 0 || refs[0].RefType != RefExternal {
			t.Fatalf("generic pattern missed statute: %+v", refs)
		}
		if refs[0].TargetLaw != "자동차손해배상보장법" {
			t.Errorf("TargetLaw = %q", refs[0].TargetLaw)
		}
	})
}

func TestExtractInternal(t *testing.T) {
	e := NewReferenceExtractor([]string{"민법"}, "")

	t.Run("article with full tail", func(t *testing.T) {
		refs := e.Extract("제5조 제1항 제2호 가목에 해당하는 경우", "src", nil)
		if len(refs) != 1 {
			t.Fatalf("got %d refs: %+v", len(refs), refs)
		}
		r := refs[0]
		if r.RefType != RefInternal {
			t.Errorf("RefType = %s, want internal", r.RefType)
		}
		if *r.TargetJo != 5 || *r.TargetHang != 1 || *r.TargetHo != 2 || r.TargetMok != "가" {
			t.Errorf("target = %+v", r)
		}
	})

	t.Run("external span excluded from internal pass", func(t *testing.T) {
		refs := e.Extract("민법 제750조 및 제5조에 따릅니다.", "src", nil)
		var internal, external int
		for _, r := range refs {
			switch r.RefType {
			case RefInternal:
				internal++
				if *r.TargetJo != 5 {
					t.Errorf("internal TargetJo = %d, want 5", *r.TargetJo)
				}
			case RefExternal:
				external++
				if *r.TargetJo != 750 {
					t.Errorf("external TargetJo = %d, want 750", *r.TargetJo)
				}
			}
		}
		if external != 1 || internal != 1 {
			t.Errorf("got %d external, %d internal, want 1 each: %+v", external, internal, refs)
		}
	})

	t.Run("titled article phrase", func(t *testing.T) {
		refs := e.Extract("제3조(보험금의 지급) 제2항에 따라", "src", nil)
		if len(refs) != 1 {
			t.Fatalf("got %d refs: %+v", len(refs), refs)
		}
		if *refs[0].TargetJo != 3 || *refs[0].TargetHang != 2 {
			t.Errorf("target = %+v", refs[0])
		}
	})
}

func TestExtractParagraphOnly(t *testing.T) {
	e := NewReferenceExtractor(nil, "")
	article := 7

	t.Run("relative hang binds current article", func(t *testing.T) {
		refs := e.Extract("제1항에 따라 지급합니다.", "src", &article)
		if len(refs) != 1 {
			t.Fatalf("got %d refs: %+v", len(refs), refs)
		}
		r := refs[0]
		if r.RefType != RefInternal || *r.TargetJo != 7 || *r.TargetHang != 1 {
			t.Errorf("ref = %+v, want internal 제7조 제1항", r)
		}
	})

	t.Run("hang with ho", func(t *testing.T) {
		refs := e.Extract("제2항 제3호의 경우", "src", &article)
		if len(refs) != 1 || *refs[0].TargetHo != 3 {
			t.Fatalf("refs = %+v", refs)
		}
	})

	t.Run("suppressed without active article", func(t *testing.T) {
		refs := e.Extract("제1항에 따라 지급합니다.", "src", nil)
		if len(refs) != 0 {
			t.Errorf("got %d refs without article context: %+v", len(refs), refs)
		}
	})

	t.Run("suppressed after nearby article mention", func(t *testing.T) {
		// "제5조 제1항" is one citation, not a relative 항.
		refs := e.Extract("제5조 제1항에 따라", "src", &article)
		for _, r := range refs {
			if *r.TargetJo == 7 {
				t.Errorf("relative pass double-counted: %+v", r)
			}
		}
	})
}
