package kiwi

import "testing"

func TestReconstructSpacedText(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		tokens []Token
		want   string
	}{
		{
			name: "missing space restored and misplaced space removed",
			raw:  "사과 를먹었다",
			tokens: []Token{
				{Form: "사과", Tag: "NNG", Position: 0, Length: 2},
				{Form: "를", Tag: "JKO", Position: 3, Length: 1},
				{Form: "먹었다", Tag: "VV", Position: 4, Length: 3},
			},
			want: "사과를 먹었다",
		},
		{
			name: "already spaced text is unchanged",
			raw:  "사과를 먹었다",
			tokens: []Token{
				{Form: "사과", Tag: "NNG", Position: 0, Length: 2},
				{Form: "를", Tag: "JKO", Position: 2, Length: 1},
				{Form: "먹었다", Tag: "VV", Position: 4, Length: 3},
			},
			want: "사과를 먹었다",
		},
		{
			name: "space inserted between nouns",
			raw:  "봄바람",
			tokens: []Token{
				{Form: "봄", Tag: "NNG", Position: 0, Length: 1},
				{Form: "바람", Tag: "NNG", Position: 1, Length: 2},
			},
			want: "봄 바람",
		},
		{
			name: "auxiliary 하 stays attached",
			raw:  "공부 하다",
			tokens: []Token{
				{Form: "공부", Tag: "NNG", Position: 0, Length: 2},
				{Form: "하", Tag: "VX", Position: 3, Length: 1},
				{Form: "다", Tag: "EF", Position: 4, Length: 1},
			},
			want: "공부하다",
		},
		{
			name: "bound noun attaches to numeral",
			raw:  "3 개",
			tokens: []Token{
				{Form: "3", Tag: "SN", Position: 0, Length: 1},
				{Form: "개", Tag: "NNB", Position: 2, Length: 1},
			},
			want: "3개",
		},
		{
			name: "noun canonical form replaces internally spaced span",
			raw:  "바 람",
			tokens: []Token{
				{Form: "바람", Tag: "NNG", Position: 0, Length: 3},
			},
			want: "바람",
		},
		{
			name:   "no tokens returns raw",
			raw:    "사과 를먹었다",
			tokens: nil,
			want:   "사과 를먹었다",
		},
		{
			name: "trailing text preserved",
			raw:  "사과!",
			tokens: []Token{
				{Form: "사과", Tag: "NNG", Position: 0, Length: 2},
			},
			want: "사과!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reconstructSpacedText(tt.raw, tt.tokens); got != tt.want {
				t.Errorf("reconstructSpacedText(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestReconstructSpacedTextClampsOffsets(t *testing.T) {
	// Out-of-range engine offsets must not panic or duplicate text.
	raw := "사과"
	tokens := []Token{
		{Form: "사과", Tag: "NNG", Position: 0, Length: 9},
	}
	if got := reconstructSpacedText(raw, tokens); got != "사과" {
		t.Errorf("got %q, want %q", got, "사과")
	}
}

func TestResetHangulWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"between syllables", "사과 를", "사과를"},
		{"run of spaces", "사과  \t를", "사과를"},
		{"before punctuation", "좋다 .", "좋다."},
		{"before colon", "좋다 :", "좋다:"},
		{"before semicolon", "좋다 ;", "좋다;"},
		{"after latin kept", "model 학습", "model 학습"},
		{"before latin kept", "학습 model", "학습 model"},
		{"leading space kept", " 사과", " 사과"},
		{"trailing space kept", "사과 ", "사과 "},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resetHangulWhitespace(tt.in); got != tt.want {
				t.Errorf("resetHangulWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShouldStripGap(t *testing.T) {
	tests := []struct {
		name    string
		prevTag string
		tag     string
		form    string
		want    bool
	}{
		{"particle", "NNG", "JKO", "를", true},
		{"ending", "VV", "EF", "다", true},
		{"derivational suffix", "NNG", "XSV", "하", true},
		{"auxiliary 하", "NNG", "VX", "하", true},
		{"auxiliary 지", "VV", "VX", "지", true},
		{"other auxiliary form", "VV", "VX", "보", false},
		{"bound noun after numeral", "SN", "NNB", "개", true},
		{"bound noun after noun", "NNG", "NNB", "개", false},
		{"plain noun", "NNG", "NNG", "바람", false},
		{"empty tag", "NNG", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldStripGap(tt.prevTag, tt.tag, tt.form); got != tt.want {
				t.Errorf("shouldStripGap(%q, %q, %q) = %v, want %v", tt.prevTag, tt.tag, tt.form, got, tt.want)
			}
		})
	}
}

func TestShouldInsertSpaceBetween(t *testing.T) {
	tests := []struct {
		name    string
		prevTag string
		tag     string
		form    string
		want    bool
	}{
		{"noun then noun", "NNG", "NNG", "바람", true},
		{"particle then verb", "JKO", "VV", "먹", true},
		{"noun then particle", "NNG", "JKO", "를", false},
		{"auxiliary 하 never spaced", "NNG", "VX", "하", false},
		{"auxiliary 지 never spaced", "VV", "VX", "지", false},
		{"numeral then general noun", "SN", "NNG", "바람", true},
		{"numeral then bound noun", "SN", "NNB", "개", false},
		{"period then noun", "SF", "NNG", "사과", true},
		{"punctuation prev blocks", "SSO", "NNG", "사과", false},
		{"chinese script prev allows", "SH", "NNG", "사과", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldInsertSpaceBetween(tt.prevTag, tt.tag, tt.form); got != tt.want {
				t.Errorf("shouldInsertSpaceBetween(%q, %q, %q) = %v, want %v", tt.prevTag, tt.tag, tt.form, got, tt.want)
			}
		})
	}
}

func TestSpace(t *testing.T) {
	k, engine := newTestKiwi(t)
	engine.setTokens("사과 를먹었다",
		Token{Form: "사과", Tag: "NNG", Position: 0, Length: 2},
		Token{Form: "를", Tag: "JKO", Position: 3, Length: 1},
		Token{Form: "먹었다", Tag: "VV", Position: 4, Length: 3},
	)

	got, err := k.Space("사과 를먹었다", false)
	if err != nil {
		t.Fatalf("Space failed: %v", err)
	}
	if got != "사과를 먹었다" {
		t.Errorf("got %q, want %q", got, "사과를 먹었다")
	}
}

func TestSpaceResetWhitespace(t *testing.T) {
	k, engine := newTestKiwi(t)
	// After whitespace reset the engine sees the collapsed text.
	engine.setTokens("사과를먹었다",
		Token{Form: "사과", Tag: "NNG", Position: 0, Length: 2},
		Token{Form: "를", Tag: "JKO", Position: 2, Length: 1},
		Token{Form: "먹었다", Tag: "VV", Position: 3, Length: 3},
	)

	got, err := k.Space("사과 를먹었다", true)
	if err != nil {
		t.Fatalf("Space failed: %v", err)
	}
	if got != "사과를 먹었다" {
		t.Errorf("got %q, want %q", got, "사과를 먹었다")
	}
	if engine.lastText != "사과를먹었다" {
		t.Errorf("engine saw %q, want collapsed text", engine.lastText)
	}
}

func TestSpaceMany(t *testing.T) {
	k, engine := newTestKiwi(t)
	engine.setTokens("봄바람",
		Token{Form: "봄", Tag: "NNG", Position: 0, Length: 1},
		Token{Form: "바람", Tag: "NNG", Position: 1, Length: 2},
	)
	engine.setTokens("사과 를먹었다",
		Token{Form: "사과", Tag: "NNG", Position: 0, Length: 2},
		Token{Form: "를", Tag: "JKO", Position: 3, Length: 1},
		Token{Form: "먹었다", Tag: "VV", Position: 4, Length: 3},
	)

	got, err := k.SpaceMany([]string{"봄바람", "사과 를먹었다"}, false)
	if err != nil {
		t.Fatalf("SpaceMany failed: %v", err)
	}
	want := []string{"봄 바람", "사과를 먹었다"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
