package justify

import (
	"testing"
)

func TestPageID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"x1", "1"},
		{"page-12", "12"},
		{"01", "01"},
		{"title", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := PageID(tt.input); got != tt.want {
			t.Errorf("PageID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindPage(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<section id="1">a</section><section id="x2">b</section><section id="x2">dup</section><section id="04">c</section>`)

	tests := []struct {
		page     int
		wantText string
	}{
		{1, "a"},
		{2, "b"},
		{3, ""},
		{4, ""},
	}

	for _, tt := range tests {
		got := FindPage(doc, tt.page)
		if tt.wantText == "" {
			if got != nil {
				t.Errorf("FindPage(%d) = %q, want nil", tt.page, TextContent(got))
			}
			continue
		}
		if got == nil {
			t.Errorf("FindPage(%d) = nil, want %q", tt.page, tt.wantText)
			continue
		}
		if TextContent(got) != tt.wantText {
			t.Errorf("FindPage(%d) = %q, want %q", tt.page, TextContent(got), tt.wantText)
		}
	}

	if n := CountPages(doc); n != 2 {
		t.Errorf("CountPages() = %d, want 2", n)
	}
}

func TestSetStyleProperty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no style attribute",
			input: `<a-word>x</a-word>`,
			want:  "letter-spacing:0.004rem",
		},
		{
			name:  "keeps other declarations",
			input: `<a-word style="color: red">x</a-word>`,
			want:  "color: red;letter-spacing:0.004rem",
		},
		{
			name:  "replaces previous value",
			input: `<a-word style="letter-spacing:0.01rem; color: red;">x</a-word>`,
			want:  "color: red;letter-spacing:0.004rem",
		},
		{
			name:  "case insensitive property",
			input: `<a-word style="Letter-Spacing: 1px">x</a-word>`,
			want:  "letter-spacing:0.004rem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseDoc(t, tt.input)
			w := elements(doc, WordTag)[0]
			setStyleProperty(w, "letter-spacing", "0.004rem")
			if got := attr(w, "style"); got != tt.want {
				t.Errorf("style = %q, want %q", got, tt.want)
			}
		})
	}
}
