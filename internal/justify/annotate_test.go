package justify

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestAnnotate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantUnits int
		wantWords []string
	}{
		{
			name:      "two words",
			input:     "<p>hello world</p>",
			wantUnits: 3,
			wantWords: []string{"hello", "world"},
		},
		{
			name:      "single token still wrapped",
			input:     "<p>ab</p>",
			wantUnits: 1,
			wantWords: []string{"ab"},
		},
		{
			name:      "repeated whitespace keeps alternation",
			input:     "<p>a  b</p>",
			wantUnits: 5,
			wantWords: []string{"a", "", "b"},
		},
		{
			name:      "leading and trailing whitespace",
			input:     "<p> ab </p>",
			wantUnits: 5,
			wantWords: []string{"", "ab", ""},
		},
		{
			name:      "single character skipped",
			input:     "<p>a</p>",
			wantUnits: 0,
		},
		{
			name:      "character plus newline skipped",
			input:     "<p>a\n</p>",
			wantUnits: 0,
		},
		{
			name:      "script and pre untouched",
			input:     "<script>var a = 1;</script><pre>x y</pre><p>x y</p>",
			wantUnits: 3,
			wantWords: []string{"x", "y"},
		},
		{
			name:      "tab and newline are spaces",
			input:     "<p>a\tb\nc</p>",
			wantUnits: 5,
			wantWords: []string{"a", "b", "c"},
		},
		{
			name:      "nested inline elements",
			input:     "<p>one <em>two three</em> four</p>",
			wantUnits: 9,
			wantWords: []string{"one", "", "two", "three", "", "four"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseDoc(t, tt.input)
			got := Annotate(doc)
			if got != tt.wantUnits {
				t.Errorf("Annotate(%q) = %d units, want %d", tt.input, got, tt.wantUnits)
			}

			var words []string
			for _, w := range elements(doc, WordTag) {
				words = append(words, TextContent(w))
			}
			if strings.Join(words, "|") != strings.Join(tt.wantWords, "|") {
				t.Errorf("Annotate(%q) words = %q, want %q", tt.input, words, tt.wantWords)
			}
		})
	}
}

func TestAnnotate_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<p>The quick brown fox jumps over the lazy dog.</p>",
		"<p>  spaced   out\ttext \n with\r\nbreaks  </p>",
		"<ul><li>un élément</li><li>ein Straßenbahn­fahrer</li></ul>",
		"<p>a <strong>bold</strong> move, <a href=\"x\">linked text</a>.</p>",
	}

	for _, input := range inputs {
		doc := parseDoc(t, input)
		before := TextContent(doc)
		Annotate(doc)
		if after := TextContent(doc); after != before {
			t.Errorf("text changed by Annotate:\n got %q\nwant %q", after, before)
		}
	}
}

func TestAnnotate_StrictAlternation(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, "<p>one  two\tthree </p>")
	Annotate(doc)

	p := elements(doc, "p")[0]
	want := WordTag
	count := 0
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			t.Fatalf("unexpected non-element child %q", c.Data)
		}
		if c.Data != want {
			t.Fatalf("child %d = %s, want %s", count, c.Data, want)
		}
		if c.Data == SpaceTag && len([]rune(TextContent(c))) != 1 {
			t.Errorf("space unit %q holds more than one character", TextContent(c))
		}
		if want == WordTag {
			want = SpaceTag
		} else {
			want = WordTag
		}
		count++
	}
	if count%2 != 1 {
		t.Errorf("unit count = %d, want odd (word first and last)", count)
	}
}
