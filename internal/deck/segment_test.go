package deck

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func block(first string, total int) string {
	// first line, then filler lines of 'x' until the segment has total runes
	var b strings.Builder
	b.WriteString(first)
	for utf8.RuneCountInString(b.String()) < total {
		remaining := total - utf8.RuneCountInString(b.String())
		b.WriteString("\n")
		remaining--
		if remaining <= 0 {
			break
		}
		if remaining > 40 {
			remaining = 40
		}
		b.WriteString(strings.Repeat("x", remaining))
	}
	return b.String()
}

func TestSplitGenericBlankLines(t *testing.T) {
	first := block("Introduction to the quarterly roadmap and the goals we set for this year", 600)
	second := block("Team", 80)
	third := block("Architecture", 1200)

	text := first + "\n\n" + second + "\n\n\n" + third + "\n"
	segments := Split(text, FormatGeneric)

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	wantLens := []int{600, 80, 1200}
	for i, seg := range segments {
		if got := utf8.RuneCountInString(seg.Text); got != wantLens[i] {
			t.Fatalf("segment %d length = %d, want %d", i, got, wantLens[i])
		}
	}

	if segments[0].TitleGuess != "Introduction to the quarterly roadmap and the goal" {
		t.Fatalf("unexpected truncated title %q", segments[0].TitleGuess)
	}
	if segments[1].TitleGuess != "Team" || segments[2].TitleGuess != "Architecture" {
		t.Fatalf("unexpected titles %q %q", segments[1].TitleGuess, segments[2].TitleGuess)
	}
	if segments[2].Text != third {
		t.Fatalf("expected trimmed segment text to be preserved")
	}
}

func TestSplitPDFPageBreaks(t *testing.T) {
	text := "Page one\nbody\fPage two\nmore\n\nstill page two\n\n\n\nPage three"
	segments := Split(text, FormatPDF)

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %#v", len(segments), segments)
	}
	if segments[1].Text != "Page two\nmore\n\nstill page two" {
		t.Fatalf("double newline should not split pdf text, got %q", segments[1].Text)
	}
	if segments[2].TitleGuess != "Page three" {
		t.Fatalf("unexpected title %q", segments[2].TitleGuess)
	}
}

func TestSplitPresentationMarkup(t *testing.T) {
	text := `<p:sld><a:t>Welcome everyone.</a:t>   <a:t>Agenda for today</a:t></p:sld>` +
		`<p:sld><a:t>Results! Revenue grew</a:t></p:sld>` +
		`<?xml?>`
	segments := Split(text, FormatPresentation)

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %#v", len(segments), segments)
	}
	if segments[0].Text != "Welcome everyone. Agenda for today" {
		t.Fatalf("markup not stripped: %q", segments[0].Text)
	}
	if segments[0].TitleGuess != "Welcome everyone" {
		t.Fatalf("unexpected title %q", segments[0].TitleGuess)
	}
	if segments[1].TitleGuess != "Results" {
		t.Fatalf("unexpected title %q", segments[1].TitleGuess)
	}
}

func TestSplitEmptyInputFallsBack(t *testing.T) {
	for _, format := range []Format{FormatPDF, FormatPresentation, FormatGeneric} {
		for _, input := range []string{"", "   \n\n\t\n", "\f\f"} {
			segments := Split(input, format)
			if len(segments) != 1 {
				t.Fatalf("%s/%q: expected 1 fallback segment, got %d", format, input, len(segments))
			}
			if segments[0].Text != FallbackText || segments[0].TitleGuess != "Slide 1" {
				t.Fatalf("%s/%q: unexpected fallback %#v", format, input, segments[0])
			}
		}
	}

	segments := Split("<p:sld><a:t></a:t><a:t> </a:t></p:sld>", FormatPresentation)
	if len(segments) != 1 || segments[0].Text != FallbackText {
		t.Fatalf("markup-only slide should fall back, got %#v", segments)
	}
}

func TestParseInvalidBytes(t *testing.T) {
	segments := Parse([]byte{0xc3, 0x28, '\n', '\n', 'o', 'k'}, FormatGeneric)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if !strings.ContainsRune(segments[0].Text, utf8.RuneError) {
		t.Fatalf("expected replacement character, got %q", segments[0].Text)
	}
	if segments[1].Text != "ok" {
		t.Fatalf("unexpected second segment %q", segments[1].Text)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		contentType string
		name        string
		want        Format
	}{
		{"application/pdf", "", FormatPDF},
		{"", "https://files.example.com/deck.PDF", FormatPDF},
		{"application/vnd.openxmlformats-officedocument.presentationml.presentation", "", FormatPresentation},
		{"application/octet-stream", "talk.pptx", FormatPresentation},
		{"text/plain", "notes.txt", FormatGeneric},
	}
	for _, tc := range cases {
		if got := DetectFormat(tc.contentType, tc.name); got != tc.want {
			t.Fatalf("DetectFormat(%q, %q) = %s, want %s", tc.contentType, tc.name, got, tc.want)
		}
	}
}

func TestFileNameFromURL(t *testing.T) {
	if got := FileNameFromURL("https://example.com/files/deck.pdf?sig=1"); got != "deck.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := FileNameFromURL("https://example.com"); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}
