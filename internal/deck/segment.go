// Package deck turns decoded deck text into slide-sized segments.
package deck

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Format string

const (
	FormatPDF          Format = "pdf"
	FormatPresentation Format = "pptx"
	FormatGeneric      Format = "generic"
)

// FallbackText replaces the deck body when nothing could be segmented.
const FallbackText = "Could not extract text from the deck. Please enter the slide text manually."

const (
	maxTitleRunes = 50
	// Shorter presentation chunks are XML preamble, not slide text.
	minPresentationChunk = 20
)

var (
	documentBreak     = regexp.MustCompile(`\f|\n{3,}`)
	genericBreak      = regexp.MustCompile(`\n{2,}`)
	slideEndMarker    = regexp.MustCompile(`(?i)</p:sld>|</slide>`)
	markupTag         = regexp.MustCompile(`<[^>]+>`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	sentenceSeparator = regexp.MustCompile(`[。.!！?？]`)
)

type Segment struct {
	Text       string `json:"text"`
	TitleGuess string `json:"titleGuess"`
}

// Split breaks text into ordered segments using the break pattern for the
// format. It never returns an empty slice.
func Split(text string, format Format) []Segment {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var segments []Segment
	switch format {
	case FormatPDF:
		segments = splitLines(text, documentBreak)
	case FormatPresentation:
		segments = splitPresentation(text)
	default:
		segments = splitLines(text, genericBreak)
	}

	if len(segments) == 0 {
		return []Segment{{Text: FallbackText, TitleGuess: DefaultTitle(0)}}
	}
	return segments
}

// DefaultTitle is the label used for slide index i when no title is extractable.
func DefaultTitle(i int) string {
	return fmt.Sprintf("Slide %d", i+1)
}

func splitLines(text string, brk *regexp.Regexp) []Segment {
	var segments []Segment
	for _, part := range brk.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:       part,
			TitleGuess: titleOrDefault(firstLine(part), len(segments)),
		})
	}
	return segments
}

func splitPresentation(text string) []Segment {
	var segments []Segment
	for _, part := range slideEndMarker.Split(text, -1) {
		if utf8.RuneCountInString(strings.TrimSpace(part)) <= minPresentationChunk {
			continue
		}
		clean := markupTag.ReplaceAllString(part, " ")
		clean = strings.TrimSpace(whitespaceRun.ReplaceAllString(clean, " "))
		if clean == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:       clean,
			TitleGuess: titleOrDefault(firstSentence(clean), len(segments)),
		})
	}
	return segments
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func firstSentence(text string) string {
	for _, s := range sentenceSeparator.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func titleOrDefault(title string, index int) string {
	title = truncateRunes(title, maxTitleRunes)
	if title == "" {
		return DefaultTitle(index)
	}
	return title
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
