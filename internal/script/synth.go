// Package script drafts a per-slide speaking script and timing estimate from
// the slide's raw text.
package script

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/r1cA18/make-slide-script/internal/domain"
	"github.com/r1cA18/make-slide-script/internal/timing"
)

const (
	// CharsPerThirtySeconds calibrates the spoken-pace estimate: roughly 150
	// characters of spoken Japanese take 30 seconds.
	CharsPerThirtySeconds = 150.0

	EstimateMinSeconds = 15
	EstimateMaxSeconds = 120
	BoundFloorSeconds  = 10
	BoundCeilSeconds   = 180

	LongEstimateSeconds = 90

	maxGoalRunes      = 50
	goalTruncateRunes = 47
	talkTrackRunes    = 200
	minSentenceRunes  = 10
	maxSentencePoints = 3
	maxKeyPoints      = 5
)

type Synthesizer struct {
	patterns *Patterns
}

func NewSynthesizer(patterns *Patterns) *Synthesizer {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Synthesizer{patterns: patterns}
}

// Estimate returns the initial seconds and bounds for a text of charCount runes.
func Estimate(charCount int) domain.Timing {
	estimated := clamp(roundHalfUp(float64(charCount)/CharsPerThirtySeconds*30), EstimateMinSeconds, EstimateMaxSeconds)
	return domain.Timing{
		Seconds:    estimated,
		MinSeconds: max(BoundFloorSeconds, roundHalfUp(float64(estimated)*0.5)),
		MaxSeconds: min(BoundCeilSeconds, roundHalfUp(float64(estimated)*2)),
	}
}

// Synthesize fills the slide's script and timing. slideCount is the number of
// slides in the deck and decides whether a closing transition is needed. The
// locked bit and manual tags are preserved. Other flags are provisional until
// the project is recomputed.
func (s *Synthesizer) Synthesize(slide *domain.Slide, slideCount int, settings domain.Settings) {
	text := slide.Raw.Text
	charCount := utf8.RuneCountInString(text)
	p := phrasesFor(settings.Language)

	est := Estimate(charCount)
	est.Locked = slide.Timing.Locked
	slide.Timing = est

	sc := domain.Script{
		Goal:      s.goal(text, slide.TitleGuess, p),
		TalkTrack: talkTrack(text, settings, p),
		KeyPoints: s.KeyPoints(text),
	}
	if slide.Index > 0 {
		in := p.transitionIn
		sc.TransitionIn = &in
	}
	if slide.Index < slideCount-1 {
		out := p.transitionOut
		sc.TransitionOut = &out
	}
	slide.Script = sc

	flags := []domain.Flag{}
	if charCount > timing.DenseChars {
		flags = append(flags, domain.FlagDense)
	}
	if est.Seconds < EstimateMinSeconds {
		flags = append(flags, domain.FlagTooShort)
	}
	if est.Seconds > LongEstimateSeconds {
		flags = append(flags, domain.FlagTooLong)
	}
	for _, f := range slide.Flags {
		if f.Manual() && !domain.HasFlag(flags, f) {
			flags = append(flags, f)
		}
	}
	slide.Flags = flags
}

func (s *Synthesizer) goal(text, title string, p phrases) string {
	first := strings.TrimSpace(s.patterns.GoalTerminators.Split(text, 2)[0])
	if first == "" {
		return p.goalAbout(title)
	}
	if utf8.RuneCountInString(first) > maxGoalRunes {
		return string([]rune(first)[:goalTruncateRunes]) + "..."
	}
	return first
}

func talkTrack(text string, settings domain.Settings, p phrases) string {
	body := text
	if utf8.RuneCountInString(body) > talkTrackRunes {
		body = string([]rune(body)[:talkTrackRunes])
	}
	return p.introFor(settings.Tone, settings.Audience) + "\n\n" + body + "\n\n" + p.pending
}

// KeyPoints collects bullet lines, then numbered lines. Without either it
// falls back to the first few sentences of reasonable length.
func (s *Synthesizer) KeyPoints(text string) []string {
	points := []string{}
	points = appendMatches(points, s.patterns.Bullet, text)
	points = appendMatches(points, s.patterns.Numbered, text)

	if len(points) == 0 {
		for _, sentence := range s.patterns.SentenceTerminators.Split(text, -1) {
			sentence = strings.TrimSpace(sentence)
			if utf8.RuneCountInString(sentence) <= minSentenceRunes {
				continue
			}
			points = append(points, sentence)
			if len(points) == maxSentencePoints {
				break
			}
		}
	}

	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	return points
}

func appendMatches(points []string, re *regexp.Regexp, text string) []string {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if item := strings.TrimSpace(m[1]); item != "" {
			points = append(points, item)
		}
	}
	return points
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
