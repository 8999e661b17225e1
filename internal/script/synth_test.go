package script

import (
	"reflect"
	"strings"
	"testing"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

func TestEstimate(t *testing.T) {
	cases := []struct {
		chars    int
		seconds  int
		minimum  int
		maximum  int
		describe string
	}{
		{0, 15, 10, 30, "empty text uses the floor"},
		{150, 30, 15, 60, "one calibration unit"},
		{375, 75, 38, 150, "rounds half up"},
		{1500, 120, 60, 180, "caps long text"},
	}
	for _, tc := range cases {
		got := Estimate(tc.chars)
		if got.Seconds != tc.seconds || got.MinSeconds != tc.minimum || got.MaxSeconds != tc.maximum {
			t.Fatalf("%s: Estimate(%d) = %+v", tc.describe, tc.chars, got)
		}
	}
}

func TestSynthesizeLongSlide(t *testing.T) {
	slide := domain.Slide{
		Index:      0,
		TitleGuess: "Overview",
		Raw:        domain.Raw{Text: strings.Repeat("あ", 1500)},
	}
	NewSynthesizer(nil).Synthesize(&slide, 3, domain.DefaultSettings())

	if slide.Timing.Seconds != 120 || slide.Timing.MinSeconds != 60 || slide.Timing.MaxSeconds != 180 {
		t.Fatalf("unexpected timing %+v", slide.Timing)
	}
	if !domain.HasFlag(slide.Flags, domain.FlagDense) || !domain.HasFlag(slide.Flags, domain.FlagTooLong) {
		t.Fatalf("expected dense and too_long, got %v", slide.Flags)
	}
	if slide.Script.TransitionIn != nil {
		t.Fatalf("first slide must not have a transition in")
	}
	if slide.Script.TransitionOut == nil {
		t.Fatalf("expected a transition out")
	}
	if got := []rune(slide.Script.Goal); len(got) != 50 || !strings.HasSuffix(slide.Script.Goal, "...") {
		t.Fatalf("goal should be truncated to 47 runes plus ellipsis, got %q", slide.Script.Goal)
	}
}

func TestSynthesizeReplacesDerivedFlagsButKeepsTags(t *testing.T) {
	slide := domain.Slide{
		Index: 1,
		Raw:   domain.Raw{Text: "Short note"},
		Flags: []domain.Flag{domain.FlagTooLong, domain.FlagNeedsContext},
	}
	NewSynthesizer(nil).Synthesize(&slide, 3, domain.DefaultSettings())

	if domain.HasFlag(slide.Flags, domain.FlagTooLong) {
		t.Fatalf("stale too_long survived synthesis: %v", slide.Flags)
	}
	if !domain.HasFlag(slide.Flags, domain.FlagNeedsContext) {
		t.Fatalf("needs_context lost: %v", slide.Flags)
	}
}

func TestSynthesizeKeepsLockAndTransitions(t *testing.T) {
	slide := domain.Slide{
		Index:  2,
		Raw:    domain.Raw{Text: "Closing thoughts\nThanks for listening."},
		Timing: domain.Timing{Seconds: 45, Locked: true},
	}
	settings := domain.DefaultSettings()
	settings.Language = domain.LanguageEnglish
	settings.Tone = domain.ToneCasual

	NewSynthesizer(nil).Synthesize(&slide, 3, settings)

	if !slide.Timing.Locked {
		t.Fatalf("lock must survive synthesis")
	}
	if slide.Script.TransitionOut != nil {
		t.Fatalf("last slide must not have a transition out")
	}
	if slide.Script.TransitionIn == nil || *slide.Script.TransitionIn != "Next, " {
		t.Fatalf("unexpected transition in %v", slide.Script.TransitionIn)
	}
	if slide.Script.Goal != "Closing thoughts" {
		t.Fatalf("unexpected goal %q", slide.Script.Goal)
	}
	if !strings.HasPrefix(slide.Script.TalkTrack, "So, let me explain this...\n\n") ||
		!strings.HasSuffix(slide.Script.TalkTrack, "\n\n(Detailed script goes here)") {
		t.Fatalf("unexpected talk track %q", slide.Script.TalkTrack)
	}
}

func TestGoalFallsBackToTitle(t *testing.T) {
	slide := domain.Slide{TitleGuess: "Slide 4", Raw: domain.Raw{Text: "\nbody follows"}}
	settings := domain.DefaultSettings()
	settings.Language = domain.LanguageEnglish

	NewSynthesizer(nil).Synthesize(&slide, 1, settings)
	if slide.Script.Goal != "About Slide 4" {
		t.Fatalf("unexpected goal %q", slide.Script.Goal)
	}
}

func TestKeyPoints(t *testing.T) {
	s := NewSynthesizer(nil)

	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "bullets before numbered",
			text: "1. first numbered\n- bullet a\n・ bullet b\n2) second numbered",
			want: []string{"bullet a", "bullet b", "first numbered", "second numbered"},
		},
		{
			name: "duplicates kept and capped at five",
			text: "- a\n- a\n- b\n- c\n- d\n- e\n- f",
			want: []string{"a", "a", "b", "c", "d"},
		},
		{
			name: "sentence fallback",
			text: "Short. This sentence is long enough! Another qualifying sentence? Tiny. Third long sentence here. Fourth long sentence here.",
			want: []string{"This sentence is long enough", "Another qualifying sentence", "Third long sentence here"},
		},
		{
			name: "nothing qualifies",
			text: "Hi. Ok.",
			want: []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.KeyPoints(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("KeyPoints() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestPatternSpecCompile(t *testing.T) {
	if _, err := (PatternSpec{Bullet: "["}).Compile(); err == nil {
		t.Fatalf("expected error for invalid regexp")
	}
	if _, err := (PatternSpec{Bullet: `^-`}).Compile(); err == nil {
		t.Fatalf("expected error for missing capture group")
	}

	p, err := PatternSpec{Bullet: `(?m)^>\s*(.+)$`}.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := NewSynthesizer(p).KeyPoints("> quoted point\n- not a bullet here")
	if !reflect.DeepEqual(got, []string{"quoted point"}) {
		t.Fatalf("custom bullet pattern ignored: %#v", got)
	}
}
