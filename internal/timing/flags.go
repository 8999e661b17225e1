package timing

import (
	"unicode/utf8"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

// DenseChars is the raw text length above which a slide is flagged dense.
const DenseChars = 500

// Evaluate derives the automatic flags for a slide from scratch.
func Evaluate(t domain.Timing, rawText string) []domain.Flag {
	flags := []domain.Flag{}
	if t.Seconds < t.MinSeconds {
		flags = append(flags, domain.FlagTooShort)
	}
	if t.Seconds > t.MaxSeconds {
		flags = append(flags, domain.FlagTooLong)
	}
	if utf8.RuneCountInString(rawText) > DenseChars {
		flags = append(flags, domain.FlagDense)
	}
	return flags
}

// Recompute replaces every slide's derived flags and the project stats.
// Manually set tags such as needs_context are carried over.
func Recompute(content *domain.Content) {
	for i := range content.Slides {
		slide := &content.Slides[i]
		flags := Evaluate(slide.Timing, slide.Raw.Text)
		for _, f := range slide.Flags {
			if f.Manual() && !domain.HasFlag(flags, f) {
				flags = append(flags, f)
			}
		}
		slide.Flags = flags
	}

	content.Project.Stats = ComputeStats(content.Slides, content.Project.Settings)
}

// ComputeStats is a pure function of the slides and settings.
func ComputeStats(slides []domain.Slide, settings domain.Settings) domain.Stats {
	allocated := 0
	for _, slide := range slides {
		allocated += slide.Timing.Seconds
	}
	return domain.Stats{
		SlideCount:       len(slides),
		AllocatedSeconds: allocated,
		OverBySeconds:    max(0, allocated-settings.AvailableSeconds()),
	}
}
