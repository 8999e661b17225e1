// Package timing distributes the talk's time budget across slides and keeps
// the derived flags and stats in step with slide state.
package timing

import (
	"math"
	"unicode/utf8"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

// MinWeight keeps near-empty slides from being starved.
const MinWeight = 100

// Result reports what an allocation pass did.
type Result struct {
	TargetSeconds    int
	AvailableSeconds int
	LockedSeconds    int
	RemainingSeconds int
	Unlocked         int
	Applied          bool
}

// Rebalance redistributes time across unlocked slides and recomputes flags
// and stats. A positive target replaces settings.TotalSeconds; otherwise the
// current total is used. Locked slides are never modified.
//
// Clamping to each slide's bounds means the unlocked sum may drift from the
// remaining budget. The drift is reported through stats.overBySeconds.
func Rebalance(content *domain.Content, target int) Result {
	settings := &content.Project.Settings
	if target <= 0 {
		target = settings.TotalSeconds
	} else {
		settings.TotalSeconds = target
	}

	res := Result{
		TargetSeconds:    target,
		AvailableSeconds: target - settings.QABufferSeconds,
	}

	var unlocked []*domain.Slide
	totalWeight := 0
	for i := range content.Slides {
		slide := &content.Slides[i]
		if slide.Timing.Locked {
			res.LockedSeconds += slide.Timing.Seconds
			continue
		}
		unlocked = append(unlocked, slide)
		totalWeight += weight(slide)
	}
	res.Unlocked = len(unlocked)
	res.RemainingSeconds = res.AvailableSeconds - res.LockedSeconds

	if len(unlocked) > 0 && res.RemainingSeconds > 0 {
		for _, slide := range unlocked {
			share := float64(weight(slide)) / float64(totalWeight)
			seconds := int(math.Floor(float64(res.RemainingSeconds)*share + 0.5))
			slide.Timing.Seconds = clampToBounds(seconds, slide.Timing)
		}
		res.Applied = true
	}

	Recompute(content)
	return res
}

func weight(slide *domain.Slide) int {
	return max(utf8.RuneCountInString(slide.Raw.Text), MinWeight)
}

func clampToBounds(seconds int, t domain.Timing) int {
	if seconds < t.MinSeconds {
		return t.MinSeconds
	}
	if seconds > t.MaxSeconds {
		return t.MaxSeconds
	}
	return seconds
}
