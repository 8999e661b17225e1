package domain

// Nil fields in the patch structs leave the existing value untouched.

type TimingPatch struct {
	Seconds    *int  `json:"seconds,omitempty"`
	Locked     *bool `json:"locked,omitempty"`
	MinSeconds *int  `json:"minSeconds,omitempty"`
	MaxSeconds *int  `json:"maxSeconds,omitempty"`
}

type ScriptPatch struct {
	Goal          *string  `json:"goal,omitempty"`
	TalkTrack     *string  `json:"talkTrack,omitempty"`
	KeyPoints     []string `json:"keyPoints,omitempty"`
	TransitionIn  *string  `json:"transitionIn,omitempty"`
	TransitionOut *string  `json:"transitionOut,omitempty"`
}

type SlidePatch struct {
	Timing *TimingPatch `json:"timing,omitempty"`
	Script *ScriptPatch `json:"script,omitempty"`
	Flags  *[]Flag      `json:"flags,omitempty"`
}

// Apply shallow-merges the patch into the slide. Derived flags are not
// recomputed here.
func (p SlidePatch) Apply(slide *Slide) {
	if t := p.Timing; t != nil {
		if t.Seconds != nil {
			slide.Timing.Seconds = *t.Seconds
		}
		if t.Locked != nil {
			slide.Timing.Locked = *t.Locked
		}
		if t.MinSeconds != nil {
			slide.Timing.MinSeconds = *t.MinSeconds
		}
		if t.MaxSeconds != nil {
			slide.Timing.MaxSeconds = *t.MaxSeconds
		}
	}

	if s := p.Script; s != nil {
		if s.Goal != nil {
			slide.Script.Goal = *s.Goal
		}
		if s.TalkTrack != nil {
			slide.Script.TalkTrack = *s.TalkTrack
		}
		if s.KeyPoints != nil {
			slide.Script.KeyPoints = append([]string(nil), s.KeyPoints...)
		}
		if s.TransitionIn != nil {
			slide.Script.TransitionIn = cloneString(s.TransitionIn)
		}
		if s.TransitionOut != nil {
			slide.Script.TransitionOut = cloneString(s.TransitionOut)
		}
	}

	if p.Flags != nil {
		flags := make([]Flag, 0, len(*p.Flags))
		for _, f := range *p.Flags {
			if f.Known() && !HasFlag(flags, f) {
				flags = append(flags, f)
			}
		}
		slide.Flags = flags
	}
}

// SettingsPatch carries optional overrides for Settings.
type SettingsPatch struct {
	TotalSeconds    *int      `json:"totalSeconds,omitempty"`
	QABufferSeconds *int      `json:"qaBufferSeconds,omitempty"`
	Audience        *Audience `json:"audience,omitempty"`
	Tone            *Tone     `json:"tone,omitempty"`
	Style           *Style    `json:"style,omitempty"`
	Language        *Language `json:"language,omitempty"`
}

// Merge returns base overwritten by every field set in p.
func (p *SettingsPatch) Merge(base Settings) Settings {
	if p == nil {
		return base
	}
	if p.TotalSeconds != nil {
		base.TotalSeconds = *p.TotalSeconds
	}
	if p.QABufferSeconds != nil {
		base.QABufferSeconds = *p.QABufferSeconds
	}
	if p.Audience != nil {
		base.Audience = *p.Audience
	}
	if p.Tone != nil {
		base.Tone = *p.Tone
	}
	if p.Style != nil {
		base.Style = *p.Style
	}
	if p.Language != nil {
		base.Language = *p.Language
	}
	return base
}
