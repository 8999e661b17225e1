package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	StyleMin = -2
	StyleMax = 2
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceInternal, AudienceCustomer, AudienceMeetup, AudienceConference:
		return true
	}
	return false
}

func (t Tone) Valid() bool {
	switch t {
	case ToneCasual, TonePolite, ToneSales, ToneAcademic:
		return true
	}
	return false
}

// ParseLanguage accepts BCP-47 tags such as "ja-JP" or "en_US" and reduces
// them to a supported base language.
func ParseLanguage(value string) (Language, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", "-"))
	if value == "" {
		return "", fmt.Errorf("language is empty")
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", value, err)
	}
	base, _ := tag.Base()
	switch Language(base.String()) {
	case LanguageJapanese:
		return LanguageJapanese, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	}
	return "", fmt.Errorf("unsupported language %q", value)
}

// Normalize fills blank enum fields from DefaultSettings and canonicalises the
// language tag. It returns an error for values outside the enums and for a
// non-positive total.
func (s Settings) Normalize() (Settings, error) {
	defaults := DefaultSettings()

	if s.TotalSeconds <= 0 {
		return Settings{}, fmt.Errorf("totalSeconds must be positive")
	}
	if s.QABufferSeconds < 0 {
		return Settings{}, fmt.Errorf("qaBufferSeconds must not be negative")
	}

	if s.Audience == "" {
		s.Audience = defaults.Audience
	}
	if !s.Audience.Valid() {
		return Settings{}, fmt.Errorf("unsupported audience %q", s.Audience)
	}

	if s.Tone == "" {
		s.Tone = defaults.Tone
	}
	if !s.Tone.Valid() {
		return Settings{}, fmt.Errorf("unsupported tone %q", s.Tone)
	}

	if s.Language == "" {
		s.Language = defaults.Language
	} else {
		lang, err := ParseLanguage(string(s.Language))
		if err != nil {
			return Settings{}, err
		}
		s.Language = lang
	}

	for name, v := range map[string]int{"brevity": s.Style.Brevity, "energy": s.Style.Energy, "pace": s.Style.Pace} {
		if v < StyleMin || v > StyleMax {
			return Settings{}, fmt.Errorf("style.%s must be between %d and %d", name, StyleMin, StyleMax)
		}
	}

	return s, nil
}
