package main

import (
	"github.com/spf13/cobra"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

type settingsFlags struct {
	total    int
	qaBuffer int
	audience string
	tone     string
	language string
}

func addSettingsFlags(cmd *cobra.Command) *settingsFlags {
	f := &settingsFlags{}
	cmd.Flags().IntVar(&f.total, "total", 0, "Total talk length in seconds")
	cmd.Flags().IntVar(&f.qaBuffer, "qa", 0, "Seconds reserved for questions")
	cmd.Flags().StringVar(&f.audience, "audience", "", "Audience (internal, customer, meetup, conference)")
	cmd.Flags().StringVar(&f.tone, "tone", "", "Tone (casual, polite, sales, academic)")
	cmd.Flags().StringVar(&f.language, "language", "", "Script language (ja, en)")
	return f
}

// patch returns only the settings the user passed explicitly, or nil.
func (f *settingsFlags) patch(cmd *cobra.Command) *domain.SettingsPatch {
	flags := cmd.Flags()
	p := &domain.SettingsPatch{}
	changed := false

	if flags.Changed("total") {
		p.TotalSeconds = &f.total
		changed = true
	}
	if flags.Changed("qa") {
		p.QABufferSeconds = &f.qaBuffer
		changed = true
	}
	if flags.Changed("audience") {
		audience := domain.Audience(f.audience)
		p.Audience = &audience
		changed = true
	}
	if flags.Changed("tone") {
		tone := domain.Tone(f.tone)
		p.Tone = &tone
		changed = true
	}
	if flags.Changed("language") {
		lang := domain.Language(f.language)
		p.Language = &lang
		changed = true
	}

	if !changed {
		return nil
	}
	return p
}
