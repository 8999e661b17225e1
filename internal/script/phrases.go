package script

import (
	"fmt"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

type phrases struct {
	intro         map[domain.Tone]string
	defaultIntro  string
	pending       string
	goalFallback  string
	transitionIn  string
	transitionOut string
}

var phraseTable = map[domain.Language]phrases{
	domain.LanguageJapanese: {
		intro: map[domain.Tone]string{
			domain.ToneCasual:   "では、こちらについて説明しますね。",
			domain.ToneSales:    "ここで重要なポイントをご紹介させていただきます。",
			domain.ToneAcademic: "このスライドでは以下の点を示します。",
		},
		defaultIntro:  "こちらのスライドについてご説明いたします。",
		pending:       "（ここに詳細な台本が入ります）",
		goalFallback:  "%sについて説明する",
		transitionIn:  "では次に、",
		transitionOut: "それでは次のスライドに移りましょう。",
	},
	domain.LanguageEnglish: {
		intro: map[domain.Tone]string{
			domain.ToneCasual:   "So, let me explain this...",
			domain.ToneSales:    "I'd like to highlight an important point here...",
			domain.ToneAcademic: "This slide demonstrates...",
		},
		defaultIntro:  "Let me walk you through this slide...",
		pending:       "(Detailed script goes here)",
		goalFallback:  "About %s",
		transitionIn:  "Next, ",
		transitionOut: "Let's move on to the next slide.",
	},
}

func phrasesFor(lang domain.Language) phrases {
	if p, ok := phraseTable[lang]; ok {
		return p
	}
	return phraseTable[domain.LanguageJapanese]
}

// Audience is accepted for future variants; current phrasing depends on tone
// and language only.
func (p phrases) introFor(tone domain.Tone, _ domain.Audience) string {
	if s, ok := p.intro[tone]; ok {
		return s
	}
	return p.defaultIntro
}

func (p phrases) goalAbout(title string) string {
	return fmt.Sprintf(p.goalFallback, title)
}
