package script

import (
	"fmt"
	"regexp"
)

// Patterns is the text-scanning table used for key points, goals and
// sentence splitting. Bullet and Numbered must capture the item text in
// their first group.
type Patterns struct {
	Bullet              *regexp.Regexp
	Numbered            *regexp.Regexp
	SentenceTerminators *regexp.Regexp
	GoalTerminators     *regexp.Regexp
}

// PatternSpec is the uncompiled form of Patterns as it appears in settings files.
type PatternSpec struct {
	Bullet              string `toml:"bullet" yaml:"bullet"`
	Numbered            string `toml:"numbered" yaml:"numbered"`
	SentenceTerminators string `toml:"sentence_terminators" yaml:"sentence_terminators"`
	GoalTerminators     string `toml:"goal_terminators" yaml:"goal_terminators"`
}

func DefaultPatternSpec() PatternSpec {
	return PatternSpec{
		Bullet:              `(?m)^[ \t]*[・•\-\*][ \t]*(.+)$`,
		Numbered:            `(?m)^[ \t]*\d+[.）)][ \t]*(.+)$`,
		SentenceTerminators: `[。.!！?？]`,
		GoalTerminators:     `[。\n]`,
	}
}

func DefaultPatterns() *Patterns {
	p, err := DefaultPatternSpec().Compile()
	if err != nil {
		panic(err)
	}
	return p
}

// Compile builds a Patterns table. Blank fields fall back to the defaults.
func (s PatternSpec) Compile() (*Patterns, error) {
	defaults := DefaultPatternSpec()
	compile := func(name, expr, fallback string) (*regexp.Regexp, error) {
		if expr == "" {
			expr = fallback
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern: %w", name, err)
		}
		return re, nil
	}

	var (
		p   Patterns
		err error
	)
	if p.Bullet, err = compile("bullet", s.Bullet, defaults.Bullet); err != nil {
		return nil, err
	}
	if p.Numbered, err = compile("numbered", s.Numbered, defaults.Numbered); err != nil {
		return nil, err
	}
	if p.SentenceTerminators, err = compile("sentence", s.SentenceTerminators, defaults.SentenceTerminators); err != nil {
		return nil, err
	}
	if p.GoalTerminators, err = compile("goal", s.GoalTerminators, defaults.GoalTerminators); err != nil {
		return nil, err
	}
	if p.Bullet.NumSubexp() < 1 || p.Numbered.NumSubexp() < 1 {
		return nil, fmt.Errorf("bullet and numbered patterns need a capture group")
	}
	return &p, nil
}
