package domain

type Flag string

const (
	FlagTooShort     Flag = "too_short"
	FlagTooLong      Flag = "too_long"
	FlagDense        Flag = "dense"
	FlagNeedsContext Flag = "needs_context"
)

var knownFlags = map[Flag]bool{
	FlagTooShort:     true,
	FlagTooLong:      true,
	FlagDense:        true,
	FlagNeedsContext: true,
}

// manualFlags are never produced by an automatic rule and survive recomputation.
var manualFlags = map[Flag]bool{
	FlagNeedsContext: true,
}

func (f Flag) Known() bool {
	return knownFlags[f]
}

func (f Flag) Manual() bool {
	return manualFlags[f]
}

func HasFlag(flags []Flag, want Flag) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
