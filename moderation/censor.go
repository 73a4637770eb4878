package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Censor replaces forbidden words with a replacement rune while keeping
// the surrounding spacing intact. Matching runs on a normalized view of
// the text so leet speak and inserted punctuation do not slip through.
type Censor struct {
	machine     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

func NewCensor(words []string, replacement rune, log *slog.Logger) (*Censor, error) {
	if log == nil {
		log = slog.Default()
	}

	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		if p := normalize([]rune(word), nil); len(p) > 0 {
			patterns = append(patterns, p)
		}
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{machine: machine, replacement: replacement, log: log}, nil
}

// Apply returns the censored text and the normalized words that matched.
// Clean input comes back unchanged.
func (c *Censor) Apply(original string) (string, []string) {
	orig := []rune(original)
	var origIdx []int
	norm := normalize(orig, &origIdx)
	if len(norm) == 0 {
		return original, nil
	}

	spans := c.machine.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return original, nil
	}

	var words []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		words = append(words, string(span.Word))
		// Star out everything between the first and last matched rune,
		// punctuation inside the match included.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			orig[i] = c.replacement
		}
	}
	return string(orig), words
}

// normalize lowercases, folds common leet substitutions and drops noise.
// When idx is non-nil it records, per kept rune, its original position.
func normalize(in []rune, idx *[]int) []rune {
	out := make([]rune, 0, len(in))
	for i, r := range in {
		r = foldLeet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
		if idx != nil {
			*idx = append(*idx, i)
		}
	}
	return out
}

func foldLeet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
