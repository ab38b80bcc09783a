package quiz

import (
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	DefaultMinKeyFactLength = 5
	DefaultMaxDistractors   = 3

	// fallbackKeyFactLength caps the first-line fallback when no sentence terminator is found.
	fallbackKeyFactLength = 100
)

var firstSentenceRegex = regexp.MustCompile(`^[^.!?]+[.!?]`)

// Source is the part of a note the generator reads.
type Source struct {
	Title   string
	Content string
}

// ExtractKeyFact returns the first sentence of text, or its first line (at most 100 characters)
// when text has no sentence terminator. The result is trimmed.
func ExtractKeyFact(text string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return ""
	}
	if m := firstSentenceRegex.FindString(cleaned); m != "" {
		return strings.TrimSpace(m)
	}
	line := strings.SplitN(cleaned, "\n", 2)[0]
	if utf8.RuneCountInString(line) > fallbackKeyFactLength {
		line = string([]rune(line)[:fallbackKeyFactLength])
	}
	return strings.TrimSpace(line)
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithMinKeyFactLength sets the number of characters below which a key fact is unusable.
func WithMinKeyFactLength(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.minKeyFactLength = n
		}
	}
}

// WithMaxDistractors sets how many wrong options a question gets at most.
func WithMaxDistractors(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.maxDistractors = n
		}
	}
}

// WithShuffle replaces the option shuffler. shuffle must permute n elements through swap.
func WithShuffle(shuffle func(n int, swap func(i, j int))) GeneratorOption {
	return func(g *Generator) {
		if shuffle != nil {
			g.shuffle = shuffle
		}
	}
}

// WithIDFunc replaces the question ID generator.
func WithIDFunc(newID func() string) GeneratorOption {
	return func(g *Generator) {
		if newID != nil {
			g.newID = newID
		}
	}
}

// Generator builds basic multiple-choice questions out of notes, without any network call.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	minKeyFactLength int
	maxDistractors   int
	shuffle          func(n int, swap func(i, j int))
	newID            func() string
}

// NewGenerator returns a Generator with the default thresholds, adjusted by opts.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		minKeyFactLength: DefaultMinKeyFactLength,
		maxDistractors:   DefaultMaxDistractors,
		shuffle:          rand.Shuffle,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// GenerateBasicMCQ runs the default Generator over sources.
func GenerateBasicMCQ(sources []Source) []Question {
	return defaultGenerator.Generate(sources)
}

func (g *Generator) usable(fact string) bool {
	return utf8.RuneCountInString(fact) >= g.minKeyFactLength
}

// Generate returns at most one question per source, in source order.
// A source yields a question when its key fact is usable and at least one other source has a usable key fact.
// The correct answer is the source's own key fact; the other options are the first usable key facts
// of the other sources, in input order.
func (g *Generator) Generate(sources []Source) []Question {
	if len(sources) < 2 {
		return []Question{}
	}

	facts := make([]string, len(sources))
	for i, src := range sources {
		facts[i] = ExtractKeyFact(src.Content)
	}

	questions := make([]Question, 0, len(sources))
	for i, src := range sources {
		fact := facts[i]
		if !g.usable(fact) {
			continue
		}

		distractors := make([]string, 0, g.maxDistractors)
		for j, other := range facts {
			if len(distractors) == g.maxDistractors {
				break
			}
			if j == i || !g.usable(other) {
				continue
			}
			distractors = append(distractors, other)
		}
		if len(distractors) == 0 {
			continue
		}

		options := append([]string{fact}, distractors...)
		g.shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		questions = append(questions, Question{
			ID:            g.newID(),
			Type:          TypeMCQBasic,
			Question:      src.Title,
			Options:       options,
			CorrectAnswer: fact,
		})
	}
	return questions
}
