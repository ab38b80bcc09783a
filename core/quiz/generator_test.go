package quiz

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noShuffle keeps options in build order: correct answer first, then distractors.
func noShuffle(int, func(i, j int)) {}

func reverseShuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func seqIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("q%d", n)
	}
}

func TestExtractKeyFact(t *testing.T) {
	long := strings.Repeat("a", 150)
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: ""},
		{name: "whitespace only", text: " \n\t ", want: ""},
		{name: "first sentence", text: "Derivation measures rate of change. More text.", want: "Derivation measures rate of change."},
		{name: "leading whitespace", text: "   Hello world! Bye.", want: "Hello world!"},
		{name: "question mark", text: "What is a limit? It is a value.", want: "What is a limit?"},
		{name: "abbreviation ends sentence", text: "See e.g. the book.", want: "See e."},
		{name: "decimal ends sentence", text: "Pi is 3.14 roughly.", want: "Pi is 3."},
		{name: "sentence spans lines", text: "Line one\nline two.", want: "Line one\nline two."},
		{name: "no terminator first line", text: "No terminator here\nsecond line", want: "No terminator here"},
		{name: "no terminator long line", text: long, want: strings.Repeat("a", 100)},
		{name: "truncate then trim", text: strings.Repeat("b", 99) + " c", want: strings.Repeat("b", 99)},
		{name: "starts with terminator", text: ". after dot", want: ". after dot"},
		{name: "runes not bytes", text: strings.Repeat("é", 120), want: strings.Repeat("é", 100)},
		{name: "short sentence", text: "Hi. Ok.", want: "Hi."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeyFact(tt.text))
		})
	}
}

func TestExtractKeyFact_idempotent(t *testing.T) {
	texts := []string{
		"Derivation measures rate of change. More text.",
		"  No terminator at all  ",
		strings.Repeat("word ", 40),
		"Why? Because.",
	}
	for _, text := range texts {
		once := ExtractKeyFact(text)
		assert.Equal(t, once, ExtractKeyFact(once), "text %q", text)
	}
}

func TestGenerator_Generate_scenarios(t *testing.T) {
	gen := NewGenerator(WithShuffle(noShuffle), WithIDFunc(seqIDs()))

	t.Run("two notes", func(t *testing.T) {
		got := gen.Generate([]Source{
			{Title: "Derivatives", Content: "Derivation measures rate of change. More text."},
			{Title: "Integrals", Content: "Integration is the inverse of derivation. More."},
		})
		require.Len(t, got, 2)

		assert.Equal(t, "Derivatives", got[0].Question)
		assert.Equal(t, TypeMCQBasic, got[0].Type)
		assert.Equal(t, "Derivation measures rate of change.", got[0].CorrectAnswer)
		assert.Equal(t, []string{"Derivation measures rate of change.", "Integration is the inverse of derivation."}, got[0].Options)

		assert.Equal(t, "Integrals", got[1].Question)
		assert.Equal(t, "Integration is the inverse of derivation.", got[1].CorrectAnswer)
		assert.Equal(t, []string{"Integration is the inverse of derivation.", "Derivation measures rate of change."}, got[1].Options)

		assert.NotEqual(t, got[0].ID, got[1].ID)
	})

	t.Run("one note", func(t *testing.T) {
		got := gen.Generate([]Source{{Title: "Alone", Content: "A lonely note with a fact."}})
		assert.Empty(t, got)
	})

	t.Run("empty note and one usable note", func(t *testing.T) {
		got := gen.Generate([]Source{
			{Title: "Empty", Content: ""},
			{Title: "Full", Content: "This note has a usable sentence."},
		})
		assert.Empty(t, got)
	})

	t.Run("short key fact skipped", func(t *testing.T) {
		got := gen.Generate([]Source{
			{Title: "Short", Content: "Hi. Ok."},
			{Title: "One", Content: "The first usable sentence."},
			{Title: "Two", Content: "The second usable sentence."},
		})
		require.Len(t, got, 2)
		for _, q := range got {
			assert.NotEqual(t, "Short", q.Question)
			assert.NotContains(t, q.Options, "Hi.")
		}
	})

	t.Run("five notes cap distractors", func(t *testing.T) {
		sources := make([]Source, 5)
		for i := range sources {
			sources[i] = Source{
				Title:   fmt.Sprintf("Note %d", i),
				Content: fmt.Sprintf("Fact number %d is distinct. Extra.", i),
			}
		}
		got := gen.Generate(sources)
		require.Len(t, got, 5)
		for i, q := range got {
			assert.Len(t, q.Options, 4)
			assert.Equal(t, fmt.Sprintf("Fact number %d is distinct.", i), q.CorrectAnswer)
		}
		// distractors are the first usable facts of the other notes, in input order
		assert.Equal(t, []string{
			"Fact number 4 is distinct.",
			"Fact number 0 is distinct.",
			"Fact number 1 is distinct.",
			"Fact number 2 is distinct.",
		}, got[4].Options)
	})
}

func TestGenerator_Generate_emptyInput(t *testing.T) {
	assert.Empty(t, GenerateBasicMCQ(nil))
	assert.Empty(t, GenerateBasicMCQ([]Source{}))
}

func TestGenerator_Generate_properties(t *testing.T) {
	sources := []Source{
		{Title: "Cells", Content: "Cells are the basic unit of life. They divide."},
		{Title: "DNA", Content: "DNA stores genetic information! It is a double helix."},
		{Title: "Tiny", Content: "No."},
		{Title: "Enzymes", Content: "Enzymes speed up reactions?"},
		{Title: "Blank", Content: "   "},
		{Title: "Proteins", Content: "Proteins are made of amino acids"},
		{Title: "Mitosis", Content: "Mitosis produces two identical cells."},
	}
	facts := make(map[string]bool)
	for _, src := range sources {
		facts[ExtractKeyFact(src.Content)] = true
	}

	for run := 0; run < 50; run++ {
		got := GenerateBasicMCQ(sources)
		require.Len(t, got, 5)
		for _, q := range got {
			assert.Contains(t, q.Options, q.CorrectAnswer)
			assert.GreaterOrEqual(t, len(q.Options), 2)
			assert.LessOrEqual(t, len(q.Options), 4)
			for _, opt := range q.Options {
				assert.True(t, facts[opt], "option %q is not a key fact of the batch", opt)
				assert.GreaterOrEqual(t, len([]rune(opt)), DefaultMinKeyFactLength)
			}
		}
	}
}

func TestGenerator_Generate_shufflePreservesOptions(t *testing.T) {
	sources := []Source{
		{Title: "A", Content: "Alpha is the first letter."},
		{Title: "B", Content: "Beta is the second letter."},
		{Title: "C", Content: "Gamma is the third letter."},
	}
	ordered := NewGenerator(WithShuffle(noShuffle)).Generate(sources)
	reversed := NewGenerator(WithShuffle(reverseShuffle)).Generate(sources)
	random := NewGenerator().Generate(sources)

	require.Len(t, ordered, 3)
	require.Len(t, reversed, 3)
	require.Len(t, random, 3)
	for i := range ordered {
		assert.ElementsMatch(t, ordered[i].Options, reversed[i].Options)
		assert.ElementsMatch(t, ordered[i].Options, random[i].Options)
		assert.Equal(t, ordered[i].CorrectAnswer, reversed[i].CorrectAnswer)
		assert.Equal(t, ordered[i].Question, random[i].Question)
	}
	assert.Equal(t, "Alpha is the first letter.", reversed[0].Options[2])
}

func TestGenerator_Generate_shuffleIsUnbiased(t *testing.T) {
	sources := []Source{
		{Title: "A", Content: "Alpha is the first letter."},
		{Title: "B", Content: "Beta is the second letter."},
		{Title: "C", Content: "Gamma is the third letter."},
		{Title: "D", Content: "Delta is the fourth letter."},
	}
	const runs = 4000
	positions := make([]int, 4)
	for i := 0; i < runs; i++ {
		q := GenerateBasicMCQ(sources)[0]
		for pos, opt := range q.Options {
			if opt == q.CorrectAnswer {
				positions[pos]++
			}
		}
	}
	for pos, n := range positions {
		// expected 1000 per slot; allow a wide margin
		assert.InDelta(t, runs/4, n, 200, "position %d", pos)
	}
}

func TestGenerator_Generate_duplicateFactsKept(t *testing.T) {
	gen := NewGenerator(WithShuffle(noShuffle))
	got := gen.Generate([]Source{
		{Title: "One", Content: "Same sentence here."},
		{Title: "Two", Content: "Same sentence here."},
	})
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Same sentence here.", "Same sentence here."}, got[0].Options)
}

func TestGenerator_options(t *testing.T) {
	sources := []Source{
		{Title: "A", Content: "Tiny."},
		{Title: "B", Content: "Small."},
		{Title: "C", Content: "Bigger sentence."},
		{Title: "D", Content: "Another bigger sentence."},
	}

	t.Run("min key fact length", func(t *testing.T) {
		got := NewGenerator(WithMinKeyFactLength(3)).Generate(sources)
		assert.Len(t, got, 4)
		got = NewGenerator(WithMinKeyFactLength(10)).Generate(sources)
		assert.Len(t, got, 2)
	})

	t.Run("max distractors", func(t *testing.T) {
		got := NewGenerator(WithMaxDistractors(1), WithShuffle(noShuffle)).Generate(sources)
		require.Len(t, got, 4)
		for _, q := range got {
			assert.Len(t, q.Options, 2)
		}
		assert.Equal(t, []string{"Tiny.", "Small."}, got[0].Options)
	})

	t.Run("non-positive values keep defaults", func(t *testing.T) {
		got := NewGenerator(WithMinKeyFactLength(0), WithMaxDistractors(-1)).Generate(sources)
		require.Len(t, got, 4)
		for _, q := range got {
			assert.Len(t, q.Options, 4)
		}
	})
}

func TestGenerator_Generate_concurrent(t *testing.T) {
	sources := []Source{
		{Title: "A", Content: "Alpha is the first letter."},
		{Title: "B", Content: "Beta is the second letter."},
	}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, GenerateBasicMCQ(sources), 2)
		}()
	}
	wg.Wait()
}
