package text

import (
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"
)

func TestNewSplitter(t *testing.T) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	t.Run("English language", func(t *testing.T) {
		if tok := NewSplitter(language.AmericanEnglish, logger); tok == nil {
			t.Fatal("Expected tokenizer for English, got nil")
		}
	})

	t.Run("Unsupported language", func(t *testing.T) {
		if tok := NewSplitter(language.Russian, logger); tok != nil {
			t.Fatal("Expected nil for unsupported language")
		}
	})
}

func TestSplit(t *testing.T) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	t.Run("Nil tokenizer", func(t *testing.T) {
		var tok *Splitter
		result := tok.Split("This is a test. This is another test.")
		if len(result) != 1 || result[0] != "This is a test. This is another test." {
			t.Errorf("Expected original text, got %q", result)
		}
		if tok.Ends("This is a test. This is another test.") != nil {
			t.Error("nil tokenizer has no sentence ends")
		}
	})

	tok := NewSplitter(language.English, logger)
	if tok == nil {
		t.Fatal("English tokenizer not available")
	}

	t.Run("Simple English sentences", func(t *testing.T) {
		text := "This is a test. This is another test."
		result := tok.Split(text)
		if len(result) != 2 {
			t.Fatalf("Expected 2 sentences, got %q", result)
		}
		if result[0] != "This is a test. " {
			t.Errorf("Spaces must stay with the first sentence, got %q", result[0])
		}
		if strings.Join(result, "") != text {
			t.Errorf("Sentences do not add up to the input: %q", result)
		}
	})

	t.Run("Sentence ends", func(t *testing.T) {
		text := "First sentence.  Second sentence. Third one"
		if got := tok.Ends(text); !slices.Equal(got, []int{15, 33}) {
			t.Errorf("Ends() = %v, want [15 33]", got)
		}
	})

	t.Run("Single sentence", func(t *testing.T) {
		text := "This is a single sentence"
		result := tok.Split(text)
		if len(result) != 1 || result[0] != text {
			t.Errorf("Expected %q, got %q", text, result)
		}
		if tok.Ends(text) != nil {
			t.Error("a single sentence has no inner ends")
		}
	})

	t.Run("Empty string", func(t *testing.T) {
		if result := tok.Split(""); len(result) != 0 {
			t.Errorf("Expected 0 sentences for empty string, got %d", len(result))
		}
	})
}
