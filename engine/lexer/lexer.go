// Package lexer normalizes raw player input into a token sequence.
// It lower-cases, expands contractions, strips articles, and keeps commas
// and conjunctions as structural tokens for multi-object commands.
package lexer

import "strings"

// TokenType classifies a token.
type TokenType int

// Periods end a command and are stripped during scanning, so they never
// appear in the token stream and need no type of their own.
const (
	Word  TokenType = iota // regular word
	Comma                  // separator between multiple objects
	And                    // conjunction
)

// Token is a single unit of lexer output. Original preserves the form the
// player typed before normalization.
type Token struct {
	Type     TokenType
	Value    string
	Original string
}

var articles = map[string]bool{
	"a":   true,
	"an":  true,
	"the": true,
}

var conjunctions = map[string]bool{
	"and": true,
	"&":   true,
}

var contractions = strings.NewReplacer(
	"don't", "do not",
	"doesn't", "does not",
	"can't", "cannot",
	"won't", "will not",
	"i'm", "i am",
	"it's", "it is",
	"that's", "that is",
	"what's", "what is",
	"where's", "where is",
)

// Tokenize converts input text into tokens. Articles are dropped, commas
// and conjunctions become their own tokens, and a trailing period is
// discarded as a sentence terminator. Empty or all-article input yields an
// empty slice, which callers must treat as "no command".
func Tokenize(text string) []Token {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	text = contractions.Replace(text)

	var tokens []Token
	var word strings.Builder

	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		word.Reset()
		switch {
		case conjunctions[w]:
			tokens = append(tokens, Token{Type: And, Value: "and", Original: w})
		case articles[w]:
			// dropped
		default:
			tokens = append(tokens, Token{Type: Word, Value: w, Original: w})
		}
	}

	for _, r := range text {
		switch r {
		case ' ', '\t', '\n':
			flush()
		case ',':
			flush()
			tokens = append(tokens, Token{Type: Comma, Value: ",", Original: ","})
		case '.':
			flush()
		default:
			word.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// Words projects a token list down to its word values.
func Words(tokens []Token) []string {
	var words []string
	for _, t := range tokens {
		if t.Type == Word {
			words = append(words, t.Value)
		}
	}
	return words
}

// SplitOnConjunction partitions a token list at AND/COMMA boundaries into
// non-empty segments, for commands like "take lamp and key".
func SplitOnConjunction(tokens []Token) [][]Token {
	var segments [][]Token
	var current []Token
	for _, t := range tokens {
		if t.Type == And || t.Type == Comma {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}
