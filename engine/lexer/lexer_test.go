package lexer

import (
	"reflect"
	"testing"
)

func TestTokenizeWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple command", "take lamp", []string{"take", "lamp"}},
		{"uppercase normalized", "TAKE LAMP", []string{"take", "lamp"}},
		{"articles dropped", "take the brass lamp", []string{"take", "brass", "lamp"}},
		{"leading article", "a lamp", []string{"lamp"}},
		{"trailing period dropped", "go north.", []string{"go", "north"}},
		{"contraction expanded", "i don't know", []string{"i", "do", "not", "know"}},
		{"extra whitespace", "  take   lamp  ", []string{"take", "lamp"}},
		{"empty input", "", nil},
		{"only articles", "the a an", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(Tokenize(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Words(Tokenize(%q)) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeStructure(t *testing.T) {
	tokens := Tokenize("take lamp, key and sword")
	wantTypes := []TokenType{Word, Word, Comma, Word, And, Word}
	if len(tokens) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantTypes))
	}
	for i, tt := range wantTypes {
		if tokens[i].Type != tt {
			t.Errorf("token %d: type %v, want %v", i, tokens[i].Type, tt)
		}
	}
}

func TestTokenizeAmpersand(t *testing.T) {
	tokens := Tokenize("lamp & key")
	if len(tokens) != 3 || tokens[1].Type != And {
		t.Fatalf("expected AND token for &, got %v", tokens)
	}
	if tokens[1].Value != "and" {
		t.Errorf("& should normalize to %q, got %q", "and", tokens[1].Value)
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	// Already-normalized input must tokenize to itself.
	inputs := []string{"take brass lamp", "go north", "put key in box"}
	for _, input := range inputs {
		once := Words(Tokenize(input))
		twice := Words(Tokenize(joinWords(once)))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("tokenize not idempotent on %q: %v vs %v", input, once, twice)
		}
	}
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}

func TestSplitOnConjunction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{"no conjunction", "take lamp", [][]string{{"take", "lamp"}}},
		{"and", "lamp and key", [][]string{{"lamp"}, {"key"}}},
		{"comma", "lamp, key", [][]string{{"lamp"}, {"key"}}},
		{"comma and mix", "lamp, key and sword", [][]string{{"lamp"}, {"key"}, {"sword"}}},
		{"no empty segments", "lamp and and key", [][]string{{"lamp"}, {"key"}}},
		{"empty input", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][]string
			for _, seg := range SplitOnConjunction(Tokenize(tt.input)) {
				got = append(got, Words(seg))
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
