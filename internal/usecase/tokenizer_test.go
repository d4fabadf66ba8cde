package usecase

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "commas become separators and case folds",
			text: "Sugar, Salt  Water",
			want: []string{"sugar", "salt", "water"},
		},
		{
			name: "newlines and tabs collapse",
			text: "INGREDIENTS:\n\tWheat Flour,Palm Oil\r\nYeast",
			want: []string{"ingredients:", "wheat", "flour", "palm", "oil", "yeast"},
		},
		{
			name: "consecutive commas produce no empty tokens",
			text: ",,sugar,, ,salt,",
			want: []string{"sugar", "salt"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "  \n\t ",
			want: []string{},
		},
		{
			name: "other punctuation is kept",
			text: "Emulsifier (E471). Salt",
			want: []string{"emulsifier", "(e471).", "salt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeIsPure(t *testing.T) {
	text := "Milk Solids, Sugar, Cocoa Butter"
	first := Tokenize(text)
	second := Tokenize(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Tokenize not deterministic: %q vs %q", first, second)
	}
}

func TestIgnoreList(t *testing.T) {
	list := NewIgnoreList([]string{"Energy", " protein ", "energy", "", "total fiber"})

	if list.Len() != 3 {
		t.Errorf("Len() = %d, want 3", list.Len())
	}

	tests := []struct {
		token string
		want  bool
	}{
		{"energy", true},
		{"ENERGY", true},
		{"protein", true},
		{"total fiber", true},
		{"total", false},
		{"sugar", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := list.Contains(tt.token); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
