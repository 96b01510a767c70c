package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	a := NewDefault()
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on non-letters",
			text: "At very LOW temperatures, superconductors!",
			want: []string{"at", "very", "low", "temperatures", "superconductors"},
		},
		{
			name: "digits are separators",
			text: "model2vec v3",
			want: []string{"model", "vec", "v"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeRemovesStopWords(t *testing.T) {
	a := NewDefault()
	got := a.Normalize("a magnet is brought near the superconductor")
	want := []string{"magnet", "brought", "near", "superconductor"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeKeepsInflections(t *testing.T) {
	a := NewDefault()
	got := a.Normalize("superconductors repel; a superconductor repelled")
	want := []string{"superconductors", "repel", "superconductor", "repelled"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v (no stemming expected)", got, want)
	}
}

func TestCustomStopWords(t *testing.T) {
	a := New([]string{"magnet"})
	got := a.Normalize("a magnet is here")
	want := []string{"a", "is", "here"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
	if !a.IsStopWord("magnet") {
		t.Error("IsStopWord(magnet) = false, want true")
	}
}
