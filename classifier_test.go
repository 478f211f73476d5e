package striter

import (
	"testing"
	"unicode"
)

func TestClassifierNot(t *testing.T) {
	digit := Classifier(unicode.IsDigit)
	notDigit := digit.Not()

	for _, r := range "a1 ." {
		if notDigit(r) == digit(r) {
			t.Errorf("Not()(%q) = %v, want negation", r, notDigit(r))
		}
	}
}

func TestIsWordRune(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'Z', true},
		{'0', true},
		{'日', true},
		{'Ⅷ', true}, // Roman numeral, category Nl
		{' ', false},
		{'-', false},
		{'!', false},
		{'😀', false},
	}

	for _, tt := range tests {
		if got := IsWordRune(tt.r); got != tt.want {
			t.Errorf("IsWordRune(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestAnyOf(t *testing.T) {
	vowel := AnyOf("aeiou")

	tests := []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'e', true},
		{'b', false},
		{'A', false},
	}

	for _, tt := range tests {
		if got := vowel(tt.r); got != tt.want {
			t.Errorf("AnyOf(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}

	none := AnyOf("")
	if none('a') {
		t.Error("AnyOf(\"\") should match nothing")
	}
}

func TestInRange(t *testing.T) {
	emoticon := InRange('\U0001F600', '\U0001F64F')

	tests := []struct {
		r    rune
		want bool
	}{
		{'\U0001F600', true},
		{'\U0001F64F', true}, // bounds inclusive
		{'\U0001F650', false},
		{'a', false},
	}

	for _, tt := range tests {
		if got := emoticon(tt.r); got != tt.want {
			t.Errorf("InRange(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestInTable(t *testing.T) {
	greek := InTable(unicode.Greek)

	if !greek('λ') {
		t.Error("InTable(Greek)('λ') = false, want true")
	}
	if greek('a') {
		t.Error("InTable(Greek)('a') = true, want false")
	}
}
