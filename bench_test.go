package striter

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"unicode"
)

// generateText creates a string of the given size with realistic content.
func generateText(size int) string {
	var sb strings.Builder
	sb.Grow(size)

	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "hello", "world"}

	for sb.Len() < size {
		word := words[rand.Intn(len(words))]
		if sb.Len()+len(word)+1 > size {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
	}

	return sb.String()
}

// generateUnicodeText creates mixed-width content to exercise multibyte decoding.
func generateUnicodeText(size int) string {
	var sb strings.Builder
	sb.Grow(size)

	words := []string{"hello", "日本語", "héllo", "世界", "😀", "naïve", "go"}

	for sb.Len() < size {
		word := words[rand.Intn(len(words))]
		if sb.Len()+len(word)+1 > size {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
	}

	return sb.String()
}

func BenchmarkSpans(b *testing.B) {
	sizes := []int{100, 1000, 10000, 100000}

	for _, size := range sizes {
		text := generateText(size)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				it := Spans(text, IsWordRune)
				for it.Next() {
				}
			}
		})
	}
}

func BenchmarkSpansUnicode(b *testing.B) {
	sizes := []int{100, 1000, 10000, 100000}

	for _, size := range sizes {
		text := generateUnicodeText(size)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				it := Spans(text, IsWordRune)
				for it.Next() {
				}
			}
		})
	}
}

func BenchmarkSpansReset(b *testing.B) {
	text := generateText(10000)
	it := Spans(text, IsWordRune)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it.Reset()
		for it.Next() {
		}
	}
}

func BenchmarkRunes(b *testing.B) {
	sizes := []int{100, 1000, 10000, 100000}

	for _, size := range sizes {
		text := generateText(size)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				it := Runes(text, IsWordRune)
				for it.Next() {
				}
			}
		})
	}
}

func BenchmarkWords(b *testing.B) {
	text := generateText(10000)

	b.Run("striter", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = Words(text).Count()
		}
	})

	// strings.FieldsFunc allocates the result slice; included for scale.
	b.Run("stdlib", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = len(strings.FieldsFunc(text, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsNumber(r)
			}))
		}
	})
}

func BenchmarkSubstrings(b *testing.B) {
	text := generateText(10000)

	b.Run("striter", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = Substrings(text, " ").Count()
		}
	})

	b.Run("stdlib", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = len(strings.Split(text, " "))
		}
	})
}

func BenchmarkGraphemes(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		text := generateUnicodeText(size)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				it := Graphemes(text)
				for it.Next() {
				}
			}
		})
	}
}

func BenchmarkSeq(b *testing.B) {
	text := generateText(10000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range Spans(text, IsWordRune).Seq() {
		}
	}
}
