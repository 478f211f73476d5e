package striter

// Words returns an iterator over the words of src: the maximal runs of
// consecutive letters and numbers. Runs of any other runes are skipped.
//
//	striter.Words("1 2 3 a b c").Count() // 6
func Words(src string) *SpanIterator {
	return Spans(src, IsWordRune).Only(true)
}
