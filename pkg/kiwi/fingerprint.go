package kiwi

// textFingerprint is a cheap pre-filter for cache-equality checks: the byte
// length plus up to the first and last 8 bytes of the text, packed into two
// words. Differing fingerprints prove the texts differ; equal fingerprints
// prove nothing and must be followed by a full string comparison.
type textFingerprint struct {
	length int
	head   uint64
	tail   uint64
}

func fingerprintOf(text string) textFingerprint {
	fp := textFingerprint{length: len(text)}
	edge := len(text)
	if edge > 8 {
		edge = 8
	}
	for i := 0; i < edge; i++ {
		fp.head = fp.head<<8 | uint64(text[i])
	}
	for i := len(text) - edge; i < len(text); i++ {
		fp.tail = fp.tail<<8 | uint64(text[i])
	}
	return fp
}
