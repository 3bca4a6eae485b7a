package kiwi

// Result cache capacities. Tuning knobs, not correctness-critical.
const (
	joinCacheCapacity     = 16
	splitCacheCapacity    = 64
	glueCacheCapacity     = 64
	analyzeCacheCapacity  = 128
	tokenizeCacheCapacity = 256
	gluePairCacheCapacity = 256
)

type recencyEntry[K comparable, V any] struct {
	key   K
	fp    textFingerprint
	text  string
	value V
}

// recencyCache is a bounded move-to-front cache. Entries are keyed by a
// match-relevant key plus the exact text; the fingerprint only short-circuits
// full string comparison during the linear scan, which is acceptable at these
// capacities. The front of the slice is most recently used.
//
// Caches belong to a single analyzer instance and are mutated only from the
// owning goroutine, so there is no internal locking.
type recencyCache[K comparable, V any] struct {
	capacity int
	entries  []recencyEntry[K, V]
}

func newRecencyCache[K comparable, V any](capacity int) *recencyCache[K, V] {
	return &recencyCache[K, V]{capacity: capacity}
}

// lookup promotes a matching entry to the front and returns its value.
// Fingerprint equality alone never counts as a hit.
func (c *recencyCache[K, V]) lookup(key K, text string) (V, bool) {
	fp := fingerprintOf(text)
	for i := range c.entries {
		entry := &c.entries[i]
		if entry.fp != fp || entry.key != key || entry.text != text {
			continue
		}
		if i > 0 {
			hit := c.entries[i]
			copy(c.entries[1:i+1], c.entries[:i])
			c.entries[0] = hit
		}
		return c.entries[0].value, true
	}
	var zero V
	return zero, false
}

// insert places the entry at the front, evicting any prior duplicate for the
// same key+text and then the least-recently-used entry if over capacity.
func (c *recencyCache[K, V]) insert(key K, text string, value V) {
	fp := fingerprintOf(text)
	for i := range c.entries {
		entry := &c.entries[i]
		if entry.fp == fp && entry.key == key && entry.text == text {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	c.entries = append(c.entries, recencyEntry[K, V]{})
	copy(c.entries[1:], c.entries)
	c.entries[0] = recencyEntry[K, V]{key: key, fp: fp, text: text, value: value}
	if len(c.entries) > c.capacity {
		c.entries = c.entries[:c.capacity]
	}
}

func (c *recencyCache[K, V]) clear() {
	c.entries = c.entries[:0]
}

func (c *recencyCache[K, V]) len() int {
	return len(c.entries)
}
