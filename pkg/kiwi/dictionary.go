package kiwi

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/vellum"
)

// UserDictionary is an ordered, duplicate-free set of user dictionary
// entries. Membership checks run against an FST rebuilt lazily after
// mutation, keeping lookups cheap while dictionaries grow large.
type UserDictionary struct {
	words []UserWord
	index map[string]struct{} // source of truth for deduplication
	fst   *vellum.FST
	dirty bool
}

// NewUserDictionary returns an empty dictionary.
func NewUserDictionary() *UserDictionary {
	return &UserDictionary{index: make(map[string]struct{})}
}

// LoadUserDictionary reads a dictionary from a TSV file. Each line holds a
// surface form, a part-of-speech tag, and an optional score; blank lines and
// lines starting with '#' are skipped.
func LoadUserDictionary(path string) (*UserDictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dict := NewUserDictionary()
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, err := parseDictionaryLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		dict.Add(word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return dict, nil
}

func parseDictionaryLine(line string) (UserWord, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return UserWord{}, invalidArgf("dictionary line needs form and tag, got %q", line)
	}
	word := UserWord{
		Form: strings.TrimSpace(fields[0]),
		Tag:  strings.TrimSpace(fields[1]),
	}
	if word.Form == "" || word.Tag == "" {
		return UserWord{}, invalidArgf("dictionary line has empty form or tag: %q", line)
	}
	if len(fields) >= 3 {
		score, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 32)
		if err != nil {
			return UserWord{}, invalidArgf("bad dictionary score %q: %v", fields[2], err)
		}
		word.Score = float32(score)
	}
	return word, nil
}

// Add inserts an entry, reporting whether it was new. Entries are
// deduplicated by (form, tag); a duplicate keeps the original score.
func (d *UserDictionary) Add(word UserWord) bool {
	key := string(dictionaryKey(word.Form, word.Tag))
	if _, exists := d.index[key]; exists {
		return false
	}
	d.index[key] = struct{}{}
	d.words = append(d.words, word)
	d.dirty = true
	return true
}

// Contains reports whether a (form, tag) pair is present. Lookups go through
// the FST, rebuilt lazily after mutation.
func (d *UserDictionary) Contains(form, tag string) bool {
	if len(d.words) == 0 {
		return false
	}
	if err := d.rebuildFST(); err != nil {
		_, exists := d.index[string(dictionaryKey(form, tag))]
		return exists
	}
	_, exists, _ := d.fst.Get(dictionaryKey(form, tag))
	return exists
}

// Words returns the entries in insertion order.
func (d *UserDictionary) Words() []UserWord {
	return cloneUserWords(d.words)
}

// Len returns the number of entries.
func (d *UserDictionary) Len() int {
	return len(d.words)
}

func dictionaryKey(form, tag string) []byte {
	return []byte(form + "\t" + tag)
}

// rebuildFST rebuilds the membership FST if entries changed since the last
// build. Vellum requires keys in sorted order.
func (d *UserDictionary) rebuildFST() error {
	if !d.dirty && d.fst != nil {
		return nil
	}

	keys := make([]string, len(d.words))
	for i, word := range d.words {
		keys[i] = string(dictionaryKey(word.Form, word.Tag))
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return err
	}
	for i, key := range keys {
		if err := builder.Insert([]byte(key), uint64(i)); err != nil {
			return err
		}
	}
	if err := builder.Close(); err != nil {
		return err
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return err
	}
	d.fst = fst
	d.dirty = false
	return nil
}
