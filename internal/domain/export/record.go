package export

import (
	"strings"
)

// Record is one serialization-ready row: a flat mapping from data-source key
// to a scalar or serialized compound value. Orders produce one record per
// line item, so the record count can exceed the entity count.
type Record map[string]string

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Token is one key:value pair inside a compound entry
type Token struct {
	Key   string
	Value string
}

// Entry is one element of a flattened nested collection (one line item, one
// refund, etc.)
type Entry []Token

// EncodeCompound flattens a nested collection into a single CSV cell:
// entries joined by ",", tokens within an entry joined by "|", each token
// rendered as "key:value". Sub-values containing either separator have it
// replaced with a space before encoding.
//
// The grammar is lossy: original strings that already contained the sentinel
// characters cannot be recovered, and an embedded ":" in a value is not
// escaped. It is preserved exactly for compatibility with downstream
// consumers of existing exports.
func EncodeCompound(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		tokens := make([]string, 0, len(entry))
		for _, t := range entry {
			tokens = append(tokens, sanitizeCompound(t.Key)+":"+sanitizeCompound(t.Value))
		}
		parts = append(parts, strings.Join(tokens, "|"))
	}
	return strings.Join(parts, ",")
}

// DecodeCompound inverts EncodeCompound for values free of sentinel
// characters. Tokens without a ":" decode with an empty value.
func DecodeCompound(s string) []Entry {
	if s == "" {
		return nil
	}
	rawEntries := strings.Split(s, ",")
	entries := make([]Entry, 0, len(rawEntries))
	for _, raw := range rawEntries {
		var entry Entry
		for _, tok := range strings.Split(raw, "|") {
			key, value, _ := strings.Cut(tok, ":")
			entry = append(entry, Token{Key: key, Value: value})
		}
		entries = append(entries, entry)
	}
	return entries
}

// sanitizeCompound strips the grammar's separator characters from a sub-value
func sanitizeCompound(s string) string {
	if !strings.ContainsAny(s, "|,") {
		return s
	}
	s = strings.ReplaceAll(s, "|", " ")
	return strings.ReplaceAll(s, ",", " ")
}
