// Package codec implements the on-disk envelope/metadata encodings
// and the size-accounting formula shared by every higher layer. The
// intermediate Value type itself lives in the public "value" package
// since it crosses the module boundary (Encode/Decode/Upgrade
// signatures); codec only knows how to wrap it in JSON envelopes.
package codec

import (
	"encoding/json"
	"unicode/utf16"

	"github.com/rajatkb/viscache/value"
)

// Entry is the StoredEntry envelope persisted at a qualified key:
// {"t": <millis>, "v": <intermediate>}.
type Entry struct {
	T int64       `json:"t"`
	V value.Value `json:"v"`
}

// EncodeEntry renders the envelope to its on-disk JSON string.
func EncodeEntry(e Entry) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeEntry parses an entry envelope. A decode failure is reported
// to the caller, who treats it as a miss (spec.md §4.8 step 3).
func DecodeEntry(raw string) (Entry, error) {
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// EqueueEntry is one {key, bit-size} pair in the persisted eviction
// queue, front is the next eviction candidate.
type EqueueEntry struct {
	Key  string `json:"k"`
	Bits int64  `json:"v"`
}

// MaxPersistedQueueLen is the hard cap on a persisted equeue (spec.md
// §3: "Length is capped at 20 entries when persisted").
const MaxPersistedQueueLen = 20

// Metadata is the per-cache metadata envelope persisted at "#<name>".
type Metadata struct {
	Version int           `json:"version"`
	Bits    int64         `json:"bits"`
	Equeue  []EqueueEntry `json:"equeue"`
	Policy  string        `json:"policy"`
}

// EncodeMetadata renders the metadata envelope, trimming equeue to
// MaxPersistedQueueLen entries as spec.md §4.5 requires.
func EncodeMetadata(m Metadata) (string, error) {
	if len(m.Equeue) > MaxPersistedQueueLen {
		m.Equeue = m.Equeue[:MaxPersistedQueueLen]
	}
	if m.Equeue == nil {
		m.Equeue = []EqueueEntry{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeMetadata parses a metadata envelope. A decode failure is
// reported to the caller, who synthesizes an empty metadata record
// (spec.md §4.5).
func DecodeMetadata(raw string) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

// Size implements the bit-accounting formula of spec.md §4.2:
// size(k, v) = 16 * (len(k) + len(v)). "Character" here means a UTF-16
// code unit, matching the canonical target host's native string
// length, so metadata.bits computed by this implementation agrees
// with metadata written by a browser session for the same strings.
func Size(rawKey, rawValue string) int64 {
	return 16 * (charLen(rawKey) + charLen(rawValue))
}

func charLen(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}
