package batch

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Status is the result class of one item.
type Status string

const (
	StatusConverted   Status = "converted"
	StatusMissing     Status = "missing"
	StatusUnreadable  Status = "unreadable"
	StatusNoStrokes   Status = "no-strokes"
	StatusWriteFailed Status = "write-failed"
	StatusCanceled    Status = "canceled"
)

// Outcome is what happened to one item.
type Outcome struct {
	Item   Item
	Status Status
	Err    error
	// Fields below are set for StatusConverted only.
	Path         string
	Strokes      int
	RadStrokes   int
	Placeholders int
	Digest       Digest
}

// OK reports whether a record was produced.
func (o Outcome) OK() bool { return o.Status == StatusConverted }

// Digest identifies the bytes of a written record.
type Digest struct {
	Size   int    `json:"size"`
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// DigestOf hashes data.
func DigestOf(data []byte) Digest {
	s := sha256.Sum256(data)
	b := blake3.Sum256(data)
	return Digest{
		Size:   len(data),
		SHA256: hex.EncodeToString(s[:]),
		BLAKE3: hex.EncodeToString(b[:]),
	}
}

// Failure names an item that produced no record.
type Failure struct {
	Key    string `json:"key"`
	Kind   Kind   `json:"kind"`
	Src    string `json:"src"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Summary is the fold of a run's outcomes.
type Summary struct {
	Planned  int            `json:"planned"`
	Standard int            `json:"standard"`
	Variant  int            `json:"variant"`
	Errors   int            `json:"errors"`
	ByStatus map[Status]int `json:"byStatus"`
	Failed   []Failure      `json:"failed"`
}

// Produced returns the number of records written.
func (s Summary) Produced() int { return s.Standard + s.Variant }

// Fold aggregates outcomes. Every status other than StatusConverted counts as
// an error.
func Fold(outcomes []Outcome) Summary {
	s := Summary{ByStatus: map[Status]int{}, Failed: []Failure{}}
	for _, o := range outcomes {
		s.Planned++
		s.ByStatus[o.Status]++
		if o.OK() {
			switch o.Item.Kind {
			case KindVariant:
				s.Variant++
			default:
				s.Standard++
			}
			continue
		}
		s.Errors++
		f := Failure{Key: o.Item.Key, Kind: o.Item.Kind, Src: o.Item.Src, Status: o.Status}
		if o.Err != nil {
			f.Error = o.Err.Error()
		}
		s.Failed = append(s.Failed, f)
	}
	return s
}
