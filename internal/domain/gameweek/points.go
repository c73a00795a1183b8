package gameweek

import (
	"strconv"

	"github.com/riskibarqy/fpl-season-ingest/internal/platform/jsonvalue"
)

// Count is the number of gameweeks in a season.
const Count = 38

// Points holds one optional score per gameweek; index 0 is gameweek 1.
// A nil slot means the source had no value, which is not the same as zero.
type Points [Count]*int

// DecodePoints reads keys "1".."38" from a sparse gameweek object. Keys outside
// that range are ignored.
func DecodePoints(src map[string]any) Points {
	var out Points
	for gw := 1; gw <= Count; gw++ {
		raw, ok := src[strconv.Itoa(gw)]
		if !ok {
			continue
		}
		out[gw-1] = jsonvalue.Int(raw)
	}
	return out
}

// At returns the score for a 1-based gameweek.
func (p Points) At(gw int) *int {
	if gw < 1 || gw > Count {
		return nil
	}
	return p[gw-1]
}

// Played counts the gameweeks that carry a value.
func (p Points) Played() int {
	n := 0
	for _, v := range p {
		if v != nil {
			n++
		}
	}
	return n
}
