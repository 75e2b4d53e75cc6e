package api

import (
	"fmt"
	"net/url"
	"strconv"
)

// Record is one decoded JSON object from the API. Response shapes vary by
// endpoint and mode, so records are kept as generic maps.
type Record = map[string]any

// Mode selects how much detail the API returns for a resource.
type Mode string

const (
	ModeBasic    Mode = "basic"
	ModeStandard Mode = "standard"
	ModeFull     Mode = "full"
)

// ParseMode validates a mode name. The empty string is allowed and means
// "use the endpoint's default".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeBasic, ModeStandard, ModeFull:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (use basic, standard or full)", s)
	}
}

func (m Mode) or(def Mode) Mode {
	if m == "" {
		return def
	}
	return m
}

// VoterType filters election voter exports.
type VoterType string

// VoterTypeActual selects voters who cast a ballot.
const VoterTypeActual VoterType = "actual"

func (v VoterType) or(def VoterType) VoterType {
	if v == "" {
		return def
	}
	return v
}

func modeQuery(mode Mode) url.Values {
	return url.Values{"mode": {string(mode)}}
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func pageModeQuery(page int, mode Mode) url.Values {
	q := pageQuery(page)
	q.Set("mode", string(mode))
	return q
}

// dataBody wraps a payload the way every write endpoint expects it.
func dataBody(v any) map[string]any {
	return map[string]any{"data": v}
}
