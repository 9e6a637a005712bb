// Package payload decodes the gameweek scoring payload handed over by the
// data-fetch collaborator. Decoding is lenient: missing or unparseable
// team-level numbers become zero and a broken player entry is flagged
// rather than failing the whole document.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Entry is one raw player record.
type Entry struct {
	Name           string
	Role           string
	Position       string
	Status         string
	BenchedOut     bool
	Multiplier     int
	EliteOwnership float64
	Stats          []Row
	// Malformed marks an entry whose shape could not be decoded.
	Malformed bool
}

// Row is one raw stat row.
type Row struct {
	Kind   string
	Count  int
	Points int
}

// Payload is the decoded gameweek document.
type Payload struct {
	Team        []Entry
	LivePoints  int
	BenchPoints int
	Hit         int
	Safety      int
	OldRank     int
	PostRank    int
	Gameweek    int
}

// Alternate keys, first match wins.
var (
	postRankKeys = []string{"post_rank", "displayrank"}
	gameweekKeys = []string{"gw", "GW", "gameweek"}
)

// Decode parses a payload document. An empty body or JSON null yields
// ErrNoData; a body that is not a JSON object yields ErrInvalid.
func Decode(data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNoData
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if fields == nil {
		return nil, ErrNoData
	}

	p := &Payload{
		LivePoints:  intField(fields, "live_points"),
		BenchPoints: intField(fields, "bench_points"),
		Hit:         intField(fields, "hit"),
		Safety:      intField(fields, "safety"),
		OldRank:     intField(fields, "old_rank"),
		PostRank:    intField(fields, postRankKeys...),
		Gameweek:    intField(fields, gameweekKeys...),
		Team:        decodeTeam(fields["team"]),
	}
	return p, nil
}

func decodeTeam(raw json.RawMessage) []Entry {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []Entry{}
	}
	team := make([]Entry, 0, len(items))
	for _, item := range items {
		team = append(team, decodeEntry(item))
	}
	return team
}

func decodeEntry(raw json.RawMessage) Entry {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Entry{Malformed: true}
	}

	e := Entry{
		Name:           firstString(fields, "name", "web_name"),
		Role:           firstString(fields, "role"),
		Position:       firstString(fields, "position", "element_type"),
		Status:         firstString(fields, "status"),
		BenchedOut:     boolField(fields, "benched_out"),
		Multiplier:     intField(fields, "multiplier"),
		EliteOwnership: floatField(fields, "elite_ownership", "eo"),
	}
	if e.Role == "" {
		e.Role = roleFromFlags(fields)
	}

	rawStats, ok := fields["stats"]
	if !ok || isNull(rawStats) {
		return e
	}
	rows, err := decodeRows(rawStats)
	if err != nil {
		e.Malformed = true
		return e
	}
	e.Stats = rows
	return e
}

// roleFromFlags supports the is_captain/is_vice_captain/is_bench shape.
func roleFromFlags(fields map[string]json.RawMessage) string {
	switch {
	case boolField(fields, "is_captain"):
		return "captain"
	case boolField(fields, "is_vice_captain"):
		return "vice"
	case boolField(fields, "is_bench"):
		return "bench"
	}
	return ""
}

func decodeRows(raw json.RawMessage) ([]Row, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(items))
	for i, item := range items {
		row, err := decodeRow(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeRow accepts ["kind", count, points] or {"kind","count","points"}.
func decodeRow(raw json.RawMessage) (Row, error) {
	var triple []json.RawMessage
	if err := json.Unmarshal(raw, &triple); err == nil {
		if len(triple) != 3 {
			return Row{}, fmt.Errorf("%w: want 3 elements, got %d", ErrInvalidRow, len(triple))
		}
		var kind string
		if err := json.Unmarshal(triple[0], &kind); err != nil {
			return Row{}, fmt.Errorf("%w: kind: %v", ErrInvalidRow, err)
		}
		count, okCount := number(triple[1])
		points, okPoints := number(triple[2])
		if !okCount || !okPoints {
			return Row{}, fmt.Errorf("%w: non-numeric count or points", ErrInvalidRow)
		}
		return Row{Kind: kind, Count: toInt(count), Points: toInt(points)}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return Row{}, fmt.Errorf("%w: not a triple or object", ErrInvalidRow)
	}
	kind := firstString(obj, "kind", "identifier", "stat")
	count, okCount := lookupNumber(obj, "count", "value")
	points, okPoints := lookupNumber(obj, "points")
	if kind == "" || !okCount || !okPoints {
		return Row{}, fmt.Errorf("%w: incomplete object row", ErrInvalidRow)
	}
	return Row{Kind: kind, Count: toInt(count), Points: toInt(points)}, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// number parses a JSON number or a numeric string.
func number(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || isNull(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func lookupNumber(fields map[string]json.RawMessage, keys ...string) (float64, bool) {
	for _, k := range keys {
		if raw, ok := fields[k]; ok {
			if f, ok := number(raw); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func floatField(fields map[string]json.RawMessage, keys ...string) float64 {
	f, _ := lookupNumber(fields, keys...)
	return f
}

func intField(fields map[string]json.RawMessage, keys ...string) int {
	return toInt(floatField(fields, keys...))
}

// toInt rounds f to the nearest int. Values no int can hold read as
// unparseable and become 0.
func toInt(f float64) int {
	r := math.Round(f)
	if math.IsNaN(r) || r >= maxIntFloat || r < -maxIntFloat {
		return 0
	}
	return int(r)
}

// maxIntFloat is 2^63, the first float64 above math.MaxInt64.
const maxIntFloat = float64(1 << 63)

func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	if f, ok := number(raw); ok {
		return f != 0
	}
	return false
}

// firstString returns the first key holding a string, or a number rendered
// as text (element_type arrives as an integer).
func firstString(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		if f, ok := number(raw); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return ""
}
