// Package timecode converts the hh:mm:ss[:ff] time-codes used throughout
// dubbing scripts into rational seconds, and back into the space-separated
// form the transcript renderer expects.
//
// Grounded on original_source/Takeo.py's time_to_timedelta, memoized with
// functools.lru_cache; here the memoization is an explicit mutex-guarded
// map that keeps every distinct input for the Parser's lifetime (it is not
// bounded or evicted); see §4.1 of SPEC_FULL.md.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/stableperu/takeo/internal/model"
)

// DefaultFrameRate is the frames-per-second assumed when a time-code
// carries a frames field, per SPEC_FULL.md §6.
const DefaultFrameRate = 24

// ErrMalformed names the condition of a time-code string that cannot be
// interpreted. No function in this package returns it: Parse reports
// malformed input via the ok return value so callers can log a
// warning without aborting the batch, matching §7's MalformedTimecode
// recovery.
var ErrMalformed = fmt.Errorf("timecode: malformed input")

// Parser parses time-code strings into seconds, memoizing results so that
// repeated identical strings (extremely common across a script's IN/OUT
// columns) are parsed once.
type Parser struct {
	frameRate int

	mu    sync.Mutex
	cache map[string]parsedResult
}

type parsedResult struct {
	seconds model.Seconds
	ok      bool
}

// New returns a Parser using the given frame rate. A frameRate of zero
// falls back to DefaultFrameRate.
func New(frameRate int) *Parser {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Parser{
		frameRate: frameRate,
		cache:     make(map[string]parsedResult),
	}
}

// Parse converts s into seconds. Malformed input (wrong field count,
// non-numeric fields, or leading/trailing whitespace) yields (0, false);
// the caller is responsible for logging the warning and continuing, per
// §4.1. Parse is safe for concurrent use and memoizes by the exact input
// string.
func (p *Parser) Parse(s string) (model.Seconds, bool) {
	p.mu.Lock()
	if r, ok := p.cache[s]; ok {
		p.mu.Unlock()
		return r.seconds, r.ok
	}
	p.mu.Unlock()

	secs, ok := p.parse(s)

	p.mu.Lock()
	p.cache[s] = parsedResult{secs, ok}
	p.mu.Unlock()

	return secs, ok
}

func (p *Parser) parse(s string) (model.Seconds, bool) {
	if s != strings.TrimSpace(s) || s == "" {
		return 0, false
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return 0, false
	}

	fields := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		fields[i] = n
	}

	hours, minutes, sec := fields[0], fields[1], fields[2]
	frames := 0
	if len(fields) == 4 {
		frames = fields[3]
	}

	total := float64(hours)*3600 + float64(minutes)*60 + float64(sec) + float64(frames)/float64(p.frameRate)
	return model.Seconds(total), true
}

// SpaceSeparated replaces every ':' in a raw time-code string with a
// single space, as used by the transcript renderer's IN/OUT lines (§6).
func SpaceSeparated(raw string) string {
	return strings.ReplaceAll(raw, ":", " ")
}
