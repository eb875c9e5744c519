// Package travel turns mapping-provider responses into per-mode travel
// estimates: parsed distance and duration, departure time, price and
// emissions.
package travel

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a duration string that does not follow the
// "<integer> <unit>" pair layout.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse duration %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse duration %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDuration parses text such as "1 hour 30 mins" into an elapsed time.
// Unit words containing "hour" count as hours, otherwise words containing
// "min" count as minutes. Any other unit word contributes nothing.
func ParseDuration(text string) (time.Duration, error) {
	tokens := strings.Fields(text)
	if len(tokens)%2 != 0 {
		return 0, &ParseError{Input: text, Reason: fmt.Sprintf("odd token count %d", len(tokens))}
	}

	var total time.Duration
	for i := 0; i < len(tokens); i += 2 {
		n, err := strconv.Atoi(tokens[i])
		if err != nil {
			return 0, &ParseError{Input: text, Reason: fmt.Sprintf("value %q is not an integer", tokens[i]), Err: err}
		}
		unit := tokens[i+1]
		switch {
		case strings.Contains(unit, "hour"):
			total += time.Duration(n) * time.Hour
		case strings.Contains(unit, "min"):
			total += time.Duration(n) * time.Minute
		}
	}
	return total, nil
}
