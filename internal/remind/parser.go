package remind

import (
	"strings"
	"time"
)

// reminderPrefixes are the recognized reminder-intent openers, checked
// against the lowercased message. Order matters: longer prefixes first.
var reminderPrefixes = []string{
	"ingatkan saya",
	"remind me",
	"reminder",
}

// ParsedReminder is a successfully recognized reminder request.
type ParsedReminder struct {
	FireAt time.Time
	Note   string
}

// Parser detects reminder intent in free text and extracts the target
// time and note. All times are resolved in a fixed location.
type Parser struct {
	loc *time.Location
}

// NewParser creates a parser resolving times in loc.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc}
}

// Parse inspects text anchored at now. It returns (nil, nil) when the text
// carries no reminder intent, a *ParseError when intent is present but the
// request cannot be understood, and the parsed reminder otherwise. The
// caller is responsible for rejecting times that are not in the future.
func (p *Parser) Parse(text string, now time.Time) (*ParsedReminder, error) {
	trimmed := strings.TrimSpace(text)
	normalized := strings.ToLower(trimmed)

	var matched string
	for _, prefix := range reminderPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			matched = prefix
			break
		}
	}
	if matched == "" {
		return nil, nil
	}

	remainder := strings.TrimSpace(trimmed[len(matched):])
	if remainder == "" {
		return nil, newParseError(CodeAmbiguousFormat, "Format pengingat kurang jelas.")
	}

	ext, ok := ExtractTime(remainder, now, p.loc)
	if !ok {
		return nil, newParseError(CodeUnrecognizedTime, "Tidak bisa mengenali waktu pengingat.")
	}

	note := strings.Replace(remainder, ext.Text, "", 1)
	note = strings.Join(strings.Fields(note), " ")
	if note == "" {
		note = DefaultNote
	}

	return &ParsedReminder{FireAt: ext.Time, Note: note}, nil
}
