package remind

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Patterns for temporal expressions, English and Indonesian.
var (
	relativeEnPattern = regexp.MustCompile(`(?i)\bin\s+(\d+)\s+(minutes?|mins?|hours?|hrs?|days?|weeks?)\b`)
	relativeIDPattern = regexp.MustCompile(`(?i)\b(\d+)\s+(menit|jam|hari|minggu)\s+lagi\b`)

	isoDatePattern  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dayMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(januari|january|februari|february|maret|march|april|mei|may|juni|june|juli|july|agustus|august|september|oktober|october|november|desember|december)\b`)

	dayWordPattern = regexp.MustCompile(`(?i)\b(day after tomorrow|tomorrow|today|tonight|this evening|besok lusa|lusa|besok|hari ini|nanti malam|malam ini)\b`)

	weekdayPattern = regexp.MustCompile(`(?i)\b(?:(next)\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday|senin|selasa|rabu|kamis|jumat|sabtu|minggu)(?:\s+(depan))?\b`)

	// Clock expressions are only valid with at least one marker: an
	// "at"/"jam"/"pukul" prefix, minutes, am/pm, or a day-period suffix.
	clockPattern = regexp.MustCompile(`(?i)\b(?:(at|jam|pukul)\s+)?(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?(?:\s+(pagi|siang|sore|malam))?\b`)
)

// dayWordOffsets maps relative day keywords to day offsets from today.
var dayWordOffsets = map[string]int{
	"today":              0,
	"hari ini":           0,
	"tonight":            0,
	"this evening":       0,
	"nanti malam":        0,
	"malam ini":          0,
	"tomorrow":           1,
	"besok":              1,
	"lusa":               2,
	"besok lusa":         2,
	"day after tomorrow": 2,
}

// eveningWords resolve to the evening default hour when no clock follows.
var eveningWords = map[string]bool{
	"tonight":      true,
	"this evening": true,
	"nanti malam":  true,
	"malam ini":    true,
}

var weekdayIndex = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
	"senin":     time.Monday,
	"selasa":    time.Tuesday,
	"rabu":      time.Wednesday,
	"kamis":     time.Thursday,
	"jumat":     time.Friday,
	"sabtu":     time.Saturday,
	"minggu":    time.Sunday,
}

var monthIndex = map[string]time.Month{
	"januari": time.January, "january": time.January,
	"februari": time.February, "february": time.February,
	"maret": time.March, "march": time.March,
	"april": time.April,
	"mei":   time.May, "may": time.May,
	"juni": time.June, "june": time.June,
	"juli": time.July, "july": time.July,
	"agustus": time.August, "august": time.August,
	"september": time.September,
	"oktober":   time.October, "october": time.October,
	"november": time.November,
	"desember": time.December, "december": time.December,
}

const (
	defaultHour = 9
	eveningHour = 19
)

// Extraction is a recognized temporal expression within a message.
type Extraction struct {
	Time  time.Time
	Text  string
	Start int
}

type candidate struct {
	start, end int
	resolve    func(end int) (time.Time, int)
}

// ExtractTime finds the leftmost temporal expression in text, anchored at
// now and resolved in loc. Ambiguous relative times prefer the nearest
// future occurrence. Returns false when no expression is found.
func ExtractTime(text string, now time.Time, loc *time.Location) (Extraction, bool) {
	now = now.In(loc)
	var cands []candidate

	for _, pat := range []*regexp.Regexp{relativeEnPattern, relativeIDPattern} {
		if m := pat.FindStringSubmatchIndex(text); m != nil {
			n, _ := strconv.Atoi(text[m[2]:m[3]])
			word := strings.ToLower(text[m[4]:m[5]])
			cands = append(cands, candidate{m[0], m[1], func(end int) (time.Time, int) {
				return addRelative(now, word, n), end
			}})
		}
	}
	if m := isoDatePattern.FindStringSubmatchIndex(text); m != nil {
		y, _ := strconv.Atoi(text[m[2]:m[3]])
		mo, _ := strconv.Atoi(text[m[4]:m[5]])
		d, _ := strconv.Atoi(text[m[6]:m[7]])
		if validCalendarDate(y, time.Month(mo), d) {
			cands = append(cands, candidate{m[0], m[1], func(end int) (time.Time, int) {
				return resolveDate(text, end, now, loc, y, time.Month(mo), d, defaultHour)
			}})
		}
	}
	if m := dayMonthPattern.FindStringSubmatchIndex(text); m != nil {
		d, _ := strconv.Atoi(text[m[2]:m[3]])
		mo := monthIndex[strings.ToLower(text[m[4]:m[5]])]
		y := now.Year()
		if mo < now.Month() || (mo == now.Month() && d < now.Day()) {
			y++ // forward-date bias for year-less dates
		}
		if validCalendarDate(y, mo, d) {
			cands = append(cands, candidate{m[0], m[1], func(end int) (time.Time, int) {
				return resolveDate(text, end, now, loc, y, mo, d, defaultHour)
			}})
		}
	}
	if m := dayWordPattern.FindStringSubmatchIndex(text); m != nil {
		word := strings.ToLower(text[m[2]:m[3]])
		cands = append(cands, candidate{m[0], m[1], func(end int) (time.Time, int) {
			base := now.AddDate(0, 0, dayWordOffsets[word])
			hour := defaultHour
			if eveningWords[word] {
				hour = eveningHour
			}
			return resolveDate(text, end, now, loc, base.Year(), base.Month(), base.Day(), hour)
		}})
	}
	if m := weekdayPattern.FindStringSubmatchIndex(text); m != nil {
		next := m[2] >= 0 || m[6] >= 0 // "next" prefix or "depan" suffix
		day := weekdayIndex[strings.ToLower(text[m[4]:m[5]])]
		cands = append(cands, candidate{m[0], m[1], func(end int) (time.Time, int) {
			ahead := (int(day) - int(now.Weekday()) + 7) % 7
			if ahead == 0 {
				ahead = 7
			} else if next {
				ahead += 7
			}
			base := now.AddDate(0, 0, ahead)
			return resolveDate(text, end, now, loc, base.Year(), base.Month(), base.Day(), defaultHour)
		}})
	}
	if m := findClock(text, 0); m != nil {
		cands = append(cands, candidate{m.start, m.end, func(end int) (time.Time, int) {
			t := time.Date(now.Year(), now.Month(), now.Day(), m.hour, m.minute, 0, 0, loc)
			if !t.After(now) {
				t = t.AddDate(0, 0, 1) // forward-date bias
			}
			return t, end
		}})
	}

	if len(cands) == 0 {
		return Extraction{}, false
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.start < best.start || (c.start == best.start && c.end > best.end) {
			best = c
		}
	}

	t, end := best.resolve(best.end)
	return Extraction{Time: t, Text: text[best.start:end], Start: best.start}, true
}

// resolveDate builds a timestamp for a resolved calendar date, attaching a
// directly following clock expression when present.
func resolveDate(text string, end int, now time.Time, loc *time.Location, y int, mo time.Month, d, fallbackHour int) (time.Time, int) {
	hour, minute := fallbackHour, 0
	if c := attachedClock(text, end); c != nil {
		hour, minute = c.hour, c.minute
		end = c.end
	}
	return time.Date(y, mo, d, hour, minute, 0, 0, loc), end
}

// validCalendarDate rejects components that time.Date would silently
// normalize, like month 13 or February 30.
func validCalendarDate(y int, mo time.Month, d int) bool {
	if mo < time.January || mo > time.December || d < 1 {
		return false
	}
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return t.Month() == mo && t.Day() == d
}

// addRelative applies a relative offset like "in 2 hours" or "30 menit lagi".
func addRelative(now time.Time, unit string, n int) time.Time {
	switch {
	case strings.HasPrefix(unit, "min") || unit == "menit":
		return now.Add(time.Duration(n) * time.Minute)
	case strings.HasPrefix(unit, "hour") || strings.HasPrefix(unit, "hr") || unit == "jam":
		return now.Add(time.Duration(n) * time.Hour)
	case strings.HasPrefix(unit, "day") || unit == "hari":
		return now.AddDate(0, 0, n)
	default: // weeks
		return now.AddDate(0, 0, 7*n)
	}
}

type clockMatch struct {
	start, end   int
	hour, minute int
}

// findClock returns the leftmost valid clock expression at or after offset.
func findClock(text string, offset int) *clockMatch {
	for search := offset; search < len(text); {
		m := clockPattern.FindStringSubmatchIndex(text[search:])
		if m == nil {
			return nil
		}
		cm, ok := validClock(text[search:], m)
		if ok {
			cm.start += search
			cm.end += search
			return cm
		}
		adv := m[1]
		if adv <= 0 {
			adv = 1
		}
		search += adv
	}
	return nil
}

// attachedClock returns a clock expression directly following position end,
// separated by whitespace only.
func attachedClock(text string, end int) *clockMatch {
	rest := text[end:]
	trimmed := strings.TrimLeft(rest, " \t")
	gap := len(rest) - len(trimmed)
	m := clockPattern.FindStringSubmatchIndex(trimmed)
	if m == nil || m[0] != 0 {
		return nil
	}
	cm, ok := validClock(trimmed, m)
	if !ok {
		return nil
	}
	cm.start += end + gap
	cm.end += end + gap
	return cm
}

func validClock(text string, m []int) (*clockMatch, bool) {
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return strings.ToLower(text[m[2*i]:m[2*i+1]])
	}
	prefix, ampm, period := group(1), group(4), group(5)
	hasMinutes := m[6] >= 0
	if prefix == "" && ampm == "" && period == "" && !hasMinutes {
		return nil, false
	}

	hour, _ := strconv.Atoi(text[m[4]:m[5]])
	minute := 0
	if hasMinutes {
		minute, _ = strconv.Atoi(text[m[6]:m[7]])
	}
	if hour > 23 || minute > 59 {
		return nil, false
	}

	switch {
	case ampm == "pm":
		hour = hour%12 + 12
	case ampm == "am":
		hour = hour % 12
	case period == "pagi":
		if hour == 12 {
			hour = 0
		}
	case period == "siang":
		if hour < 11 {
			hour += 12
		}
	case period == "sore", period == "malam":
		if hour < 12 {
			hour += 12
		}
	default:
		// Bare low hours lean to the afternoon, matching common usage.
		if hour >= 1 && hour <= 6 {
			hour += 12
		}
	}

	return &clockMatch{start: m[0], end: m[1], hour: hour, minute: minute}, true
}
