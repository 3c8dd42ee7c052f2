package consolidate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Weekdays in output order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

const (
	Closed   = "closed"
	AllDay   = "00:00–24:00"
	rangeSep = "–"
)

var weekdayTokens = map[string]int{
	"monday": 0, "mon": 0, "segunda": 0, "seg": 0, "lunes": 0, "lun": 0,
	"tuesday": 1, "tue": 1, "tues": 1, "terca": 1, "ter": 1, "martes": 1, "mar": 1,
	"wednesday": 2, "wed": 2, "quarta": 2, "qua": 2, "miercoles": 2, "mie": 2,
	"thursday": 3, "thu": 3, "thur": 3, "thurs": 3, "quinta": 3, "qui": 3, "jueves": 3, "jue": 3,
	"friday": 4, "fri": 4, "sexta": 4, "sex": 4, "viernes": 4, "vie": 4,
	"saturday": 5, "sat": 5, "sabado": 5, "sab": 5,
	"sunday": 6, "sun": 6, "domingo": 6, "dom": 6,
}

var dayRangeSeps = map[string]bool{"-": true, "–": true, "to": true, "through": true, "a": true, "ate": true}

var (
	closedRe = regexp.MustCompile(`\b(?:closed|fechado|cerrado)\b`)
	allDayRe = regexp.MustCompile(`\b(?:open 24 hours|aberto 24 horas|abierto 24 horas|24 hours|24 horas|24h)\b`)

	clock      = `(\d{1,2})(?:(?::|\.|h)(\d{2})?)?\s*(a\.?\s?m\.?|p\.?\s?m\.?)?`
	intervalRe = regexp.MustCompile(clock + `\s*(?:–|—|-|to|until|ate|as|a)\s*` + clock)

	tokenRe  = regexp.MustCompile(`\S+`)
	joinerRe = regexp.MustCompile(`^[\s,/&+]*(?:(?:e|and|y)[\s,/&+]*)?$`)
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ParseHours turns an opening-hours string such as
// "segunda-feira 07:00–19:00; domingo Fechado" or "Mon-Fri 9 AM–5 PM" into a
// map keyed by English weekday. Values are "HH:MM–HH:MM" (several intervals
// joined by ", ") or "closed". Day tokens may be interleaved with their
// schedules in one run ("Monday 9AM–5PM, Sunday Closed"); each day reads only
// the text up to the next day token. Fragments that cannot be read are
// dropped. A bare "open 24 hours" applies to every day. Returns nil when
// nothing parsed.
func ParseHours(raw string) map[string]string {
	text := foldText(raw)
	if text == "" {
		return nil
	}

	hours := make(map[string]string)
	for _, fragment := range strings.FieldsFunc(text, func(r rune) bool { return r == ';' || r == '\n' || r == '|' }) {
		fragment = strings.ReplaceAll(fragment, rangeSep, " "+rangeSep+" ")
		spans := findDays(fragment)

		// days followed only by a joiner ("Sat, Sun 10-16") share the next schedule
		var pending []int
		for i, span := range spans {
			pending = append(pending, span.days...)
			limit := len(fragment)
			if i+1 < len(spans) {
				limit = spans[i+1].start
			}
			rest := fragment[span.end:limit]
			if joinerRe.MatchString(rest) && i+1 < len(spans) {
				continue
			}
			if schedule, ok := parseSchedule(rest); ok {
				for _, d := range pending {
					hours[Weekdays[d]] = schedule
				}
			}
			pending = nil
		}
	}

	if len(hours) == 0 && allDayRe.MatchString(text) {
		for _, d := range Weekdays {
			hours[d] = AllDay
		}
	}
	if len(hours) == 0 {
		return nil
	}
	return hours
}

func foldText(s string) string {
	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = strings.ReplaceAll(folded, "—", rangeSep)
	folded = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) && r != '\n' {
			return ' '
		}
		return r
	}, folded)
	return strings.TrimSpace(folded)
}

// daySpan is a weekday or weekday range found in a fragment; start and end
// are byte offsets of the tokens that name it.
type daySpan struct {
	days       []int
	start, end int
}

// findDays locates every weekday and weekday range in a fragment, in order.
func findDays(fragment string) []daySpan {
	locs := tokenRe.FindAllStringIndex(fragment, -1)
	token := func(i int) string { return fragment[locs[i][0]:locs[i][1]] }

	var spans []daySpan
	for i := 0; i < len(locs); i++ {
		start, ok := weekday(token(i))
		end := start
		last := i
		if !ok {
			if start, end, ok = compactRange(token(i)); !ok {
				continue
			}
		} else if i+2 < len(locs) && dayRangeSeps[token(i+1)] {
			if e, ok := weekday(token(i + 2)); ok {
				end = e
				last = i + 2
			}
		}

		var days []int
		for d := start; ; d = (d + 1) % len(Weekdays) {
			days = append(days, d)
			if d == end {
				break
			}
		}
		spans = append(spans, daySpan{days: days, start: locs[i][0], end: locs[last][1]})
		i = last
	}
	return spans
}

// compactRange reads a hyphenated range such as "mon-fri".
func compactRange(token string) (int, int, bool) {
	parts := strings.SplitN(strings.Trim(token, ".,:"), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, okStart := weekday(parts[0])
	end, okEnd := weekday(parts[1])
	return start, end, okStart && okEnd
}

func weekday(token string) (int, bool) {
	token = strings.Trim(token, ".,:")
	token = strings.TrimSuffix(token, "-feira")
	d, ok := weekdayTokens[token]
	return d, ok
}

// parseSchedule reads "closed", an all-day marker, or one or more intervals.
func parseSchedule(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if closedRe.MatchString(s) {
		return Closed, true
	}
	if allDayRe.MatchString(s) {
		return AllDay, true
	}

	var intervals []string
	for _, m := range intervalRe.FindAllStringSubmatch(s, -1) {
		if iv, ok := interval(m); ok {
			intervals = append(intervals, iv)
		}
	}
	if len(intervals) == 0 {
		return "", false
	}
	return strings.Join(intervals, ", "), true
}

// interval converts a regexp match of two clock readings into "HH:MM–HH:MM".
func interval(m []string) (string, bool) {
	startMer, endMer := meridiem(m[3]), meridiem(m[6])

	endH, endM, ok := clockValue(m[4], m[5], endMer)
	if !ok {
		return "", false
	}

	if startMer == "" && endMer != "" {
		// "9–11 AM": the start shares the end's meridiem unless that puts it after the end
		startMer = endMer
		if h, mm, ok := clockValue(m[1], m[2], startMer); ok && h*60+mm > endH*60+endM && endMer == "pm" {
			startMer = "am"
		}
	}
	startH, startM, ok := clockValue(m[1], m[2], startMer)
	if !ok {
		return "", false
	}

	if endH == 0 && endM == 0 && (startH != 0 || startM != 0) {
		endH = 24
	}
	return fmt.Sprintf("%02d:%02d%s%02d:%02d", startH, startM, rangeSep, endH, endM), true
}

func meridiem(s string) string {
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "a"):
		return "am"
	default:
		return "pm"
	}
}

func clockValue(hour, minute, mer string) (int, int, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return 0, 0, false
	}
	m := 0
	if minute != "" {
		if m, err = strconv.Atoi(minute); err != nil || m > 59 {
			return 0, 0, false
		}
	}
	switch mer {
	case "am":
		if h < 1 || h > 12 {
			return 0, 0, false
		}
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 1 || h > 12 {
			return 0, 0, false
		}
		if h != 12 {
			h += 12
		}
	}
	if h > 24 || (h == 24 && m != 0) {
		return 0, 0, false
	}
	return h, m, true
}
