package transfer

import (
	"strings"
	"unicode"
)

// DedupKeyFunc derives the value used to decide that two records describe
// the same real-world deal. The key policy is pluggable because feeds
// disagree on whether a repeated deal carries the same date.
type DedupKeyFunc func(Transfer) string

// KeyByPlayerClub keys a transfer on (player, destination club). This is
// the default policy: the feeds this engine consumes are known to repeat
// the same deal under different publication dates.
func KeyByPlayerClub(t Transfer) string {
	return normalizeKeyPart(t.PlayerName) + "|" + normalizeKeyPart(t.ToClub)
}

// KeyByPlayerClubDate additionally anchors on the calendar date, for
// callers that want to keep distinct reports of a re-reported deal.
func KeyByPlayerClubDate(t Transfer) string {
	return KeyByPlayerClub(t) + "|" + calendarDate(t.Date)
}

// Dedup drops later items whose key collides with an earlier one.
// First occurrence wins, so input order encodes source priority.
func Dedup(items []Transfer, key DedupKeyFunc) []Transfer {
	if key == nil {
		key = KeyByPlayerClub
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]Transfer, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}

	return out
}

func normalizeKeyPart(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// calendarDate truncates an ISO-8601 timestamp to its date component.
func calendarDate(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}
