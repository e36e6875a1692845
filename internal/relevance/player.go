package relevance

import "strings"

// MatchesPlayer reports whether candidate refers to the target player.
// The anchor is the last token (surname); when surnames agree the first
// tokens only need to be compatible: an initial must match the target's
// first letter, otherwise one first name must equal or prefix the other.
// Without a surname match the fallback is substring containment between
// the two full normalized names.
func MatchesPlayer(candidate, target string) bool {
	c := Normalize(candidate)
	t := Normalize(target)
	if c == "" || t == "" {
		return false
	}
	if c == t {
		return true
	}

	cParts := strings.Fields(c)
	tParts := strings.Fields(t)

	if cParts[len(cParts)-1] == tParts[len(tParts)-1] {
		if len(cParts) == 1 || len(tParts) == 1 {
			return true
		}
		return firstNamesCompatible(cParts[0], tParts[0])
	}

	return strings.Contains(c, t) || strings.Contains(t, c)
}

func firstNamesCompatible(a, b string) bool {
	if isInitial(a) {
		return strings.HasPrefix(b, a[:1])
	}
	if isInitial(b) {
		return strings.HasPrefix(a, b[:1])
	}
	return a == b || strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// isInitial treats short leading tokens like "d" (from "D. Raya") as
// abbreviated first names. Normalize has already stripped the period.
func isInitial(token string) bool {
	return len(token) <= 2
}
