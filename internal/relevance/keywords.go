package relevance

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed clubs.yaml
var clubsYAML []byte

type clubsFile struct {
	Clubs []clubEntry `yaml:"clubs"`
}

type clubEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// ClubKeywords is the matchable vocabulary for one club: its canonical
// name, alias forms, and URL slug.
type ClubKeywords struct {
	Name     string
	Keywords []string
	Slug     string
}

var (
	clubsOnce sync.Once
	clubTable map[string]ClubKeywords
	clubsErr  error
)

func loadClubs() {
	var parsed clubsFile
	if err := yaml.Unmarshal(clubsYAML, &parsed); err != nil {
		clubsErr = fmt.Errorf("parse embedded clubs table: %w", err)
		return
	}

	clubTable = make(map[string]ClubKeywords, len(parsed.Clubs))
	for _, entry := range parsed.Clubs {
		keywords := make([]string, 0, len(entry.Aliases)+1)
		keywords = append(keywords, Normalize(entry.Name))
		for _, alias := range entry.Aliases {
			if normalized := Normalize(alias); normalized != "" {
				keywords = append(keywords, normalized)
			}
		}

		clubTable[Normalize(entry.Name)] = ClubKeywords{
			Name:     entry.Name,
			Keywords: keywords,
			Slug:     Slugify(entry.Name),
		}
	}
}

// KeywordsForClub returns the keyword set for a club name. Unknown clubs
// get a minimal set derived from the name itself so relevance matching
// still works for clubs outside the embedded table.
func KeywordsForClub(clubName string) (ClubKeywords, error) {
	clubsOnce.Do(loadClubs)
	if clubsErr != nil {
		return ClubKeywords{}, clubsErr
	}

	normalized := Normalize(clubName)
	if kw, ok := clubTable[normalized]; ok {
		return kw, nil
	}
	for _, kw := range clubTable {
		for _, keyword := range kw.Keywords {
			if keyword == normalized {
				return kw, nil
			}
		}
	}

	if normalized == "" {
		return ClubKeywords{}, fmt.Errorf("club name is required")
	}
	return ClubKeywords{
		Name:     strings.TrimSpace(clubName),
		Keywords: []string{normalized},
		Slug:     Slugify(clubName),
	}, nil
}

// IsKnownClub reports whether the name (or one of its alias forms) is
// in the embedded club table.
func IsKnownClub(name string) bool {
	clubsOnce.Do(loadClubs)
	if clubsErr != nil {
		return false
	}

	normalized := Normalize(name)
	if _, ok := clubTable[normalized]; ok {
		return true
	}
	for _, kw := range clubTable {
		for _, keyword := range kw.Keywords {
			if keyword == normalized {
				return true
			}
		}
	}
	return false
}

// TeamRelevant reports whether the concatenated title+summary+url of an
// item mentions the club. Any keyword hit or a slug path segment counts.
func TeamRelevant(title, summary, url string, club ClubKeywords) bool {
	haystack := Normalize(title + " " + summary)
	for _, keyword := range club.Keywords {
		if containsWord(haystack, keyword) {
			return true
		}
	}

	loweredURL := strings.ToLower(url)
	for _, segment := range strings.Split(loweredURL, "/") {
		if segment == club.Slug {
			return true
		}
	}

	return false
}

func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	idx := strings.Index(haystack, needle)
	for idx >= 0 {
		before := idx == 0 || haystack[idx-1] == ' '
		after := idx+len(needle) == len(haystack) || haystack[idx+len(needle)] == ' '
		if before && after {
			return true
		}
		next := strings.Index(haystack[idx+1:], needle)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}
