package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesPlayer(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
		target    string
		want      bool
	}{
		{"initial matches full first name", "D. Raya", "David Raya", true},
		{"full name matches initial", "David Raya", "D. Raya", true},
		{"surname only", "Raya", "David Raya", true},
		{"different surnames", "Raya", "Martinelli", false},
		{"exact", "Bukayo Saka", "Bukayo Saka", true},
		{"wrong initial", "G. Raya", "David Raya", false},
		{"first name prefix", "Dom Szoboszlai", "Dominik Szoboszlai", true},
		{"different players same first name", "David Raya", "David Silva", false},
		{"case and punctuation insensitive", "  kepa ARRIZABALAGA. ", "Kepa Arrizabalaga", true},
		{"substring fallback", "Arrizabalaga deal latest", "", false},
		{"empty candidate", "", "David Raya", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesPlayer(tc.candidate, tc.target))
		})
	}
}

func TestMatchesPlayer_SurnameSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"D. Raya", "David Raya"},
		{"V. Gyokeres", "Viktor Gyokeres"},
		{"Szoboszlai", "Dominik Szoboszlai"},
	}

	for _, pair := range pairs {
		assert.True(t, MatchesPlayer(pair[0], pair[1]), "%s vs %s", pair[0], pair[1])
		assert.True(t, MatchesPlayer(pair[1], pair[0]), "%s vs %s", pair[1], pair[0])
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "kepa arrizabalaga", Normalize("  Kepa   Arrizabalaga! "))
	assert.Equal(t, "d raya", Normalize("D. Raya"))
	assert.Equal(t, "saint germain", Normalize("Saint-Germain"))
	assert.Equal(t, "", Normalize("  ...  "))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "manchester-united", Slugify("Manchester United"))
	assert.Equal(t, "wolves", Slugify("Wolves"))
}
