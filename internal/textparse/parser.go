package textparse

import (
	"regexp"
	"strings"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
)

// ParsedInfo is the ephemeral output of headline extraction; it is
// promoted into a transfer.Transfer by the calling adapter, never stored.
type ParsedInfo struct {
	PlayerName string
	FromClub   string
	ToClub     string
	Fee        string
	Status     transfer.Status
	Confidence float64
}

// Input carries one free-text item plus whatever structure the feed
// happened to attach.
type Input struct {
	Headline    string
	Excerpt     string
	PlayerField string
	CategoryTag string
	SourceTag   string
}

// Parser derives structured transfer facts from free text. IsClubName,
// when set, stops a leading club name being mistaken for a player.
type Parser struct {
	Weights       Weights
	MinConfidence float64
	IsClubName    func(string) bool
}

func NewParser() *Parser {
	return &Parser{
		Weights:       DefaultWeights(),
		MinConfidence: DefaultMinConfidence,
	}
}

const clubPattern = `([A-Z][A-Za-z]+(?:[ '][A-Z][A-Za-z]+)*)`

var (
	// Verb-object form: "Arsenal sign Noni Madueke", "Spurs land Eze".
	playerAfterVerbRegex = regexp.MustCompile(`(?:\bsigns?\b|\bsigning of\b|\bland(?:s)?\b|\bswoop for\b|\bagree deal for\b|\bcomplete(?:s)? (?:the )?(?:signing|capture) of\b)\s+([A-Z][a-z]+(?:\s[A-Z][A-Za-z'-]+)+)`)
	// Leading capitalized two-word sequence: "Noni Madueke set for move".
	leadingNameRegex = regexp.MustCompile(`^([A-Z][a-z]+\s[A-Z][A-Za-z'-]+)`)

	fromClubRegexes = []*regexp.Regexp{
		regexp.MustCompile(`\bfrom ` + clubPattern),
		regexp.MustCompile(`\bleaving ` + clubPattern),
	}
	toClubRegexes = []*regexp.Regexp{
		regexp.MustCompile(`\bto ` + clubPattern),
		regexp.MustCompile(`\bjoining ` + clubPattern),
		regexp.MustCompile(`\bsigned for ` + clubPattern),
		regexp.MustCompile(`\bmove to ` + clubPattern),
		regexp.MustCompile(`^` + clubPattern + ` (?:sign|signs|land|lands|complete|completes|swoop|agree)\b`),
	}

	feeAmountRegexes = []*regexp.Regexp{
		regexp.MustCompile(`([£€$]\d+(?:\.\d+)?m)\b`),
		regexp.MustCompile(`(?i)fee of (£?\$?€?\d+(?:\.\d+)?m)\b`),
		regexp.MustCompile(`(?i)worth (?:around |about )?(£?\$?€?\d+(?:\.\d+)?m)\b`),
	}
	freeTransferRegex = regexp.MustCompile(`(?i)\b(free transfer|on a free|released|end of (?:his )?contract)\b`)

	confirmationRegex = regexp.MustCompile(`(?i)\b(officially|confirmed|signs?|signed|completed|completes|done deal|seals?|unveiled)\b`)
)

// Parse extracts player, clubs, fee and status from one item. The second
// return is false when no player name can be resolved; a transfer with
// no player is never emitted.
func (p *Parser) Parse(in Input) (ParsedInfo, bool) {
	text := strings.TrimSpace(in.Headline)
	if in.Excerpt != "" {
		text += ". " + strings.TrimSpace(in.Excerpt)
	}

	info := ParsedInfo{}

	structuredPlayer := strings.TrimSpace(in.PlayerField) != ""
	if structuredPlayer {
		info.PlayerName = strings.TrimSpace(in.PlayerField)
	} else {
		info.PlayerName = p.inferPlayerName(text)
	}
	if info.PlayerName == "" {
		return ParsedInfo{}, false
	}

	info.FromClub = firstCapture(fromClubRegexes, text)
	info.ToClub = firstCapture(toClubRegexes, text)
	info.Fee = extractFee(text)

	info.Status = transfer.StatusFromCategory(in.CategoryTag)
	if confirmationRegex.MatchString(text) {
		info.Status = transfer.StatusConfirmed
	}

	info.Confidence = p.confidence(structuredPlayer, info, in.SourceTag)

	return info, true
}

// Promotable reports whether a parse clears the confidence gate.
func (p *Parser) Promotable(info ParsedInfo) bool {
	return info.Confidence >= p.MinConfidence
}

func (p *Parser) inferPlayerName(text string) string {
	if m := playerAfterVerbRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := leadingNameRegex.FindStringSubmatch(text); m != nil {
		candidate := m[1]
		if p.IsClubName == nil || !p.IsClubName(candidate) {
			return candidate
		}
	}
	return ""
}

func (p *Parser) confidence(structuredPlayer bool, info ParsedInfo, sourceTag string) float64 {
	score := p.Weights.Base
	if structuredPlayer {
		score += p.Weights.StructuredPlayer
	}

	switch {
	case info.FromClub != "" && info.ToClub != "":
		score += p.Weights.BothClubs
	case info.FromClub != "" || info.ToClub != "":
		score += p.Weights.OneClub
	}

	if _, trusted := trustedSourceTags[strings.TrimSpace(sourceTag)]; trusted {
		score += p.Weights.TrustedSource
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func firstCapture(patterns []*regexp.Regexp, text string) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractFee(text string) string {
	for _, pattern := range feeAmountRegexes {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	if freeTransferRegex.MatchString(text) {
		return "Free"
	}
	return ""
}
