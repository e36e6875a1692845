package transfer

import (
	"fmt"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/news"
)

// Status classifies how certain a reported transfer is.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusRumored   Status = "rumored"
	StatusPending   Status = "pending"
)

var AllStatuses = map[Status]struct{}{
	StatusConfirmed: {},
	StatusRumored:   {},
	StatusPending:   {},
}

// UnknownClub is substituted when an upstream feed omits one side of a deal.
const UnknownClub = "Unknown Club"

// statusByCategory maps upstream category codes onto the status enum.
// Unrecognized codes deliberately fall back to rumored.
var statusByCategory = map[string]Status{
	"Done Deal":          StatusConfirmed,
	"Confirmed":          StatusConfirmed,
	"Official":           StatusConfirmed,
	"Rumours":            StatusRumored,
	"Rumour Mill":        StatusRumored,
	"Heavily Linked":     StatusRumored,
	"Speculation":        StatusRumored,
	"Interest Confirmed": StatusPending,
	"Medical Booked":     StatusPending,
	"Personal Terms":     StatusPending,
}

// StatusFromCategory resolves an upstream category code to a Status,
// defaulting to rumored for codes the table does not know.
func StatusFromCategory(code string) Status {
	if status, ok := statusByCategory[code]; ok {
		return status
	}
	return StatusRumored
}

// Transfer is the canonical record every source adapter maps into.
type Transfer struct {
	ID          string
	PlayerName  string
	FromClub    string
	ToClub      string
	Fee         string
	Status      Status
	Date        string
	Source      string
	Category    string
	Description string

	// RelatedNews is populated lazily by relevance matching, never by adapters.
	RelatedNews []news.Article
}

func (t Transfer) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transfer id is required")
	}
	if t.PlayerName == "" {
		return fmt.Errorf("transfer player name is required")
	}
	if _, ok := AllStatuses[t.Status]; !ok {
		return fmt.Errorf("invalid transfer status: %s", t.Status)
	}

	return nil
}
