package memory

import "github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"

// SeedTransfers is the static per-club dataset served when every live
// feed is down. It is deliberately conservative: only well-known deals
// from the current window, no rumours that could go stale badly.
func SeedTransfers() []transfer.Transfer {
	return []transfer.Transfer{
		{
			ID:         "seed-ars-001",
			PlayerName: "Viktor Gyokeres",
			FromClub:   "Sporting CP",
			ToClub:     "Arsenal",
			Fee:        "£55m",
			Status:     transfer.StatusConfirmed,
			Date:       "2025-07-26T10:00:00Z",
			Source:     "Seed Dataset",
			Category:   "Done Deal",
		},
		{
			ID:         "seed-ars-002",
			PlayerName: "Noni Madueke",
			FromClub:   "Chelsea",
			ToClub:     "Arsenal",
			Fee:        "£52m",
			Status:     transfer.StatusConfirmed,
			Date:       "2025-07-18T09:30:00Z",
			Source:     "Seed Dataset",
			Category:   "Done Deal",
		},
		{
			ID:         "seed-liv-001",
			PlayerName: "Hugo Ekitike",
			FromClub:   "Eintracht Frankfurt",
			ToClub:     "Liverpool",
			Fee:        "£79m",
			Status:     transfer.StatusConfirmed,
			Date:       "2025-07-23T12:00:00Z",
			Source:     "Seed Dataset",
			Category:   "Done Deal",
		},
		{
			ID:         "seed-liv-002",
			PlayerName: "Florian Wirtz",
			FromClub:   "Bayer Leverkusen",
			ToClub:     "Liverpool",
			Fee:        "£100m",
			Status:     transfer.StatusConfirmed,
			Date:       "2025-06-20T15:00:00Z",
			Source:     "Seed Dataset",
			Category:   "Done Deal",
		},
		{
			ID:         "seed-che-001",
			PlayerName: "Joao Pedro",
			FromClub:   "Brighton",
			ToClub:     "Chelsea",
			Fee:        "£60m",
			Status:     transfer.StatusConfirmed,
			Date:       "2025-07-02T11:00:00Z",
			Source:     "Seed Dataset",
			Category:   "Done Deal",
		},
		{
			ID:         "seed-mci-001",
			PlayerName: "Tijjani Reijnders",
			FromClub:   "AC Milan",
			ToClub:     "Manchester City",
			Fee:        "£46m",
			Status:     transfer.StatusConfirmed,
			Date:       "2025-06-12T09:00:00Z",
			Source:     "Seed Dataset",
			Category:   "Done Deal",
		},
		{
			ID:         "seed-mun-001",
			PlayerName: "Bryan Mbeumo",
			FromClub:   "Brentford",
			ToClub:     "Manchester United",
			Fee:        "£65m",
			Status:     transfer.StatusConfirmed,
			Date:       "2025-07-21T14:00:00Z",
			Source:     "Seed Dataset",
			Category:   "Done Deal",
		},
		{
			ID:         "seed-sun-001",
			PlayerName: "Granit Xhaka",
			FromClub:   "Bayer Leverkusen",
			ToClub:     "Sunderland",
			Fee:        "£13m",
			Status:     transfer.StatusConfirmed,
			Date:       "2025-07-10T08:00:00Z",
			Source:     "Seed Dataset",
			Category:   "Done Deal",
		},
	}
}
