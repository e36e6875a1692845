package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/news"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/relevance"
)

// TeamFeed is the combined view for a single club.
type TeamFeed struct {
	Team      string
	Transfers []transfer.Transfer
	DoneDeals []transfer.Transfer
	Rumours   []transfer.Transfer
	News      []news.Article
}

// newsProvider is the slice of NewsService the team projection needs.
type newsProvider interface {
	AllArticles(ctx context.Context) ([]news.Article, error)
}

// transferProvider is the slice of FeedController the team projection needs.
type transferProvider interface {
	MergedTransfers(ctx context.Context, forceRefresh bool) ([]transfer.Transfer, error)
}

// TeamService projects the merged transfer snapshot and the combined
// news pool onto a single club.
type TeamService struct {
	transfers transferProvider
	news      newsProvider
	logger    *logging.Logger
}

func NewTeamService(transfers transferProvider, newsSvc newsProvider, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TeamService{transfers: transfers, news: newsSvc, logger: logger}
}

// TeamFeed builds the club view. Unknown club names still resolve to a
// minimal keyword set, so the call succeeds for any non-empty team.
func (s *TeamService) TeamFeed(ctx context.Context, teamName string) (TeamFeed, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.TeamFeed")
	defer span.End()

	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return TeamFeed{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	club, err := relevance.KeywordsForClub(teamName)
	if err != nil {
		return TeamFeed{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	merged, err := s.transfers.MergedTransfers(ctx, false)
	if err != nil {
		return TeamFeed{}, err
	}

	feed := TeamFeed{Team: club.Name}
	for _, item := range merged {
		if !clubInvolved(item, club) {
			continue
		}
		feed.Transfers = append(feed.Transfers, item)
		if item.Status == transfer.StatusConfirmed {
			feed.DoneDeals = append(feed.DoneDeals, item)
		} else {
			feed.Rumours = append(feed.Rumours, item)
		}
	}

	feed.News = s.teamNews(ctx, club)
	return feed, nil
}

// teamNews filters the combined pool down to club-relevant articles.
// A news fan-out failure degrades to an empty news section rather than
// failing the whole feed.
func (s *TeamService) teamNews(ctx context.Context, club relevance.ClubKeywords) []news.Article {
	all, err := s.news.AllArticles(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "news pool unavailable for team feed", "team", club.Name, "error", err)
		return nil
	}

	seen := make(map[string]struct{}, len(all))
	var matched []news.Article
	for _, art := range all {
		if !relevance.TeamRelevant(art.Title, art.Summary, art.URL, club) {
			continue
		}
		titleKey := relevance.Normalize(art.Title)
		if _, dup := seen[titleKey]; dup {
			continue
		}
		seen[titleKey] = struct{}{}
		art.RelevanceScore = relevance.ScoreStructured(art.Title, art.Summary, club.Name)
		matched = append(matched, art)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].PublishedAt > matched[j].PublishedAt
	})
	return matched
}

// clubInvolved matches either side of the move against the club's
// keyword set.
func clubInvolved(item transfer.Transfer, club relevance.ClubKeywords) bool {
	return clubNameMatches(item.ToClub, club) || clubNameMatches(item.FromClub, club)
}

func clubNameMatches(name string, club relevance.ClubKeywords) bool {
	normalized := relevance.Normalize(name)
	if normalized == "" || name == transfer.UnknownClub {
		return false
	}
	if normalized == relevance.Normalize(club.Name) {
		return true
	}
	for _, kw := range club.Keywords {
		if normalized == relevance.Normalize(kw) {
			return true
		}
	}
	return false
}
