package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/news"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/usecase"
)

type Handler struct {
	feed      *usecase.FeedController
	newsSvc   *usecase.NewsService
	teamSvc   *usecase.TeamService
	adminSvc  *usecase.AdminService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(
	feed *usecase.FeedController,
	newsSvc *usecase.NewsService,
	teamSvc *usecase.TeamService,
	adminSvc *usecase.AdminService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		feed:      feed,
		newsSvc:   newsSvc,
		teamSvc:   teamSvc,
		adminSvc:  adminSvc,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTransfers serves the merged snapshot. refresh=true bypasses the
// snapshot TTL and forces a full aggregation cycle.
func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTransfers")
	defer span.End()

	forceRefresh := false
	if raw := strings.TrimSpace(r.URL.Query().Get("refresh")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: refresh must be a boolean", usecase.ErrInvalidInput))
			return
		}
		forceRefresh = parsed
	}

	items, err := h.feed.MergedTransfers(ctx, forceRefresh)
	if err != nil {
		h.logger.ErrorContext(ctx, "list transfers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferListDTO{
		Count:     len(items),
		Transfers: toTransferDTOs(items),
	})
}

func (h *Handler) GetPlayerNews(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerNews")
	defer span.End()

	playerName := r.PathValue("name")
	articles, err := h.newsSvc.PlayerNews(ctx, playerName)
	if err != nil {
		h.logger.ErrorContext(ctx, "player news failed", "player", playerName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerNewsDTO{
		Player:   strings.TrimSpace(playerName),
		Count:    len(articles),
		Articles: toArticleDTOs(articles),
	})
}

func (h *Handler) GetTeamFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamFeed")
	defer span.End()

	teamName := r.PathValue("team")
	feed, err := h.teamSvc.TeamFeed(ctx, teamName)
	if err != nil {
		h.logger.ErrorContext(ctx, "team feed failed", "team", teamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamFeedDTO{
		Team:      feed.Team,
		Transfers: toTransferDTOs(feed.Transfers),
		DoneDeals: toTransferDTOs(feed.DoneDeals),
		Rumours:   toTransferDTOs(feed.Rumours),
		News:      toArticleDTOs(feed.News),
	})
}

type clearCacheRequest struct {
	Scope string `json:"scope" validate:"omitempty,max=64"`
}

// ClearCache drops cached feed data. An empty body or scope clears
// everything.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearCache")
	defer span.End()

	var payload clearCacheRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
			return
		}
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	cleared, err := h.adminSvc.ClearCache(ctx, payload.Scope)
	if err != nil {
		h.logger.ErrorContext(ctx, "clear cache failed", "scope", payload.Scope, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clearCacheDTO{Cleared: cleared})
}

type transferListDTO struct {
	Count     int           `json:"count"`
	Transfers []transferDTO `json:"transfers"`
}

type transferDTO struct {
	ID          string       `json:"id"`
	PlayerName  string       `json:"playerName"`
	FromClub    string       `json:"fromClub"`
	ToClub      string       `json:"toClub"`
	Fee         string       `json:"fee,omitempty"`
	Status      string       `json:"status"`
	Date        string       `json:"date"`
	Source      string       `json:"source"`
	Category    string       `json:"category,omitempty"`
	Description string       `json:"description,omitempty"`
	RelatedNews []articleDTO `json:"relatedNews,omitempty"`
}

type playerNewsDTO struct {
	Player   string       `json:"player"`
	Count    int          `json:"count"`
	Articles []articleDTO `json:"articles"`
}

type articleDTO struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Summary        string  `json:"summary,omitempty"`
	Image          string  `json:"image,omitempty"`
	URL            string  `json:"url,omitempty"`
	PublishedAt    string  `json:"publishedAt"`
	Source         string  `json:"source,omitempty"`
	Category       string  `json:"category,omitempty"`
	RelevanceScore float64 `json:"relevanceScore"`
}

type teamFeedDTO struct {
	Team      string        `json:"team"`
	Transfers []transferDTO `json:"transfers"`
	DoneDeals []transferDTO `json:"doneDeals"`
	Rumours   []transferDTO `json:"rumours"`
	News      []articleDTO  `json:"news"`
}

type clearCacheDTO struct {
	Cleared []string `json:"cleared"`
}

func toTransferDTOs(items []transfer.Transfer) []transferDTO {
	out := make([]transferDTO, 0, len(items))
	for _, item := range items {
		out = append(out, transferDTO{
			ID:          item.ID,
			PlayerName:  item.PlayerName,
			FromClub:    item.FromClub,
			ToClub:      item.ToClub,
			Fee:         item.Fee,
			Status:      string(item.Status),
			Date:        item.Date,
			Source:      item.Source,
			Category:    item.Category,
			Description: item.Description,
			RelatedNews: toArticleDTOs(item.RelatedNews),
		})
	}
	return out
}

func toArticleDTOs(items []news.Article) []articleDTO {
	if len(items) == 0 {
		return nil
	}
	out := make([]articleDTO, 0, len(items))
	for _, item := range items {
		out = append(out, articleDTO{
			ID:             item.ID,
			Title:          item.Title,
			Summary:        item.Summary,
			Image:          item.Image,
			URL:            item.URL,
			PublishedAt:    item.PublishedAt,
			Source:         item.Source,
			Category:       item.Category,
			RelevanceScore: item.RelevanceScore,
		})
	}
	return out
}
