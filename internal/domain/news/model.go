package news

import "fmt"

// Article is a single news story mapped from an upstream feed.
// RelevanceScore is zero until the article has been matched against a
// specific player or club; the base article has no intrinsic relevance.
type Article struct {
	ID             string
	Title          string
	Summary        string
	Image          string
	URL            string
	PublishedAt    string
	Source         string
	Category       string
	RelevanceScore float64
}

func (a Article) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("article id is required")
	}
	if a.Title == "" {
		return fmt.Errorf("article title is required")
	}

	return nil
}
