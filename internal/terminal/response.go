package terminal

import (
	"encoding/json"
	"fmt"

	"github.com/CosmoTheDev/rekt-terminal/models"
)

// Response is the result of dispatching one command. Each concrete type is
// one variant; Type is the discriminator used by renderers and the JSON
// encoding.
type Response interface {
	Type() string
}

// CommandHelp describes one entry of the help listing.
type CommandHelp struct {
	Name    string `json:"name"`
	Usage   string `json:"usage"`
	Summary string `json:"summary"`
}

type (
	HelpResponse struct {
		Commands []CommandHelp `json:"commands"`
	}

	ClearResponse struct{}

	ArticleListResponse struct {
		Query    string           `json:"query,omitempty"`
		Articles []models.Article `json:"articles"`
	}

	ArticleResponse struct {
		Article models.Article `json:"article"`
	}

	// ScanResponse carries a finished report. Address is set for
	// `scan <address>`, Path for `analyze <path>`.
	ScanResponse struct {
		Address string                 `json:"address,omitempty"`
		Path    string                 `json:"path,omitempty"`
		Report  *models.SecurityReport `json:"report"`
	}

	// AnalyzeResponse asks the caller to supply a contract file.
	AnalyzeResponse struct {
		Message    string   `json:"message"`
		Extensions []string `json:"extensions"`
	}

	StatsResponse struct {
		Stats models.PlatformStats `json:"stats"`
	}

	VisualizeResponse struct {
		Visualization models.ExploitVisualization `json:"visualization"`
	}

	FeedResponse struct {
		Items []models.FeedItem `json:"items"`
	}

	RecapResponse struct {
		Recaps []models.Recap `json:"recaps"`
	}

	ParlourResponse struct {
		Topics []models.ParlourTopic `json:"topics"`
	}

	PartnersResponse struct {
		Partners []models.SecurityPartner `json:"partners"`
	}

	BountiesResponse struct {
		Bounties []models.Bounty `json:"bounties"`
	}

	PlatformsResponse struct {
		Platforms []models.BountyPlatform `json:"platforms"`
	}

	PointsResponse struct {
		Leaderboard []models.PointsEntry `json:"leaderboard"`
	}

	ReferralResponse struct {
		Code   string `json:"code"`
		Link   string `json:"link"`
		Reward string `json:"reward"`
	}

	SubscribeResponse struct {
		Tiers []models.SubscriptionTier `json:"tiers"`
	}

	AboutResponse struct {
		Name        string `json:"name"`
		Version     string `json:"version"`
		Description string `json:"description"`
	}

	RoadmapResponse struct {
		Items []models.RoadmapItem `json:"items"`
	}

	// ViewResponse tells the caller to switch views; the dispatcher never
	// switches anything itself.
	ViewResponse struct {
		View string `json:"view"`
	}

	ErrorResponse struct {
		Message string `json:"message"`
	}
)

func (HelpResponse) Type() string        { return "help" }
func (ClearResponse) Type() string       { return "clear" }
func (ArticleListResponse) Type() string { return "articles" }
func (ArticleResponse) Type() string     { return "article" }
func (ScanResponse) Type() string        { return "scan" }
func (AnalyzeResponse) Type() string     { return "analyze" }
func (StatsResponse) Type() string       { return "stats" }
func (VisualizeResponse) Type() string   { return "visualize" }
func (FeedResponse) Type() string        { return "feed" }
func (RecapResponse) Type() string       { return "recap" }
func (ParlourResponse) Type() string     { return "parlour" }
func (PartnersResponse) Type() string    { return "partners" }
func (BountiesResponse) Type() string    { return "bounties" }
func (PlatformsResponse) Type() string   { return "platforms" }
func (PointsResponse) Type() string      { return "points" }
func (ReferralResponse) Type() string    { return "referral" }
func (SubscribeResponse) Type() string   { return "subscribe" }
func (AboutResponse) Type() string       { return "about" }
func (RoadmapResponse) Type() string     { return "roadmap" }
func (ViewResponse) Type() string        { return "view" }
func (ErrorResponse) Type() string       { return "error" }

func errorf(format string, args ...any) ErrorResponse {
	return ErrorResponse{Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether r is the error variant.
func IsError(r Response) bool {
	_, ok := r.(ErrorResponse)
	return ok
}

// MarshalResponse encodes r as a flat JSON object with a "type" field next
// to the variant's own fields.
func MarshalResponse(r Response) ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding %s response: %w", r.Type(), err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("flattening %s response: %w", r.Type(), err)
	}
	typ, _ := json.Marshal(r.Type())
	fields["type"] = typ
	return json.Marshal(fields)
}
