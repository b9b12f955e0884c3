package domain

// Subscription targets: a single region, a curated route, or the national
// index.
const (
	SubscribeState    = "state"
	SubscribeRoute    = "route"
	SubscribeNational = "national"
)

// Subscription is one user's alert registration. Platform identifies the
// delivery channel (e.g. "telegram"), Target the region or route watched.
type Subscription struct {
	ID          string `json:"id"`
	Platform    string `json:"platform"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Target      string `json:"target"`
	MinSeverity string `json:"min_severity"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
