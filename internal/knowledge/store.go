package knowledge

import "context"

// Snippet is one organization-curated safety-knowledge item used as
// generation context.
type Snippet struct {
	Category string
	Title    string
	Content  string
}

// Store lists active reference material for an organization. Ordering beyond
// "active records for this organization" is unspecified; callers take the
// first items as returned.
type Store interface {
	ListActiveSnippets(ctx context.Context, organizationID string, limit int) ([]Snippet, error)
}
