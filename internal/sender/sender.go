package sender

import (
	"context"

	"github.com/trackwire/notification-tracker/internal/domain"
)

// SendRequest carries the outbound dispatch payload to the upstream provider.
type SendRequest struct {
	ExternalID string
	Channel    domain.Channel
	To         string
	Body       string
}

// SendResponse is the provider's provisional record of the dispatch. The
// provider message id is informational only; the store assigns the
// authoritative notification id.
type SendResponse struct {
	ProviderMessageID string
	StatusCode        int
	Body              string
}

// Sender is the outbound dispatch port. Implementations do not retry; retry
// policy, if any, lives behind this boundary.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (*SendResponse, error)
}
