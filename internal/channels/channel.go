package channels

import (
	"context"

	"github.com/scholarline/scholarline-gobackend/internal/models"
)

// Channel delivers one notification over a single medium.
//
// Deliver reports success only; implementations swallow their own errors so
// a failing channel can never abort the fan-out it is part of.
type Channel interface {
	Kind() models.ChannelKind
	Deliver(ctx context.Context, n *models.Notification) bool
}
