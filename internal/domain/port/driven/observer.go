package driven

import (
	"context"

	"github.com/andrespaulino/livestats/internal/domain/model"
)

// Observer receives fetch events as a side channel. Implementations must not
// block for long; the fetch path never inspects what they do.
type Observer interface {
	Observe(ctx context.Context, event model.FetchEvent)
}
