package refresh

import (
	"context"

	"github.com/nugudi/nugudi-gateway/upstream"
)

// Result is the outcome of one refresh attempt.
type Result = upstream.RefreshResult

// Refresher obtains a new token pair and stores it. Implementations never
// return an error; failures come back as Result.Success == false.
type Refresher interface {
	Refresh(ctx context.Context) Result
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) Result

func (f RefresherFunc) Refresh(ctx context.Context) Result {
	return f(ctx)
}
