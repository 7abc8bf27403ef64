package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/limitdiff/internal/core"
	mw "github.com/JonMunkholm/limitdiff/internal/web/middleware"
)

// withClient tags ctx with the client address and User-Agent for service logs.
func withClient(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, mw.ClientIP(r), r.UserAgent())
}
