package apitest

import (
	"context"
	"net/http"
)

func withUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxUsername, username)
}

func usernameFrom(r *http.Request) string {
	v, _ := r.Context().Value(ctxUsername).(string)
	return v
}
