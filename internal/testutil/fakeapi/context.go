package fakeapi

import (
	"context"
	"net/http"
)

func withClaims(ctx context.Context, c claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func claimsFrom(r *http.Request) claims {
	c, _ := r.Context().Value(claimsKey{}).(claims)
	return c
}
