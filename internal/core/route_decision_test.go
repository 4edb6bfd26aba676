package core

import "testing"

func TestDecideRoute(t *testing.T) {
	tests := []struct {
		name string
		req  RouteRequest
		want RouteAction
	}{
		{"eager route", RouteRequest{Matched: true}, ActionRenderEager},
		{"lazy route first visit", RouteRequest{Matched: true, Lazy: true}, ActionLoadLazy},
		{"lazy route cached", RouteRequest{Matched: true, Lazy: true, Loaded: true}, ActionRenderCached},
		{"unmatched without fallback", RouteRequest{}, ActionNotFound},
		{"unmatched with fallback", RouteRequest{HasFallback: true}, ActionRenderFallback},
		{"matched ignores fallback", RouteRequest{Matched: true, HasFallback: true}, ActionRenderEager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideRoute(tt.req)
			if got.Action != tt.want {
				t.Errorf("DecideRoute() = %v, want %v", got.Action, tt.want)
			}
		})
	}
}
