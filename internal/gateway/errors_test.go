package gateway

import (
	"fmt"
	"testing"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"network", fmt.Errorf("%w: connection refused", ErrNetwork), true},
		{"bad gateway", &StatusError{Code: 502, Status: "502 Bad Gateway"}, true},
		{"forbidden", &StatusError{Code: 403, Status: "403 Forbidden"}, false},
		{"not found", &StatusError{Code: 404, Status: "404 Not Found"}, false},
		{"unauthorized", fmt.Errorf("%w (HTTP 401)", ErrUnauthorized), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Errorf("%s: IsTransient = %v, want %v", tc.name, got, tc.want)
		}
	}
}
