package main

import "testing"

// TestBearerToken covers the Authorization header shapes the middleware sees.
// The scheme is case-sensitive per RFC 6750's canonical form; clients that
// send "bearer" lowercase get a 401, which matches the mobile app.
func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc123", "abc123", true},
		{"trailing space", "Bearer abc123  ", "abc123", true},
		{"empty token", "Bearer ", "", false},
		{"only spaces", "Bearer    ", "", false},
		{"no header", "", "", false},
		{"lowercase scheme", "bearer abc123", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"token without scheme", "abc123", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := bearerToken(tc.header)
			if got != tc.want || ok != tc.ok {
				t.Errorf("bearerToken(%q) = (%q, %v), want (%q, %v)",
					tc.header, got, ok, tc.want, tc.ok)
			}
		})
	}
}
