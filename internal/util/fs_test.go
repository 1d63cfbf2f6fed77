package util

import "testing"

func TestSafeJoinStripsTraversal(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"run-1", "out/runs/run-1"},
		{"../../etc/passwd", "out/runs/passwd"},
		{"nested/run-2", "out/runs/run-2"},
	}
	for _, tc := range cases {
		if got := SafeJoin("out/runs", tc.name); got != tc.want {
			t.Fatalf("SafeJoin(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
