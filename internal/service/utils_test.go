package service

import "testing"

func TestCleanText(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{in: "  Groceries \n", want: "Groceries"},
		{in: "caf\xc3\xa9", want: "café"},
		{in: " bad\xffbyte ", want: "badbyte"},
		{in: "", want: ""},
	}
	for _, tc := range testCases {
		if got := cleanText(tc.in); got != tc.want {
			t.Errorf("cleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
