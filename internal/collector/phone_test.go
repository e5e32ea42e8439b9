package collector

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw    string
		region string
		want   string
	}{
		{"(13) 3222-1234", "BR", "+551332221234"},
		{"+55 13 3222-1234", "", "+551332221234"},
		{"(415) 555-1234", "US", "+14155551234"},
		{"12345", "BR", ""},
		{"", "BR", ""},
		{"N/A", "BR", ""},
	}

	for _, tc := range cases {
		if got := normalizePhone(tc.raw, tc.region); got != tc.want {
			t.Fatalf("normalizePhone(%q, %q) = %q, want %q", tc.raw, tc.region, got, tc.want)
		}
	}
}
