package utils

import "testing"

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"09:00", "09:00"},
		{" 11:30 ", "11:30"},
		{"09:00:00", "09:00"},
		{"2026-07-10 15:00", "15:00"},
	}
	for _, c := range cases {
		got, err := NormalizeTime(c.in)
		if err != nil {
			t.Errorf("NormalizeTime(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "9am", "25:00", "abc"} {
		if _, err := NormalizeTime(bad); err == nil {
			t.Errorf("NormalizeTime(%q) should fail", bad)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-07-10")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if FormatDate(d) != "2026-07-10" {
		t.Fatalf("round trip mismatch: %s", FormatDate(d))
	}

	for _, bad := range []string{"", "10/07/2026", "2026-13-01"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestRoundMoney(t *testing.T) {
	if got := RoundMoney(18.748); got != 18.75 {
		t.Fatalf("RoundMoney(18.748) = %v", got)
	}
	if got := RoundMoney(106.252); got != 106.25 {
		t.Fatalf("RoundMoney(106.252) = %v", got)
	}
	if FormatMoney(125) != "125.00" {
		t.Fatalf("FormatMoney(125) = %s", FormatMoney(125))
	}
}
