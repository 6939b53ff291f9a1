package attempt_test

import (
	"testing"

	"quiz-attempt-service/internal/attempt"
)

func TestNormalizeFoldsFormatting(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"서울", "서울"},
		{"정답: 서울", "서울"},
		{"답: 서울", "서울"},
		{"Answer: Seoul", "seoul"},
		{"  Seoul City!  ", "seoulcity"},
		{"서울 (대한민국의 수도)", "서울"},
		{"[힌트 있음] 서울", "서울"},
		{"New-York, U.S.A.", "newyorkusa"},
		{"(전부 주석)", ""},
		{"", ""},
		{"   ", ""},
		{",.!?", ""},
		{"(닫히지 않은 괄호", ""},
	}
	for _, c := range cases {
		if got := attempt.Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"정답: 서울 (수도)",
		"답:   부산!",
		"Answer: [hint] Seoul",
		"apple, banana",
		"정답: 정답이 들어간 답",
		"  mixed CASE  string  ",
		"",
	}
	for _, in := range inputs {
		once := attempt.Normalize(in)
		twice := attempt.Normalize(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
