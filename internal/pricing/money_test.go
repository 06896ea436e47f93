package pricing

import (
	"math"
	"testing"
)

func TestRoundToPricingConvention(t *testing.T) {
	cases := []struct {
		in   Money
		want Money
	}{
		{0, 0},
		{1, 500},
		{499, 500},
		{500, 500},
		{501, 1000},
		{999, 1000},
		{1000, 1000},
		{25400, 25500},
		{25500, 25500},
		{25700, 26000},
		{26000, 26000},
		{15300, 15500},
		{18000, 18000},
		{-1200, -1200},
	}
	for _, tc := range cases {
		if got := RoundToPricingConvention(tc.in); got != tc.want {
			t.Fatalf("round(%d): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestRoundToPricingConventionProperties(t *testing.T) {
	for x := Money(0); x <= 20000; x += 7 {
		once := RoundToPricingConvention(x)
		if once%500 != 0 {
			t.Fatalf("round(%d)=%d is not a multiple of 500", x, once)
		}
		if once < x || once-x >= 500 {
			t.Fatalf("round(%d)=%d moved too far", x, once)
		}
		if twice := RoundToPricingConvention(once); twice != once {
			t.Fatalf("round not idempotent for %d: %d then %d", x, once, twice)
		}
	}
	for k := Money(0); k < 100; k++ {
		if got := RoundToPricingConvention(1000 * k); got != 1000*k {
			t.Fatalf("expected %d fixed, got %d", 1000*k, got)
		}
		if got := RoundToPricingConvention(1000*k + 500); got != 1000*k+500 {
			t.Fatalf("expected %d fixed, got %d", 1000*k+500, got)
		}
	}
}

func TestRoundToPricingConventionNearLimit(t *testing.T) {
	const top = Money(math.MaxInt64) - math.MaxInt64%1000
	cases := []struct {
		in   Money
		want Money
	}{
		{math.MaxInt64, top + 500},
		{top + 501, top + 500},
		{top + 1, top + 500},
		{top - 1, top},
	}
	for _, tc := range cases {
		got := RoundToPricingConvention(tc.in)
		if got != tc.want {
			t.Fatalf("round(%d): expected %d, got %d", tc.in, tc.want, got)
		}
		if again := RoundToPricingConvention(got); again != got {
			t.Fatalf("round not idempotent near limit: %d then %d", got, again)
		}
	}
}
