package grading

import "testing"

func TestRoundToPrecisionHalfUp(t *testing.T) {
	cases := []struct {
		score float64
		p     MarkingPrecision
		want  float64
	}{
		{4.5, PrecisionWhole, 5},
		{4.4, PrecisionWhole, 4},
		{3.5, PrecisionWhole, 4},
		{2.5, PrecisionWhole, 3},
		{4.25, PrecisionHalf, 4.5},
		{4.2, PrecisionHalf, 4},
		{4.74, PrecisionHalf, 4.5},
		{4.75, PrecisionHalf, 5},
		{4.125, PrecisionQuarter, 4.25},
		{4.1, PrecisionQuarter, 4},
		{4.87, PrecisionQuarter, 4.75},
		{0, PrecisionWhole, 0},
	}

	for _, c := range cases {
		got := RoundToPrecision(c.score, c.p)
		if got != c.want {
			t.Errorf("RoundToPrecision(%v, %s) = %v, want %v", c.score, c.p, got, c.want)
		}
	}
}

func TestRoundToPrecisionIdempotentOnGrid(t *testing.T) {
	// 已经在精度栅格上的值再次舍入必须保持不变
	for _, p := range []MarkingPrecision{PrecisionWhole, PrecisionHalf, PrecisionQuarter} {
		step := p.Step()
		for i := 0; i <= 40; i++ {
			v := float64(i) * step
			if got := RoundToPrecision(v, p); got != v {
				t.Fatalf("precision %s: RoundToPrecision(%v) = %v, not idempotent", p, v, got)
			}
		}
	}
}

func TestPrecisionStep(t *testing.T) {
	if PrecisionWhole.Step() != 1 {
		t.Errorf("whole step = %v", PrecisionWhole.Step())
	}
	if PrecisionHalf.Step() != 0.5 {
		t.Errorf("half step = %v", PrecisionHalf.Step())
	}
	if PrecisionQuarter.Step() != 0.25 {
		t.Errorf("quarter step = %v", PrecisionQuarter.Step())
	}
}

func TestPrecisionValid(t *testing.T) {
	if !PrecisionHalf.Valid() {
		t.Error("half should be valid")
	}
	if MarkingPrecision("tenth").Valid() {
		t.Error("tenth should not be valid")
	}
}
