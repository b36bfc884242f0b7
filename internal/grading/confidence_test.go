package grading

import "testing"

func TestNeedsReview(t *testing.T) {
	if !NeedsReview(0.65, 0.7) {
		t.Error("0.65 below threshold 0.7 should need review")
	}
	if NeedsReview(0.7, 0.7) {
		t.Error("exactly at threshold should not need review")
	}
	if NeedsReview(0.95, 0.7) {
		t.Error("0.95 should not need review")
	}
	// 阈值缺省时回退到默认值
	if !NeedsReview(0.5, 0) {
		t.Error("0.5 with default threshold should need review")
	}
}
