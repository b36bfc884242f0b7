package grading

import (
	"errors"
	"testing"
)

func TestScoreTagging(t *testing.T) {
	s := AIScore(4.5)
	if s.Final() != 4.5 || s.IsOverridden() {
		t.Errorf("fresh AI score: final=%v overridden=%v", s.Final(), s.IsOverridden())
	}
	if _, ok := s.Teacher(); ok {
		t.Error("fresh AI score should have no teacher component")
	}

	o := s.Overridden(3)
	if o.Final() != 3 || !o.IsOverridden() {
		t.Errorf("overridden score: final=%v overridden=%v", o.Final(), o.IsOverridden())
	}
	if o.AI() != 4.5 {
		t.Errorf("override must preserve the original AI score, got %v", o.AI())
	}
	teacher, ok := o.Teacher()
	if !ok || teacher != 3 {
		t.Errorf("teacher component = %v, %v", teacher, ok)
	}
}

func TestScoreSetCommitAndTotal(t *testing.T) {
	ss := NewScoreSet(threeQuestions, PrecisionHalf)
	ss.Commit([]QuestionResult{
		{QuestionNum: 1, Score: 4.5},
		{QuestionNum: 2, Score: 5},
		{QuestionNum: 3, Score: 7},
	})

	if got := ss.Total(); got != 16.5 {
		t.Errorf("total = %v, want 16.5", got)
	}
	s, ok := ss.Get(1)
	if !ok || s.Final() != 4.5 || s.IsOverridden() {
		t.Errorf("question 1 score = %+v, %v", s, ok)
	}
}

func TestScoreSetOverrideRecomputesTotal(t *testing.T) {
	ss := NewScoreSet(threeQuestions, PrecisionHalf)
	ss.Commit([]QuestionResult{
		{QuestionNum: 1, Score: 4.5},
		{QuestionNum: 2, Score: 5},
		{QuestionNum: 3, Score: 7},
	})

	updated, err := ss.Override(3, 8.5)
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if updated.Final() != 8.5 || !updated.IsOverridden() {
		t.Errorf("updated score = %+v", updated)
	}
	if updated.AI() != 7 {
		t.Errorf("AI score must survive the override, got %v", updated.AI())
	}
	if got := ss.Total(); got != 18 {
		t.Errorf("total after override = %v, want 18", got)
	}
}

func TestScoreSetOverrideRoundsToPrecision(t *testing.T) {
	ss := NewScoreSet(threeQuestions, PrecisionHalf)
	ss.Commit([]QuestionResult{{QuestionNum: 1, Score: 2}})

	updated, err := ss.Override(1, 3.3)
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if updated.Final() != 3.5 {
		t.Errorf("override 3.3 at half precision = %v, want 3.5", updated.Final())
	}
}

func TestScoreSetOverrideRange(t *testing.T) {
	ss := NewScoreSet(threeQuestions, PrecisionHalf)
	ss.Commit([]QuestionResult{{QuestionNum: 1, Score: 2}})

	cases := []struct {
		num   int
		score float64
	}{
		{1, 5.5},
		{1, -0.5},
		{42, 1},
	}
	for _, c := range cases {
		_, err := ss.Override(c.num, c.score)
		if err == nil {
			t.Fatalf("Override(%d, %v) should fail", c.num, c.score)
		}
		var rErr *ScoreRangeError
		if !errors.As(err, &rErr) {
			t.Fatalf("expected ScoreRangeError, got %T", err)
		}
	}

	// 越界拒绝后原值保持不变
	s, _ := ss.Get(1)
	if s.Final() != 2 || s.IsOverridden() {
		t.Errorf("score mutated by rejected override: %+v", s)
	}
}

func TestTotalOfMixedScores(t *testing.T) {
	scores := []Score{
		AIScore(4.5),
		AIScore(5).Overridden(4),
		AIScore(7),
	}
	if got := TotalOf(scores, PrecisionHalf); got != 15.5 {
		t.Errorf("TotalOf = %v, want 15.5", got)
	}
}
