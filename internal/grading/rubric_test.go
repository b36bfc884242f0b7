package grading

import (
	"errors"
	"testing"
)

func TestValidateRubricAccepts(t *testing.T) {
	qs := []QuestionSpec{{Num: 1, MaxMarks: 5}, {Num: 2, MaxMarks: 5}, {Num: 3, MaxMarks: 10}}
	if err := ValidateRubric(qs, 20); err != nil {
		t.Fatalf("ValidateRubric: %v", err)
	}
}

func TestValidateRubricRejects(t *testing.T) {
	cases := []struct {
		name  string
		qs    []QuestionSpec
		total float64
	}{
		{"empty", nil, 0},
		{"total mismatch", []QuestionSpec{{Num: 1, MaxMarks: 5}}, 10},
		{"negative marks", []QuestionSpec{{Num: 1, MaxMarks: -1}}, -1},
		{"gap in numbering", []QuestionSpec{{Num: 1, MaxMarks: 5}, {Num: 3, MaxMarks: 5}}, 10},
		{"starts at zero", []QuestionSpec{{Num: 0, MaxMarks: 5}, {Num: 1, MaxMarks: 5}}, 10},
		{"duplicate number", []QuestionSpec{{Num: 1, MaxMarks: 5}, {Num: 1, MaxMarks: 5}}, 10},
	}
	for _, c := range cases {
		err := ValidateRubric(c.qs, c.total)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		var rErr *RubricInconsistencyError
		if !errors.As(err, &rErr) {
			t.Fatalf("%s: expected RubricInconsistencyError, got %T", c.name, err)
		}
	}
}
