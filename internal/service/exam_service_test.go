package service

import (
	"errors"
	"testing"

	"smart_grade_backend/internal/grading"
)

func TestBuildExamDefaultsTotalToSum(t *testing.T) {
	exam, questions, err := buildExam(1, ExamRequest{
		Subject:    "Biology",
		ClassLabel: "10A",
		Questions: []ExamQuestionRequest{
			{QuestionText: "Q1", MaxMarks: 5},
			{QuestionText: "Q2", MaxMarks: 10},
		},
	})
	if err != nil {
		t.Fatalf("buildExam: %v", err)
	}
	if exam.TotalMarks != 15 {
		t.Errorf("total marks = %v, want 15", exam.TotalMarks)
	}
	if exam.MarkingPrecision != grading.PrecisionWhole {
		t.Errorf("default precision = %s", exam.MarkingPrecision)
	}
	if questions[0].QuestionNum != 1 || questions[1].QuestionNum != 2 {
		t.Errorf("question numbers not renumbered: %+v", questions)
	}
}

func TestBuildExamRejectsTotalMismatch(t *testing.T) {
	_, _, err := buildExam(1, ExamRequest{
		Subject:    "Biology",
		ClassLabel: "10A",
		TotalMarks: 30,
		Questions: []ExamQuestionRequest{
			{QuestionText: "Q1", MaxMarks: 5},
			{QuestionText: "Q2", MaxMarks: 10},
		},
	})
	if err == nil {
		t.Fatal("expected error for total mismatch")
	}
	var rErr *grading.RubricInconsistencyError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected RubricInconsistencyError, got %T", err)
	}
}

func TestBuildExamRejectsInvalidPrecision(t *testing.T) {
	_, _, err := buildExam(1, ExamRequest{
		Subject:          "Biology",
		ClassLabel:       "10A",
		MarkingPrecision: grading.MarkingPrecision("tenth"),
		Questions:        []ExamQuestionRequest{{QuestionText: "Q1", MaxMarks: 5}},
	})
	if err == nil {
		t.Fatal("expected error for invalid precision")
	}
}

func TestBuildExamRejectsEmptyQuestions(t *testing.T) {
	_, _, err := buildExam(1, ExamRequest{Subject: "Biology", ClassLabel: "10A"})
	if err == nil {
		t.Fatal("expected error for empty question list")
	}
}
