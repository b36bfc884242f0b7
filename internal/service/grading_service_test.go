package service

import (
	"errors"
	"testing"

	"smart_grade_backend/internal/grading"
	"smart_grade_backend/internal/model"
)

func sampleExam() *model.Exam {
	return &model.Exam{
		Subject:          "Biology",
		ClassLabel:       "10A",
		TotalMarks:       20,
		MarkingPrecision: grading.PrecisionHalf,
		Questions: []model.ExamQuestion{
			{QuestionNum: 1, QuestionText: "Q1", MaxMarks: 5},
			{QuestionNum: 2, QuestionText: "Q2", MaxMarks: 5},
			{QuestionNum: 3, QuestionText: "Q3", MaxMarks: 10},
		},
	}
}

func TestBuildEvaluationRows(t *testing.T) {
	payload := &grading.EvaluationPayload{
		OCRExtractions: []grading.OCRExtraction{
			{QuestionNum: 1, ExtractedText: "answer one", Confidence: 0.9},
		},
		Evaluations: []grading.QuestionResult{
			{QuestionNum: 1, Score: 4.3, MaxMarks: 5, Confidence: 0.9, Reasoning: "ok", Strengths: []string{"s"}, Gaps: []string{"g"}},
			{QuestionNum: 2, Score: 5, MaxMarks: 5, Confidence: 0.6, Reasoning: "full"},
		},
	}
	result := &grading.ValidationResult{Payload: payload}

	rows := buildEvaluationRows("sheet-1", result, grading.PrecisionHalf)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}

	// final=ai，机器分落到精度栅格，无教师改分
	if rows[0].AIScore != 4.5 || rows[0].FinalScore != 4.5 {
		t.Errorf("row 0 scores: ai=%v final=%v", rows[0].AIScore, rows[0].FinalScore)
	}
	if rows[0].TeacherScore != nil {
		t.Error("fresh row must not carry a teacher score")
	}
	if rows[0].ExtractedText != "answer one" {
		t.Errorf("row 0 text = %q", rows[0].ExtractedText)
	}
	// 缺失的OCR条目落为空串
	if rows[1].ExtractedText != "" {
		t.Errorf("row 1 text = %q", rows[1].ExtractedText)
	}
	if rows[1].SheetID != "sheet-1" || rows[1].QuestionNum != 2 {
		t.Errorf("row 1 keys: %+v", rows[1])
	}
}

func TestRebuildScoreSet(t *testing.T) {
	exam := sampleExam()
	teacherScore := 8.0
	evals := []model.QuestionEvaluation{
		{QuestionNum: 1, AIScore: 4.5, FinalScore: 4.5},
		{QuestionNum: 2, AIScore: 5, FinalScore: 5},
		{QuestionNum: 3, AIScore: 7, FinalScore: 8, TeacherScore: &teacherScore},
	}

	ss := rebuildScoreSet(exam, evals)
	if got := ss.Total(); got != 17.5 {
		t.Errorf("total = %v, want 17.5", got)
	}

	s, ok := ss.Get(3)
	if !ok || !s.IsOverridden() || s.Final() != 8 || s.AI() != 7 {
		t.Errorf("question 3 score rebuilt wrong: %+v", s)
	}
	s, _ = ss.Get(1)
	if s.IsOverridden() {
		t.Error("question 1 must stay a plain AI score")
	}
}

func TestReviewGuard(t *testing.T) {
	if err := reviewGuard(&model.AnswerSheet{Status: grading.StatusGraded}); err != nil {
		t.Fatalf("graded sheet must be editable: %v", err)
	}

	for _, status := range []grading.SheetStatus{
		grading.StatusProcessing,
		grading.StatusApproved,
		grading.StatusFailed,
	} {
		err := reviewGuard(&model.AnswerSheet{Status: status})
		var transitionErr *grading.InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Errorf("status %s: want InvalidTransitionError, got %v", status, err)
		}
	}
}

func TestQuestionEvaluationScoreValue(t *testing.T) {
	ev := model.QuestionEvaluation{AIScore: 4}
	if s := ev.ScoreValue(); s.Final() != 4 || s.IsOverridden() {
		t.Errorf("plain row: %+v", s)
	}

	teacherScore := 2.5
	ev.TeacherScore = &teacherScore
	if s := ev.ScoreValue(); s.Final() != 2.5 || !s.IsOverridden() || s.AI() != 4 {
		t.Errorf("overridden row: %+v", s)
	}
}
