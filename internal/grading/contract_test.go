package grading

import (
	"errors"
	"strings"
	"testing"
)

var threeQuestions = []QuestionSpec{
	{Num: 1, MaxMarks: 5},
	{Num: 2, MaxMarks: 5},
	{Num: 3, MaxMarks: 10},
}

func validPayload() *EvaluationPayload {
	return &EvaluationPayload{
		OCRExtractions: []OCRExtraction{
			{QuestionNum: 1, ExtractedText: "Photosynthesis converts light to energy", Confidence: 0.95},
			{QuestionNum: 2, ExtractedText: "Mitochondria", Confidence: 0.9},
			{QuestionNum: 3, ExtractedText: "The water cycle has four stages", Confidence: 0.8},
		},
		Evaluations: []QuestionResult{
			{QuestionNum: 1, Score: 4.5, MaxMarks: 5, Confidence: 0.92, Reasoning: "mostly correct"},
			{QuestionNum: 2, Score: 5, MaxMarks: 5, Confidence: 0.97, Reasoning: "correct"},
			{QuestionNum: 3, Score: 7, MaxMarks: 10, Confidence: 0.85, Reasoning: "missing condensation"},
		},
		OverallFeedback: "good work",
		TotalScore:      16.5,
		Confidence:      0.9,
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  ```json\n{\"a\":1}\n```  ", "{\"a\":1}"},
	}
	for _, c := range cases {
		if got := StripCodeFences(c.in); got != c.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParsePayloadFenced(t *testing.T) {
	raw := "```json\n{\"evaluations\":[{\"question_num\":1,\"score\":3,\"max_marks\":5,\"confidence\":0.8}],\"total_score\":3,\"confidence\":0.8}\n```"
	payload, err := ParsePayload(raw)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if len(payload.Evaluations) != 1 || payload.Evaluations[0].Score != 3 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestParsePayloadRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "I am sorry, I cannot grade this.", "```json\nnot json\n```"} {
		_, err := ParsePayload(raw)
		if err == nil {
			t.Fatalf("ParsePayload(%q) should fail", raw)
		}
		var vErr *ExtractionValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ExtractionValidationError, got %T", err)
		}
	}
}

func TestParsePayloadKeepsRawOnFailure(t *testing.T) {
	raw := "total nonsense"
	_, err := ParsePayload(raw)
	var vErr *ExtractionValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ExtractionValidationError, got %v", err)
	}
	if vErr.RawPayload != raw {
		t.Errorf("raw payload not preserved: %q", vErr.RawPayload)
	}
}

func TestValidatePayloadAccepts(t *testing.T) {
	result, err := ValidatePayload(validPayload(), threeQuestions, PrecisionHalf)
	if err != nil {
		t.Fatalf("ValidatePayload: %v", err)
	}
	if result.RecomputedTotal != 16.5 {
		t.Errorf("recomputed total = %v, want 16.5", result.RecomputedTotal)
	}
	if result.TotalMismatch {
		t.Error("totals agree, mismatch flag should be false")
	}
}

func TestValidatePayloadRecomputesTotal(t *testing.T) {
	// 模型自报总分与逐题之和不一致：以重算为准，只打标记不报错
	p := validPayload()
	p.TotalScore = 20
	result, err := ValidatePayload(p, threeQuestions, PrecisionHalf)
	if err != nil {
		t.Fatalf("ValidatePayload: %v", err)
	}
	if result.RecomputedTotal != 16.5 {
		t.Errorf("recomputed total = %v, want 16.5", result.RecomputedTotal)
	}
	if !result.TotalMismatch {
		t.Error("expected mismatch flag for divergent self-reported total")
	}
}

func TestValidatePayloadRoundsPerQuestionBeforeSumming(t *testing.T) {
	p := &EvaluationPayload{
		Evaluations: []QuestionResult{
			{QuestionNum: 1, Score: 4.24, MaxMarks: 5, Confidence: 0.9},
			{QuestionNum: 2, Score: 4.24, MaxMarks: 5, Confidence: 0.9},
			{QuestionNum: 3, Score: 0, MaxMarks: 10, Confidence: 0.9},
		},
	}
	// 逐题先落栅格：4.24 -> 4.0（half），合计 8.0，而不是 8.48 -> 8.5
	result, err := ValidatePayload(p, threeQuestions, PrecisionHalf)
	if err != nil {
		t.Fatalf("ValidatePayload: %v", err)
	}
	if result.RecomputedTotal != 8 {
		t.Errorf("recomputed total = %v, want 8", result.RecomputedTotal)
	}
}

func TestValidatePayloadMissingQuestion(t *testing.T) {
	p := validPayload()
	p.Evaluations = p.Evaluations[:2]
	_, err := ValidatePayload(p, threeQuestions, PrecisionHalf)
	if err == nil {
		t.Fatal("expected error for missing question")
	}
	if !strings.Contains(err.Error(), "missing question_num(s) [3]") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidatePayloadUnknownQuestion(t *testing.T) {
	p := validPayload()
	p.Evaluations = append(p.Evaluations, QuestionResult{QuestionNum: 9, Score: 1, MaxMarks: 5, Confidence: 0.5})
	if _, err := ValidatePayload(p, threeQuestions, PrecisionHalf); err == nil {
		t.Fatal("expected error for unknown question_num")
	}
}

func TestValidatePayloadDuplicateQuestion(t *testing.T) {
	p := validPayload()
	p.Evaluations = append(p.Evaluations, p.Evaluations[0])
	if _, err := ValidatePayload(p, threeQuestions, PrecisionHalf); err == nil {
		t.Fatal("expected error for duplicate question_num")
	}
}

func TestValidatePayloadMaxMarksMismatch(t *testing.T) {
	// 模型擅自改 max_marks 必须整体拒绝，不静默纠正
	p := validPayload()
	p.Evaluations[1].MaxMarks = 6
	if _, err := ValidatePayload(p, threeQuestions, PrecisionHalf); err == nil {
		t.Fatal("expected error for max_marks mismatch")
	}
}

func TestValidatePayloadScoreOutOfRange(t *testing.T) {
	p := validPayload()
	p.Evaluations[0].Score = 5.5
	if _, err := ValidatePayload(p, threeQuestions, PrecisionHalf); err == nil {
		t.Fatal("expected error for score above max_marks")
	}

	p = validPayload()
	p.Evaluations[0].Score = -1
	if _, err := ValidatePayload(p, threeQuestions, PrecisionHalf); err == nil {
		t.Fatal("expected error for negative score")
	}
}

func TestValidatePayloadConfidenceOutOfRange(t *testing.T) {
	p := validPayload()
	p.Evaluations[0].Confidence = 1.2
	if _, err := ValidatePayload(p, threeQuestions, PrecisionHalf); err == nil {
		t.Fatal("expected error for confidence above 1")
	}
}

func TestExtractionFor(t *testing.T) {
	p := validPayload()
	text, conf := p.ExtractionFor(2)
	if text != "Mitochondria" || conf != 0.9 {
		t.Errorf("ExtractionFor(2) = %q, %v", text, conf)
	}
	text, conf = p.ExtractionFor(42)
	if text != "" || conf != 0 {
		t.Errorf("ExtractionFor(42) should be empty, got %q, %v", text, conf)
	}
}
