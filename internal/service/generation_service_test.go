package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeDrafter struct {
	output    string
	err       error
	calls     int
	lastInput string
}

func (f *fakeDrafter) DraftQuestions(ctx context.Context, input, mode, subjectContext string) (string, error) {
	f.calls++
	f.lastInput = input
	return f.output, f.err
}

func TestDraftCompleteMode(t *testing.T) {
	drafter := &fakeDrafter{output: "```json\n" +
		`{"questions":[
			{"question_num":1,"question_text":"Define photosynthesis","max_marks":5,"rubric_text":"2 marks definition, 3 marks equation","model_answer":"..."},
			{"question_num":2,"question_text":"Explain the water cycle","max_marks":10,"rubric_text":"per stage","model_answer":"..."}
		]}` + "\n```"}

	svc := NewGenerationService(drafter)
	drafts, err := svc.Draft(context.Background(), "1. Define photosynthesis\n2. Explain the water cycle", GenerationModeComplete, "Biology", nil)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if drafter.calls != 1 {
		t.Errorf("drafter called %d times", drafter.calls)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts", len(drafts))
	}
	if drafts[0].QuestionNum != 1 || drafts[1].QuestionNum != 2 {
		t.Errorf("question numbers not contiguous: %+v", drafts)
	}
	if drafts[1].MaxMarks != 10 {
		t.Errorf("max_marks = %v", drafts[1].MaxMarks)
	}
}

func TestDraftCompleteModeKeepsExistingQuestions(t *testing.T) {
	drafter := &fakeDrafter{output: `{"questions":[
		{"question_num":1,"question_text":"Define photosynthesis (model rewrite)","max_marks":3,"rubric_text":"r1","model_answer":"a1"},
		{"question_num":2,"question_text":"Explain osmosis","max_marks":5,"rubric_text":"r2","model_answer":"a2"}
	]}`}
	existing := []QuestionDraft{
		{QuestionNum: 1, QuestionText: "Define photosynthesis (teacher wording)", MaxMarks: 6},
		{QuestionNum: 2},
	}

	svc := NewGenerationService(drafter)
	drafts, err := svc.Draft(context.Background(), "", GenerationModeComplete, "Biology", existing)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}

	// 已录入的题目随输入发给模型
	if !strings.Contains(drafter.lastInput, "teacher wording") {
		t.Errorf("existing questions not sent to drafter: %q", drafter.lastInput)
	}

	// 教师已填字段不被模型输出覆盖，空缺由草稿补齐
	if drafts[0].QuestionText != "Define photosynthesis (teacher wording)" {
		t.Errorf("teacher question_text overwritten: %q", drafts[0].QuestionText)
	}
	if drafts[0].MaxMarks != 6 {
		t.Errorf("teacher max_marks overwritten: %v", drafts[0].MaxMarks)
	}
	if drafts[0].RubricText != "r1" {
		t.Errorf("draft should fill missing rubric: %+v", drafts[0])
	}
	if drafts[1].QuestionText != "Explain osmosis" || drafts[1].MaxMarks != 5 {
		t.Errorf("empty teacher slot should take draft: %+v", drafts[1])
	}
}

func TestDraftRejectsUnknownMode(t *testing.T) {
	svc := NewGenerationService(&fakeDrafter{})
	if _, err := svc.Draft(context.Background(), "some input", "remix", "", nil); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestDraftRejectsEmptyInput(t *testing.T) {
	svc := NewGenerationService(&fakeDrafter{})
	if _, err := svc.Draft(context.Background(), "   ", GenerationModeGenerate, "", nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestDraftPropagatesDrafterError(t *testing.T) {
	want := errors.New("model gateway down")
	svc := NewGenerationService(&fakeDrafter{err: want})
	_, err := svc.Draft(context.Background(), "topic: optics", GenerationModeGenerate, "Physics", nil)
	if !errors.Is(err, want) {
		t.Fatalf("expected drafter error, got %v", err)
	}
}

func TestParseDraftRejectsMalformed(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"questions":[]}`,
		`{"questions":[{"question_text":"","max_marks":5}]}`,
		`{"questions":[{"question_text":"ok","max_marks":-2}]}`,
	}
	for _, raw := range cases {
		if _, err := ParseDraft(raw); err == nil {
			t.Fatalf("ParseDraft(%q) should fail", raw)
		}
	}
}

func TestParseDraftRenumbers(t *testing.T) {
	raw := `{"questions":[
		{"question_num":7,"question_text":"A","max_marks":5},
		{"question_num":7,"question_text":"B","max_marks":5}
	]}`
	drafts, err := ParseDraft(raw)
	if err != nil {
		t.Fatalf("ParseDraft: %v", err)
	}
	if drafts[0].QuestionNum != 1 || drafts[1].QuestionNum != 2 {
		t.Errorf("renumbering failed: %+v", drafts)
	}
}

func TestMergeDraftPreservesTeacherInput(t *testing.T) {
	existing := []QuestionDraft{
		{QuestionNum: 1, QuestionText: "Define photosynthesis (teacher wording)", MaxMarks: 6},
		{QuestionNum: 2, QuestionText: ""},
	}
	draft := []QuestionDraft{
		{QuestionNum: 1, QuestionText: "Define photosynthesis", MaxMarks: 5, RubricText: "r1", ModelAnswer: "a1"},
		{QuestionNum: 2, QuestionText: "Explain osmosis", MaxMarks: 5, RubricText: "r2", ModelAnswer: "a2"},
		{QuestionNum: 3, QuestionText: "Extra question", MaxMarks: 4, RubricText: "r3", ModelAnswer: "a3"},
	}

	merged := MergeDraft(existing, draft)
	if len(merged) != 3 {
		t.Fatalf("got %d merged questions", len(merged))
	}

	// 教师已填字段保留，草稿补空缺
	if merged[0].QuestionText != "Define photosynthesis (teacher wording)" {
		t.Errorf("teacher question_text overwritten: %q", merged[0].QuestionText)
	}
	if merged[0].MaxMarks != 6 {
		t.Errorf("teacher max_marks overwritten: %v", merged[0].MaxMarks)
	}
	if merged[0].RubricText != "r1" || merged[0].ModelAnswer != "a1" {
		t.Errorf("draft should fill missing rubric/answer: %+v", merged[0])
	}

	// 教师留空的题整体采用草稿
	if merged[1].QuestionText != "Explain osmosis" || merged[1].MaxMarks != 5 {
		t.Errorf("empty teacher slot should take draft: %+v", merged[1])
	}

	// 多出的草稿题追加并重新编号
	if merged[2].QuestionText != "Extra question" || merged[2].QuestionNum != 3 {
		t.Errorf("extra draft question mishandled: %+v", merged[2])
	}
}
