package service

import (
	"strings"
	"testing"
)

func TestBuildGradingPromptCarriesScheme(t *testing.T) {
	exam := sampleExam()
	prompt, err := buildGradingPrompt(exam)
	if err != nil {
		t.Fatalf("buildGradingPrompt: %v", err)
	}

	for _, want := range []string{
		"Biology",
		"Class 10A",
		"Total Questions: 3",
		"half",
		"20.00",
		"ocr_extractions",
		"evaluations",
		"overall_feedback",
		"total_score",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDraftSystemPromptModes(t *testing.T) {
	complete := draftSystemPrompt(GenerationModeComplete)
	if !strings.Contains(complete, "keep the questions exactly") {
		t.Error("complete mode must instruct keeping teacher questions")
	}

	generate := draftSystemPrompt(GenerationModeGenerate)
	if !strings.Contains(generate, "topic or raw text") {
		t.Error("generate mode must describe topic handling")
	}

	if complete == generate {
		t.Error("modes must produce distinct prompts")
	}
}
