package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"smart_grade_backend/internal/grading"
)

const (
	GenerationModeComplete = "complete"
	GenerationModeGenerate = "generate"
)

// Drafter 外部出题能力
type Drafter interface {
	DraftQuestions(ctx context.Context, input, mode, subjectContext string) (string, error)
}

// QuestionDraft 出题助手产出的单题草稿，与手工录入的题目走同一套校验
type QuestionDraft struct {
	QuestionNum  int     `json:"question_num"`
	QuestionText string  `json:"question_text"`
	MaxMarks     float64 `json:"max_marks"`
	RubricText   string  `json:"rubric_text"`
	ModelAnswer  string  `json:"model_answer"`
}

type draftPayload struct {
	Questions []QuestionDraft `json:"questions"`
}

// GenerationService 出题助手流水线。约束比评阅松，但解析与校验纪律一致：
// 校验失败整体报错，不返回半成品。
type GenerationService struct {
	Drafter Drafter
}

func NewGenerationService(drafter Drafter) *GenerationService {
	return &GenerationService{Drafter: drafter}
}

// Draft 根据输入文本或主题产出题目草稿。mode 必须是 complete 或 generate。
// complete 模式下 existing 是教师已录入的题目清单，既随输入发给模型，
// 也在返回前与草稿合并，教师已填字段不受模型输出影响
func (s *GenerationService) Draft(ctx context.Context, input, mode, subjectContext string, existing []QuestionDraft) ([]QuestionDraft, error) {
	if mode != GenerationModeComplete && mode != GenerationModeGenerate {
		return nil, fmt.Errorf("unknown generation mode %q", mode)
	}
	if mode == GenerationModeComplete && len(existing) > 0 {
		encoded, err := json.Marshal(draftPayload{Questions: existing})
		if err != nil {
			return nil, err
		}
		input = strings.TrimSpace(input + "\n" + string(encoded))
	}
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("generation input is empty")
	}

	raw, err := s.Drafter.DraftQuestions(ctx, input, mode, subjectContext)
	if err != nil {
		return nil, err
	}

	drafts, err := ParseDraft(raw)
	if err != nil {
		return nil, err
	}
	if mode == GenerationModeComplete && len(existing) > 0 {
		drafts = MergeDraft(existing, drafts)
	}
	return drafts, nil
}

// ParseDraft 解析并校验草稿输出，失败时调用方的草稿保持原样
func ParseDraft(raw string) ([]QuestionDraft, error) {
	text := grading.StripCodeFences(raw)

	var payload draftPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("draft output is not valid JSON: %w", err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("draft output contains no questions")
	}

	for i := range payload.Questions {
		q := &payload.Questions[i]
		if strings.TrimSpace(q.QuestionText) == "" {
			return nil, fmt.Errorf("draft question %d has empty question_text", i+1)
		}
		if q.MaxMarks < 0 {
			return nil, fmt.Errorf("draft question %d has negative max_marks", i+1)
		}
		// 题号以顺序为准重排，保证连续
		q.QuestionNum = i + 1
	}

	return payload.Questions, nil
}

// MergeDraft complete 模式的合并规则：教师已填的 question_text 和 max_marks
// 一律保留，草稿只补空缺字段。多出的草稿题追加在后面。
func MergeDraft(existing, draft []QuestionDraft) []QuestionDraft {
	merged := make([]QuestionDraft, 0, len(draft))

	for i, d := range draft {
		if i < len(existing) {
			e := existing[i]
			if strings.TrimSpace(e.QuestionText) != "" {
				d.QuestionText = e.QuestionText
			}
			if e.MaxMarks > 0 {
				d.MaxMarks = e.MaxMarks
			}
			if strings.TrimSpace(e.RubricText) != "" {
				d.RubricText = e.RubricText
			}
			if strings.TrimSpace(e.ModelAnswer) != "" {
				d.ModelAnswer = e.ModelAnswer
			}
		}
		d.QuestionNum = i + 1
		merged = append(merged, d)
	}

	return merged
}
