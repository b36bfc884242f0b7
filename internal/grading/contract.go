package grading

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// QuestionSpec 契约校验所需的最小题目信息
type QuestionSpec struct {
	Num      int
	MaxMarks float64
}

// OCRExtraction 单题的手写文本识别结果
type OCRExtraction struct {
	QuestionNum   int     `json:"question_num"`
	ExtractedText string  `json:"extracted_text"`
	Confidence    float64 `json:"confidence"`
}

// QuestionResult 单题的机器评阅结果
type QuestionResult struct {
	QuestionNum int      `json:"question_num"`
	Score       float64  `json:"score"`
	MaxMarks    float64  `json:"max_marks"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	Strengths   []string `json:"strengths"`
	Gaps        []string `json:"gaps"`
}

// EvaluationPayload Extractor-Scorer 必须返回的结构
type EvaluationPayload struct {
	OCRExtractions  []OCRExtraction  `json:"ocr_extractions"`
	Evaluations     []QuestionResult `json:"evaluations"`
	OverallFeedback string           `json:"overall_feedback"`
	TotalScore      float64          `json:"total_score"`
	Confidence      float64          `json:"confidence"`
}

// ExtractionFor 按题号取OCR文本，模型漏报时返回空串
func (p *EvaluationPayload) ExtractionFor(questionNum int) (string, float64) {
	for _, e := range p.OCRExtractions {
		if e.QuestionNum == questionNum {
			return e.ExtractedText, e.Confidence
		}
	}
	return "", 0
}

// ValidationResult 校验通过后的结论。RecomputedTotal 以逐题分数重算为准，
// 模型自报的 total_score 只作展示，分歧记录在 TotalMismatch 上，不阻塞落库。
type ValidationResult struct {
	Payload         *EvaluationPayload
	RecomputedTotal float64
	TotalMismatch   bool
}

// ParsePayload 解析模型输出。容忍markdown代码围栏，其余一律按契约失败处理
func ParsePayload(raw string) (*EvaluationPayload, error) {
	text := StripCodeFences(raw)
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionValidationError{Reason: "empty model output", RawPayload: raw}
	}

	var payload EvaluationPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, &ExtractionValidationError{
			Reason:     fmt.Sprintf("output is not valid JSON: %v", err),
			RawPayload: raw,
		}
	}
	return &payload, nil
}

// StripCodeFences 去掉 ```json ... ``` 包装，模型经常带着围栏返回
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// 第一行可能是语言标记，如 "json"
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, "{}[]") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ValidatePayload 契约校验：题号集合必须与评分方案一一对应，分数必须在
// [0, max_marks] 内，响应里的 max_marks 必须与评分方案一致（不做静默纠正）。
func ValidatePayload(payload *EvaluationPayload, questions []QuestionSpec, precision MarkingPrecision) (*ValidationResult, error) {
	if payload == nil {
		return nil, &ExtractionValidationError{Reason: "nil payload"}
	}

	specByNum := make(map[int]QuestionSpec, len(questions))
	for _, q := range questions {
		specByNum[q.Num] = q
	}

	seen := make(map[int]bool, len(payload.Evaluations))
	for _, ev := range payload.Evaluations {
		spec, ok := specByNum[ev.QuestionNum]
		if !ok {
			return nil, &ExtractionValidationError{
				Reason: fmt.Sprintf("evaluation for unknown question_num %d", ev.QuestionNum),
			}
		}
		if seen[ev.QuestionNum] {
			return nil, &ExtractionValidationError{
				Reason: fmt.Sprintf("duplicate evaluation for question_num %d", ev.QuestionNum),
			}
		}
		seen[ev.QuestionNum] = true

		if ev.MaxMarks != spec.MaxMarks {
			return nil, &ExtractionValidationError{
				Reason: fmt.Sprintf("question %d: response max_marks %.2f does not match rubric %.2f",
					ev.QuestionNum, ev.MaxMarks, spec.MaxMarks),
			}
		}
		if ev.Score < 0 || ev.Score > spec.MaxMarks {
			return nil, &ExtractionValidationError{
				Reason: fmt.Sprintf("question %d: score %.2f outside [0, %.2f]", ev.QuestionNum, ev.Score, spec.MaxMarks),
			}
		}
		if ev.Confidence < 0 || ev.Confidence > 1 {
			return nil, &ExtractionValidationError{
				Reason: fmt.Sprintf("question %d: confidence %.2f outside [0, 1]", ev.QuestionNum, ev.Confidence),
			}
		}
	}

	if len(seen) != len(questions) {
		missing := make([]int, 0)
		for _, q := range questions {
			if !seen[q.Num] {
				missing = append(missing, q.Num)
			}
		}
		sort.Ints(missing)
		return nil, &ExtractionValidationError{
			Reason: fmt.Sprintf("evaluations missing question_num(s) %v", missing),
		}
	}

	var total float64
	for _, ev := range payload.Evaluations {
		total += RoundToPrecision(ev.Score, precision)
	}
	total = RoundToPrecision(total, precision)

	return &ValidationResult{
		Payload:         payload,
		RecomputedTotal: total,
		TotalMismatch:   math.Abs(total-payload.TotalScore) > 1e-9,
	}, nil
}
