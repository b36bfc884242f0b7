package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"smart_grade_backend/internal/config"
	"smart_grade_backend/internal/grading"
	"smart_grade_backend/internal/model"
)

// AIService OpenAI兼容的对话补全客户端，承担两种外部能力：
// 答题卡评阅（Extractor-Scorer，带图输入）和出题助手（Drafter）。
// 单次请求/响应，本服务不消费流式结果。
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	httpc  *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		// 视觉评阅耗时长，超时放宽
		httpc: &http.Client{Timeout: 180 * time.Second},
	}
}

// UpdateConfig 配置热更新回调入口
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

func (s *AIService) snapshot() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

type aiContentPart struct {
	Type     string      `json:"type"`
	Text     string      `json:"text,omitempty"`
	ImageURL *aiImageURL `json:"image_url,omitempty"`
}

type aiImageURL struct {
	URL string `json:"url"`
}

type aiMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// EvaluateSheet 调用模型评阅一张答题卡，返回原始文本。解析与契约校验由调用方负责。
// 每次 submit 至多调用一次，失败不在这里重试。
func (s *AIService) EvaluateSheet(ctx context.Context, imageRef string, exam *model.Exam) (string, error) {
	prompt, err := buildGradingPrompt(exam)
	if err != nil {
		return "", err
	}

	messages := []aiMessage{
		{
			Role: "user",
			Content: []aiContentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &aiImageURL{URL: imageRef}},
			},
		},
	}

	return s.complete(ctx, messages)
}

// DraftQuestions 出题助手。mode 为 complete 或 generate，返回原始文本
func (s *AIService) DraftQuestions(ctx context.Context, input, mode, subjectContext string) (string, error) {
	system := draftSystemPrompt(mode)
	user := fmt.Sprintf("Context/Subject: %s\n\nUser Input:\n%s", orDefault(subjectContext, "General"), input)

	messages := []aiMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	return s.complete(ctx, messages)
}

func (s *AIService) complete(ctx context.Context, messages []aiMessage) (string, error) {
	cfg := s.snapshot()
	if cfg.APIKey == "" {
		return "", &grading.ExternalCapabilityError{Capability: "ai", Err: fmt.Errorf("AI api_key is empty")}
	}

	reqBody := map[string]interface{}{
		"model":    cfg.Model,
		"messages": messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", &grading.ExternalCapabilityError{Capability: "ai", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &grading.ExternalCapabilityError{
			Capability: "ai",
			Err:        fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &grading.ExternalCapabilityError{Capability: "ai", Err: err}
	}
	if result.Error != nil {
		return "", &grading.ExternalCapabilityError{Capability: "ai", Err: fmt.Errorf("AI API error: %s", result.Error.Message)}
	}
	if len(result.Choices) == 0 {
		return "", &grading.ExternalCapabilityError{Capability: "ai", Err: fmt.Errorf("AI returned no choices")}
	}

	return result.Choices[0].Message.Content, nil
}

// buildGradingPrompt 把评分方案拼进评阅提示词，输出契约与校验端保持一致
func buildGradingPrompt(exam *model.Exam) (string, error) {
	scheme, err := json.MarshalIndent(exam.Questions, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are an expert educational evaluator for %s at Class %s.

## YOUR TASK
Analyze the attached handwritten answer sheet image and:
1. Extract all student answers (OCR from handwriting)
2. Match each answer to the corresponding question
3. Grade each answer against the rubric
4. Provide detailed, personalized feedback

## EXAM DETAILS
- Subject: %s
- Total Questions: %d
- Marking Precision: %s
- Total Marks: %.2f

## MARKING SCHEME & RUBRIC
%s

## GRADING GUIDELINES
- **Understand Intent**: Focus on what the student is trying to convey, not exact wording
- **Partial Credit**: Award marks for partial understanding
- **Marking Precision**: Apply %s rounding
- **Max Marks**: Echo each question's max_marks exactly as given in the marking scheme

## OUTPUT FORMAT (JSON)
Return ONLY valid JSON in this exact structure:

{
  "ocr_extractions": [
    {
      "question_num": 1,
      "extracted_text": "...",
      "confidence": 0.95
    }
  ],
  "evaluations": [
    {
      "question_num": 1,
      "score": 4.5,
      "max_marks": 5,
      "confidence": 0.92,
      "reasoning": "...",
      "strengths": ["..."],
      "gaps": ["..."]
    }
  ],
  "overall_feedback": "...",
  "total_score": 42.5,
  "confidence": 0.9
}`,
		exam.Subject, exam.ClassLabel,
		exam.Subject, len(exam.Questions), exam.MarkingPrecision, exam.TotalMarks,
		string(scheme), exam.MarkingPrecision), nil
}

func draftSystemPrompt(mode string) string {
	system := `You are an expert teacher and exam creator.
Your task is to generate a structured exam based on the user's input.

For each question, you MUST provide:
1. The question text
2. Maximum marks (appropriate for the complexity)
3. A detailed rubric (how to award marks)
4. A model answer (the ideal response)

Return ONLY valid JSON: {"questions": [{"question_num": 1, "question_text": "...", "max_marks": 5, "rubric_text": "...", "model_answer": "..."}]}`

	switch mode {
	case GenerationModeComplete:
		system += `

The user has provided a list of questions but no answers or rubrics.
You must keep the questions exactly as they are (or slightly correct grammar) and generate the missing rubrics, marks, and model answers.`
	case GenerationModeGenerate:
		system += `

The user has provided a topic or raw text.
You must extract or generate questions from this content.
If it's a topic, create diverse questions (definitions, explanations, diagrams).
If it's raw text (like a pasted exam paper), parse it into the structure.`
	}
	return system
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
