package grading

import "fmt"

// ExtractionValidationError 模型返回的评阅结果不符合契约（无法解析、题号集合不对、分数越界等）。
// 触发后答题卡进入 failed 状态，原始载荷保留用于排查。
type ExtractionValidationError struct {
	Reason     string
	RawPayload string
}

func (e *ExtractionValidationError) Error() string {
	return "extraction validation failed: " + e.Reason
}

// ScoreRangeError 改分或机器分超出 [0, max_marks]，在提交点拒绝，不落库
type ScoreRangeError struct {
	QuestionNum int
	Score       float64
	MaxMarks    float64
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("score %.2f for question %d out of range [0, %.2f]", e.Score, e.QuestionNum, e.MaxMarks)
}

// RubricInconsistencyError 评分方案自身不一致（总分不等于各题之和、题号不连续）
type RubricInconsistencyError struct {
	Reason string
}

func (e *RubricInconsistencyError) Error() string {
	return "rubric inconsistency: " + e.Reason
}

// PartialWriteError 评阅明细与答题卡状态写入出现分歧，只上报不静默修复
type PartialWriteError struct {
	SheetID  string
	Expected int
	Actual   int
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write detected for sheet %s: expected %d evaluations, found %d", e.SheetID, e.Expected, e.Actual)
}

// ExternalCapabilityError 外部模型能力不可达或报错，原样透传给调用方决策
type ExternalCapabilityError struct {
	Capability string
	Err        error
}

func (e *ExternalCapabilityError) Error() string {
	return fmt.Sprintf("external capability %s: %v", e.Capability, e.Err)
}

func (e *ExternalCapabilityError) Unwrap() error {
	return e.Err
}

// InvalidTransitionError 不允许的状态迁移
type InvalidTransitionError struct {
	From SheetStatus
	To   SheetStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid sheet transition %s -> %s", e.From, e.To)
}
