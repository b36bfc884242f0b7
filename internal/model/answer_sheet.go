package model

import (
	"encoding/json"
	"time"

	"smart_grade_backend/internal/grading"
)

// AnswerSheet 一名学生在一场考试下的提交。状态只由评阅流水线迁移，
// 审阅方改分走 QuestionEvaluation，不直接写 status。
// swagger:model AnswerSheet
type AnswerSheet struct {
	UUIDBase
	ExamID    uint   `gorm:"index;not null" json:"examId"`
	StudentID uint   `gorm:"index;not null" json:"studentId"`
	ImageRef  string `gorm:"size:512;not null" json:"imageRef"`

	Status     grading.SheetStatus `gorm:"type:enum('processing','graded','approved','failed');default:'processing';index" json:"status"`
	TotalScore *float64            `json:"totalScore"`
	Confidence *float64            `json:"confidence"`

	// RawModelOutput 模型原始返回，校验失败时保留用于排查
	RawModelOutput  json.RawMessage `gorm:"type:json" json:"rawModelOutput,omitempty"`
	OverallFeedback string          `gorm:"type:text" json:"overallFeedback"`
	FailureReason   string          `gorm:"type:text" json:"failureReason,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt"`

	Exam        *Exam                `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
	Student     *Student             `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Evaluations []QuestionEvaluation `gorm:"foreignKey:SheetID" json:"evaluations,omitempty"`
}

func (AnswerSheet) TableName() string {
	return "answer_sheets"
}

// QuestionEvaluation 一张答题卡中单题的评阅记录。整批创建，重新评阅时整批替换
// swagger:model QuestionEvaluation
type QuestionEvaluation struct {
	BaseModel
	SheetID     string `gorm:"index:idx_sheet_question,unique;type:varchar(36);not null" json:"sheetId"`
	QuestionNum int    `gorm:"index:idx_sheet_question,unique;not null" json:"questionNum"`

	ExtractedText string   `gorm:"type:text" json:"extractedText"`
	AIScore       float64  `gorm:"not null" json:"aiScore"`
	FinalScore    float64  `gorm:"not null" json:"finalScore"`
	TeacherScore  *float64 `json:"teacherScore"`
	Confidence    float64  `gorm:"not null" json:"confidence"`
	Reasoning     string   `gorm:"type:text" json:"reasoning"`

	Strengths json.RawMessage `gorm:"type:json" json:"strengths,omitempty"`
	Gaps      json.RawMessage `gorm:"type:json" json:"gaps,omitempty"`

	// NeedsReview 派生字段，读取时按置信度阈值计算
	NeedsReview bool `gorm:"-" json:"needsReview"`
}

func (QuestionEvaluation) TableName() string {
	return "question_evaluations"
}

// ScoreValue 以带标签值的形式还原该题分数
func (e *QuestionEvaluation) ScoreValue() grading.Score {
	s := grading.AIScore(e.AIScore)
	if e.TeacherScore != nil {
		s = s.Overridden(*e.TeacherScore)
	}
	return s
}
