package model

import (
	"smart_grade_backend/internal/grading"
)

// swagger:model Exam
type Exam struct {
	BaseModel
	Subject          string                   `gorm:"size:100;not null" json:"subject"`
	ClassLabel       string                   `gorm:"size:50;not null" json:"classLabel"`
	TotalMarks       float64                  `gorm:"not null" json:"totalMarks"`
	PassingMarks     float64                  `gorm:"default:0" json:"passingMarks"`
	MarkingPrecision grading.MarkingPrecision `gorm:"type:enum('whole','half','quarter');default:'whole'" json:"markingPrecision"`
	TeacherID        uint                     `gorm:"index;type:bigint unsigned" json:"teacherId"`

	Questions []ExamQuestion `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamQuestion 评分方案中的一道题。题号在同一场考试内从1连续编号，
// 删除/插入后由服务层统一重排。
// swagger:model ExamQuestion
type ExamQuestion struct {
	BaseModel
	ExamID       uint    `gorm:"index;not null" json:"examId"`
	QuestionNum  int     `gorm:"not null" json:"questionNum"`
	QuestionText string  `gorm:"type:text;not null" json:"questionText"`
	MaxMarks     float64 `gorm:"not null" json:"maxMarks"`
	RubricText   string  `gorm:"type:text" json:"rubricText"`
	ModelAnswer  string  `gorm:"type:text" json:"modelAnswer"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// QuestionSpecs 转成契约校验所需的精简形式
func QuestionSpecs(questions []ExamQuestion) []grading.QuestionSpec {
	specs := make([]grading.QuestionSpec, 0, len(questions))
	for _, q := range questions {
		specs = append(specs, grading.QuestionSpec{Num: q.QuestionNum, MaxMarks: q.MaxMarks})
	}
	return specs
}
