package service

import (
	"errors"

	"smart_grade_backend/internal/grading"
	"smart_grade_backend/internal/model"
	"smart_grade_backend/internal/repository"
	"smart_grade_backend/internal/util"

	"gorm.io/gorm"
)

var ErrExamHasSubmissions = errors.New("exam already has submissions, marking scheme is frozen")

type ExamQuestionRequest struct {
	QuestionText string  `json:"questionText" binding:"required"`
	MaxMarks     float64 `json:"maxMarks"`
	RubricText   string  `json:"rubricText"`
	ModelAnswer  string  `json:"modelAnswer"`
}

type ExamRequest struct {
	Subject          string                   `json:"subject" binding:"required"`
	ClassLabel       string                   `json:"classLabel" binding:"required"`
	TotalMarks       float64                  `json:"totalMarks"`
	PassingMarks     float64                  `json:"passingMarks"`
	MarkingPrecision grading.MarkingPrecision `json:"markingPrecision"`
	Questions        []ExamQuestionRequest    `json:"questions" binding:"required"`
}

// ExamService 评分方案的创建与编辑。方案在任何提交出现之前可改，
// 之后题目集合冻结，只能另建考试。
type ExamService struct {
	ExamRepo *repository.ExamRepository
}

func NewExamService(examRepo *repository.ExamRepository) *ExamService {
	return &ExamService{ExamRepo: examRepo}
}

func (s *ExamService) Create(teacherID uint, req ExamRequest) (*model.Exam, error) {
	exam, questions, err := buildExam(teacherID, req)
	if err != nil {
		return nil, err
	}
	exam.Questions = questions
	if err := s.ExamRepo.Create(exam); err != nil {
		return nil, err
	}
	return s.ExamRepo.FindWithQuestions(exam.ID)
}

func (s *ExamService) Update(examID, teacherID uint, req ExamRequest) (*model.Exam, error) {
	existing, err := s.ExamRepo.FindByID(examID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	}
	if err != nil {
		return nil, err
	}

	count, err := s.ExamRepo.CountSheets(examID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrExamHasSubmissions
	}

	exam, questions, err := buildExam(teacherID, req)
	if err != nil {
		return nil, err
	}
	exam.ID = existing.ID
	exam.CreatedAt = existing.CreatedAt

	if err := s.ExamRepo.ReplaceQuestions(exam, questions); err != nil {
		return nil, err
	}
	return s.ExamRepo.FindWithQuestions(examID)
}

func (s *ExamService) Get(examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindWithQuestions(examID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	}
	return exam, err
}

func (s *ExamService) List(teacherID uint, page, limit int) ([]model.Exam, int64, error) {
	return s.ExamRepo.List(teacherID, page, limit)
}

func (s *ExamService) Delete(examID uint) error {
	count, err := s.ExamRepo.CountSheets(examID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrExamHasSubmissions
	}
	return s.ExamRepo.Delete(examID)
}

// buildExam 题号按请求顺序从1重排；总分缺省时按各题之和补齐，
// 显式给出时必须与各题之和一致
func buildExam(teacherID uint, req ExamRequest) (*model.Exam, []model.ExamQuestion, error) {
	precision := req.MarkingPrecision
	if precision == "" {
		precision = grading.PrecisionWhole
	}
	if !precision.Valid() {
		return nil, nil, &grading.RubricInconsistencyError{Reason: "invalid marking_precision " + string(precision)}
	}

	questions := make([]model.ExamQuestion, 0, len(req.Questions))
	var sum float64
	for i, q := range req.Questions {
		questions = append(questions, model.ExamQuestion{
			QuestionNum:  i + 1,
			QuestionText: q.QuestionText,
			MaxMarks:     q.MaxMarks,
			RubricText:   q.RubricText,
			ModelAnswer:  q.ModelAnswer,
		})
		sum += q.MaxMarks
	}

	totalMarks := req.TotalMarks
	if totalMarks == 0 {
		totalMarks = sum
	}

	if err := grading.ValidateRubric(model.QuestionSpecs(questions), totalMarks); err != nil {
		return nil, nil, err
	}

	return &model.Exam{
		Subject:          req.Subject,
		ClassLabel:       req.ClassLabel,
		TotalMarks:       totalMarks,
		PassingMarks:     req.PassingMarks,
		MarkingPrecision: precision,
		TeacherID:        teacherID,
	}, questions, nil
}
