package repository

import (
	"smart_grade_backend/internal/model"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func (r *EvaluationRepository) ListBySheet(sheetID string) ([]model.QuestionEvaluation, error) {
	var evals []model.QuestionEvaluation
	err := r.DB.Where("sheet_id = ?", sheetID).Order("question_num asc").Find(&evals).Error
	return evals, err
}

func (r *EvaluationRepository) FindBySheetAndQuestion(sheetID string, questionNum int) (*model.QuestionEvaluation, error) {
	var ev model.QuestionEvaluation
	err := r.DB.Where("sheet_id = ? AND question_num = ?", sheetID, questionNum).First(&ev).Error
	return &ev, err
}

func (r *EvaluationRepository) Update(ev *model.QuestionEvaluation) error {
	return r.DB.Save(ev).Error
}

func (r *EvaluationRepository) CountBySheet(sheetID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestionEvaluation{}).Where("sheet_id = ?", sheetID).Count(&count).Error
	return count, err
}
