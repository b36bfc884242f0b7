package repository

import (
	"encoding/json"
	"time"

	"smart_grade_backend/internal/grading"
	"smart_grade_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerSheetRepository struct {
	DB *gorm.DB
}

func NewAnswerSheetRepository(db *gorm.DB) *AnswerSheetRepository {
	return &AnswerSheetRepository{DB: db}
}

func (r *AnswerSheetRepository) Create(sheet *model.AnswerSheet) error {
	return r.DB.Create(sheet).Error
}

func (r *AnswerSheetRepository) FindByID(id string) (*model.AnswerSheet, error) {
	var sheet model.AnswerSheet
	err := r.DB.Where("id = ?", id).First(&sheet).Error
	return &sheet, err
}

// FindDetailed 带考试、学生和按题号排序的评阅明细
func (r *AnswerSheetRepository) FindDetailed(id string) (*model.AnswerSheet, error) {
	var sheet model.AnswerSheet
	err := r.DB.
		Preload("Exam.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_num asc")
		}).
		Preload("Student").
		Preload("Evaluations", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_num asc")
		}).
		Where("id = ?", id).First(&sheet).Error
	return &sheet, err
}

func (r *AnswerSheetRepository) ListByExam(examID uint, status grading.SheetStatus, page, limit int) ([]model.AnswerSheet, int64, error) {
	var sheets []model.AnswerSheet
	var total int64

	query := r.DB.Model(&model.AnswerSheet{}).Where("exam_id = ?", examID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Student").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&sheets).Error
	return sheets, total, err
}

// CommitGraded 评阅落库：同一事务内先写评阅明细，最后翻转状态。
// 即使底层不提供跨表事务，这个写入顺序也保证读取方不会看到
// graded 状态配不完整的明细。
func (r *AnswerSheetRepository) CommitGraded(sheetID string, evaluations []model.QuestionEvaluation,
	totalScore, confidence float64, rawOutput json.RawMessage, overallFeedback string) error {

	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sheet_id = ?", sheetID).Delete(&model.QuestionEvaluation{}).Error; err != nil {
			return err
		}
		if len(evaluations) > 0 {
			if err := tx.Create(&evaluations).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.AnswerSheet{}).Where("id = ?", sheetID).Updates(map[string]interface{}{
			"status":           grading.StatusGraded,
			"total_score":      totalScore,
			"confidence":       confidence,
			"raw_model_output": rawOutput,
			"overall_feedback": overallFeedback,
			"failure_reason":   "",
		}).Error
	})
}

// MarkFailed 保留原始载荷与失败原因供人工判断是否重新提交
func (r *AnswerSheetRepository) MarkFailed(sheetID string, reason string, rawOutput json.RawMessage) error {
	updates := map[string]interface{}{
		"status":         grading.StatusFailed,
		"failure_reason": reason,
	}
	if len(rawOutput) > 0 {
		updates["raw_model_output"] = rawOutput
	}
	return r.DB.Model(&model.AnswerSheet{}).Where("id = ?", sheetID).Updates(updates).Error
}

// reprocessingResetColumns 新一轮 processing 的复位列，上一轮的得分与失败诊断一并清空
func reprocessingResetColumns(imageRef string) map[string]interface{} {
	return map[string]interface{}{
		"status":           grading.StatusProcessing,
		"image_ref":        imageRef,
		"total_score":      nil,
		"confidence":       nil,
		"failure_reason":   "",
		"raw_model_output": nil,
		"approved_at":      nil,
	}
}

// MarkProcessing 重新提交时复位为新一轮 processing
func (r *AnswerSheetRepository) MarkProcessing(sheetID string, imageRef string) error {
	return r.DB.Model(&model.AnswerSheet{}).Where("id = ?", sheetID).Updates(reprocessingResetColumns(imageRef)).Error
}

func (r *AnswerSheetRepository) Approve(sheetID string, totalScore float64, approvedAt time.Time) error {
	return r.DB.Model(&model.AnswerSheet{}).Where("id = ?", sheetID).Updates(map[string]interface{}{
		"status":      grading.StatusApproved,
		"total_score": totalScore,
		"approved_at": approvedAt,
	}).Error
}

func (r *AnswerSheetRepository) UpdateTotals(sheetID string, totalScore float64, overallFeedback string) error {
	return r.DB.Model(&model.AnswerSheet{}).Where("id = ?", sheetID).Updates(map[string]interface{}{
		"total_score":      totalScore,
		"overall_feedback": overallFeedback,
	}).Error
}

// FindInconsistent 找出 graded/approved 但明细数与评分方案不符的答题卡，
// 供后台巡检上报 PartialWriteError
func (r *AnswerSheetRepository) FindInconsistent() ([]model.AnswerSheet, error) {
	var sheets []model.AnswerSheet
	err := r.DB.Raw(`
		SELECT s.* FROM answer_sheets s
		JOIN (
			SELECT exam_id, COUNT(*) AS question_count
			FROM exam_questions WHERE deleted_at IS NULL GROUP BY exam_id
		) q ON q.exam_id = s.exam_id
		LEFT JOIN (
			SELECT sheet_id, COUNT(*) AS eval_count
			FROM question_evaluations WHERE deleted_at IS NULL GROUP BY sheet_id
		) e ON e.sheet_id = s.id
		WHERE s.deleted_at IS NULL
		  AND s.status IN ('graded', 'approved')
		  AND COALESCE(e.eval_count, 0) <> q.question_count
	`).Scan(&sheets).Error
	return sheets, err
}
