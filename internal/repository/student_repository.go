package repository

import (
	"smart_grade_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var s model.Student
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *StudentRepository) List(teacherID uint, classLabel string, page, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	query := r.DB.Model(&model.Student{}).Where("teacher_id = ?", teacherID)
	if classLabel != "" {
		query = query.Where("class_label = ?", classLabel)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("class_label asc, roll_number asc").Offset(offset).Limit(limit).Find(&students).Error
	return students, total, err
}

func (r *StudentRepository) Update(student *model.Student) error {
	return r.DB.Save(student).Error
}

func (r *StudentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Student{}, id).Error
}
