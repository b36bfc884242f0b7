package service

import (
	"errors"

	"smart_grade_backend/internal/model"
	"smart_grade_backend/internal/repository"
	"smart_grade_backend/internal/util"

	"gorm.io/gorm"
)

type StudentRequest struct {
	Name       string `json:"name" binding:"required"`
	RollNumber string `json:"rollNumber" binding:"required"`
	ClassLabel string `json:"classLabel" binding:"required"`
}

type StudentService struct {
	StudentRepo *repository.StudentRepository
}

func NewStudentService(studentRepo *repository.StudentRepository) *StudentService {
	return &StudentService{StudentRepo: studentRepo}
}

func (s *StudentService) Create(teacherID uint, req StudentRequest) (*model.Student, error) {
	student := &model.Student{
		Name:       req.Name,
		RollNumber: req.RollNumber,
		ClassLabel: req.ClassLabel,
		TeacherID:  teacherID,
	}
	if err := s.StudentRepo.Create(student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *StudentService) Get(id uint) (*model.Student, error) {
	student, err := s.StudentRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	return student, err
}

func (s *StudentService) List(teacherID uint, classLabel string, page, limit int) ([]model.Student, int64, error) {
	return s.StudentRepo.List(teacherID, classLabel, page, limit)
}

func (s *StudentService) Update(id uint, req StudentRequest) (*model.Student, error) {
	student, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	student.Name = req.Name
	student.RollNumber = req.RollNumber
	student.ClassLabel = req.ClassLabel
	if err := s.StudentRepo.Update(student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *StudentService) Delete(id uint) error {
	return s.StudentRepo.Delete(id)
}
