package model

// swagger:model Student
type Student struct {
	BaseModel
	Name       string `gorm:"size:100;not null" json:"name"`
	RollNumber string `gorm:"size:50;not null" json:"rollNumber"`
	ClassLabel string `gorm:"size:50;not null" json:"classLabel"`
	TeacherID  uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
}

func (Student) TableName() string {
	return "students"
}
