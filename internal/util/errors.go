package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")
	ErrExamNotFound    = errors.New("exam not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrSheetNotFound   = errors.New("answer sheet not found")
)
