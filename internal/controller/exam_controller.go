package controller

import (
	"errors"
	"strconv"

	"smart_grade_backend/internal/grading"
	"smart_grade_backend/internal/service"
	"smart_grade_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// CreateExam godoc
// @Summary 创建考试
// @Description 创建考试及其评分方案（题目、满分、评分细则）
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ExamRequest true "考试信息"
// @Success 201 {object} util.Response{data=model.Exam} "创建成功"
// @Failure 400 {object} util.Response "评分方案不合法"
// @Router /api/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Create(claims.UserID, req)
	if err != nil {
		var rubricErr *grading.RubricInconsistencyError
		if errors.As(err, &rubricErr) {
			util.BadRequest(ctx, rubricErr.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, exam)
}

// UpdateExam godoc
// @Summary 编辑考试
// @Description 替换考试的题目与评分方案，已有提交后方案冻结
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "考试ID"
// @Param   body body service.ExamRequest true "考试信息"
// @Success 200 {object} util.Response{data=model.Exam} "Success"
// @Failure 400 {object} util.Response "评分方案不合法"
// @Failure 409 {object} util.Response "已有提交，方案冻结"
// @Router /api/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	examID := util.MustParseUint(ctx.Param("id"))
	if examID == 0 {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Update(examID, claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamHasSubmissions):
			util.Error(ctx, 409, err.Error())
		case errors.Is(err, util.ErrExamNotFound), errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			var rubricErr *grading.RubricInconsistencyError
			if errors.As(err, &rubricErr) {
				util.BadRequest(ctx, rubricErr.Error())
				return
			}
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, exam)
}

// GetExam godoc
// @Summary 获取考试详情
// @Description 获取考试及其按题号排序的题目列表
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam} "Success"
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	examID := util.MustParseUint(ctx.Param("id"))
	if examID == 0 {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	exam, err := c.ExamService.Get(examID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, exam)
}

// ListExams godoc
// @Summary 考试列表
// @Description 分页列出当前教师创建的考试
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	exams, total, err := c.ExamService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  exams,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// DeleteExam godoc
// @Summary 删除考试
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response "Success"
// @Failure 409 {object} util.Response "已有提交，不能删除"
// @Router /api/exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	examID := util.MustParseUint(ctx.Param("id"))
	if examID == 0 {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	if err := c.ExamService.Delete(examID); err != nil {
		if errors.Is(err, service.ErrExamHasSubmissions) {
			util.Error(ctx, 409, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
