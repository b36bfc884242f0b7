package controller

import (
	"strconv"

	"smart_grade_backend/internal/service"
	"smart_grade_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
}

func NewStudentController(studentService *service.StudentService) *StudentController {
	return &StudentController{StudentService: studentService}
}

// CreateStudent godoc
// @Summary 录入学生
// @Tags 学生
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.StudentRequest true "学生信息"
// @Success 201 {object} util.Response{data=model.Student} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.StudentService.Create(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, student)
}

// ListStudents godoc
// @Summary 学生列表
// @Description 分页列出学生，可按班级过滤
// @Tags 学生
// @Produce  json
// @Security ApiKeyAuth
// @Param   class query string false "班级"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	students, total, err := c.StudentService.List(claims.UserID, ctx.Query("class"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  students,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetStudent godoc
// @Summary 获取学生详情
// @Tags 学生
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response{data=model.Student} "Success"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	student, err := c.StudentService.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, student)
}

// UpdateStudent godoc
// @Summary 更新学生信息
// @Tags 学生
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学生ID"
// @Param   body body service.StudentRequest true "学生信息"
// @Success 200 {object} util.Response{data=model.Student} "Success"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	var req service.StudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.StudentService.Update(id, req)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, student)
}

// DeleteStudent godoc
// @Summary 删除学生
// @Tags 学生
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	if err := c.StudentService.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
