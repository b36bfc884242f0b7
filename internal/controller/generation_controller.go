package controller

import (
	"errors"

	"smart_grade_backend/internal/grading"
	"smart_grade_backend/internal/service"
	"smart_grade_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GenerationController struct {
	GenerationService *service.GenerationService
}

func NewGenerationController(generationSvc *service.GenerationService) *GenerationController {
	return &GenerationController{GenerationService: generationSvc}
}

// swagger:model DraftRequest
type DraftRequest struct {
	Input          string                  `json:"input"`
	Mode           string                  `json:"mode" binding:"required,oneof=complete generate"`
	SubjectContext string                  `json:"subjectContext"`
	Questions      []service.QuestionDraft `json:"questions"`
}

// DraftQuestions godoc
// @Summary 出题助手
// @Description complete 模式补全 questions 中教师给出的残缺题目清单，已填字段以教师输入为准；generate 模式按主题描述起草整套题目。
// @Description 产出仅是草稿，落为考试前仍需教师确认。
// @Tags 出题
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body DraftRequest true "出题请求"
// @Success 200 {object} util.Response{data=[]service.QuestionDraft} "Success"
// @Failure 400 {object} util.Response "模型产出不可解析"
// @Failure 502 {object} util.Response "模型调用失败"
// @Router /api/generation/draft [post]
func (c *GenerationController) DraftQuestions(ctx *gin.Context) {
	var req DraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	drafts, err := c.GenerationService.Draft(ctx.Request.Context(), req.Input, req.Mode, req.SubjectContext, req.Questions)
	if err != nil {
		var extErr *grading.ExternalCapabilityError
		if errors.As(err, &extErr) {
			util.Error(ctx, 502, extErr.Error())
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, drafts)
}
