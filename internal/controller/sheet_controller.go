package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"smart_grade_backend/internal/grading"
	"smart_grade_backend/internal/service"
	"smart_grade_backend/internal/util"
	"smart_grade_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SheetController struct {
	GradingService *service.GradingService
	StorageService *service.StorageService
	Dispatcher     *service.GradingDispatcher
}

func NewSheetController(gradingSvc *service.GradingService, storageSvc *service.StorageService, dispatcher *service.GradingDispatcher) *SheetController {
	return &SheetController{
		GradingService: gradingSvc,
		StorageService: storageSvc,
		Dispatcher:     dispatcher,
	}
}

// UploadSheet godoc
// @Summary 上传答题卡并触发评阅
// @Description 上传答题卡图片，入库后异步进入评阅流水线
// @Tags 评阅
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   examId formData int true "考试ID"
// @Param   studentId formData int true "学生ID"
// @Param   file formData file true "答题卡图片"
// @Success 202 {object} util.Response{data=object} "已进入评阅队列"
// @Failure 400 {object} util.Response "文件不合法"
// @Failure 503 {object} util.Response "评阅队列已满"
// @Router /api/sheets [post]
func (c *SheetController) UploadSheet(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	examID := util.MustParseUint(ctx.PostForm("examId"))
	studentID := util.MustParseUint(ctx.PostForm("studentId"))
	if examID == 0 || studentID == 0 {
		util.BadRequest(ctx, "examId and studentId are required")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	imageRef, err := c.storeSheetFile(ctx, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cmd := service.SubmitCommand{ExamID: examID, StudentID: studentID, ImageRef: imageRef}
	if err := c.Dispatcher.Enqueue(cmd); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
		return
	}

	ctx.JSON(http.StatusAccepted, util.Response{
		Code:    http.StatusAccepted,
		Message: "accepted",
		Data:    gin.H{"examId": examID, "studentId": studentID, "imageRef": imageRef},
	})
}

// SubmitSheet godoc
// @Summary 同步提交评阅
// @Description 同步执行整条评阅流水线并返回评阅结果，主要供调试与小规模使用
// @Tags 评阅
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   examId formData int true "考试ID"
// @Param   studentId formData int true "学生ID"
// @Param   file formData file true "答题卡图片"
// @Success 200 {object} util.Response{data=model.AnswerSheet} "Success"
// @Failure 400 {object} util.Response "文件不合法"
// @Router /api/sheets/sync [post]
func (c *SheetController) SubmitSheet(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	examID := util.MustParseUint(ctx.PostForm("examId"))
	studentID := util.MustParseUint(ctx.PostForm("studentId"))
	if examID == 0 || studentID == 0 {
		util.BadRequest(ctx, "examId and studentId are required")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	imageRef, err := c.storeSheetFile(ctx, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sheet, err := c.GradingService.Submit(ctx.Request.Context(), examID, studentID, imageRef)
	if err != nil && sheet == nil {
		c.respondGradingError(ctx, err)
		return
	}

	// 流水线失败落在答题卡状态上，HTTP 层仍然返回 200
	util.Success(ctx, sheet)
}

func (c *SheetController) storeSheetFile(ctx *gin.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > util.MaxSheetUploadSize {
		return "", fmt.Errorf("file too large: %d bytes", file.Size)
	}
	if !util.AllowedSheetFile(file.Filename) {
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(file.Filename))
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage, util.MimePDF})
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	tmp, err := os.CreateTemp("", "sheet-*"+ext)
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", err
	}
	tmp.Close()

	// 过大的扫描件先降采样，无需转换时保持原件
	uploadPath := tmpPath
	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == util.MimeOctetStream {
		contentType = mimeType
	}
	if util.IsImage(mimeType) {
		normPath := tmpPath + ".norm.jpg"
		converted, err := util.NormalizeSheetImage(tmpPath, normPath)
		if err != nil {
			logger.Log.Warn("sheet image normalize failed, uploading original", zap.Error(err))
		} else if converted {
			defer os.Remove(normPath)
			uploadPath = normPath
			contentType = "image/jpeg"
			ext = ".jpg"
		}
	}

	f, err := os.Open(uploadPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("sheets/%s%s", uuid.New().String(), ext)
	return c.StorageService.Upload(ctx.Request.Context(), filename, f, stat.Size(), contentType)
}

// GetSheet godoc
// @Summary 获取答题卡评阅详情
// @Description 返回答题卡、逐题明细与派生的低置信度标记
// @Tags 评阅
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答题卡ID"
// @Success 200 {object} util.Response{data=model.AnswerSheet} "Success"
// @Failure 404 {object} util.Response "答题卡不存在"
// @Router /api/sheets/{id} [get]
func (c *SheetController) GetSheet(ctx *gin.Context) {
	sheet, err := c.GradingService.GetSheet(ctx.Param("id"))
	if err != nil {
		c.respondGradingError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// ListSheets godoc
// @Summary 答题卡列表
// @Description 按考试分页列出答题卡，可按状态过滤
// @Tags 评阅
// @Produce  json
// @Security ApiKeyAuth
// @Param   examId query int true "考试ID"
// @Param   status query string false "状态过滤" Enums(processing, graded, approved, failed)
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/sheets [get]
func (c *SheetController) ListSheets(ctx *gin.Context) {
	examID := util.MustParseUint(ctx.Query("examId"))
	if examID == 0 {
		util.BadRequest(ctx, "examId is required")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	status := grading.SheetStatus(ctx.Query("status"))

	sheets, total, err := c.GradingService.ListSheets(examID, status, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  sheets,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// swagger:model OverrideScoreRequest
type OverrideScoreRequest struct {
	Score float64 `json:"score"`
}

// OverrideScore godoc
// @Summary 覆盖单题得分
// @Description 教师覆盖单题 AI 得分，按考试精度舍入并重算总分
// @Tags 评阅
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答题卡ID"
// @Param   num path int true "题号"
// @Param   body body OverrideScoreRequest true "新得分"
// @Success 200 {object} util.Response{data=model.QuestionEvaluation} "Success"
// @Failure 400 {object} util.Response "分数越界"
// @Failure 409 {object} util.Response "当前状态不允许改分"
// @Router /api/sheets/{id}/questions/{num}/score [put]
func (c *SheetController) OverrideScore(ctx *gin.Context) {
	questionNum, err := strconv.Atoi(ctx.Param("num"))
	if err != nil || questionNum <= 0 {
		util.BadRequest(ctx, "invalid question number")
		return
	}

	var req OverrideScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ev, err := c.GradingService.Override(ctx.Param("id"), questionNum, req.Score)
	if err != nil {
		c.respondGradingError(ctx, err)
		return
	}
	util.Success(ctx, ev)
}

// swagger:model ReasoningRequest
type ReasoningRequest struct {
	Reasoning string `json:"reasoning" binding:"required"`
}

// UpdateReasoning godoc
// @Summary 编辑单题评语
// @Tags 评阅
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答题卡ID"
// @Param   num path int true "题号"
// @Param   body body ReasoningRequest true "评语"
// @Success 200 {object} util.Response "Success"
// @Failure 409 {object} util.Response "当前状态不允许编辑"
// @Router /api/sheets/{id}/questions/{num}/reasoning [put]
func (c *SheetController) UpdateReasoning(ctx *gin.Context) {
	questionNum, err := strconv.Atoi(ctx.Param("num"))
	if err != nil || questionNum <= 0 {
		util.BadRequest(ctx, "invalid question number")
		return
	}

	var req ReasoningRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.GradingService.UpdateReasoning(ctx.Param("id"), questionNum, req.Reasoning); err != nil {
		c.respondGradingError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// swagger:model FeedbackRequest
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// SaveFeedback godoc
// @Summary 保存整卷评语
// @Tags 评阅
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答题卡ID"
// @Param   body body FeedbackRequest true "评语"
// @Success 200 {object} util.Response "Success"
// @Router /api/sheets/{id}/feedback [put]
func (c *SheetController) SaveFeedback(ctx *gin.Context) {
	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.GradingService.SaveOverallFeedback(ctx.Param("id"), req.Feedback); err != nil {
		c.respondGradingError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ApproveSheet godoc
// @Summary 审批定稿
// @Description graded -> approved，重复审批为幂等无操作
// @Tags 评阅
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答题卡ID"
// @Success 200 {object} util.Response{data=model.AnswerSheet} "Success"
// @Failure 409 {object} util.Response "当前状态不允许审批"
// @Router /api/sheets/{id}/approve [post]
func (c *SheetController) ApproveSheet(ctx *gin.Context) {
	sheet, err := c.GradingService.Approve(ctx.Param("id"))
	if err != nil {
		c.respondGradingError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// ResubmitSheet godoc
// @Summary 重新提交失败的答题卡
// @Description failed -> processing，可附带新图片，不附带则复用原图
// @Tags 评阅
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "答题卡ID"
// @Param   file formData file false "新的答题卡图片"
// @Success 200 {object} util.Response{data=model.AnswerSheet} "Success"
// @Failure 409 {object} util.Response "仅 failed 状态可重新提交"
// @Router /api/sheets/{id}/resubmit [post]
func (c *SheetController) ResubmitSheet(ctx *gin.Context) {
	imageRef := ""
	if file, err := ctx.FormFile("file"); err == nil {
		ref, err := c.storeSheetFile(ctx, file)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		imageRef = ref
	}

	sheet, err := c.GradingService.Resubmit(ctx.Request.Context(), ctx.Param("id"), imageRef)
	if err != nil && sheet == nil {
		c.respondGradingError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

func (c *SheetController) respondGradingError(ctx *gin.Context, err error) {
	var transitionErr *grading.InvalidTransitionError
	var rangeErr *grading.ScoreRangeError
	var partialErr *grading.PartialWriteError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, util.ErrSheetNotFound):
		util.NotFound(ctx)
	case errors.Is(err, service.ErrSheetLocked):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.As(err, &transitionErr):
		util.Error(ctx, http.StatusConflict, transitionErr.Error())
	case errors.As(err, &rangeErr):
		util.BadRequest(ctx, rangeErr.Error())
	case errors.As(err, &partialErr):
		util.Error(ctx, http.StatusConflict, partialErr.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
