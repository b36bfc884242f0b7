package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"smart_grade_backend/internal/config"
	"smart_grade_backend/internal/grading"
	"smart_grade_backend/internal/model"
	"smart_grade_backend/internal/repository"
	"smart_grade_backend/pkg/logger"
	"smart_grade_backend/pkg/monitoring"
	"smart_grade_backend/pkg/tracing"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Extractor 外部评阅能力：给定答题卡图片与评分方案，返回待解析的原始文本
type Extractor interface {
	EvaluateSheet(ctx context.Context, imageRef string, exam *model.Exam) (string, error)
}

// submitLockTTL 单张答题卡评阅锁的过期时间，覆盖最长的模型调用
const submitLockTTL = 10 * time.Minute

var ErrSheetLocked = errors.New("sheet is already being processed")

// GradingService 评阅流水线与答题卡状态机。状态迁移只发生在这里：
// processing -> graded/failed，graded -> approved。
type GradingService struct {
	SheetRepo *repository.AnswerSheetRepository
	EvalRepo  *repository.EvaluationRepository
	ExamRepo  *repository.ExamRepository
	Extractor Extractor
	Redis     *redis.Client
	Cfg       config.GradingConfig
}

func NewGradingService(
	sheetRepo *repository.AnswerSheetRepository,
	evalRepo *repository.EvaluationRepository,
	examRepo *repository.ExamRepository,
	extractor Extractor,
	rdb *redis.Client,
	cfg config.GradingConfig,
) *GradingService {
	if cfg.ReviewThreshold <= 0 {
		cfg.ReviewThreshold = grading.DefaultReviewThreshold
	}
	return &GradingService{
		SheetRepo: sheetRepo,
		EvalRepo:  evalRepo,
		ExamRepo:  examRepo,
		Extractor: extractor,
		Redis:     rdb,
		Cfg:       cfg,
	}
}

// Submit 注册一次提交并同步走完评阅流水线。模型调用每次提交至多一次，
// 失败不自动重试，由操作者决定是否重新提交。
func (s *GradingService) Submit(ctx context.Context, examID, studentID uint, imageRef string) (*model.AnswerSheet, error) {
	exam, err := s.ExamRepo.FindWithQuestions(examID)
	if err != nil {
		return nil, err
	}

	sheet := &model.AnswerSheet{
		ExamID:    examID,
		StudentID: studentID,
		ImageRef:  imageRef,
		Status:    grading.StatusProcessing,
	}
	if err := s.SheetRepo.Create(sheet); err != nil {
		return nil, err
	}

	if err := s.process(ctx, sheet, exam); err != nil {
		return sheet, err
	}
	return s.SheetRepo.FindDetailed(sheet.ID)
}

// Resubmit 只允许 failed 的答题卡重新进入流水线，开启全新的 processing 周期
func (s *GradingService) Resubmit(ctx context.Context, sheetID string, imageRef string) (*model.AnswerSheet, error) {
	sheet, err := s.SheetRepo.FindByID(sheetID)
	if err != nil {
		return nil, err
	}
	if err := grading.CheckTransition(sheet.Status, grading.StatusProcessing); err != nil {
		return nil, err
	}

	if imageRef == "" {
		imageRef = sheet.ImageRef
	}
	if err := s.SheetRepo.MarkProcessing(sheetID, imageRef); err != nil {
		return nil, err
	}
	sheet.Status = grading.StatusProcessing
	sheet.ImageRef = imageRef

	exam, err := s.ExamRepo.FindWithQuestions(sheet.ExamID)
	if err != nil {
		return nil, err
	}

	if err := s.process(ctx, sheet, exam); err != nil {
		return sheet, err
	}
	return s.SheetRepo.FindDetailed(sheetID)
}

// process 一轮评阅：锁 -> 模型调用 -> 契约校验 -> 两阶段落库 -> 一致性检查。
// 锁保证同一张卡不会并发触发两次计费调用。
func (s *GradingService) process(ctx context.Context, sheet *model.AnswerSheet, exam *model.Exam) error {
	lockKey := "grading:lock:" + sheet.ID
	if s.Redis != nil {
		ok, err := s.Redis.SetNX(ctx, lockKey, 1, submitLockTTL).Result()
		if err != nil {
			logger.Log.Warn("submit lock unavailable, proceeding without it", zap.Error(err))
		} else if !ok {
			return ErrSheetLocked
		} else {
			defer s.Redis.Del(context.Background(), lockKey)
		}
	}

	ctx, span := tracing.Tracer.Start(ctx, "grading.evaluate")
	start := time.Now()
	raw, err := s.Extractor.EvaluateSheet(ctx, sheet.ImageRef, exam)
	monitoring.ExtractorDuration.Observe(time.Since(start).Seconds())
	span.End()

	if err != nil {
		// 外部能力错误：答题卡转 failed，错误原样上抛给调用方
		monitoring.SheetsProcessed.WithLabelValues("failed").Inc()
		if mErr := s.SheetRepo.MarkFailed(sheet.ID, err.Error(), nil); mErr != nil {
			logger.Log.Error("failed to mark sheet failed", zap.String("sheetId", sheet.ID), zap.Error(mErr))
		}
		return err
	}

	specs := model.QuestionSpecs(exam.Questions)

	payload, err := grading.ParsePayload(raw)
	if err != nil {
		return s.failValidation(sheet.ID, raw, err)
	}
	result, err := grading.ValidatePayload(payload, specs, exam.MarkingPrecision)
	if err != nil {
		return s.failValidation(sheet.ID, raw, err)
	}

	if result.TotalMismatch {
		// 模型自报总分只作展示，分歧记录但不阻塞
		logger.Log.Info("model-reported total differs from recomputed total",
			zap.String("sheetId", sheet.ID),
			zap.Float64("reported", payload.TotalScore),
			zap.Float64("recomputed", result.RecomputedTotal))
	}

	evaluations := buildEvaluationRows(sheet.ID, result, exam.MarkingPrecision)

	rawJSON := json.RawMessage(grading.StripCodeFences(raw))
	if !json.Valid(rawJSON) {
		rawJSON = nil
	}
	if err := s.SheetRepo.CommitGraded(sheet.ID, evaluations,
		result.RecomputedTotal, payload.Confidence, rawJSON, payload.OverallFeedback); err != nil {
		monitoring.SheetsProcessed.WithLabelValues("failed").Inc()
		return err
	}

	// 写后一致性检查：明细数与评分方案不符即为 PartialWriteError，上报不修复
	count, err := s.EvalRepo.CountBySheet(sheet.ID)
	if err == nil && int(count) != len(exam.Questions) {
		pwErr := &grading.PartialWriteError{SheetID: sheet.ID, Expected: len(exam.Questions), Actual: int(count)}
		logger.Log.Error("post-write consistency check failed", zap.Error(pwErr))
		return pwErr
	}

	monitoring.SheetsProcessed.WithLabelValues("graded").Inc()
	return nil
}

func (s *GradingService) failValidation(sheetID, raw string, err error) error {
	monitoring.SheetsProcessed.WithLabelValues("failed").Inc()
	var vErr *grading.ExtractionValidationError
	reason := err.Error()
	if errors.As(err, &vErr) {
		reason = vErr.Reason
	}
	rawJSON := json.RawMessage(nil)
	if text := grading.StripCodeFences(raw); json.Valid(json.RawMessage(text)) {
		rawJSON = json.RawMessage(text)
	} else if q, mErr := json.Marshal(raw); mErr == nil {
		// 非JSON输出也整体保留，方便排查
		rawJSON = q
	}
	if mErr := s.SheetRepo.MarkFailed(sheetID, reason, rawJSON); mErr != nil {
		logger.Log.Error("failed to mark sheet failed", zap.String("sheetId", sheetID), zap.Error(mErr))
	}
	return err
}

// buildEvaluationRows 校验通过的机器评阅整批转成落库行，final=ai、无教师改分
func buildEvaluationRows(sheetID string, result *grading.ValidationResult, precision grading.MarkingPrecision) []model.QuestionEvaluation {
	rows := make([]model.QuestionEvaluation, 0, len(result.Payload.Evaluations))
	for _, ev := range result.Payload.Evaluations {
		text, _ := result.Payload.ExtractionFor(ev.QuestionNum)
		score := grading.RoundToPrecision(ev.Score, precision)

		strengths, _ := json.Marshal(ev.Strengths)
		gaps, _ := json.Marshal(ev.Gaps)

		rows = append(rows, model.QuestionEvaluation{
			SheetID:       sheetID,
			QuestionNum:   ev.QuestionNum,
			ExtractedText: text,
			AIScore:       score,
			FinalScore:    score,
			TeacherScore:  nil,
			Confidence:    ev.Confidence,
			Reasoning:     ev.Reasoning,
			Strengths:     strengths,
			Gaps:          gaps,
		})
	}
	return rows
}

// Override 教师改分。只允许 graded 状态下改，改完立即重算总分落库
func (s *GradingService) Override(sheetID string, questionNum int, newScore float64) (*model.QuestionEvaluation, error) {
	sheet, exam, evals, err := s.loadForReview(sheetID)
	if err != nil {
		return nil, err
	}

	ss := rebuildScoreSet(exam, evals)
	updated, err := ss.Override(questionNum, newScore)
	if err != nil {
		return nil, err
	}

	var target *model.QuestionEvaluation
	for i := range evals {
		if evals[i].QuestionNum == questionNum {
			target = &evals[i]
			break
		}
	}
	if target == nil {
		return nil, gorm.ErrRecordNotFound
	}

	teacherScore := updated.Final()
	target.TeacherScore = &teacherScore
	target.FinalScore = teacherScore
	if err := s.EvalRepo.Update(target); err != nil {
		return nil, err
	}

	if err := s.SheetRepo.UpdateTotals(sheetID, ss.Total(), sheet.OverallFeedback); err != nil {
		return nil, err
	}
	return target, nil
}

// UpdateReasoning 审阅方编辑单题反馈文本
func (s *GradingService) UpdateReasoning(sheetID string, questionNum int, reasoning string) error {
	sheet, err := s.SheetRepo.FindByID(sheetID)
	if err != nil {
		return err
	}
	if err := reviewGuard(sheet); err != nil {
		return err
	}
	ev, err := s.EvalRepo.FindBySheetAndQuestion(sheetID, questionNum)
	if err != nil {
		return err
	}
	ev.Reasoning = reasoning
	return s.EvalRepo.Update(ev)
}

// SaveOverallFeedback 保存整卷评语，同时按当前明细重算总分
func (s *GradingService) SaveOverallFeedback(sheetID string, feedback string) error {
	_, exam, evals, err := s.loadForReview(sheetID)
	if err != nil {
		return err
	}
	total := rebuildScoreSet(exam, evals).Total()
	return s.SheetRepo.UpdateTotals(sheetID, total, feedback)
}

// Approve graded -> approved。重复审批是无操作而非错误，
// 已有的 approved_at 和 total_score 保持不变。
func (s *GradingService) Approve(sheetID string) (*model.AnswerSheet, error) {
	sheet, err := s.SheetRepo.FindByID(sheetID)
	if err != nil {
		return nil, err
	}
	if sheet.Status == grading.StatusApproved {
		return sheet, nil
	}
	if err := grading.CheckTransition(sheet.Status, grading.StatusApproved); err != nil {
		return nil, err
	}

	exam, err := s.ExamRepo.FindWithQuestions(sheet.ExamID)
	if err != nil {
		return nil, err
	}
	evals, err := s.EvalRepo.ListBySheet(sheetID)
	if err != nil {
		return nil, err
	}
	if len(evals) != len(exam.Questions) {
		return nil, &grading.PartialWriteError{SheetID: sheetID, Expected: len(exam.Questions), Actual: len(evals)}
	}

	total := rebuildScoreSet(exam, evals).Total()
	if err := s.SheetRepo.Approve(sheetID, total, time.Now()); err != nil {
		return nil, err
	}
	monitoring.SheetsProcessed.WithLabelValues("approved").Inc()
	return s.SheetRepo.FindByID(sheetID)
}

// GetSheet 带派生的 needs_review 标记；graded 状态下总分按明细重算后返回
func (s *GradingService) GetSheet(sheetID string) (*model.AnswerSheet, error) {
	sheet, err := s.SheetRepo.FindDetailed(sheetID)
	if err != nil {
		return nil, err
	}

	for i := range sheet.Evaluations {
		sheet.Evaluations[i].NeedsReview = grading.NeedsReview(sheet.Evaluations[i].Confidence, s.Cfg.ReviewThreshold)
	}

	if sheet.Status == grading.StatusGraded && sheet.Exam != nil && len(sheet.Evaluations) > 0 {
		total := rebuildScoreSet(sheet.Exam, sheet.Evaluations).Total()
		sheet.TotalScore = &total
	}
	return sheet, nil
}

func (s *GradingService) ListSheets(examID uint, status grading.SheetStatus, page, limit int) ([]model.AnswerSheet, int64, error) {
	return s.SheetRepo.ListByExam(examID, status, page, limit)
}

// SweepInconsistencies 后台巡检：发现明细数与评分方案不符的 graded/approved
// 答题卡时以 PartialWriteError 上报日志，绝不静默修复
func (s *GradingService) SweepInconsistencies() error {
	sheets, err := s.SheetRepo.FindInconsistent()
	if err != nil {
		return err
	}
	for _, sheet := range sheets {
		count, _ := s.EvalRepo.CountBySheet(sheet.ID)
		exam, err := s.ExamRepo.FindWithQuestions(sheet.ExamID)
		expected := -1
		if err == nil {
			expected = len(exam.Questions)
		}
		pwErr := &grading.PartialWriteError{SheetID: sheet.ID, Expected: expected, Actual: int(count)}
		logger.Log.Error("consistency sweep found divergent sheet",
			zap.String("status", string(sheet.Status)), zap.Error(pwErr))
		monitoring.PartialWrites.Inc()
	}
	return nil
}

// reviewGuard 审阅编辑只在 graded 状态下允许，其余状态按非法迁移报错
func reviewGuard(sheet *model.AnswerSheet) error {
	if sheet.Status != grading.StatusGraded {
		return &grading.InvalidTransitionError{From: sheet.Status, To: sheet.Status}
	}
	return nil
}

func (s *GradingService) loadForReview(sheetID string) (*model.AnswerSheet, *model.Exam, []model.QuestionEvaluation, error) {
	sheet, err := s.SheetRepo.FindByID(sheetID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := reviewGuard(sheet); err != nil {
		return nil, nil, nil, err
	}
	exam, err := s.ExamRepo.FindWithQuestions(sheet.ExamID)
	if err != nil {
		return nil, nil, nil, err
	}
	evals, err := s.EvalRepo.ListBySheet(sheetID)
	if err != nil {
		return nil, nil, nil, err
	}
	return sheet, exam, evals, nil
}

// rebuildScoreSet 从落库行还原带标签的分数集合
func rebuildScoreSet(exam *model.Exam, evals []model.QuestionEvaluation) *grading.ScoreSet {
	ss := grading.NewScoreSet(model.QuestionSpecs(exam.Questions), exam.MarkingPrecision)
	results := make([]grading.QuestionResult, 0, len(evals))
	for _, ev := range evals {
		results = append(results, grading.QuestionResult{QuestionNum: ev.QuestionNum, Score: ev.AIScore})
	}
	ss.Commit(results)
	for _, ev := range evals {
		if ev.TeacherScore != nil {
			// 历史数据已经过校验，这里的 Override 不会越界
			ss.Override(ev.QuestionNum, *ev.TeacherScore)
		}
	}
	return ss
}
