package app

import (
	"smart_grade_backend/docs"
	"smart_grade_backend/internal/config"
	"smart_grade_backend/internal/middleware"
	"smart_grade_backend/internal/model"

	"smart_grade_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由，全部面向教师与管理员
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.auth.UpdateProfile)

		// 学生名册
		authGroup.POST("/students", c.student.CreateStudent)
		authGroup.GET("/students", c.student.ListStudents)
		authGroup.GET("/students/:id", c.student.GetStudent)
		authGroup.PUT("/students/:id", c.student.UpdateStudent)
		authGroup.DELETE("/students/:id", c.student.DeleteStudent)

		// 考试与评分方案
		authGroup.POST("/exams", c.exam.CreateExam)
		authGroup.GET("/exams", c.exam.ListExams)
		authGroup.GET("/exams/:id", c.exam.GetExam)
		authGroup.PUT("/exams/:id", c.exam.UpdateExam)
		authGroup.DELETE("/exams/:id", c.exam.DeleteExam)

		// 答题卡上传与评阅
		authGroup.POST("/sheets", c.sheet.UploadSheet)
		authGroup.POST("/sheets/sync", c.sheet.SubmitSheet)
		authGroup.GET("/sheets", c.sheet.ListSheets)
		authGroup.GET("/sheets/:id", c.sheet.GetSheet)
		authGroup.POST("/sheets/:id/resubmit", c.sheet.ResubmitSheet)
		authGroup.POST("/sheets/:id/approve", c.sheet.ApproveSheet)
		authGroup.PUT("/sheets/:id/feedback", c.sheet.SaveFeedback)
		authGroup.PUT("/sheets/:id/questions/:num/score", c.sheet.OverrideScore)
		authGroup.PUT("/sheets/:id/questions/:num/reasoning", c.sheet.UpdateReasoning)

		// 出题助手
		authGroup.POST("/generation/draft", c.generation.DraftQuestions)
	}
}
