// 手动触发答题卡一致性巡检脚本
//
// 该功能已集成到主应用的后台定时任务中（每 10 分钟自动执行一次）。
// 此脚本仅用于手动触发，例如数据库迁移或批量导入历史数据之后。
//
// 用法: go run scripts/sweep_consistency.go

package main

import (
	"log"
	"os"

	"smart_grade_backend/internal/config"
	"smart_grade_backend/internal/repository"
	"smart_grade_backend/internal/service"
	"smart_grade_backend/pkg/database"
	"smart_grade_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	gradingSvc := service.NewGradingService(
		repository.NewAnswerSheetRepository(db),
		repository.NewEvaluationRepository(db),
		repository.NewExamRepository(db),
		nil,
		nil,
		cfg.Grading,
	)

	log.Println("手动触发一致性巡检...")
	if err := gradingSvc.SweepInconsistencies(); err != nil {
		log.Fatalf("巡检失败: %v", err)
	}
	log.Println("完成！")
}
