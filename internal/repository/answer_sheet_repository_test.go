package repository

import (
	"testing"

	"smart_grade_backend/internal/grading"
)

func TestReprocessingResetColumns(t *testing.T) {
	cols := reprocessingResetColumns("sheets/new.jpg")

	if cols["status"] != grading.StatusProcessing {
		t.Errorf("status = %v", cols["status"])
	}
	if cols["image_ref"] != "sheets/new.jpg" {
		t.Errorf("image_ref = %v", cols["image_ref"])
	}

	// 上一轮的结果与诊断必须整体清空，避免新一轮 processing 读到陈旧数据
	for _, col := range []string{"total_score", "confidence", "raw_model_output", "approved_at"} {
		v, ok := cols[col]
		if !ok {
			t.Errorf("%s not reset", col)
			continue
		}
		if v != nil {
			t.Errorf("%s = %v, want nil", col, v)
		}
	}
	if cols["failure_reason"] != "" {
		t.Errorf("failure_reason = %v, want empty", cols["failure_reason"])
	}
}
