package grading

import (
	"fmt"
	"math"
	"sort"
)

// ValidateRubric 评分方案一致性校验：题号必须从1开始连续，max_marks 非负，
// 总分必须等于各题之和。在考试创建/编辑时调用，不一致的方案不落库。
func ValidateRubric(questions []QuestionSpec, totalMarks float64) error {
	if len(questions) == 0 {
		return &RubricInconsistencyError{Reason: "rubric has no questions"}
	}

	nums := make([]int, 0, len(questions))
	var sum float64
	for _, q := range questions {
		if q.MaxMarks < 0 {
			return &RubricInconsistencyError{Reason: fmt.Sprintf("question %d: negative max_marks %.2f", q.Num, q.MaxMarks)}
		}
		nums = append(nums, q.Num)
		sum += q.MaxMarks
	}

	sort.Ints(nums)
	for i, n := range nums {
		if n != i+1 {
			return &RubricInconsistencyError{Reason: fmt.Sprintf("question numbers not contiguous from 1: got %v", nums)}
		}
	}

	if math.Abs(sum-totalMarks) > 1e-9 {
		return &RubricInconsistencyError{Reason: fmt.Sprintf("total_marks %.2f does not equal sum of question marks %.2f", totalMarks, sum)}
	}
	return nil
}
