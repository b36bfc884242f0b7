package grading

// DefaultReviewThreshold 低于该置信度的单题评阅建议人工复核
const DefaultReviewThreshold = 0.7

// NeedsReview 派生标记，不落库。只作为审批前是否人工复核的建议输入，
// 不阻塞 graded 迁移。
func NeedsReview(confidence, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultReviewThreshold
	}
	return confidence < threshold
}
