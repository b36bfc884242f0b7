package grading

// SheetStatus 答题卡生命周期状态
type SheetStatus string

const (
	StatusProcessing SheetStatus = "processing"
	StatusGraded     SheetStatus = "graded"
	StatusApproved   SheetStatus = "approved"
	StatusFailed     SheetStatus = "failed"
)

// transitions processing -> {graded, failed}; graded -> approved。
// approved/failed 是终态，failed 只能通过显式重新提交开启新一轮 processing。
var transitions = map[SheetStatus][]SheetStatus{
	StatusProcessing: {StatusGraded, StatusFailed},
	StatusGraded:     {StatusApproved},
	StatusApproved:   {},
	StatusFailed:     {StatusProcessing},
}

func (s SheetStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal 对本流水线而言是否终态
func (s SheetStatus) Terminal() bool {
	return s == StatusApproved || s == StatusFailed
}

// CanTransition failed -> processing 仅允许由重新提交触发
func CanTransition(from, to SheetStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// CheckTransition 返回具体的迁移错误，便于调用方直接上抛
func CheckTransition(from, to SheetStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}
