package grading

import "math"

// MarkingPrecision 阅卷打分粒度
type MarkingPrecision string

const (
	PrecisionWhole   MarkingPrecision = "whole"
	PrecisionHalf    MarkingPrecision = "half"
	PrecisionQuarter MarkingPrecision = "quarter"
)

// Step 返回对应的最小分值步长
func (p MarkingPrecision) Step() float64 {
	switch p {
	case PrecisionHalf:
		return 0.5
	case PrecisionQuarter:
		return 0.25
	default:
		return 1
	}
}

func (p MarkingPrecision) Valid() bool {
	switch p {
	case PrecisionWhole, PrecisionHalf, PrecisionQuarter:
		return true
	}
	return false
}

// RoundToPrecision 按精度栅格四舍五入（round-half-up），AI分数与教师改分走同一条规则
func RoundToPrecision(score float64, p MarkingPrecision) float64 {
	step := p.Step()
	return math.Floor(score/step+0.5) * step
}
