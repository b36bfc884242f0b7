package grading

// Score 单题得分的带标签值：要么是机器分，要么是教师改分。
// 生效分数的取值规则由类型本身保证，而不是靠可空字段的约定。
type Score struct {
	ai         float64
	teacher    float64
	overridden bool
}

// AIScore 机器评阅产生的初始分
func AIScore(value float64) Score {
	return Score{ai: value}
}

// Overridden 在机器分之上叠加教师改分
func (s Score) Overridden(teacherScore float64) Score {
	return Score{ai: s.ai, teacher: teacherScore, overridden: true}
}

// Final 生效分数：有教师改分用教师改分，否则用机器分
func (s Score) Final() float64 {
	if s.overridden {
		return s.teacher
	}
	return s.ai
}

func (s Score) AI() float64 {
	return s.ai
}

// Teacher 第二个返回值表示是否被改过分
func (s Score) Teacher() (float64, bool) {
	return s.teacher, s.overridden
}

func (s Score) IsOverridden() bool {
	return s.overridden
}

// ScoreSet 一张答题卡的权威分数集合，按题号索引
type ScoreSet struct {
	precision MarkingPrecision
	maxMarks  map[int]float64
	scores    map[int]Score
}

// NewScoreSet questions 给定每题上限，机器分在写入时统一落到精度栅格上
func NewScoreSet(questions []QuestionSpec, precision MarkingPrecision) *ScoreSet {
	maxMarks := make(map[int]float64, len(questions))
	for _, q := range questions {
		maxMarks[q.Num] = q.MaxMarks
	}
	return &ScoreSet{
		precision: precision,
		maxMarks:  maxMarks,
		scores:    make(map[int]Score, len(questions)),
	}
}

// Commit 存入一批通过契约校验的机器分，final=ai、无教师改分
func (ss *ScoreSet) Commit(results []QuestionResult) {
	for _, r := range results {
		ss.scores[r.QuestionNum] = AIScore(RoundToPrecision(r.Score, ss.precision))
	}
}

// Override 教师改分：先按精度取整再校验范围，越界返回 ScoreRangeError
func (ss *ScoreSet) Override(questionNum int, newScore float64) (Score, error) {
	max, ok := ss.maxMarks[questionNum]
	if !ok {
		return Score{}, &ScoreRangeError{QuestionNum: questionNum, Score: newScore, MaxMarks: 0}
	}
	if newScore < 0 || newScore > max {
		return Score{}, &ScoreRangeError{QuestionNum: questionNum, Score: newScore, MaxMarks: max}
	}
	rounded := RoundToPrecision(newScore, ss.precision)
	s := ss.scores[questionNum].Overridden(rounded)
	ss.scores[questionNum] = s
	return s, nil
}

// Get 第二个返回值表示该题是否已有分数
func (ss *ScoreSet) Get(questionNum int) (Score, bool) {
	s, ok := ss.scores[questionNum]
	return s, ok
}

// Total 生效分之和，落到精度栅格。AnswerSheet.total_score 的唯一事实来源
func (ss *ScoreSet) Total() float64 {
	scores := make([]Score, 0, len(ss.scores))
	for _, s := range ss.scores {
		scores = append(scores, s)
	}
	return TotalOf(scores, ss.precision)
}

// TotalOf 读取/保存路径上重算总分用，永远不信任缓存值
func TotalOf(scores []Score, p MarkingPrecision) float64 {
	var total float64
	for _, s := range scores {
		total += s.Final()
	}
	return RoundToPrecision(total, p)
}
