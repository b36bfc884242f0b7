package service

import (
	"context"
	"errors"
	"sync"

	"smart_grade_backend/pkg/logger"

	"go.uber.org/zap"
)

// SubmitCommand 上传完成事件触发的评阅命令。触发机制与流水线解耦，
// 换掉触发方不动评阅逻辑。
type SubmitCommand struct {
	ExamID    uint
	StudentID uint
	ImageRef  string
}

var ErrDispatcherBusy = errors.New("grading queue is full")

// GradingDispatcher 评阅调度器：带缓冲的命令队列加固定工作协程池。
// 每条命令只涉及一张答题卡，工作协程之间无共享可变状态。
type GradingDispatcher struct {
	grading *GradingService
	queue   chan SubmitCommand
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func NewGradingDispatcher(gradingSvc *GradingService, workers, queueSize int) *GradingDispatcher {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	d := &GradingDispatcher{
		grading: gradingSvc,
		queue:   make(chan SubmitCommand, queueSize),
		stop:    make(chan struct{}),
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

func (d *GradingDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case cmd := <-d.queue:
			// 结果落在答题卡状态上，这里只记录失败供运维观察
			if _, err := d.grading.Submit(context.Background(), cmd.ExamID, cmd.StudentID, cmd.ImageRef); err != nil {
				logger.Log.Warn("async grading submit finished with error",
					zap.Uint("examId", cmd.ExamID),
					zap.Uint("studentId", cmd.StudentID),
					zap.Error(err))
			}
		case <-d.stop:
			return
		}
	}
}

// Enqueue 非阻塞投递，队列满时直接拒绝让调用方走同步路径或稍后再试
func (d *GradingDispatcher) Enqueue(cmd SubmitCommand) error {
	select {
	case d.queue <- cmd:
		return nil
	default:
		return ErrDispatcherBusy
	}
}

// Stop 停止接收并等工作协程退出。队列里未消费的命令会被丢弃，
// 对应答题卡从未创建过，重新上传即可。
func (d *GradingDispatcher) Stop() {
	d.once.Do(func() {
		close(d.stop)
	})
	d.wg.Wait()
}
