package editor

import "sync"

// FrameID 标识一次已登记的帧回调。
type FrameID uint64

// FrameSource 提供“下一帧执行”的能力，预览窗口由 FrameQueue 实现。
type FrameSource interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// FrameQueue 在每次 Tick 时执行此前登记的回调，预览窗口每帧 Update 调用一次 Tick。
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameID
	order   []FrameID
	pending map[FrameID]func()
}

// RequestFrame 登记一个回调，返回可用于取消的 id。
func (q *FrameQueue) RequestFrame(fn func()) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = map[FrameID]func(){}
	}
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

// CancelFrame 取消尚未执行的回调；已执行或未知的 id 被忽略。
func (q *FrameQueue) CancelFrame(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}

// Tick 执行当前已登记的全部回调并返回执行数量。
// 回调在锁外运行；回调中新登记的请求留到下一次 Tick。
func (q *FrameQueue) Tick() int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	var due []func()
	for _, id := range order {
		if fn, ok := q.pending[id]; ok {
			due = append(due, fn)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, fn := range due {
		fn()
	}
	return len(due)
}

// Pending 返回尚未执行的回调数量。
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Scheduler 是单槽的重绘合并器：任意次 Request 在下一帧之前只产生一次 render 调用。
// 新请求会取消尚未执行的旧请求再重新登记，而不是叠加。
type Scheduler struct {
	mu      sync.Mutex
	src     FrameSource
	render  func()
	pending FrameID
	armed   bool
}

// NewScheduler 创建调度器，render 在帧回调中执行。
func NewScheduler(src FrameSource, render func()) *Scheduler {
	return &Scheduler{src: src, render: render}
}

// Request 请求在下一帧重绘一次。
func (s *Scheduler) Request() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed {
		s.src.CancelFrame(s.pending)
	}
	s.armed = true
	s.pending = s.src.RequestFrame(s.fire)
}

// Pending 报告是否有尚未执行的重绘。
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.armed = false
	render := s.render
	s.mu.Unlock()
	if render != nil {
		render()
	}
}
