package editor

import "testing"

func TestSchedulerCoalesces(t *testing.T) {
	var q FrameQueue
	renders := 0
	s := NewScheduler(&q, func() { renders++ })
	for i := 0; i < 5; i++ {
		s.Request()
	}
	if q.Pending() != 1 {
		t.Fatalf("应只保留 1 个待执行帧，实际 %d", q.Pending())
	}
	if !s.Pending() {
		t.Fatalf("应有待执行的重绘")
	}
	q.Tick()
	if renders != 1 {
		t.Fatalf("5 次请求应只渲染 1 次，实际 %d", renders)
	}
	if s.Pending() {
		t.Fatalf("执行后不应再有待执行的重绘")
	}
	q.Tick()
	if renders != 1 {
		t.Fatalf("无请求时不应渲染")
	}
	s.Request()
	q.Tick()
	if renders != 2 {
		t.Fatalf("新请求应在下一帧渲染，实际 %d", renders)
	}
}

func TestFrameQueueDefersNestedRequests(t *testing.T) {
	var q FrameQueue
	ran := 0
	q.RequestFrame(func() {
		ran++
		q.RequestFrame(func() { ran++ })
	})
	if n := q.Tick(); n != 1 || ran != 1 {
		t.Fatalf("回调中新登记的请求应留到下一帧: n=%d ran=%d", n, ran)
	}
	if n := q.Tick(); n != 1 || ran != 2 {
		t.Fatalf("下一帧应执行嵌套请求: n=%d ran=%d", n, ran)
	}
	id := q.RequestFrame(func() { ran++ })
	q.CancelFrame(id)
	if n := q.Tick(); n != 0 || ran != 2 {
		t.Fatalf("已取消的回调不应执行")
	}
}
