package editor

import "testing"

func TestHandleInputDrag(t *testing.T) {
	s := newTestState(item("a", 100, 100, "AAAA"))
	frames := []Input{
		{X: 100, Y: 90, Pressed: true, JustPressed: true},
		{X: 100, Y: 90, Pressed: true},
		{X: 130, Y: 80, Pressed: true},
		// 指针离开画布后仍继续拖动
		{X: -20, Y: -40, Pressed: true},
		{X: -20, Y: -40, JustReleased: true},
		{X: 300, Y: 300},
	}
	var changed []bool
	for _, in := range frames {
		changed = append(changed, s.HandleInput(in))
	}
	want := []bool{true, false, true, true, false, false}
	for i := range want {
		if changed[i] != want[i] {
			t.Fatalf("第 %d 帧 changed 期望 %v，实际 %v", i, want[i], changed[i])
		}
	}
	a, _ := s.Store().Get("a")
	if a.X != -20 || a.Y != -30 {
		t.Fatalf("拖动结果错误: (%g,%g)", a.X, a.Y)
	}
	if s.Dragging() {
		t.Fatalf("松开后应结束拖动")
	}
}

func TestHandleInputDeleteKey(t *testing.T) {
	s := newTestState(item("a", 100, 100, "AAAA"))
	s.HandleInput(Input{X: 100, Y: 90, Pressed: true, JustPressed: true})
	if !s.HandleInput(Input{X: 100, Y: 90, JustReleased: true, Keys: []string{"Backspace"}}) {
		t.Fatalf("Backspace 应删除选中项")
	}
	if s.Store().Len() != 0 {
		t.Fatalf("字段应被删除")
	}
	if s.HandleInput(Input{Keys: []string{"Delete"}}) {
		t.Fatalf("无选中时 Delete 不应改变状态")
	}
}
