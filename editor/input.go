package editor

// Input 是一帧内轮询到的指针与键盘状态，坐标为逻辑像素。
// 指针位置在按键按住期间即使离开画布也会继续上报。
type Input struct {
	X, Y         float64
	Pressed      bool // 左键当前按住
	JustPressed  bool
	JustReleased bool
	Shift        bool
	Keys         []string // 本帧刚按下的键名，例如 "Delete"
}

// HandleInput 将一帧输入转换为 PointerDown/Move/Up 与 KeyDown 调用，返回状态是否改变。
func (s *State) HandleInput(in Input) bool {
	changed := false
	if in.JustPressed {
		s.lastX, s.lastY = in.X, in.Y
		had := s.sel.Len() > 0
		hit := s.PointerDown(in.X, in.Y, in.Shift)
		changed = hit || (had && !in.Shift)
	} else if in.Pressed && s.drag.Active() && (in.X != s.lastX || in.Y != s.lastY) {
		s.lastX, s.lastY = in.X, in.Y
		changed = s.PointerMove(in.X, in.Y) || changed
	}
	if in.JustReleased {
		s.PointerUp()
	}
	for _, k := range in.Keys {
		changed = s.KeyDown(k) || changed
	}
	return changed
}
