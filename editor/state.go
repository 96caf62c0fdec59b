package editor

import (
	"image"

	"github.com/ByLCY/inkcard/layout"
	"github.com/ByLCY/inkcard/renderer"
)

// State 持有一张画布的全部编辑状态：文本项、选中集合与拖动。
// 只允许在单个 goroutine（预览窗口的 Update 循环或 CLI 命令）中调用。
type State struct {
	width    float64
	height   float64
	store    *Store
	sel      Selection
	drag     Drag
	measurer layout.Measurer
	fixed    map[string]bool
	redraw   func()

	lastX, lastY float64
}

// New 按模板字段表初始化状态。tpl 为 nil 时使用内置的双人证书字段表。
func New(tpl *layout.Template, m layout.Measurer) *State {
	if tpl == nil {
		tpl = DefaultTemplate(DefaultWidth, DefaultHeight)
	}
	s := &State{
		width:    tpl.Width,
		height:   tpl.Height,
		store:    NewStore(),
		measurer: m,
		fixed:    map[string]bool{},
	}
	for _, f := range tpl.Fields {
		s.store.Put(f.Item)
		if f.Fixed {
			s.fixed[f.Item.Key] = true
		}
	}
	layout.Logger().Debug("editor: 状态初始化", "fields", s.store.Len(), "width", s.width, "height", s.height)
	return s
}

// OnRedraw 设置立即重绘回调（拖动、删除、样式修改后调用）。
func (s *State) OnRedraw(fn func()) { s.redraw = fn }

func (s *State) requestRedraw() {
	if s.redraw != nil {
		s.redraw()
	}
}

// Size 返回逻辑画布尺寸。
func (s *State) Size() (float64, float64) { return s.width, s.height }

func (s *State) Store() *Store { return s.store }

func (s *State) Selection() *Selection { return &s.sel }

// Dragging 报告是否正在拖动。
func (s *State) Dragging() bool { return s.drag.Active() }

// HitTest 返回 (x, y) 处最上层的文本项。
func (s *State) HitTest(x, y float64) (string, bool) {
	return HitTest(s.store.Items(), s.measurer, x, y)
}

// PointerDown 处理按下：命中时按 shift 切换或单选，并以命中项为锚点开始拖动；
// 未命中且未按 shift 时清空选中。返回是否命中。
func (s *State) PointerDown(x, y float64, shift bool) bool {
	key, ok := s.HitTest(x, y)
	if !ok {
		if !shift && s.sel.Len() > 0 {
			s.sel.Clear()
			s.requestRedraw()
		}
		return false
	}
	selected := true
	if shift {
		selected = s.sel.Toggle(key)
	} else {
		s.sel.SelectOnly(key)
	}
	// 锚点被 shift 取消选中时不开始拖动
	if selected {
		it, _ := s.store.Get(key)
		s.drag.start(key, x-it.X, y-it.Y)
	} else {
		s.drag.stop()
	}
	s.requestRedraw()
	return true
}

// PointerMove 在拖动中把锚点移动到指针位置减去初始偏移，其余选中项平移相同距离。
// 返回是否发生移动。锚点已被删除时静默结束拖动。
func (s *State) PointerMove(x, y float64) bool {
	if !s.drag.Active() {
		return false
	}
	anchor, ok := s.store.Get(s.drag.Anchor)
	if !ok {
		s.drag.stop()
		return false
	}
	dx := x - s.drag.OffsetX - anchor.X
	dy := y - s.drag.OffsetY - anchor.Y
	for _, key := range s.sel.Keys() {
		if it, ok := s.store.Get(key); ok {
			it.X += dx
			it.Y += dy
		}
	}
	s.requestRedraw()
	return true
}

// PointerUp 结束拖动。
func (s *State) PointerUp() { s.drag.stop() }

// KeyDown 处理按键，Delete/Backspace 删除选中项。返回是否处理。
func (s *State) KeyDown(key string) bool {
	switch key {
	case "Delete", "Backspace":
		return len(s.DeleteSelected()) > 0
	}
	return false
}

// DeleteSelected 从集合与选中中移除全部选中项，返回被删除的 key。
func (s *State) DeleteSelected() []string {
	keys := s.sel.Keys()
	if len(keys) == 0 {
		return nil
	}
	for _, key := range keys {
		s.store.Delete(key)
		delete(s.fixed, key)
		if s.drag.Anchor == key {
			s.drag.stop()
		}
	}
	s.sel.Clear()
	layout.Logger().Debug("editor: 删除字段", "keys", keys)
	s.requestRedraw()
	return keys
}

// StylePatch 描述一次样式修改，nil 字段保持不变。
type StylePatch struct {
	Text     *string
	Color    *string
	Size     *float64
	Font     *string
	Bold     *bool
	Shadow   *bool
	Align    *layout.Align
	Rotation *float64
}

// ApplyStyle 将修改应用到全部选中项并重绘，返回受影响的数量。
func (s *State) ApplyStyle(p StylePatch) int {
	n := 0
	for _, key := range s.sel.Keys() {
		it, ok := s.store.Get(key)
		if !ok {
			continue
		}
		if p.Text != nil {
			it.Text = *p.Text
		}
		if p.Color != nil {
			it.Color = *p.Color
		}
		if p.Size != nil && *p.Size > 0 {
			it.Size = *p.Size
		}
		if p.Font != nil {
			it.Font = *p.Font
		}
		if p.Bold != nil {
			it.Bold = *p.Bold
		}
		if p.Shadow != nil {
			it.Shadow = *p.Shadow
		}
		if p.Align != nil {
			it.Align = *p.Align
		}
		if p.Rotation != nil {
			it.Rotation = *p.Rotation
		}
		n++
	}
	if n > 0 {
		s.requestRedraw()
	}
	return n
}

// SetText 修改单个字段文本；字段不存在时返回 false。
func (s *State) SetText(key, value string) bool {
	it, ok := s.store.Get(key)
	if !ok {
		return false
	}
	it.Text = value
	s.requestRedraw()
	return true
}

// LoadEntry 用条目覆盖已有字段的文本，不修改位置与样式；已删除的字段被跳过。
func (s *State) LoadEntry(e Entry) {
	for key, text := range e.Fields() {
		if s.fixed[key] {
			continue
		}
		if it, ok := s.store.Get(key); ok {
			it.Text = text
		}
	}
	s.requestRedraw()
}

// ExtractTextFields 从当前字段文本生成条目（不含 id）。
func (s *State) ExtractTextFields() Entry {
	var e Entry
	for _, key := range EntryKeys {
		if it, ok := s.store.Get(key); ok {
			e.Set(key, it.Text)
		}
	}
	return e
}

// Inspector 是样式面板的显示内容，对应主选项。
type Inspector struct {
	Enabled bool
	Key     string
	Text    string
	Color   string
	Size    float64
	Font    string
	Bold    bool
	Shadow  bool
}

// Inspector 返回主选项的样式；没有选中项时 Enabled 为 false。
func (s *State) Inspector() Inspector {
	key, ok := s.sel.Primary()
	if !ok {
		return Inspector{}
	}
	it, ok := s.store.Get(key)
	if !ok {
		return Inspector{}
	}
	in := Inspector{
		Enabled: true,
		Key:     key,
		Text:    it.Text,
		Color:   it.Color,
		Size:    it.Size,
		Font:    it.Font,
		Bold:    it.Bold,
		Shadow:  it.Shadow,
	}
	if in.Color == "" {
		in.Color = "#000000"
	}
	if in.Size <= 0 {
		in.Size = 36
	}
	if in.Font == "" {
		in.Font = Defaults().Font
	}
	return in
}

// Scene 生成一次绘制的输入。
func (s *State) Scene(bg image.Image) renderer.Scene {
	selected := make(map[string]bool, s.sel.Len())
	for _, k := range s.sel.Keys() {
		selected[k] = true
	}
	return renderer.Scene{Items: s.store.Items(), Background: bg, Selected: selected}
}

// Surface 返回按 scale 缩放的绘制面。
func (s *State) Surface(scale float64) renderer.Surface {
	return renderer.Surface{Width: s.width, Height: s.height, Scale: scale}
}

// Restore 用快照替换全部文本项，清空选中与拖动。
func (s *State) Restore(items []layout.TextItem) {
	s.store = NewStore()
	for _, it := range items {
		s.store.Put(it)
	}
	s.sel.Clear()
	s.drag.stop()
	s.requestRedraw()
}
