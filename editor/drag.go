package editor

// Drag 记录一次拖动：锚点 key 与按下时指针相对锚点的偏移。
type Drag struct {
	Anchor  string
	OffsetX float64
	OffsetY float64
	active  bool
}

func (d *Drag) start(anchor string, offX, offY float64) {
	*d = Drag{Anchor: anchor, OffsetX: offX, OffsetY: offY, active: true}
}

func (d *Drag) stop() { *d = Drag{} }

// Active 报告是否正在拖动。
func (d Drag) Active() bool { return d.active }
