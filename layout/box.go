package layout

// SelectionMargin 是选中框相对包围盒的外扩距离（逻辑像素）。
const SelectionMargin = 6.0

// LocalBox 计算文本项未旋转时的包围盒，原点为锚点。
//
// 高度使用字号近似字形高度（不区分 ascent/descent），盒子顶部固定为 -Size。
// 旋转只在绘制时生效，不参与包围盒计算，因此旋转后的文本命中区域仍按未旋转计算。
func LocalBox(it TextItem, m Measurer) Box {
	var width, height float64
	switch it.Kind {
	case Wrapped:
		w := WrapItem(m, it)
		width, height = w.MaxLineWidth, w.TotalHeight
	default:
		if it.Text == "" {
			return Box{}
		}
		width = m.Measure(SingleLineText(it.Text), it.FontSpec())
		height = it.Size
	}
	if width <= 0 || height <= 0 {
		return Box{}
	}
	return Box{Left: alignOffset(width, it.Align), Top: -it.Size, Width: width, Height: height}
}

// ItemBox 返回画布坐标系下的包围盒，命中测试与选中框共用。
func ItemBox(it TextItem, m Measurer) Box {
	b := LocalBox(it, m)
	if b.Empty() {
		return Box{}
	}
	return b.Translate(it.X, it.Y)
}

// OutlineBox 返回选中描边矩形（包围盒四周外扩 SelectionMargin）。
func OutlineBox(b Box) Box {
	return b.Expand(SelectionMargin)
}

// alignOffset 返回盒子左边相对锚点的偏移。
func alignOffset(width float64, align Align) float64 {
	switch align {
	case AlignCenter:
		return -width / 2
	case AlignRight:
		return -width
	default:
		return 0
	}
}
