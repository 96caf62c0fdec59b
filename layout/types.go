package layout

// 该文件定义文本项、包围盒与模板资源描述，供编辑器、渲染与调试 JSON 共用。

// LayoutKind 在创建文本项时确定，决定单行还是折行排版。
type LayoutKind int

const (
	SingleLine LayoutKind = iota
	Wrapped
)

func (k LayoutKind) String() string {
	if k == Wrapped {
		return "wrapped"
	}
	return "single"
}

// MarshalText 使会话与调试 JSON 中的 kind 可读。
func (k LayoutKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 与 MarshalText 对应。
func (k *LayoutKind) UnmarshalText(b []byte) error {
	*k = ParseLayoutKind(string(b))
	return nil
}

// ParseLayoutKind 解析模板中的 layout 属性，无法识别时返回 SingleLine。
func ParseLayoutKind(v string) LayoutKind {
	switch v {
	case "wrapped", "wrap", "multi", "multiline":
		return Wrapped
	default:
		return SingleLine
	}
}

// Align 为文本相对锚点的水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign 支持 start/end 别名，未知值回退为 left。
func ParseAlign(v string) Align {
	switch v {
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

// TextItem 是画布上的一个文本字段。坐标单位为逻辑像素（未乘设备像素比）。
// 单行文本的 (X, Y) 为基线起点；折行文本的 (X, Y) 为首行基线起点。
type TextItem struct {
	Key        string     `json:"key"`
	Kind       LayoutKind `json:"kind"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Text       string     `json:"text"`
	Font       string     `json:"font"`
	Size       float64    `json:"size"`
	Bold       bool       `json:"bold"`
	Color      string     `json:"color"`
	Align      Align      `json:"align"`
	Shadow     bool       `json:"shadow"`
	Rotation   float64    `json:"rotation"`
	WrapWidth  float64    `json:"wrapWidth"`
	LineHeight float64    `json:"lineHeight"`
}

// FontSpec 返回测量与绘制所需的字体参数。
func (it TextItem) FontSpec() FontSpec {
	return FontSpec{Family: it.Font, Size: it.Size, Bold: it.Bold}
}

// FontSpec 显式描述一次测量所用的字体，测量结果只依赖这些参数。
type FontSpec struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold"`
}

// Box 是轴对齐矩形（逻辑像素）。
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty 表示零面积盒子，零面积盒子不参与命中。
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

func (b Box) Right() float64  { return b.Left + b.Width }
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Contains 使用闭区间判断点是否落在盒内。
func (b Box) Contains(x, y float64) bool {
	if b.Empty() {
		return false
	}
	return x >= b.Left && x <= b.Right() && y >= b.Top && y <= b.Bottom()
}

// Translate 平移盒子。
func (b Box) Translate(dx, dy float64) Box {
	b.Left += dx
	b.Top += dy
	return b
}

// Expand 在四个方向各扩展 m。
func (b Box) Expand(m float64) Box {
	return Box{Left: b.Left - m, Top: b.Top - m, Width: b.Width + 2*m, Height: b.Height + 2*m}
}

// Center 返回盒子中心点。
func (b Box) Center() (float64, float64) {
	return b.Left + b.Width/2, b.Top + b.Height/2
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// FontResource 描述字体资源，src 可以是文件路径、embed:<name> 或 built-in:<name>。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"`
	Fallback string `json:"fallback,omitempty"`
}

// ImageResource 记录图片资源。
type ImageResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// Style 用于描述可继承的字段样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// ResourceSet 记录模板解析出的字体、颜色、图片与样式定义。
type ResourceSet struct {
	Fonts  map[string]FontResource  `json:"fonts"`
	Colors map[string]Color         `json:"colors"`
	Images map[string]ImageResource `json:"images"`
	Styles map[string]Style         `json:"styles"`
}

// FieldSpec 描述模板中的一个字段：初始位置、样式与默认文本。
type FieldSpec struct {
	Item TextItem `json:"item"`
	// Fixed 表示字段文本来自模板本身（例如连接词 AND），不随条目切换。
	Fixed bool `json:"fixed"`
}

// TemplateMeta 保存模板元信息。
type TemplateMeta struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Filename string `json:"filename"`
}

// Template 是模板构建结果：画布尺寸、背景、导出倍率与字段表。
type Template struct {
	Name        string       `json:"name"`
	Version     string       `json:"version"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Background  string       `json:"background"`
	ExportScale float64      `json:"exportScale"`
	Fields      []FieldSpec  `json:"fields"`
	Resources   ResourceSet  `json:"resources"`
	Meta        TemplateMeta `json:"meta"`
}
