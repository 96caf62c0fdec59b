package editor

import "github.com/ByLCY/inkcard/layout"

// 默认字段 key。
const (
	KeyP1Name             = "p1_name"
	KeyP1Parents          = "p1_parents"
	KeyP1Address          = "p1_address"
	KeyAnd                = "and"
	KeyP2Name             = "p2_name"
	KeyP2Parents          = "p2_parents"
	KeyP2Address          = "p2_address"
	KeyMarriageDate       = "marriage_date"
	KeyRegistrationNumber = "registration_number"
)

// 缺省画布尺寸（逻辑像素）。
const (
	DefaultWidth  = 800.0
	DefaultHeight = 1131.0
)

// EntryKeys 是条目记录覆盖的字段，按表单顺序。
var EntryKeys = []string{
	KeyP1Name, KeyP1Parents, KeyP1Address,
	KeyP2Name, KeyP2Parents, KeyP2Address,
	KeyMarriageDate, KeyRegistrationNumber,
}

type schemaField struct {
	key   string
	kind  layout.LayoutKind
	yFrac float64
	text  string
}

var defaultSchema = []schemaField{
	{key: KeyP1Name, yFrac: 0.35},
	{key: KeyP1Parents, yFrac: 0.39},
	{key: KeyP1Address, kind: layout.Wrapped, yFrac: 0.42},
	{key: KeyAnd, yFrac: 0.51, text: "AND"},
	{key: KeyP2Name, yFrac: 0.58},
	{key: KeyP2Parents, yFrac: 0.62},
	{key: KeyP2Address, kind: layout.Wrapped, yFrac: 0.65},
	{key: KeyMarriageDate, yFrac: 0.73},
	{key: KeyRegistrationNumber, yFrac: 0.78},
}

// Defaults 返回新建文本项的缺省样式。
func Defaults() layout.TextItem {
	return layout.TextItem{
		Font:       "system-ui, sans-serif",
		Size:       28,
		Color:      "#000000",
		Align:      layout.AlignCenter,
		WrapWidth:  400,
		LineHeight: 1.25,
	}
}

// Presets 返回按字段 key 的预设样式，在缺省样式之上覆盖。
func Presets() map[string]layout.Style {
	parents := map[string]string{"size": "22", "line-height": "1.25", "bold": "true"}
	address := map[string]string{"size": "20", "line-height": "1.3", "bold": "true", "wrap": "420"}
	small := map[string]string{"size": "20", "bold": "true"}
	return map[string]layout.Style{
		KeyP1Parents:          {Name: KeyP1Parents, Props: parents},
		KeyP2Parents:          {Name: KeyP2Parents, Props: parents},
		KeyP1Address:          {Name: KeyP1Address, Props: address},
		KeyP2Address:          {Name: KeyP2Address, Props: address},
		KeyMarriageDate:       {Name: KeyMarriageDate, Props: small},
		KeyRegistrationNumber: {Name: KeyRegistrationNumber, Props: small},
	}
}

// DefaultTemplate 生成内置的双人证书字段表：全部水平居中，纵向位置按画布高度比例。
func DefaultTemplate(width, height float64) *layout.Template {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	presets := Presets()
	tpl := &layout.Template{
		Name:        "TwoPersonCard",
		Version:     "v1",
		Width:       width,
		Height:      height,
		ExportScale: 2,
		Meta:        layout.TemplateMeta{Filename: DefaultFilenamePattern},
	}
	for _, f := range defaultSchema {
		it := Defaults()
		it.Key = f.key
		if p, ok := presets[f.key]; ok {
			layout.ApplyProps(&it, p.Props, nil, width, height)
		}
		it.Kind = f.kind
		it.X = width / 2
		it.Y = height * f.yFrac
		it.Text = f.text
		tpl.Fields = append(tpl.Fields, layout.FieldSpec{Item: it, Fixed: f.text != ""})
	}
	return tpl
}

// DefaultFilenamePattern 是导出文件名模式。
const DefaultFilenamePattern = "${" + KeyP1Name + "}-${" + KeyP2Name + "}"
