package layout

import (
	"encoding/json"
	"os"
)

// ItemDebug 是调试输出中的单个字段：文本项本身、包围盒与折行结果。
type ItemDebug struct {
	Item    TextItem    `json:"item"`
	Box     Box         `json:"box"`
	Outline Box         `json:"outline"`
	Wrap    *WrapResult `json:"wrap,omitempty"`
}

// DebugItems 计算每个字段的几何信息，便于调试命中与选中框。
func DebugItems(items []TextItem, m Measurer) []ItemDebug {
	out := make([]ItemDebug, 0, len(items))
	for _, it := range items {
		d := ItemDebug{Item: it, Box: ItemBox(it, m)}
		d.Outline = OutlineBox(d.Box)
		if it.Kind == Wrapped {
			w := WrapItem(m, it)
			d.Wrap = &w
		}
		out = append(out, d)
	}
	return out
}

// WriteDebugJSON 将任意布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
