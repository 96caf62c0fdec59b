package editor

import "github.com/ByLCY/inkcard/layout"

// HitTest 按插入逆序查找包含 (x, y) 的第一个文本项（最上层优先）。
// 包围盒与选中框、导出使用同一套计算，空文本不会命中。
func HitTest(items []layout.TextItem, m layout.Measurer, x, y float64) (string, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		if layout.ItemBox(items[i], m).Contains(x, y) {
			return items[i].Key, true
		}
	}
	return "", false
}
