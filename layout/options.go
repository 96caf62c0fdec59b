package layout

// BuildOptions 配置模板构建阶段所需的依赖。
type BuildOptions struct {
	// Base 为字段的缺省样式，模板中的 style 与内联属性在其上覆盖。
	Base TextItem
	// Presets 按字段 key 提供的预设样式，优先级低于模板内联属性。
	Presets map[string]Style
	// FilenameKeys 为 meta filename 模式允许引用的字段；为空时不校验。
	FilenameKeys []string
}

// Measurer 根据显式给出的字体测量单行文本宽度（逻辑像素）。
// 测量结果只依赖 text 与 font，不依赖任何先前的绘制状态。
type Measurer interface {
	Measure(text string, font FontSpec) float64
}
