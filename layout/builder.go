package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/inkcard/binding"
	"github.com/ByLCY/inkcard/dsl"
)

const (
	defaultCanvasWidth  = 800.0
	defaultCanvasHeight = 1131.0
	defaultExportScale  = 2.0
)

// Build 根据模板 AST 生成画布尺寸、资源与字段表。
//
// 字段属性按以下顺序叠加，后者覆盖前者：opts.Base、opts.Presets[key]、
// 字段引用的 style、字段行内参数、字段块中的属性。
func Build(doc *dsl.Document, opts BuildOptions) (*Template, error) {
	if doc == nil {
		return nil, fmt.Errorf("模板为空")
	}
	b := &builder{opts: opts}
	if err := b.collect(doc); err != nil {
		return nil, err
	}
	if b.canvas == nil {
		return nil, fmt.Errorf("模板中缺少 canvas 段落")
	}
	if err := b.checkFilename(); err != nil {
		return nil, err
	}

	b.tpl = &Template{
		Name:        doc.Name,
		Version:     doc.Version,
		Width:       defaultCanvasWidth,
		Height:      defaultCanvasHeight,
		ExportScale: defaultExportScale,
		Resources:   b.res,
		Meta:        b.meta,
	}
	if err := b.canvasParams(); err != nil {
		return nil, err
	}
	if len(b.canvas.Fields) == 0 {
		return nil, fmt.Errorf("canvas 段落中没有任何 field（第 %d 行）", b.canvas.Pos.Line)
	}

	seen := map[string]bool{}
	for _, f := range b.canvas.Fields {
		if seen[f.Key] {
			return nil, fmt.Errorf("字段 %s 重复定义（第 %d 行）", f.Key, f.Pos.Line)
		}
		seen[f.Key] = true
		spec, err := b.field(f)
		if err != nil {
			return nil, err
		}
		b.tpl.Fields = append(b.tpl.Fields, spec)
	}
	Logger().Debug("layout: 模板构建完成", "name", b.tpl.Name, "fields", len(b.tpl.Fields), "width", b.tpl.Width, "height", b.tpl.Height)
	return b.tpl, nil
}

type builder struct {
	opts   BuildOptions
	res    ResourceSet
	meta   TemplateMeta
	canvas *dsl.Canvas
	tpl    *Template
}

// collect 读取 meta 与 resources，并记下第一个 canvas 段落。
func (b *builder) collect(doc *dsl.Document) error {
	b.res = ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
		Images: map[string]ImageResource{},
		Styles: map[string]Style{},
	}
	raw := map[string]Style{}

	for _, section := range doc.Sections {
		switch {
		case section.Meta != nil:
			props := section.Meta.Map()
			b.meta.Title = props["title"]
			b.meta.Author = props["author"]
			b.meta.Filename = props["filename"]
		case section.Resources != nil:
			for _, d := range section.Resources.Decls {
				if err := b.declare(d, raw); err != nil {
					return err
				}
			}
		case section.Canvas != nil && b.canvas == nil:
			b.canvas = section.Canvas
		}
	}

	styles, err := resolveStyles(raw)
	if err != nil {
		return err
	}
	b.res.Styles = styles
	return nil
}

// checkFilename 确认 filename 模式中的 ${key} 都是已知字段。
func (b *builder) checkFilename() error {
	if len(b.opts.FilenameKeys) == 0 {
		return nil
	}
	known := make(map[string]bool, len(b.opts.FilenameKeys))
	for _, k := range b.opts.FilenameKeys {
		known[k] = true
	}
	for _, p := range binding.Placeholders(b.meta.Filename) {
		if !known[p] {
			return fmt.Errorf("meta filename 引用了未知字段 %s（可用：%s）", p, strings.Join(b.opts.FilenameKeys, ", "))
		}
	}
	return nil
}

func (b *builder) declare(d *dsl.Decl, styles map[string]Style) error {
	switch {
	case d.Font != nil:
		b.res.Fonts[d.Font.Name] = fontResource(d.Font)
	case d.Image != nil:
		b.res.Images[d.Image.Name] = ImageResource{Name: d.Image.Name, Src: d.Image.Props.Map()["src"]}
	case d.Color != nil:
		c, err := ParseColor(d.Color.Value)
		if err != nil {
			return fmt.Errorf("颜色 %s（第 %d 行）: %w", d.Color.Name, d.Color.Pos.Line, err)
		}
		b.res.Colors[d.Color.Name] = c
	case d.Style != nil:
		styles[d.Style.Name] = Style{Name: d.Style.Name, Extends: d.Style.Extends, Props: d.Style.Props.Map()}
	}
	return nil
}

// fontResource 读取 `font <Name> { src family style fallback }`。
// 同一 family 可以声明多次，分别提供 regular 与 bold。
func fontResource(d *dsl.FontDecl) FontResource {
	props := d.Props.Map()
	font := FontResource{
		Name:     d.Name,
		Family:   d.Name,
		Src:      props["src"],
		Style:    props["style"],
		Fallback: props["fallback"],
	}
	if v := props["family"]; v != "" {
		font.Family = v
	}
	return font
}

func (b *builder) canvasParams() error {
	for _, p := range b.canvas.Params {
		v := p.Value.Text()
		switch strings.ToLower(p.Name) {
		case "width", "height":
			l, ok := ParseLength(v)
			if !ok || l.Px(0) <= 0 {
				return fmt.Errorf("canvas %s 无效：%s", p.Name, v)
			}
			if strings.EqualFold(p.Name, "width") {
				b.tpl.Width = l.Px(0)
			} else {
				b.tpl.Height = l.Px(0)
			}
		case "background":
			if img, ok := b.res.Images[v]; ok {
				b.tpl.Background = img.Src
			} else {
				b.tpl.Background = v
			}
		case "export":
			f, ok := ParseFactor(v)
			if !ok {
				return fmt.Errorf("导出倍率无效：%s", v)
			}
			b.tpl.ExportScale = f
		default:
			Logger().Debug("layout: 忽略未知 canvas 参数", "name", p.Name, "value", v)
		}
	}
	return nil
}

// field 解析 `field <key> [Style] k v ... { "默认文本" k: v }`。
func (b *builder) field(f *dsl.Field) (FieldSpec, error) {
	args := f.Args
	var style string
	if len(args)%2 == 1 {
		style = args[0].Text()
		args = args[1:]
	}
	props := map[string]string{}
	for i := 0; i+1 < len(args); i += 2 {
		props[args[i].Text()] = args[i+1].Text()
	}
	if f.Body != nil {
		for _, st := range f.Body.Stmts {
			if st.Property != nil {
				props[st.Property.Key] = st.Property.Value.Text()
			}
		}
	}
	if v, ok := props["style"]; ok {
		style = v
		delete(props, "style")
	}

	it := b.opts.Base
	it.Key = f.Key
	if p, ok := b.opts.Presets[f.Key]; ok {
		ApplyProps(&it, p.Props, &b.res, b.tpl.Width, b.tpl.Height)
	}
	if style != "" {
		s, ok := b.res.Styles[style]
		if !ok {
			return FieldSpec{}, fmt.Errorf("字段 %s 引用了未定义的 style %s（第 %d 行）", f.Key, style, f.Pos.Line)
		}
		ApplyProps(&it, s.Props, &b.res, b.tpl.Width, b.tpl.Height)
	}
	ApplyProps(&it, props, &b.res, b.tpl.Width, b.tpl.Height)

	spec := FieldSpec{Item: it}
	if text := f.Text(); text != "" {
		spec.Item.Text = text
		spec.Fixed = true
	}
	return spec, nil
}

// ApplyProps 将字符串属性覆盖到文本项上。res 可以为 nil；x/y 的百分比相对 refW/refH。
func ApplyProps(it *TextItem, props map[string]string, res *ResourceSet, refW, refH float64) {
	for key, raw := range props {
		v := strings.TrimSpace(raw)
		switch strings.ToLower(key) {
		case "x":
			if l, ok := ParseLength(v); ok {
				it.X = l.Px(refW)
			}
		case "y":
			if l, ok := ParseLength(v); ok {
				it.Y = l.Px(refH)
			}
		case "size":
			if l, ok := ParseLength(v); ok && l.Px(0) > 0 {
				it.Size = l.Px(0)
			}
		case "font":
			it.Font = fontFamily(v, res)
		case "color":
			it.Color = namedColor(v, res)
		case "bold":
			it.Bold = parseBool(v, it.Bold)
		case "shadow":
			it.Shadow = parseBool(v, it.Shadow)
		case "align":
			it.Align = ParseAlign(strings.ToLower(v))
		case "rotate", "rotation":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				it.Rotation = f
			}
		case "wrap", "wrap-width":
			if l, ok := ParseLength(v); ok && l.Px(refW) > 0 {
				it.WrapWidth = l.Px(refW)
				it.Kind = Wrapped
			}
		case "line-height", "lineheight":
			if f, ok := ParseFactor(v); ok {
				it.LineHeight = f
			}
		case "text":
			it.Text = v
		}
	}
	// layout 显式声明时优先于 wrap 推断
	for key, v := range props {
		if strings.EqualFold(key, "layout") {
			it.Kind = ParseLayoutKind(strings.ToLower(strings.TrimSpace(v)))
		}
	}
}

func fontFamily(name string, res *ResourceSet) string {
	if res == nil {
		return name
	}
	if f, ok := res.Fonts[name]; ok {
		return f.Family
	}
	return name
}

func namedColor(name string, res *ResourceSet) string {
	if res != nil {
		if c, ok := res.Colors[name]; ok {
			return c.Hex()
		}
	}
	return name
}

func parseBool(v string, fallback bool) bool {
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return fallback
	}
}

// resolveStyles 展开 extends 链，子样式属性覆盖父样式。
func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var visit func(name string) (Style, error)
	visit = func(name string) (Style, error) {
		if s, ok := resolved[name]; ok {
			return s, nil
		}
		s, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if s.Extends != "" {
			parent, err := visit(s.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range s.Props {
			props[k] = v
		}
		s.Props = props
		resolved[name] = s
		delete(visiting, name)
		return s, nil
	}

	for name := range styles {
		if _, err := visit(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}
