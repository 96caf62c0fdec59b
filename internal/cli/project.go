package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkcard/binding"
	"github.com/ByLCY/inkcard/dsl"
	"github.com/ByLCY/inkcard/editor"
	"github.com/ByLCY/inkcard/entries"
	"github.com/ByLCY/inkcard/layout"
	"github.com/ByLCY/inkcard/renderer"
	canvasrenderer "github.com/ByLCY/inkcard/renderer/canvas"
	"github.com/ByLCY/inkcard/session"
)

// project 串联模板、渲染器、编辑状态与背景图。
type project struct {
	tpl   *layout.Template
	r     *canvasrenderer.Renderer
	state *editor.State
	bg    *renderer.Background
	entry editor.Entry
}

// entrySource 描述字段文本来源，按 ID、Data、Sample 的顺序取第一个非空项。
type entrySource struct {
	ID     string
	Data   string
	Sample bool
}

func (s *entrySource) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&s.ID, "entry", "", "从条目文件中按 id 加载字段文本")
	flags.StringVar(&s.Data, "data", "", "字段文本 JSON，例如 {\"p1_name\":\"Jane\"}")
	flags.BoolVar(&s.Sample, "sample", false, "使用示例文本")
}

func (s *entrySource) set() bool {
	return s.ID != "" || s.Data != "" || s.Sample
}

func loadTemplate(path string) (*layout.Template, error) {
	if path == "" {
		return editor.DefaultTemplate(editor.DefaultWidth, editor.DefaultHeight), nil
	}
	doc, err := dsl.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}
	tpl, err := layout.Build(doc, layout.BuildOptions{
		Base:         editor.Defaults(),
		Presets:      editor.Presets(),
		FilenameKeys: editor.EntryKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("模板构建失败: %w", err)
	}
	if tpl.Background != "" && !filepath.IsAbs(tpl.Background) {
		tpl.Background = filepath.Join(filepath.Dir(path), tpl.Background)
	}
	return tpl, nil
}

// openProject 加载模板与背景，并按 src 与会话快照填充字段。onBackground 可为 nil。
func openProject(app *App, src entrySource, onBackground func()) (*project, error) {
	tpl, err := loadTemplate(app.Template)
	if err != nil {
		return nil, err
	}
	baseDir := "."
	if app.Template != "" {
		baseDir = filepath.Dir(app.Template)
	}
	fonts, err := fontResources(app.Fonts)
	if err != nil {
		return nil, err
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: baseDir, Fonts: fonts})
	r.RegisterFonts(tpl.Resources.Fonts)

	bgPath := tpl.Background
	if app.Background != "" {
		bgPath = app.Background
	}

	p := &project{tpl: tpl, r: r}
	p.entry, err = resolveEntry(app, src)
	if err != nil {
		return nil, err
	}
	bindFixedFields(tpl, p.entry)
	p.state = editor.New(tpl, r)

	if app.Session != "" {
		if _, statErr := os.Stat(app.Session); statErr == nil {
			snap, err := session.Load(app.Session)
			if err != nil {
				return nil, err
			}
			p.state.Restore(snap.Items)
		}
	}
	if src.set() {
		p.state.LoadEntry(p.entry)
	} else {
		p.entry = p.state.ExtractTextFields()
	}
	p.bg = renderer.LoadBackground(bgPath, onBackground)
	return p, nil
}

// fontResources 解析 --font name=path 列表。
func fontResources(specs []string) (map[string]canvasrenderer.Resource, error) {
	out := make(map[string]canvasrenderer.Resource, len(specs))
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("--font 格式应为 name=path：%q", spec)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("字体资源 %s: %w", name, err)
		}
		out[name] = canvasrenderer.Resource{Path: path}
	}
	return out, nil
}

func resolveEntry(app *App, src entrySource) (editor.Entry, error) {
	switch {
	case src.ID != "":
		return entries.Open(app.Entries).Get(src.ID)
	case src.Data != "":
		var e editor.Entry
		if err := json.Unmarshal([]byte(src.Data), &e); err != nil {
			return e, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		return e, nil
	case src.Sample:
		return editor.SampleEntry(), nil
	default:
		return editor.Entry{}, nil
	}
}

// bindFixedFields 将模板固定文本中的 ${key} 替换为条目字段。
func bindFixedFields(tpl *layout.Template, e editor.Entry) {
	for i := range tpl.Fields {
		f := &tpl.Fields[i]
		if f.Fixed && strings.Contains(f.Item.Text, "${") {
			f.Item.Text = binding.Interpolate(f.Item.Text, e)
		}
	}
}

// exportName 返回默认导出文件名。
func (p *project) exportName() string {
	return entries.Filename(p.entry, p.tpl.Meta.Filename) + ".png"
}

func (p *project) exportScale(override float64) float64 {
	if override > 0 {
		return override
	}
	if p.tpl.ExportScale > 0 {
		return p.tpl.ExportScale
	}
	return canvasrenderer.DefaultExportScale
}

// export 等待背景加载结束后写出 PNG。
func (p *project) export(path string, scale float64) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件 %s 失败: %w", path, err)
	}
	scale = p.exportScale(scale)
	scene := p.state.Scene(p.bg.Wait())
	if err := p.r.Export(file, scene, p.state.Surface(scale), scale); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("写入输出文件 %s 失败: %w", path, err)
	}
	return nil
}

func (p *project) snapshot() session.Snapshot {
	w, h := p.state.Size()
	return session.New(p.tpl.Name, w, h, p.state.Store().Items())
}
