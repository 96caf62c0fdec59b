package canvasrenderer

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/inkcard/fonts"
	"github.com/ByLCY/inkcard/layout"
)

const fallbackFamily = "go"

// familySources 为一个字体族的 regular/bold 数据来源。
type familySources struct {
	regular string
	bold    string
}

type faceKey struct {
	family string
	size   float64
	bold   bool
	color  color.RGBA
}

// RegisterFonts 注册模板中声明的字体资源，同一 family 的多条声明按 style 区分 regular/bold。
func (r *Renderer) RegisterFonts(res map[string]layout.FontResource) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	for _, f := range res {
		family := strings.ToLower(f.Family)
		if family == "" {
			family = strings.ToLower(f.Name)
		}
		src := r.sources[family]
		if isBoldStyle(f.Style) {
			src.bold = f.Src
		} else {
			src.regular = f.Src
		}
		r.sources[family] = src
		if f.Fallback != "" {
			r.fallbacks[family] = strings.ToLower(f.Fallback)
		}
		delete(r.families, family)
	}
	r.resolved = map[string]string{}
	r.faces = map[faceKey]*canvas.FontFace{}
}

// resolveFamily 将 CSS 风格的字体列表（"Script, system-ui, sans-serif"）解析为已知族名。
// 调用方需持有 fontMu。
func (r *Renderer) resolveFamily(list string) string {
	if name, ok := r.resolved[list]; ok {
		return name
	}
	resolved := fallbackFamily
	for _, part := range strings.Split(list, ",") {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(part), `"'`))
		if name == "" {
			continue
		}
		if _, ok := r.sources[name]; ok {
			resolved = name
			break
		}
		if g, ok := fonts.Generic(name); ok {
			resolved = g
			break
		}
		if _, err := fonts.Load(name); err == nil {
			resolved = name
			break
		}
	}
	r.resolved[list] = resolved
	return resolved
}

// family 返回已加载 regular 与 bold 的字体族。调用方需持有 fontMu。
func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	if fam, ok := r.families[name]; ok {
		return fam, nil
	}
	regular, bold, err := r.familyBytes(name)
	if err != nil {
		if name == fallbackFamily {
			return nil, err
		}
		fb := r.familyFallback(name)
		layout.Logger().Warn("renderer: 字体加载失败，使用后备字体", "family", name, "fallback", fb, "err", err)
		fam, fbErr := r.family(fb)
		if fbErr != nil {
			return nil, err
		}
		r.families[name] = fam
		return fam, nil
	}
	fam := canvas.NewFontFamily(name)
	if err := fam.LoadFont(regular, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	if err := fam.LoadFont(bold, 0, canvas.FontBold); err != nil {
		return nil, fmt.Errorf("加载字体 %s 粗体失败: %w", name, err)
	}
	r.families[name] = fam
	return fam, nil
}

// familyFallback 返回模板声明的后备族；只允许回退到内置族，避免循环。
func (r *Renderer) familyFallback(name string) string {
	fb, ok := r.fallbacks[name]
	if !ok {
		return fallbackFamily
	}
	if g, ok := fonts.Generic(fb); ok {
		return g
	}
	if _, isTemplate := r.sources[fb]; !isTemplate {
		if _, err := fonts.Load(fb); err == nil {
			return fb
		}
	}
	return fallbackFamily
}

// familyBytes 读取 regular 与 bold 数据；缺少 bold 时复用 regular。
func (r *Renderer) familyBytes(name string) ([]byte, []byte, error) {
	src, ok := r.sources[name]
	if !ok {
		// 内置族
		regular, err := fonts.Load(name + "/regular")
		if err != nil {
			return nil, nil, err
		}
		bold, err := fonts.Load(name + "/bold")
		if err != nil {
			bold = regular
		}
		return regular, bold, nil
	}
	if src.regular == "" {
		src.regular = src.bold
	}
	regular, err := r.loadFontBytes(src.regular)
	if err != nil {
		return nil, nil, err
	}
	bold := regular
	if src.bold != "" && src.bold != src.regular {
		if b, err := r.loadFontBytes(src.bold); err == nil {
			bold = b
		} else {
			layout.Logger().Warn("renderer: 粗体字体加载失败，使用常规字重", "family", name, "err", err)
		}
	}
	return regular, bold, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// face 返回指定字体、字号（逻辑像素）与颜色的字体面，结果被缓存。
func (r *Renderer) face(spec layout.FontSpec, col color.RGBA) (*canvas.FontFace, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	name := r.resolveFamily(spec.Family)
	key := faceKey{family: name, size: spec.Size, bold: spec.Bold, color: col}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	fam, err := r.family(name)
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if spec.Bold {
		style = canvas.FontBold
	}
	f := fam.Face(toPt(spec.Size), col, style, canvas.FontNormal)
	r.faces[key] = f
	return f, nil
}

func isBoldStyle(style string) bool {
	s := strings.ToLower(style)
	return strings.Contains(s, "bold") || strings.Contains(s, "black") || s == "b"
}

// toPt 将逻辑像素字号换算为字体系统使用的 pt（画布单位按 mm 处理，1 单位 = 1 逻辑像素）。
func toPt(px float64) float64 { return px * layout.MmToPt }
