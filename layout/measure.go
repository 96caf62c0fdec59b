package layout

import (
	"math"
	"strings"
)

// WrapResult 是折行结果。
type WrapResult struct {
	Lines        []string `json:"lines"`
	MaxLineWidth float64  `json:"maxLineWidth"`
	LineHeight   float64  `json:"lineHeight"`
	TotalHeight  float64  `json:"totalHeight"`
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// SingleLineText 把换行替换为空格。单行文本项的测量、包围盒与绘制都使用它的结果。
func SingleLineText(s string) string { return lineBreaks.Replace(s) }

// Wrap 使用贪心填充算法将 text 折成不超过 maxWidth 的行。
// 预览、命中测试与导出都必须调用这里，不允许各自实现。
//
// 单个超宽单词不会在词内拆分，而是独占一行。
func Wrap(m Measurer, text string, maxWidth float64, font FontSpec, lineHeightMultiplier float64) WrapResult {
	out := WrapResult{LineHeight: math.Round(font.Size * lineHeightMultiplier)}
	words := strings.Fields(text)
	if len(words) == 0 {
		return out
	}

	var line string
	commit := func() {
		out.Lines = append(out.Lines, line)
		if w := m.Measure(line, font); w > out.MaxLineWidth {
			out.MaxLineWidth = w
		}
	}
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && m.Measure(candidate, font) > maxWidth {
			commit()
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		commit()
	}
	out.TotalHeight = float64(len(out.Lines)) * out.LineHeight
	return out
}

// WrapItem 按文本项自身的折行宽度与行高倍数折行。
func WrapItem(m Measurer, it TextItem) WrapResult {
	return Wrap(m, it.Text, it.WrapWidth, it.FontSpec(), it.LineHeight)
}
