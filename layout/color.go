package layout

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var defaultInk = Color{R: 0, G: 0, B: 0, A: 255}

// ParseColor 解析 #rgb / #rrggbb / #rrggbbaa 形式的颜色。
func ParseColor(value string) (Color, error) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	alpha := 255
	if len(v) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(v[7:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		alpha = int(a)
		v = v[:7]
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	r, g, b := c.RGB255()
	return Color{R: int(r), G: int(g), B: int(b), A: alpha}, nil
}

// ResolveColor 解析颜色，失败时回退为黑色。
func ResolveColor(value string) Color {
	c, err := ParseColor(value)
	if err != nil {
		if value != "" {
			Logger().Debug("layout: 颜色解析失败，使用默认颜色", "value", value, "err", err)
		}
		return defaultInk
	}
	return c
}

// RGBA 返回预乘 alpha 的 color.RGBA。
func (c Color) RGBA() color.RGBA {
	a := float64(clamp8(c.A)) / 255
	return color.RGBA{
		R: uint8(math.Round(float64(clamp8(c.R)) * a)),
		G: uint8(math.Round(float64(clamp8(c.G)) * a)),
		B: uint8(math.Round(float64(clamp8(c.B)) * a)),
		A: uint8(clamp8(c.A)),
	}
}

// Hex 返回 #rrggbb 形式；alpha 不为 255 时返回 #rrggbbaa，可被 ParseColor 原样解析。
func (c Color) Hex() string {
	if a := clamp8(c.A); a != 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", clamp8(c.R), clamp8(c.G), clamp8(c.B), a)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp8(c.R), clamp8(c.G), clamp8(c.B))
}

func clamp8(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
