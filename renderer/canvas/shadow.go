package canvasrenderer

import (
	"image"
	"math"
)

// blurRGBA 对预乘 alpha 的位图做可分离高斯模糊（先水平后垂直），sigma 单位为像素。
func blurRGBA(img *image.RGBA, sigma float64) {
	if sigma <= 0 {
		return
	}
	kernel := gaussianKernel(sigma)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	temp := make([]float32, w*h*4)
	half := len(kernel) / 2

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			var acc [4]float32
			for k, weight := range kernel {
				kx := clampInt(x+k-half, 0, w-1) * 4
				for c := 0; c < 4; c++ {
					acc[c] += float32(row[kx+c]) * weight
				}
			}
			copy(temp[(y*w+x)*4:], acc[:])
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]float32
			for k, weight := range kernel {
				ky := clampInt(y+k-half, 0, h-1)
				idx := (ky*w + x) * 4
				for c := 0; c < 4; c++ {
					acc[c] += temp[idx+c] * weight
				}
			}
			o := y*img.Stride + x*4
			for c := 0; c < 4; c++ {
				img.Pix[o+c] = clampUint8(acc[c])
			}
		}
	}
}

// gaussianKernel 生成归一化的一维核，半径取 3 sigma。
func gaussianKernel(sigma float64) []float32 {
	radius := int(math.Ceil(sigma * 3))
	kernel := make([]float32, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = float32(v)
		sum += v
	}
	for i := range kernel {
		kernel[i] = float32(float64(kernel[i]) / sum)
	}
	return kernel
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
