package renderer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"sync/atomic"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/inkcard/layout"
)

// Background 异步加载背景图。加载完成前 Image 返回 nil，绘制时跳过背景。
type Background struct {
	path string
	img  atomic.Value // image.Image
	err  atomic.Value // error
	done chan struct{}
	once sync.Once
}

// LoadBackground 在后台 goroutine 中解码 path；path 为空时立即完成且没有图片。
// onReady 在加载结束（无论成功与否）后调用，可为 nil。
func LoadBackground(path string, onReady func()) *Background {
	b := &Background{path: path, done: make(chan struct{})}
	if path == "" {
		b.finish(nil, nil, onReady)
		return b
	}
	go func() {
		img, err := decodeFile(path)
		if err != nil {
			layout.Logger().Warn("renderer: 背景图加载失败，将不绘制背景", "path", path, "err", err)
		}
		b.finish(img, err, onReady)
	}()
	return b
}

func (b *Background) finish(img image.Image, err error, onReady func()) {
	b.once.Do(func() {
		if img != nil {
			b.img.Store(img)
		}
		if err != nil {
			b.err.Store(err)
		}
		close(b.done)
		if onReady != nil {
			onReady()
		}
	})
}

// Image 返回已加载的图片，未完成或失败时为 nil。
func (b *Background) Image() image.Image {
	if b == nil {
		return nil
	}
	img, _ := b.img.Load().(image.Image)
	return img
}

// Err 返回加载错误。
func (b *Background) Err() error {
	if b == nil {
		return nil
	}
	err, _ := b.err.Load().(error)
	return err
}

// Wait 阻塞直到加载结束，返回加载到的图片（可能为 nil）。导出前调用。
func (b *Background) Wait() image.Image {
	if b == nil {
		return nil
	}
	<-b.done
	return b.Image()
}

// Done 返回加载结束时关闭的 channel。
func (b *Background) Done() <-chan struct{} {
	return b.done
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取背景图 %s 失败: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码背景图 %s 失败: %w", path, err)
	}
	return img, nil
}
