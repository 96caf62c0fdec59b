package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pierrec/lz4"

	"github.com/ByLCY/inkcard/layout"
)

// Version 是快照格式版本，读取时版本不一致会返回错误。
const Version = 1

// Snapshot 保存一张画布上全部文本项的位置与样式。
type Snapshot struct {
	Version  int               `json:"version"`
	Template string            `json:"template,omitempty"`
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
	SavedAt  time.Time         `json:"savedAt"`
	Items    []layout.TextItem `json:"items"`
}

// New 以当前时间创建快照。
func New(template string, width, height float64, items []layout.TextItem) Snapshot {
	return Snapshot{
		Version:  Version,
		Template: template,
		Width:    width,
		Height:   height,
		SavedAt:  time.Now().UTC(),
		Items:    items,
	}
}

// Encode 将快照编码为 lz4 压缩的 JSON。
func Encode(s Snapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("编码快照失败: %w", err)
	}
	return compressLZ4(raw)
}

// Decode 解码 Encode 的输出。
func Decode(data []byte) (Snapshot, error) {
	raw, err := decompressLZ4(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("解压快照失败: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return Snapshot{}, fmt.Errorf("解析快照失败: %w", err)
	}
	if s.Version != Version {
		return Snapshot{}, fmt.Errorf("快照版本 %d 不受支持", s.Version)
	}
	return s, nil
}

// Save 写入快照文件。
func Save(path string, s Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入快照 %s 失败: %w", path, err)
	}
	layout.Logger().Info("session: 快照已保存", "path", path, "items", len(s.Items))
	return nil
}

// Load 读取快照文件。
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("读取快照 %s 失败: %w", path, err)
	}
	return Decode(data)
}

func compressLZ4(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZ4(data []byte) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
