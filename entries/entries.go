package entries

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/ByLCY/inkcard/editor"
	"github.com/ByLCY/inkcard/layout"
)

// ErrNotFound 表示指定 id 的条目不存在。
var ErrNotFound = errors.New("条目不存在")

// File 是保存在 JSON 数组文件中的条目列表。
// 文件损坏或顶层不是数组时视为空列表，下次写入时整体重写。
type File struct {
	path string
	mu   sync.Mutex
}

// Open 返回指向 path 的条目文件，文件不存在时在首次写入时创建。
func Open(path string) *File {
	return &File{path: path}
}

// Path 返回文件路径。
func (f *File) Path() string { return f.path }

// List 返回全部条目，按文件中的顺序。
func (f *File) List() ([]editor.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return nil, err
	}
	return decode(data), nil
}

// Get 按 id 查找条目。
func (f *File) Get(id string) (editor.Entry, error) {
	list, err := f.List()
	if err != nil {
		return editor.Entry{}, err
	}
	for _, e := range list {
		if e.ID == id {
			return e, nil
		}
	}
	return editor.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add 追加条目；ID 为空时生成新的 uuid。返回写入的条目。
func (f *File) Add(e editor.Entry) (editor.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	data, err := f.read()
	if err != nil {
		return e, err
	}
	out, err := sjson.SetBytes(data, "-1", e)
	if err != nil {
		return e, fmt.Errorf("写入条目失败: %w", err)
	}
	if err := f.write(out); err != nil {
		return e, err
	}
	layout.Logger().Info("entries: 新增条目", "id", e.ID, "path", f.path)
	return e, nil
}

// Update 用 e 替换 id 对应的条目（保留 id）。
func (f *File) Update(id string, e editor.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return err
	}
	idx := indexOf(data, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.ID = id
	out, err := sjson.SetBytes(data, strconv.Itoa(idx), e)
	if err != nil {
		return fmt.Errorf("更新条目失败: %w", err)
	}
	return f.write(out)
}

// Remove 删除 id 对应的条目。
func (f *File) Remove(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return err
	}
	idx := indexOf(data, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out, err := sjson.DeleteBytes(data, strconv.Itoa(idx))
	if err != nil {
		return fmt.Errorf("删除条目失败: %w", err)
	}
	layout.Logger().Info("entries: 删除条目", "id", id, "path", f.path)
	return f.write(out)
}

// read 读取文件内容；不存在、损坏或不是数组时返回 "[]"。
func (f *File) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取条目文件 %s 失败: %w", f.path, err)
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsArray() {
		layout.Logger().Warn("entries: 条目文件损坏，按空列表处理", "path", f.path)
		return []byte("[]"), nil
	}
	return data, nil
}

func (f *File) write(data []byte) error {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, pretty.Pretty(data), 0o644); err != nil {
		return fmt.Errorf("写入条目文件 %s 失败: %w", f.path, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("写入条目文件 %s 失败: %w", f.path, err)
	}
	return nil
}

// decode 逐个解析数组元素，跳过不是对象的元素。
func decode(data []byte) []editor.Entry {
	var out []editor.Entry
	gjson.ParseBytes(data).ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			layout.Logger().Debug("entries: 跳过非对象元素", "raw", value.Raw)
			return true
		}
		var e editor.Entry
		if err := json.Unmarshal([]byte(value.Raw), &e); err != nil {
			layout.Logger().Debug("entries: 跳过无法解析的元素", "err", err)
			return true
		}
		out = append(out, e)
		return true
	})
	return out
}

func indexOf(data []byte, id string) int {
	idx := -1
	i := 0
	gjson.ParseBytes(data).ForEach(func(_, value gjson.Result) bool {
		if value.Get("id").String() == id {
			idx = i
			return false
		}
		i++
		return true
	})
	return idx
}
