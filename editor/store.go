package editor

import "github.com/ByLCY/inkcard/layout"

// Store 是按插入顺序保存的文本项集合。插入顺序即绘制顺序，逆序即命中优先级。
type Store struct {
	order []string
	items map[string]*layout.TextItem
}

// NewStore 创建空集合。
func NewStore() *Store {
	return &Store{items: map[string]*layout.TextItem{}}
}

// Put 写入完整文本项；已存在的 key 保持原有顺序位置。
func (s *Store) Put(item layout.TextItem) {
	if it, ok := s.items[item.Key]; ok {
		*it = item
		return
	}
	it := item
	s.items[item.Key] = &it
	s.order = append(s.order, item.Key)
}

// Get 返回文本项指针，修改会直接反映到集合中。
func (s *Store) Get(key string) (*layout.TextItem, bool) {
	it, ok := s.items[key]
	return it, ok
}

// Delete 删除 key，返回是否存在。
func (s *Store) Delete(key string) bool {
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Keys 按插入顺序返回全部 key。
func (s *Store) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Items 按插入顺序返回文本项副本。
func (s *Store) Items() []layout.TextItem {
	out := make([]layout.TextItem, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.items[k])
	}
	return out
}

func (s *Store) Len() int { return len(s.order) }
