package editor

// Selection 是保持插入顺序的 key 集合，最后加入的为主选项。
type Selection struct {
	keys []string
}

// SelectOnly 清空后只选中 key；key 为空时仅清空。
func (s *Selection) SelectOnly(key string) {
	s.keys = s.keys[:0]
	if key != "" {
		s.keys = append(s.keys, key)
	}
}

// Toggle 切换 key 的选中状态，返回切换后是否选中。
func (s *Selection) Toggle(key string) bool {
	if s.Remove(key) {
		return false
	}
	s.keys = append(s.keys, key)
	return true
}

func (s *Selection) Clear() { s.keys = s.keys[:0] }

// Primary 返回主选项（最后加入的 key）。
func (s *Selection) Primary() (string, bool) {
	if len(s.keys) == 0 {
		return "", false
	}
	return s.keys[len(s.keys)-1], true
}

func (s *Selection) Has(key string) bool {
	for _, k := range s.keys {
		if k == key {
			return true
		}
	}
	return false
}

// Remove 移除 key，返回是否存在。
func (s *Selection) Remove(key string) bool {
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return true
		}
	}
	return false
}

// Keys 按加入顺序返回副本。
func (s *Selection) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *Selection) Len() int { return len(s.keys) }
