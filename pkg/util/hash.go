package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// HashMap 返回 map 的稳定 hash，用于内容对比和跳过无变化的更新。
func HashMap(m map[string]any) string {
	h := sha256.New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte(fmt.Sprintf("%v", m[k])))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortHash 返回 HashMap 的前 n 位，用于生成稳定短编码。
func ShortHash(m map[string]any, n int) string {
	full := HashMap(m)
	if n <= 0 || n > len(full) {
		return full
	}
	return full[:n]
}
