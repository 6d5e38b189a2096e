package hierarchy

import (
	"strings"

	"sheet2neo/internal/extract"
	"sheet2neo/pkg/util"
)

const shortNameMax = 50

// BuildNodes 把维度扫描结果转成待同步的层级节点列表：
// levelColumns 中第 i 列的取值落在第 i+1 层，父引用来自扫描的 ParentMap。
// 编码由名称哈希派生，保证跨轮同步稳定。
func BuildNodes(scan *extract.ScanResult, levelColumns []string) []Node {
	if scan == nil {
		return nil
	}
	var nodes []Node
	for i, column := range levelColumns {
		level := i + 1
		for _, name := range scan.UniqueValues[column] {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			node := Node{
				Level:     level,
				Name:      name,
				ShortName: shorten(name),
				Code:      DeriveCode(name),
			}
			if level > 1 {
				node.ParentName = scan.ParentMap[name]
			}
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// DeriveCode 从名称派生稳定的短编码。
func DeriveCode(name string) string {
	return strings.ToUpper(util.ShortHash(map[string]any{"name": name}, 10))
}

func shorten(name string) string {
	runes := []rune(name)
	if len(runes) <= shortNameMax {
		return name
	}
	return string(runes[:shortNameMax])
}
