package hierarchy

// Node 表示层级结构中的一个待同步单位。输入列表不要求有序。
type Node struct {
	Level      int    `json:"level"`
	Name       string `json:"name"`
	ShortName  string `json:"short_name"`
	Code       string `json:"code"`
	ParentName string `json:"parent_name,omitempty"`
}

// EntryStatus 标记一条审计记录的结果。
type EntryStatus string

const (
	StatusCreated   EntryStatus = "created"
	StatusUpdated   EntryStatus = "updated"
	StatusUnchanged EntryStatus = "unchanged"
	StatusSkipped   EntryStatus = "skipped"
	StatusDuplicate EntryStatus = "duplicate"
	StatusFailed    EntryStatus = "failed"
)

// Entry 是一次节点处理的审计记录，按处理顺序追加。
type Entry struct {
	Name     string      `json:"name"`
	Level    int         `json:"level"`
	Status   EntryStatus `json:"status"`
	RemoteID string      `json:"remote_id,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Report 是一次层级同步的完整产物。Mappings 只增不改：
// 同名节点后来者不会覆盖先写入的标识。
type Report struct {
	Mappings map[string]string `json:"mappings"`
	Entries  []Entry           `json:"entries"`
}

// Failed 返回失败和跳过的记录数。
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == StatusFailed || e.Status == StatusSkipped {
			n++
		}
	}
	return n
}
