package unit

import (
	"context"
	"errors"
	"fmt"

	"sheet2neo/internal/sheet"
	"sheet2neo/internal/target"
	"sheet2neo/internal/transport"
)

// memorySource 给提取器测试提供内存文件源。
type memorySource struct {
	files map[string][]byte
}

func (m *memorySource) Connect(context.Context) error { return nil }

func (m *memorySource) FetchFile(_ context.Context, path string) ([]byte, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, &transport.TransferError{Path: path, Cause: errors.New("file not found")}
	}
	return b, nil
}

func (m *memorySource) Disconnect() error { return nil }

func newReadySession(path string) (*transport.Session, error) {
	src := &memorySource{files: map[string][]byte{path: []byte("workbook")}}
	session := transport.NewSession(src, nil)
	if err := session.Connect(context.Background()); err != nil {
		return nil, err
	}
	return session, nil
}

// tableOpener 每次 Open 都从同一份内存表格重新产出行流。
type tableOpener struct {
	header []string
	rows   [][]string
}

func (o *tableOpener) Open(context.Context, sheet.Options) sheet.OpenResult {
	return sheet.Ready(&tableStream{header: o.header, rows: o.rows})
}

type tableStream struct {
	header []string
	rows   [][]string
	pos    int
}

func (s *tableStream) Next() bool { return s.pos < len(s.rows) }

func (s *tableStream) Row() (sheet.Row, error) {
	vals := s.rows[s.pos]
	cells := make([]sheet.Cell, 0, len(vals))
	for i, v := range vals {
		cells = append(cells, sheet.Cell{Column: s.header[i], Value: v})
	}
	row := sheet.Row{Index: s.pos, Cells: cells}
	s.pos++
	return row, nil
}

func (s *tableStream) Close() error { return nil }

// memoryTarget 是内存里的目标系统，记录写操作次数。
type memoryTarget struct {
	units   map[string][]target.Unit // code -> 记录
	nextID  int
	creates int
	updates int
}

func newMemoryTarget() *memoryTarget {
	return &memoryTarget{units: map[string][]target.Unit{}}
}

func (m *memoryTarget) FindByCode(_ context.Context, code string) ([]target.Unit, error) {
	out := make([]target.Unit, len(m.units[code]))
	copy(out, m.units[code])
	return out, nil
}

func (m *memoryTarget) Create(_ context.Context, u target.Unit) (string, error) {
	m.nextID++
	m.creates++
	u.ID = fmt.Sprintf("unit-%03d", m.nextID)
	m.units[u.Code] = append(m.units[u.Code], u)
	return u.ID, nil
}

func (m *memoryTarget) Update(_ context.Context, id string, u target.Unit) error {
	m.updates++
	for i, existing := range m.units[u.Code] {
		if existing.ID == id {
			u.ID = id
			m.units[u.Code][i] = u
			return nil
		}
	}
	return fmt.Errorf("unit %s not found", id)
}

func (m *memoryTarget) byCode(code string) (target.Unit, bool) {
	list := m.units[code]
	if len(list) != 1 {
		return target.Unit{}, false
	}
	return list[0], true
}
