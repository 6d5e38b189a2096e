package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sheet2neo/internal/sheet"
	"sheet2neo/internal/transport"
)

type fakeSource struct {
	data map[string][]byte
}

func (f *fakeSource) Connect(context.Context) error { return nil }

func (f *fakeSource) FetchFile(_ context.Context, path string) ([]byte, error) {
	b, ok := f.data[path]
	if !ok {
		return nil, &transport.TransferError{Path: path, Cause: errors.New("not found")}
	}
	return b, nil
}

func (f *fakeSource) Disconnect() error { return nil }

type sliceStream struct {
	header []string
	rows   [][]string
	pos    int
	errAt  int // 第 errAt 行（从 1 数）读取时报错，0 表示不报错
	closed bool
}

func (s *sliceStream) Next() bool {
	if s.errAt > 0 && s.pos == s.errAt {
		return true
	}
	return s.pos < len(s.rows)
}

func (s *sliceStream) Row() (sheet.Row, error) {
	if s.errAt > 0 && s.pos == s.errAt {
		return sheet.Row{}, errors.New("模拟行流错误")
	}
	vals := s.rows[s.pos]
	cells := make([]sheet.Cell, 0, len(vals))
	for i, v := range vals {
		cells = append(cells, sheet.Cell{Column: s.header[i], Value: v})
	}
	row := sheet.Row{Index: s.pos, Cells: cells}
	s.pos++
	return row, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

type fakeOpener struct {
	result func() sheet.OpenResult
}

func (f *fakeOpener) Open(context.Context, sheet.Options) sheet.OpenResult {
	return f.result()
}

func makeRows(n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []string{fmt.Sprintf("row-%04d", i), "North"})
	}
	return rows
}

func readySession(t *testing.T) *transport.Session {
	t.Helper()
	session := transport.NewSession(&fakeSource{data: map[string][]byte{"/data/file.xlsx": []byte("payload")}}, nil)
	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	return session
}

func newFull(t *testing.T, opener sheet.Opener, timeout time.Duration) *FullExtractor {
	t.Helper()
	mat := NewMaterializer(t.TempDir(), nil)
	return NewFullExtractor(readySession(t), opener, mat, "", timeout, nil)
}

func TestExtractAllCollectsEveryRow(t *testing.T) {
	header := []string{"name", "region"}
	opener := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.Ready(&sliceStream{header: header, rows: makeRows(25)})
	}}
	ext := newFull(t, opener, time.Minute)

	result, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 25 {
		t.Fatalf("expect 25 rows, got %d", len(result.Rows))
	}
	if result.ChunksProcessed != 3 {
		t.Fatalf("expect 3 batches, got %d", result.ChunksProcessed)
	}
	if result.Meta.TruncatedByTimeout {
		t.Fatalf("result should not be truncated")
	}
}

func TestExtractAllHonorsMaxRows(t *testing.T) {
	header := []string{"name", "region"}
	opener := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.Ready(&sliceStream{header: header, rows: makeRows(100)})
	}}
	ext := newFull(t, opener, time.Minute)

	result, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 10, MaxRows: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 42 {
		t.Fatalf("expect 42 rows, got %d", len(result.Rows))
	}
}

func TestExtractAllInvalidStreamDegrades(t *testing.T) {
	opener := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.Invalid(errors.New("不是一个流"))
	}}
	ext := newFull(t, opener, time.Minute)

	result, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 10})
	if err != nil {
		t.Fatalf("invalid stream must not raise, got %v", err)
	}
	if len(result.Rows) != 0 {
		t.Fatalf("expect empty rows, got %d", len(result.Rows))
	}
	if result.Meta.ErrorNote == "" {
		t.Fatalf("expect error note on degraded result")
	}
}

func TestExtractAllPendingResolvesOnce(t *testing.T) {
	header := []string{"name", "region"}
	opener := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.OpenResult{
			State: sheet.StreamPending,
			Resolve: func(context.Context) sheet.OpenResult {
				return sheet.Ready(&sliceStream{header: header, rows: makeRows(5)})
			},
		}
	}}
	ext := newFull(t, opener, time.Minute)

	result, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 5 {
		t.Fatalf("expect 5 rows after resolve, got %d", len(result.Rows))
	}
}

func TestExtractAllPendingUnresolvedDegrades(t *testing.T) {
	opener := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.OpenResult{
			State: sheet.StreamPending,
			Resolve: func(context.Context) sheet.OpenResult {
				return sheet.Invalid(errors.New("兑现后仍不可用"))
			},
		}
	}}
	ext := newFull(t, opener, time.Minute)

	result, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 0 || result.Meta.ErrorNote == "" {
		t.Fatalf("expect degraded empty result, got rows=%d note=%q", len(result.Rows), result.Meta.ErrorNote)
	}
}

func TestExtractAllStreamErrorWithRowsIsPartialSuccess(t *testing.T) {
	header := []string{"name", "region"}
	opener := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.Ready(&sliceStream{header: header, rows: makeRows(10), errAt: 7})
	}}
	ext := newFull(t, opener, time.Minute)

	result, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 3})
	if err != nil {
		t.Fatalf("partial rows must not raise, got %v", err)
	}
	if len(result.Rows) != 7 {
		t.Fatalf("expect 7 rows before error, got %d", len(result.Rows))
	}
	if result.Meta.ErrorNote == "" {
		t.Fatalf("expect error note on partial result")
	}
}

func TestExtractAllStreamErrorWithZeroRowsRaises(t *testing.T) {
	failing := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.Ready(&erroringStream{})
	}}
	ext := newFull(t, failing, time.Minute)
	if _, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 3}); err == nil {
		t.Fatalf("expected error when stream fails before any row")
	}
}

type erroringStream struct{ closed bool }

func (s *erroringStream) Next() bool { return true }

func (s *erroringStream) Row() (sheet.Row, error) {
	return sheet.Row{}, errors.New("第一行就失败")
}

func (s *erroringStream) Close() error {
	s.closed = true
	return nil
}

func TestExtractAllTimeoutReturnsTruncatedSuccess(t *testing.T) {
	header := []string{"name", "region"}
	opener := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.Ready(&sliceStream{header: header, rows: makeRows(1000)})
	}}
	ext := newFull(t, opener, time.Nanosecond)

	result, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 100})
	if err != nil {
		t.Fatalf("timeout must not raise, got %v", err)
	}
	if !result.Meta.TruncatedByTimeout {
		t.Fatalf("expect truncated flag set")
	}
	if len(result.Rows) >= 1000 {
		t.Fatalf("expect fewer than all rows after truncation, got %d", len(result.Rows))
	}
}

func TestExtractAllCancelledContextPropagates(t *testing.T) {
	header := []string{"name", "region"}
	opener := &fakeOpener{result: func() sheet.OpenResult {
		return sheet.Ready(&sliceStream{header: header, rows: makeRows(100)})
	}}
	ext := newFull(t, opener, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := ext.ExtractAll(ctx, "/data/file.xlsx", Options{ChunkSize: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancellation must propagate, got result=%v err=%v", result, err)
	}
}

func TestExtractAllValidatesOptions(t *testing.T) {
	ext := newFull(t, &fakeOpener{result: func() sheet.OpenResult {
		return sheet.Ready(&sliceStream{})
	}}, time.Minute)

	var vErr *ValidationError
	_, err := ext.ExtractAll(context.Background(), "/data/file.xlsx", Options{ChunkSize: 0})
	if !errors.As(err, &vErr) {
		t.Fatalf("expect validation error, got %v", err)
	}
}
