package transport

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// State 表示会话所处的阶段。
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	default:
		return "disconnected"
	}
}

// Session 持有对远端文件源的唯一连接。
// 单个方法由 mu 串行化；整个 connect -> fetch -> disconnect 跨度由
// Begin/End 独占，跨度之间不允许交错。
type Session struct {
	spanMu sync.Mutex
	mu     sync.Mutex
	source FileSource
	state  State
	logger *zap.Logger
}

// NewSession 创建未连接的会话。
func NewSession(source FileSource, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{source: source, logger: logger}
}

// Begin 占住一个完整的提取跨度并建立连接。上一个跨度 End 之前阻塞，
// 并发调用方各自的 Disconnect 不会落进别人的跨度中间。
func (s *Session) Begin(ctx context.Context) error {
	s.spanMu.Lock()
	if err := s.Connect(ctx); err != nil {
		s.spanMu.Unlock()
		return err
	}
	return nil
}

// End 断开连接并释放跨度，必须与成功的 Begin 成对调用。
func (s *Session) End() {
	s.Disconnect()
	s.spanMu.Unlock()
}

// Connect 建立连接。已有会话时先关闭旧连接，关闭失败只告警不中断，
// 避免长跑任务反复 connect 导致描述符泄漏。
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return &ConnectionError{Cause: fmt.Errorf("未配置文件源")}
	}
	if s.state != StateDisconnected {
		s.logger.Warn("会话已存在，先关闭旧连接再重连")
		if err := s.source.Disconnect(); err != nil {
			s.logger.Warn("关闭旧连接失败", zap.Error(err))
		}
		s.state = StateDisconnected
	}

	s.state = StateConnecting
	if err := s.source.Connect(ctx); err != nil {
		s.state = StateDisconnected
		return err
	}
	s.state = StateReady
	return nil
}

// Fetch 在 Ready 状态下整体拉取远端文件。
func (s *Session) Fetch(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, &TransferError{Path: path, Cause: fmt.Errorf("会话状态 %s，需要先 connect", s.state)}
	}
	return s.source.FetchFile(ctx, path)
}

// Disconnect 关闭会话。从不返回错误：失败路径上的断连不能阻塞上层清理，
// 没有活跃会话时是 no-op。
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisconnected {
		return
	}
	if err := s.source.Disconnect(); err != nil {
		s.logger.Warn("断开连接失败，忽略", zap.Error(err))
	}
	s.state = StateDisconnected
}

// State 返回当前状态，仅用于诊断输出。
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
