//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/who-is-undercover/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetRoom() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetRoom(roomCode string) {
	m.Called(roomCode)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言的测试）。
// 消息记录加锁，游戏会话可能从计时器协程广播。
type SimpleClient struct {
	ID       string
	Name     string
	RoomCode string

	mu       sync.Mutex
	Messages []*protocol.Message
}

func (m *SimpleClient) GetID() string       { return m.ID }
func (m *SimpleClient) GetName() string     { return m.Name }
func (m *SimpleClient) GetRoom() string     { return m.RoomCode }
func (m *SimpleClient) SetRoom(code string) { m.RoomCode = code }
func (m *SimpleClient) Close()              {}

// AssumeIdentity 模拟重连时的身份接管
func (m *SimpleClient) AssumeIdentity(id, name string) {
	m.ID = id
	m.Name = name
}

func (m *SimpleClient) SendMessage(msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
}

// Received 返回已收到消息的快照
func (m *SimpleClient) Received() []*protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*protocol.Message, len(m.Messages))
	copy(out, m.Messages)
	return out
}

// ReceivedTypes 返回已收到消息类型的快照
func (m *SimpleClient) ReceivedTypes() []protocol.MessageType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]protocol.MessageType, 0, len(m.Messages))
	for _, msg := range m.Messages {
		types = append(types, msg.Type)
	}
	return types
}
