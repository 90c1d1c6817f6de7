// Package sync 提供一个同步的进程内消息传输实现
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"employeetracker/messaging"
)

// SyncTransport 是一个同步的内存传输实现
// 它的 Publish 方法会立即在同一个 goroutine 中调用所有匹配的处理器
type SyncTransport struct {
	handlers map[string][]messaging.IMessageHandler
	mutex    sync.RWMutex
	closed   bool
}

// NewSyncTransport 创建一个新的同步传输实例
func NewSyncTransport() *SyncTransport {
	return &SyncTransport{
		handlers: make(map[string][]messaging.IMessageHandler),
	}
}

// Publish 立即、同步地把消息交给精确匹配与通配的处理器
func (t *SyncTransport) Publish(ctx context.Context, message messaging.IMessage) error {
	t.mutex.RLock()
	if t.closed {
		t.mutex.RUnlock()
		return fmt.Errorf("sync transport is closed")
	}
	exact := t.handlers[message.GetType()]
	wildcard := t.handlers[messaging.WildcardType]
	handlers := make([]messaging.IMessageHandler, 0, len(exact)+len(wildcard))
	handlers = append(handlers, exact...)
	handlers = append(handlers, wildcard...)
	t.mutex.RUnlock()

	// 没有处理器不是错误，只是无人监听
	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("message handling completed with %d errors: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// Subscribe 订阅消息处理器，messageType 为 "*" 时接收全部消息
func (t *SyncTransport) Subscribe(messageType string, handler messaging.IMessageHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.handlers[messageType] = append(t.handlers[messageType], handler)
	return nil
}

// HandlerCount 返回已注册的处理器数量
func (t *SyncTransport) HandlerCount() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	n := 0
	for _, hs := range t.handlers {
		n += len(hs)
	}
	return n
}

// Close 关闭传输，之后的发布返回错误
func (t *SyncTransport) Close() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.closed = true
	return nil
}

var _ messaging.IPublisher = (*SyncTransport)(nil)
