// Package sequence 提供实例级的单调递增ID分配器
package sequence

import "sync"

// Allocator 单调递增ID分配器，从 1 开始。
// 每个服务实例持有自己的分配器，不存在进程级全局状态。
type Allocator struct {
	mux  sync.Mutex
	next int64
}

// NewAllocator 创建从 1 开始分配的分配器
func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// Next 分配下一个ID
func (a *Allocator) Next() int64 {
	a.mux.Lock()
	defer a.mux.Unlock()

	id := a.next
	a.next++
	return id
}

// Peek 返回下一次将要分配的ID，不消耗
func (a *Allocator) Peek() int64 {
	a.mux.Lock()
	defer a.mux.Unlock()
	return a.next
}

// Reseed 保证后续分配的ID大于 maxSeen，且永不回退
func (a *Allocator) Reseed(maxSeen int64) {
	a.mux.Lock()
	defer a.mux.Unlock()

	if maxSeen+1 > a.next {
		a.next = maxSeen + 1
	}
}

// Reset 重置为从 1 开始
func (a *Allocator) Reset() {
	a.mux.Lock()
	defer a.mux.Unlock()
	a.next = 1
}
