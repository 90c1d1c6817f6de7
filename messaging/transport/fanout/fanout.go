// Package fanout 将同一消息并发发布到多个下游
package fanout

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"employeetracker/messaging"
)

// Publisher 并发发布到全部下游，任一失败不影响其余下游
type Publisher struct {
	targets []messaging.IPublisher
}

// New 创建扇出发布器，忽略 nil 下游
func New(targets ...messaging.IPublisher) *Publisher {
	p := &Publisher{}
	for _, t := range targets {
		if t != nil {
			p.targets = append(p.targets, t)
		}
	}
	return p
}

// Len 返回下游数量
func (p *Publisher) Len() int {
	return len(p.targets)
}

// Publish 等待全部下游完成，返回合并后的错误
func (p *Publisher) Publish(ctx context.Context, message messaging.IMessage) error {
	errs := make([]error, len(p.targets))

	var g errgroup.Group
	for i, target := range p.targets {
		g.Go(func() error {
			errs[i] = target.Publish(ctx, message)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Close 关闭全部下游
func (p *Publisher) Close() error {
	errs := make([]error, 0, len(p.targets))
	for _, t := range p.targets {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

var _ messaging.IPublisher = (*Publisher)(nil)
