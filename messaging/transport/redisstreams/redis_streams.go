// Package redisstreams 将变更通知写入 Redis Streams
package redisstreams

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"employeetracker/logging"
	"employeetracker/messaging"
	"employeetracker/patterns/retry"
)

// client captures the subset of go-redis commands we rely on (for easier testing).
type client interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// Config describes how the Redis Streams publisher should connect/behave.
type Config struct {
	Client       redis.UniversalClient
	Addr         string
	Username     string
	Password     string
	DB           int
	StreamPrefix string
	// MaxLen 近似裁剪流长度，0 表示不裁剪
	MaxLen int64
	// Retry XADD 失败时的退避重试，零值使用 retry.DefaultConfig
	Retry  retry.Config
	Logger logging.Logger
}

// Publisher is a messaging.IPublisher backed by XADD.
type Publisher struct {
	cfg       Config
	client    client
	ownClient bool
	logger    logging.Logger
}

// NewPublisher constructs a Redis Streams publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Client != nil {
		return newPublisher(cfg, cfg.Client, false)
	}
	if cfg.Addr == "" {
		return nil, errors.New("redis address not configured")
	}
	options := &redis.Options{Addr: cfg.Addr, Username: cfg.Username, Password: cfg.Password, DB: cfg.DB}
	return newPublisher(cfg, redis.NewClient(options), true)
}

func newPublisher(cfg Config, cl client, own bool) (*Publisher, error) {
	if cl == nil {
		return nil, errors.New("redis client not configured")
	}
	if cfg.StreamPrefix == "" {
		cfg.StreamPrefix = "employees:"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "publisher.redisstreams"))
	}
	return &Publisher{cfg: cfg, client: cl, ownClient: own, logger: cfg.Logger}, nil
}

// Publish writes a single message into the stream named after its type.
func (p *Publisher) Publish(ctx context.Context, message messaging.IMessage) error {
	values, err := encodeMessage(message)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{Stream: p.streamName(message.GetType()), Values: values}
	if p.cfg.MaxLen > 0 {
		args.MaxLen = p.cfg.MaxLen
		args.Approx = true
	}
	var id string
	err = retry.Do(ctx, p.cfg.Retry, func(ctx context.Context, attempt int) error {
		var xerr error
		id, xerr = p.client.XAdd(ctx, args).Result()
		if xerr != nil {
			p.logger.Debug(ctx, "xadd failed",
				logging.String("stream", args.Stream), logging.Int("attempt", attempt), logging.Error(xerr))
		}
		return xerr
	})
	if err != nil {
		return err
	}
	p.logger.Debug(ctx, "message appended to stream",
		logging.String("stream", args.Stream), logging.String("entry_id", id))
	return nil
}

// Close closes the redis client when the publisher created it.
func (p *Publisher) Close() error {
	if p.ownClient {
		return p.client.Close()
	}
	return nil
}

func (p *Publisher) streamName(messageType string) string {
	return p.cfg.StreamPrefix + messageType
}

func encodeMessage(msg messaging.IMessage) (map[string]any, error) {
	payload, err := json.Marshal(msg.GetPayload())
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(msg.GetMetadata())
	if err != nil {
		return nil, err
	}
	ts := msg.GetTimestamp()
	if ts.IsZero() {
		ts = time.Now()
	}
	return map[string]any{
		"id":        msg.GetID(),
		"type":      msg.GetType(),
		"timestamp": strconv.FormatInt(ts.UnixNano(), 10),
		"payload":   string(payload),
		"metadata":  string(metadata),
	}, nil
}

var _ messaging.IPublisher = (*Publisher)(nil)
