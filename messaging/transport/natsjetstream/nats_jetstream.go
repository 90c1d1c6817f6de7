// Package natsjetstream 将变更通知发布到 NATS JetStream
package natsjetstream

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"employeetracker/logging"
	"employeetracker/messaging"
	"employeetracker/patterns/retry"
)

// Config configures the JetStream publisher.
type Config struct {
	URL           string
	Stream        string
	SubjectPrefix string
	Logger        logging.Logger
	Conn          *nats.Conn
	Retry         retry.Config

	// 可选：流参数
	MaxBytes int64 // 0 表示不设置
	Replicas int   // 0 表示默认
}

// jetStream captures the publish call we rely on (for easier testing).
type jetStream interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher implements messaging.IPublisher on top of NATS JetStream.
type Publisher struct {
	cfg      Config
	logger   logging.Logger
	conn     *nats.Conn
	js       jetStream
	ownsConn bool
}

// NewPublisher connects (unless Conn is given), ensures the stream exists and
// returns a ready publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg = withDefaults(cfg)

	conn := cfg.Conn
	owns := false
	if conn == nil {
		url := cfg.URL
		if url == "" {
			url = nats.DefaultURL
		}
		c, err := nats.Connect(url, nats.Name("employeetracker"))
		if err != nil {
			return nil, err
		}
		conn = c
		owns = true
	}

	js, err := conn.JetStream()
	if err != nil {
		if owns {
			conn.Close()
		}
		return nil, err
	}
	if err := ensureStream(js, cfg); err != nil {
		if owns {
			conn.Close()
		}
		return nil, err
	}

	return &Publisher{cfg: cfg, logger: cfg.Logger, conn: conn, js: js, ownsConn: owns}, nil
}

func newPublisher(cfg Config, js jetStream) *Publisher {
	cfg = withDefaults(cfg)
	return &Publisher{cfg: cfg, logger: cfg.Logger, js: js}
}

func withDefaults(cfg Config) Config {
	if cfg.Stream == "" {
		cfg.Stream = "EMPLOYEES"
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "employees."
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "publisher.nats"))
	}
	return cfg
}

// Publish sends the message to <prefix><type>.
func (p *Publisher) Publish(ctx context.Context, message messaging.IMessage) error {
	if p.js == nil {
		return errors.New("nats publisher is closed")
	}
	data, err := marshalMessage(message)
	if err != nil {
		return err
	}
	subject := p.subjectName(message.GetType())
	var ack *nats.PubAck
	err = retry.Do(ctx, p.cfg.Retry, func(ctx context.Context, attempt int) error {
		var perr error
		ack, perr = p.js.Publish(subject, data, nats.Context(ctx))
		if errors.Is(perr, nats.ErrConnectionClosed) {
			return retry.Permanent(perr)
		}
		return perr
	})
	if err != nil {
		return err
	}
	p.logger.Debug(ctx, "message published",
		logging.String("subject", subject), logging.Any("sequence", ack.Sequence))
	return nil
}

// Close closes the connection when the publisher created it.
func (p *Publisher) Close() error {
	if p.ownsConn && p.conn != nil {
		p.conn.Close()
	}
	p.conn = nil
	p.js = nil
	return nil
}

func (p *Publisher) subjectName(messageType string) string {
	return p.cfg.SubjectPrefix + messageType
}

func ensureStream(js nats.JetStreamManager, cfg Config) error {
	_, err := js.StreamInfo(cfg.Stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) && !strings.Contains(err.Error(), "stream not found") {
		return err
	}
	sc := &nats.StreamConfig{
		Name:              cfg.Stream,
		Subjects:          []string{cfg.SubjectPrefix + ">"},
		Retention:         nats.LimitsPolicy,
		MaxMsgsPerSubject: -1,
	}
	if cfg.MaxBytes > 0 {
		sc.MaxBytes = cfg.MaxBytes
	}
	if cfg.Replicas > 0 {
		sc.Replicas = cfg.Replicas
	}
	_, err = js.AddStream(sc)
	return err
}

type wireMessage struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
	Metadata  map[string]any  `json:"metadata"`
}

func marshalMessage(msg messaging.IMessage) ([]byte, error) {
	payload, err := json.Marshal(msg.GetPayload())
	if err != nil {
		return nil, err
	}
	ts := msg.GetTimestamp()
	if ts.IsZero() {
		ts = time.Now()
	}
	return json.Marshal(wireMessage{
		ID:        msg.GetID(),
		Type:      msg.GetType(),
		Timestamp: ts.UnixNano(),
		Payload:   payload,
		Metadata:  msg.GetMetadata(),
	})
}
