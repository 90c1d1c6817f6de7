// employeetracker 是员工记录管理的交互式控制台程序。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"employeetracker/app/tracker"
	"employeetracker/config"
	"employeetracker/errors"
	"employeetracker/logging"
	"employeetracker/messaging"
	"employeetracker/messaging/transport/fanout"
	"employeetracker/messaging/transport/natsjetstream"
	"employeetracker/messaging/transport/redisstreams"
	"employeetracker/storage/sqlstore"
	"employeetracker/validation"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run 解析参数、装配依赖并运行菜单循环
func run(ctx context.Context, args []string, in io.Reader, out, logOut io.Writer) error {
	fs := flag.NewFlagSet("employeetracker", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", config.DefaultPath, "path to the HCL configuration file")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := logging.NewStdLoggerTo(logOut, "[employeetracker]", cfg.Level())
	logging.SetLogger(logger)

	publisher, err := buildPublisher(cfg, logger)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer func() {
			if cerr := publisher.Close(); cerr != nil {
				logger.Warn(ctx, "close publisher failed", logging.Error(cerr))
			}
		}()
	}

	opts := []tracker.Option{tracker.WithLogger(logger)}
	if publisher != nil {
		opts = append(opts, tracker.WithPublisher(publisher))
	}
	svc := tracker.NewEmployeeService(opts...)

	sh := &shell{
		svc:    svc,
		input:  validation.NewInputValidator(in, out),
		out:    out,
		cfg:    cfg,
		logger: logger,
	}

	if cfg.SQLite != nil {
		store, err := sqlstore.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		sh.snapshot = store

		if err := restoreSnapshot(ctx, svc, store, cfg.SQLite.Path, out, logger); err != nil {
			return err
		}
	}

	err = sh.loop(ctx)
	if errors.IsErrorCode(err, errors.ErrCodeEndOfInput) {
		fmt.Fprintln(out, "\nInput closed. Goodbye!")
		return nil
	}
	return err
}

// snapshotStore 可计数的快照存储
type snapshotStore interface {
	tracker.SnapshotStore
	Count(ctx context.Context) (int64, error)
}

// restoreSnapshot 快照非空时载入服务；快照不可读时记录警告并以空集合启动
func restoreSnapshot(ctx context.Context, svc *tracker.EmployeeService, store snapshotStore, path string, out io.Writer, logger logging.Logger) error {
	n, err := store.Count(ctx)
	if err != nil {
		logger.Warn(ctx, "sqlite snapshot unreadable, starting empty",
			logging.String("path", path), logging.Error(err))
		return nil
	}
	if n == 0 {
		return nil
	}
	if err := svc.LoadFrom(ctx, store); err != nil {
		return err
	}
	fmt.Fprintf(out, "Restored %d employees from %s.\n", svc.Len(), path)
	return nil
}

// buildPublisher 按配置组合远端发布器；均未配置时返回 nil
func buildPublisher(cfg *config.Config, logger logging.Logger) (messaging.IPublisher, error) {
	var targets []messaging.IPublisher
	closeAll := func() {
		for _, t := range targets {
			_ = t.Close()
		}
	}

	if cfg.Redis != nil {
		p, err := redisstreams.NewPublisher(redisstreams.Config{
			Addr:         cfg.Redis.Addr,
			Username:     cfg.Redis.Username,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			StreamPrefix: cfg.Redis.StreamPrefix,
			MaxLen:       cfg.Redis.MaxLen,
			Logger:       logger.WithFields(logging.String("component", "publisher.redisstreams")),
		})
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeQueue, "create redis publisher")
		}
		targets = append(targets, p)
	}

	if cfg.NATS != nil {
		p, err := natsjetstream.NewPublisher(natsjetstream.Config{
			URL:           cfg.NATS.URL,
			Stream:        cfg.NATS.Stream,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			MaxBytes:      cfg.NATS.MaxBytes,
			Replicas:      cfg.NATS.Replicas,
			Logger:        logger.WithFields(logging.String("component", "publisher.nats")),
		})
		if err != nil {
			closeAll()
			return nil, errors.WrapError(err, errors.ErrCodeQueue, "create nats publisher")
		}
		targets = append(targets, p)
	}

	switch len(targets) {
	case 0:
		return nil, nil
	case 1:
		return targets[0], nil
	default:
		return fanout.New(targets...), nil
	}
}
