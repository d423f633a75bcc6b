package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"actor-notes/goprincipleandpractise/actor/config"
	"actor-notes/goprincipleandpractise/actor/scenario"
)

// Multi 依次写入每个sink，某个sink失败不影响其余sink
type Multi []Sink

func (m Multi) Write(ctx context.Context, r scenario.Result) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open 按配置打开sink，第一个总是写到stdout的Console。任一sink打开失败时关闭已打开的。
func Open(ctx context.Context, c config.SinksConf, stdout io.Writer) (Multi, error) {
	sinks := Multi{NewConsole(stdout)}

	fail := func(err error) (Multi, error) {
		_ = sinks.Close()
		return nil, err
	}

	switch c.JSON {
	case "":
	case "-":
		sinks = append(sinks, NewJSONLines(stdout))
	default:
		f, err := os.Create(c.JSON)
		if err != nil {
			return fail(fmt.Errorf("open json sink: %w", err))
		}
		sinks = append(sinks, newJSONLinesFile(f))
	}

	if len(c.Kafka.Brokers) > 0 {
		sinks = append(sinks, NewKafka(c.Kafka.Brokers, c.Kafka.Topic))
	}

	if c.Mongo.URI != "" {
		m, err := DialMongo(ctx, c.Mongo.URI, c.Mongo.Database, c.Mongo.Collection)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, m)
	}

	if c.WebSocket.URL != "" {
		ws, err := DialWebSocket(ctx, c.WebSocket.URL)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, ws)
	}

	return sinks, nil
}

// Console 返回m中的Console，没有时返回nil
func (m Multi) Console() *Console {
	for _, s := range m {
		if c, ok := s.(*Console); ok {
			return c
		}
	}
	return nil
}
