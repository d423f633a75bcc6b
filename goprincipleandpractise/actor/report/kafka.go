package report

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"

	"actor-notes/goprincipleandpractise/actor/scenario"
)

// MessageWriter kafka.Writer满足该接口
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka 把Record发布到topic，key为计数器种类，同一种类的结果落在同一分区
type Kafka struct {
	w MessageWriter
}

// NewKafka 连接brokers
func NewKafka(brokers []string, topic string) *Kafka {
	return NewKafkaWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	})
}

// NewKafkaWithWriter 使用给定的writer
func NewKafkaWithWriter(w MessageWriter) *Kafka {
	return &Kafka{w: w}
}

func (k *Kafka) Write(ctx context.Context, r scenario.Result) error {
	data, err := sonic.Marshal(NewRecord(r, time.Now()))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := k.w.WriteMessages(ctx, kafka.Message{Key: []byte(r.Kind), Value: data}); err != nil {
		return fmt.Errorf("publish to kafka: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
