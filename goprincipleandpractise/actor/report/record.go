// Package report 输出场景运行结果。控制台输出总是开启，
// 其余sink（JSON行、Kafka、MongoDB、WebSocket）按配置打开。
package report

import (
	"context"
	"time"

	"actor-notes/goprincipleandpractise/actor/scenario"
)

// Sink 结果输出目标
type Sink interface {
	Write(ctx context.Context, r scenario.Result) error
	Close() error
}

// Record 对外输出的扁平结构
type Record struct {
	Time       time.Time `json:"time" bson:"time"`
	Kind       string    `json:"kind" bson:"kind"`
	Serialized bool      `json:"serialized" bson:"serialized"`
	Spawner    string    `json:"spawner" bson:"spawner"`
	Workers    int       `json:"workers" bson:"workers"`
	PerWorker  int       `json:"per_worker" bson:"per_worker"`
	Run        int       `json:"run" bson:"run"`
	Expected   int64     `json:"expected" bson:"expected"`
	Actual     int64     `json:"actual" bson:"actual"`
	Lost       int64     `json:"lost" bson:"lost"`
	Match      bool      `json:"match" bson:"match"`
	ElapsedNs  int64     `json:"elapsed_ns" bson:"elapsed_ns"`
}

// NewRecord 由运行结果生成Record
func NewRecord(r scenario.Result, now time.Time) Record {
	return Record{
		Time:       now.UTC(),
		Kind:       r.Kind.String(),
		Serialized: r.Kind.Serialized(),
		Spawner:    string(r.Spawner),
		Workers:    r.Scenario.Workers,
		PerWorker:  r.Scenario.PerWorker,
		Run:        r.Run,
		Expected:   r.Expected,
		Actual:     r.Actual,
		Lost:       r.Lost,
		Match:      r.Match,
		ElapsedNs:  r.Elapsed.Nanoseconds(),
	}
}
