// Package config actornotes的配置。
//
// 优先级：flag > 环境变量（配置文件里的${VAR}） > 配置文件 > 默认值。
// flag由cmd/actornotes覆盖，这里只负责文件、环境变量与默认值。
package config

import (
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"actor-notes/goprincipleandpractise/actor/counter"
	"actor-notes/goprincipleandpractise/actor/scenario"
)

// ErrInvalidConfig 配置非法
var ErrInvalidConfig = errors.New("config: invalid config")

// Config 顶层配置
type Config struct {
	Log             logx.LogConf
	Scenarios       []ScenarioConf `json:",optional"`
	Kinds           []string       `json:",optional"`
	Spawner         string         `json:",default=goroutine,options=goroutine|pool|routinegroup"`
	Repeat          int            `json:",default=1"`
	Yield           bool           `json:",optional"`
	MailboxCapacity int            `json:",default=1024"`
	NotesDir        string         `json:",default=notes"`
	Gops            GopsConf
	Sinks           SinksConf
}

// ScenarioConf 对应scenario.Scenario
type ScenarioConf struct {
	Workers   int
	PerWorker int
}

// GopsConf gops诊断agent
type GopsConf struct {
	Enabled bool   `json:",optional"`
	Addr    string `json:",optional"`
}

// SinksConf 结果输出，控制台输出总是开启
type SinksConf struct {
	JSON      string        `json:",optional"` // 文件路径，"-"表示标准输出
	Kafka     KafkaConf
	Mongo     MongoConf
	WebSocket WebSocketConf
}

// KafkaConf Brokers为空时不启用
type KafkaConf struct {
	Brokers []string `json:",optional"`
	Topic   string   `json:",default=actor-notes.results"`
}

// MongoConf URI为空时不启用
type MongoConf struct {
	URI        string `json:",optional"`
	Database   string `json:",default=actornotes"`
	Collection string `json:",default=results"`
}

// WebSocketConf URL为空时不启用
type WebSocketConf struct {
	URL string `json:",optional"`
}

// DefaultKinds 不安全的对照组加两种串行化实现
var DefaultKinds = []string{string(counter.KindUnsafe), string(counter.KindActor), string(counter.KindMutex)}

// Load path为空时只使用默认值
func Load(path string) (Config, error) {
	var c Config
	var err error
	if path == "" {
		err = conf.FillDefault(&c)
	} else {
		err = conf.Load(path, &c, conf.UseEnv())
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}

	c.fillDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// MustLoad 加载失败直接退出
func MustLoad(path string) Config {
	c, err := Load(path)
	logx.Must(err)
	return c
}

func (c *Config) fillDefaults() {
	if len(c.Scenarios) == 0 {
		for _, s := range scenario.DefaultScenarios() {
			c.Scenarios = append(c.Scenarios, ScenarioConf{Workers: s.Workers, PerWorker: s.PerWorker})
		}
	}
	if len(c.Kinds) == 0 {
		c.Kinds = append([]string(nil), DefaultKinds...)
	}
}

// Validate 检查各字段能否转换为运行计划
func (c Config) Validate() error {
	if _, err := c.Plan(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := scenario.ParseSpawner(c.Spawner); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Repeat < 1 {
		return fmt.Errorf("%w: Repeat=%d, want >= 1", ErrInvalidConfig, c.Repeat)
	}
	if c.MailboxCapacity < 0 {
		return fmt.Errorf("%w: MailboxCapacity=%d, want >= 0", ErrInvalidConfig, c.MailboxCapacity)
	}
	if len(c.Sinks.Kafka.Brokers) > 0 && c.Sinks.Kafka.Topic == "" {
		return fmt.Errorf("%w: Sinks.Kafka.Topic is empty", ErrInvalidConfig)
	}
	return nil
}

// Plan 转换为scenario.Plan
func (c Config) Plan() (scenario.Plan, error) {
	plan := scenario.Plan{Repeat: c.Repeat}
	for _, s := range c.Scenarios {
		plan.Scenarios = append(plan.Scenarios, scenario.Scenario{Workers: s.Workers, PerWorker: s.PerWorker})
	}
	for _, name := range c.Kinds {
		k, err := counter.ParseKind(name)
		if err != nil {
			return scenario.Plan{}, err
		}
		plan.Kinds = append(plan.Kinds, k)
	}
	return plan, plan.Validate()
}

// DriverOptions 由配置得到的Driver选项
func (c Config) DriverOptions() []scenario.DriverOption {
	sp, _ := scenario.ParseSpawner(c.Spawner)
	return []scenario.DriverOption{
		scenario.WithSpawner(sp),
		scenario.WithYield(c.Yield),
		scenario.WithMailboxCapacity(c.MailboxCapacity),
	}
}
