package report

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"actor-notes/goprincipleandpractise/actor/scenario"
)

const mongoCloseTimeout = 5 * time.Second

// Inserter *mongo.Collection满足该接口
type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// Mongo 每个结果插入一条文档
type Mongo struct {
	coll       Inserter
	disconnect func(context.Context) error
}

// DialMongo 连接uri并使用database.collection
func DialMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return NewMongo(client.Database(database).Collection(collection), client.Disconnect), nil
}

// NewMongo disconnect可以为nil
func NewMongo(coll Inserter, disconnect func(context.Context) error) *Mongo {
	return &Mongo{coll: coll, disconnect: disconnect}
}

func (m *Mongo) Write(ctx context.Context, r scenario.Result) error {
	if _, err := m.coll.InsertOne(ctx, NewRecord(r, time.Now())); err != nil {
		return fmt.Errorf("insert into mongo: %w", err)
	}
	return nil
}

func (m *Mongo) Close() error {
	if m.disconnect == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return m.disconnect(ctx)
}
