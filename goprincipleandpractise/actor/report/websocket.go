package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"actor-notes/goprincipleandpractise/actor/scenario"
)

const wsWriteTimeout = 5 * time.Second

// WebSocket 每个结果作为一个文本帧发送。gorilla/websocket的连接不支持并发写，用mu串行化。
type WebSocket struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// DialWebSocket 连接url（ws://或wss://）
func DialWebSocket(ctx context.Context, url string) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket %s: %w", url, err)
	}
	return &WebSocket{conn: conn}, nil
}

func (ws *WebSocket) Write(_ context.Context, r scenario.Result) error {
	data, err := sonic.Marshal(NewRecord(r, time.Now()))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if err := ws.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return ws.conn.WriteMessage(websocket.TextMessage, data)
}

// Close 先发送close帧再关闭底层连接
func (ws *WebSocket) Close() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = ws.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteTimeout))
	return ws.conn.Close()
}
