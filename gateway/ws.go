package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"auto-trader-go/order"
)

// Feed 通过 websocket 连接交易所信息流：读取入站事件并写出指令。
// 重连/重试策略归连接层的运维侧所有，Feed 只负责连接、解码、转发，
// 连接断开时 Run 以错误返回。
type Feed struct {
	Endpoint string
	Name     string // 会话标识
	Secret   string
	Dialer   *websocket.Dialer
	Log      *zap.Logger

	mu   sync.Mutex // 保护并发写
	conn *websocket.Conn
}

// NewFeed 创建指向 endpoint 的信息流客户端。
func NewFeed(endpoint, name, secret string, log *zap.Logger) *Feed {
	return &Feed{
		Endpoint: endpoint,
		Name:     name,
		Secret:   secret,
		Dialer:   websocket.DefaultDialer,
		Log:      log,
	}
}

// Dial 建立连接并发送登录帧。
func (f *Feed) Dial(ctx context.Context) error {
	conn, _, err := f.Dialer.DialContext(ctx, f.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", f.Endpoint, err)
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	return f.write("login", map[string]any{"name": f.Name, "secret": f.Secret})
}

// Run 逐条读取消息、解码并投递到 inbox，直到连接断开或 ctx 取消。
// 解码失败的消息记日志后跳过，不中断信息流。
func (f *Feed) Run(ctx context.Context, inbox chan<- Event) error {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("feed not connected")
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read feed: %w", err)
		}
		ev, err := ParseEvent(raw)
		if err != nil {
			if f.Log != nil {
				f.Log.Warn("drop unparseable message", zap.Error(err))
			}
			continue
		}
		select {
		case inbox <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close 关闭底层连接。
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}

// SendInsertOrder 实现 ExecutionClient。
func (f *Feed) SendInsertOrder(id int64, side order.Side, price, volume int64, lifespan order.Lifespan) error {
	return f.write("insert_order", map[string]any{
		"order_id": id,
		"side":     side.String(),
		"price":    price,
		"volume":   volume,
		"lifespan": lifespan.String(),
	})
}

// SendCancelOrder 实现 ExecutionClient。
func (f *Feed) SendCancelOrder(id int64) error {
	return f.write("cancel_order", map[string]any{"order_id": id})
}

// SendHedgeOrder 实现 ExecutionClient。
func (f *Feed) SendHedgeOrder(id int64, side order.Side, price, volume int64) error {
	return f.write("hedge_order", map[string]any{
		"order_id": id,
		"side":     side.String(),
		"price":    price,
		"volume":   volume,
	})
}

func (f *Feed) write(msgType string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msgType, err)
	}
	env, err := json.Marshal(Envelope{Type: msgType, Data: payload})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return fmt.Errorf("feed not connected")
	}
	_ = f.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return f.conn.WriteMessage(websocket.TextMessage, env)
}
