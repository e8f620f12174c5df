package gateway

import "auto-trader-go/order"

// ExecutionClient 核心向连接层下发指令的出口。
// 撤单是 fire-and-forget：结果只通过后续的状态/错误事件可见。
type ExecutionClient interface {
	// SendInsertOrder 以指定有效期在做市腿挂单。
	SendInsertOrder(id int64, side order.Side, price, volume int64, lifespan order.Lifespan) error
	// SendCancelOrder 请求撤销在途订单。对已退场订单的撤单
	// 由交易所忽略，随之而来的空操作状态回报核心必须容忍。
	SendCancelOrder(id int64) error
	// SendHedgeOrder 在对冲腿以保证成交的价格下单。
	SendHedgeOrder(id int64, side order.Side, price, volume int64) error
}
