package match

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/0x5487/implied-engine/config"
	"github.com/0x5487/implied-engine/protocol"
	"github.com/rs/xid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultRingSize = 32768

// InputEvent is the internal wrapper for all events entering the engine's ring buffer.
type InputEvent struct {
	// Cmd is the external command carrier.
	Cmd *protocol.Command

	// Internal Query fields (Read Path)
	Query any // snapshotQuery or depthQuery
	Resp  chan any
}

type snapshotQuery struct{}

type depthQuery struct {
	instrument Instrument
	side       Side
	limit      uint32
}

// EngineOption configures a MatchingEngine.
type EngineOption func(*MatchingEngine)

// WithRingSize sets the capacity of the inbound ring buffer. It must be a power of 2.
func WithRingSize(size int64) EngineOption {
	return func(engine *MatchingEngine) {
		engine.ringSize = size
	}
}

// WithSerializer sets the serializer used to decode command payloads.
func WithSerializer(serializer protocol.Serializer) EngineOption {
	return func(engine *MatchingEngine) {
		engine.serializer = serializer
	}
}

// MatchingEngine owns one Market and applies commands to it from a single
// consumer goroutine. Producers enqueue commands concurrently; each command is
// processed to completion, including all implied cycles, before the next one.
type MatchingEngine struct {
	isShutdown atomic.Bool
	market     Market // only touched by the consumer goroutine
	ring       *RingBuffer[InputEvent]
	ringSize   int64
	publishLog PublishLog
	serializer protocol.Serializer
}

// NewMatchingEngine creates a new matching engine around the initial market.
// Call Start before enqueuing commands.
func NewMatchingEngine(market Market, publishLog PublishLog, opts ...EngineOption) *MatchingEngine {
	engine := &MatchingEngine{
		market:     market,
		ringSize:   defaultRingSize,
		publishLog: publishLog,
		serializer: &protocol.DefaultJSONSerializer{},
	}
	for _, opt := range opts {
		opt(engine)
	}

	engine.ring = NewRingBuffer[InputEvent](engine.ringSize, engine)
	return engine
}

// NewMatchingEngineFromConfig builds the market and the engine described by cfg
// and installs a logger at cfg.Engine.LogLevel. Options in opts are applied
// after the configured ones.
func NewMatchingEngineFromConfig(cfg config.Config, publishLog PublishLog, opts ...EngineOption) (*MatchingEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	market, err := NewMarketFromConfig(cfg.Market)
	if err != nil {
		return nil, err
	}

	l, err := NewLogger(cfg.Engine.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %w", config.ErrInvalidConfig, err)
	}
	SetLogger(l)

	opts = append([]EngineOption{WithRingSize(cfg.Engine.RingSize)}, opts...)
	return NewMatchingEngine(market, publishLog, opts...), nil
}

// Start starts the consumer goroutine.
func (engine *MatchingEngine) Start() {
	logger.Info("matching engine started", zap.String("version", EngineVersion), zap.Int64("ring_size", engine.ringSize))
	engine.ring.Start()
}

// EnqueueCommand submits a command for asynchronous processing.
func (engine *MatchingEngine) EnqueueCommand(cmd *protocol.Command) error {
	if engine.isShutdown.Load() {
		return ErrShutdown
	}

	switch cmd.Type {
	case protocol.CmdNewOrder, protocol.CmdCancelOrder, protocol.CmdTriggerImpliedUncross:
	default:
		return ErrUnknownCommand
	}

	if !engine.ring.Publish(InputEvent{Cmd: cmd}) {
		return ErrShutdown
	}
	return nil
}

// NewOrder places a limit order.
func (engine *MatchingEngine) NewOrder(ctx context.Context, cmd *protocol.NewOrderCommand) error {
	if _, err := newOrderEvent(cmd); err != nil {
		return err
	}
	return engine.enqueuePayload(ctx, protocol.CmdNewOrder, cmd)
}

// CancelOrder cancels a resting order. Cancelling an unknown order is not an error.
func (engine *MatchingEngine) CancelOrder(ctx context.Context, cmd *protocol.CancelOrderCommand) error {
	if _, err := cancelOrderEvent(cmd); err != nil {
		return err
	}
	return engine.enqueuePayload(ctx, protocol.CmdCancelOrder, cmd)
}

// TriggerImpliedUncross runs the direct matching pass and both implied cycles.
func (engine *MatchingEngine) TriggerImpliedUncross(ctx context.Context) error {
	return engine.enqueuePayload(ctx, protocol.CmdTriggerImpliedUncross, &protocol.TriggerImpliedUncrossCommand{})
}

func (engine *MatchingEngine) enqueuePayload(ctx context.Context, cmdType protocol.CommandType, payload any) error {
	if err := ctx.Err(); err != nil {
		return ErrTimeout
	}

	bytes, err := engine.serializer.Marshal(payload)
	if err != nil {
		return err
	}
	return engine.EnqueueCommand(&protocol.Command{
		Type:    cmdType,
		Payload: bytes,
	})
}

// Snapshot returns the market state after every command enqueued before the call.
func (engine *MatchingEngine) Snapshot(ctx context.Context) (*MarketSnapshot, error) {
	res, err := engine.query(ctx, snapshotQuery{})
	if err != nil {
		return nil, err
	}
	snap, _ := res.(*MarketSnapshot)
	return snap, nil
}

// Depth returns the aggregated price levels of one side of a book.
func (engine *MatchingEngine) Depth(ctx context.Context, instrument Instrument, side Side, limit uint32) ([]DepthItem, error) {
	if limit == 0 {
		return nil, ErrInvalidParam
	}
	if !instrument.Valid() {
		return nil, ErrUnknownInstrument
	}
	if !validSide(side) {
		return nil, ErrInvalidParam
	}

	res, err := engine.query(ctx, depthQuery{instrument: instrument, side: side, limit: limit})
	if err != nil {
		return nil, err
	}
	items, _ := res.([]DepthItem)
	return items, nil
}

func (engine *MatchingEngine) query(ctx context.Context, q any) (any, error) {
	if engine.isShutdown.Load() {
		return nil, ErrShutdown
	}

	respChan := make(chan any, 1)
	if !engine.ring.Publish(InputEvent{Query: q, Resp: respChan}) {
		return nil, ErrShutdown
	}

	select {
	case res := <-respChan:
		return res, nil
	case <-ctx.Done():
		return nil, ErrTimeout
	}
}

// Shutdown stops accepting commands and waits until every pending command is processed.
// Returns nil if shutdown completed successfully, or ErrTimeout if the context ended first.
func (engine *MatchingEngine) Shutdown(ctx context.Context) error {
	engine.isShutdown.Store(true)

	if err := engine.ring.Shutdown(ctx); err != nil {
		logger.Error("matching engine shutdown timed out", zap.Int64("pending", engine.ring.GetPendingEvents()))
		return ErrTimeout
	}

	logger.Info("matching engine stopped", zap.Uint64("last_order_id", engine.market.LastOrderID))
	return nil
}

// OnEvent implements EventHandler. It runs on the consumer goroutine only.
func (engine *MatchingEngine) OnEvent(ev InputEvent) {
	if ev.Query != nil {
		engine.answer(ev)
		return
	}
	if ev.Cmd == nil {
		return
	}

	event, err := engine.decode(ev.Cmd)
	if err != nil {
		logger.Error("failed to decode command",
			zap.Uint8("type", uint8(ev.Cmd.Type)),
			zap.Uint64("seq_id", ev.Cmd.SeqID),
			zap.Error(err),
		)
		return
	}

	before := engine.market.LastOrderID
	market := Step(engine.market, event)

	var msgs []Message
	if e, ok := event.(NewOrder); ok && market.LastOrderID != before {
		msgs = append(msgs, newAckMessage(Order{
			ID:         market.LastOrderID,
			Side:       e.Side,
			Size:       e.Size,
			Price:      e.Price,
			ClientID:   e.ClientID,
			Instrument: e.Instrument,
		}))
	}

	market, out := TakeOutbound(market)
	msgs = append(msgs, out...)
	engine.market = market

	if len(msgs) == 0 {
		return
	}

	batchID := xid.New().String()
	for i := range msgs {
		msgs[i].BatchID = batchID
	}
	engine.publishLog.Publish(msgs...)
}

func (engine *MatchingEngine) answer(ev InputEvent) {
	var res any
	switch q := ev.Query.(type) {
	case snapshotQuery:
		res = engine.market.Snapshot()
	case depthQuery:
		book, _ := engine.market.Book(q.instrument)
		res = book.Depth(q.side, q.limit)
	}

	if ev.Resp != nil {
		select {
		case ev.Resp <- res:
		default:
			// Non-blocking send, if no one is listening, just drop it
		}
	}
}

// decode turns a wire command into a market event.
func (engine *MatchingEngine) decode(cmd *protocol.Command) (Event, error) {
	switch cmd.Type {
	case protocol.CmdNewOrder:
		payload := &protocol.NewOrderCommand{}
		if err := engine.serializer.Unmarshal(cmd.Payload, payload); err != nil {
			return nil, err
		}
		return newOrderEvent(payload)
	case protocol.CmdCancelOrder:
		payload := &protocol.CancelOrderCommand{}
		if err := engine.serializer.Unmarshal(cmd.Payload, payload); err != nil {
			return nil, err
		}
		return cancelOrderEvent(payload)
	case protocol.CmdTriggerImpliedUncross:
		return TriggerImpliedUncross{}, nil
	}
	return nil, ErrUnknownCommand
}

func newOrderEvent(cmd *protocol.NewOrderCommand) (Event, error) {
	if !cmd.Instrument.Valid() {
		return nil, ErrUnknownInstrument
	}
	if cmd.Size <= 0 || !validSide(cmd.Side) {
		return nil, ErrInvalidParam
	}

	price, err := decimal.NewFromString(cmd.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q", ErrInvalidParam, cmd.Price)
	}

	return NewOrder{
		ClientID:   cmd.ClientID,
		Instrument: cmd.Instrument,
		Size:       cmd.Size,
		Side:       cmd.Side,
		Price:      price,
	}, nil
}

func cancelOrderEvent(cmd *protocol.CancelOrderCommand) (Event, error) {
	if !cmd.Instrument.Valid() {
		return nil, ErrUnknownInstrument
	}
	if !validSide(cmd.Side) {
		return nil, ErrInvalidParam
	}

	return CancelOrder{
		ClientID:   cmd.ClientID,
		OrderID:    cmd.OrderID,
		Instrument: cmd.Instrument,
		Side:       cmd.Side,
	}, nil
}

func validSide(side Side) bool {
	return side == Buy || side == Sell
}
