package match

import (
	"github.com/0x5487/implied-engine/config"
	"github.com/0x5487/implied-engine/protocol"
	"go.uber.org/zap"
)

// Market is the whole state of the venue: three outright books, two strategy
// books, the static instrument definitions and the message queues.
//
// Market is a value. Step and every other transition take a Market and return
// a new one; the books, queues and orders of the input are never written to,
// so an earlier Market stays valid after later steps.
type Market struct {
	Time          int64                   `json:"time"`
	LastOrderID   uint64                  `json:"last_order_id"`
	Outrights     [OutrightCount]Outright `json:"outrights"`
	Strategies    [StrategyCount]Strategy `json:"strategies"`
	OutrightBooks [OutrightCount]Book     `json:"outright_books"`
	StrategyBooks [StrategyCount]Book     `json:"strategy_books"`
	Inbound       []Event                 `json:"-"`
	Outbound      []Message               `json:"outbound,omitempty"`
}

// NewMarket creates an empty market for the given instrument definitions.
func NewMarket(outrights [OutrightCount]Outright, strategies [StrategyCount]Strategy) Market {
	return Market{
		Outrights:  outrights,
		Strategies: strategies,
	}
}

// NewMarketFromConfig creates an empty market from a validated market definition.
// Leg outrights are 1-based in the config and 0-based in the Market.
func NewMarketFromConfig(cfg config.MarketConfig) (Market, error) {
	if err := cfg.Validate(); err != nil {
		return Market{}, err
	}

	var (
		outrights  [OutrightCount]Outright
		strategies [StrategyCount]Strategy
	)
	for i, o := range cfg.Outrights {
		outrights[i] = Outright{Name: o.Name, Expiry: o.Expiry}
	}
	for i, s := range cfg.Strategies {
		strategies[i] = Strategy{Name: s.Name, CreatedAt: s.CreatedAt}
		for j, leg := range s.Legs {
			strategies[i].Legs[j] = Leg{Outright: leg.Outright - 1, Multiplier: leg.Multiplier}
		}
	}
	return NewMarket(outrights, strategies), nil
}

// Book returns the book addressed by instrument.
func (m Market) Book(instrument Instrument) (Book, bool) {
	if !instrument.Valid() {
		return Book{}, false
	}
	if instrument.Kind == protocol.InstrumentOutright {
		return m.OutrightBooks[instrument.Index()], true
	}
	return m.StrategyBooks[instrument.Index()], true
}

// withBook returns a copy of the market where the book addressed by instrument is replaced.
func (m Market) withBook(instrument Instrument, book Book) Market {
	switch instrument.Kind {
	case protocol.InstrumentOutright:
		m.OutrightBooks[instrument.Index()] = book
	case protocol.InstrumentStrategy:
		m.StrategyBooks[instrument.Index()] = book
	}
	return m
}

// Step applies one inbound event and returns the resulting market.
// The logical time advances by one for every event.
func Step(m Market, event Event) Market {
	m.Time++

	switch e := event.(type) {
	case NewOrder:
		return applyNewOrder(m, e)
	case CancelOrder:
		return applyCancelOrder(m, e)
	case TriggerImpliedUncross:
		return applyTriggerImpliedUncross(m)
	default:
		logger.Warn("unknown event ignored", zap.Any("event", event))
		return m
	}
}

// Run applies events in order and returns the market after each one.
func Run(m Market, events []Event) []Market {
	markets := make([]Market, 0, len(events))
	for _, event := range events {
		m = Step(m, event)
		markets = append(markets, m)
	}
	return markets
}

// Enqueue appends events to the inbound queue of the market.
func Enqueue(m Market, events ...Event) Market {
	m.Inbound = appendEvents(m.Inbound, events...)
	return m
}

// Drain processes the whole inbound queue, returning the market after each event.
// The last returned market has an empty inbound queue.
func Drain(m Market) []Market {
	events := m.Inbound
	m.Inbound = nil
	return Run(m, events)
}

// TakeOutbound detaches the outbound queue from the market.
func TakeOutbound(m Market) (Market, []Message) {
	msgs := m.Outbound
	m.Outbound = nil
	return m, msgs
}

func applyNewOrder(m Market, e NewOrder) Market {
	book, ok := m.Book(e.Instrument)
	if !ok || e.Size <= 0 || (e.Side != Buy && e.Side != Sell) {
		logger.Warn("new order rejected",
			zap.Int64("client_id", e.ClientID),
			zap.Stringer("instrument", e.Instrument),
			zap.Int64("size", e.Size),
		)
		return m
	}

	order := Order{
		ID:         m.LastOrderID + 1,
		Side:       e.Side,
		Size:       e.Size,
		Price:      e.Price,
		Timestamp:  m.Time,
		ClientID:   e.ClientID,
		Instrument: e.Instrument,
	}

	m = m.withBook(e.Instrument, book.Insert(order))
	m.LastOrderID = order.ID

	logger.Debug("order placed",
		zap.Uint64("order_id", order.ID),
		zap.Int64("client_id", order.ClientID),
		zap.Stringer("instrument", order.Instrument),
		zap.Stringer("side", order.Side),
		zap.Int64("size", order.Size),
		zap.String("price", order.Price.String()),
	)
	return m
}

func applyCancelOrder(m Market, e CancelOrder) Market {
	book, ok := m.Book(e.Instrument)
	if !ok {
		logger.Warn("cancel for unknown instrument ignored", zap.Stringer("instrument", e.Instrument))
		return m
	}
	return m.withBook(e.Instrument, book.Cancel(e.ClientID, e.OrderID, e.Side))
}

// applyTriggerImpliedUncross runs the direct pass over all five books
// (outrights first, then strategies) and then both strategies' implied cycles,
// the higher priority strategy first.
func applyTriggerImpliedUncross(m Market) Market {
	var msgs []Message

	for i := range m.OutrightBooks {
		result := Uncross(m.OutrightBooks[i])
		m.OutrightBooks[i] = result.Book
		msgs = append(msgs, fillMessages(protocol.NewOutright(uint8(i + 1)), result.Fills)...)
	}
	for i := range m.StrategyBooks {
		result := Uncross(m.StrategyBooks[i])
		m.StrategyBooks[i] = result.Book
		msgs = append(msgs, fillMessages(protocol.NewStrategy(uint8(i + 1)), result.Fills)...)
	}
	m.Outbound = appendMessages(m.Outbound, msgs...)

	logger.Debug("direct uncross done", zap.Int("fills", len(msgs)))

	for _, idx := range StrategyPriority(m) {
		m = ImpliedUncrossBoth(m, idx)
	}
	return m
}
