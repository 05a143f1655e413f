package match

import (
	"github.com/shopspring/decimal"
)

// Event is an inbound message of the market state machine.
// The set of events is closed: NewOrder, CancelOrder and TriggerImpliedUncross.
type Event interface {
	isEvent()
}

// NewOrder places a limit order into the book addressed by Instrument.
type NewOrder struct {
	ClientID   int64
	Instrument Instrument
	Size       int64
	Side       Side
	Price      decimal.Decimal
}

// CancelOrder removes a resting order. Unknown orders are ignored.
type CancelOrder struct {
	ClientID   int64
	OrderID    uint64
	Instrument Instrument
	Side       Side
}

// TriggerImpliedUncross runs the direct matching pass on every book and then
// the implied cycles of both strategies.
type TriggerImpliedUncross struct{}

func (NewOrder) isEvent()              {}
func (CancelOrder) isEvent()           {}
func (TriggerImpliedUncross) isEvent() {}

// MessageType tells which payload of a Message is set.
type MessageType string

const (
	MessageTypeAck  MessageType = "ack"
	MessageTypeFill MessageType = "fill"
)

// Ack confirms that a new order was accepted into its book.
type Ack struct {
	OrderID    uint64          `json:"order_id"`
	ClientID   int64           `json:"client_id"`
	Instrument Instrument      `json:"instrument"`
	Size       int64           `json:"size"`
	Side       Side            `json:"side"`
	Price      decimal.Decimal `json:"price"`
}

// Message is an outbound message. Exactly one of Ack and Fill is set, according to Type.
// BatchID groups the messages produced by one inbound command; it is only set
// by the MatchingEngine.
type Message struct {
	Type       MessageType `json:"type"`
	BatchID    string      `json:"batch_id,omitempty"`
	Instrument Instrument  `json:"instrument"`
	Ack        *Ack        `json:"ack,omitempty"`
	Fill       *Fill       `json:"fill,omitempty"`
}

func newAckMessage(order Order) Message {
	return Message{
		Type:       MessageTypeAck,
		Instrument: order.Instrument,
		Ack: &Ack{
			OrderID:    order.ID,
			ClientID:   order.ClientID,
			Instrument: order.Instrument,
			Size:       order.Size,
			Side:       order.Side,
			Price:      order.Price,
		},
	}
}

func fillMessages(instrument Instrument, fills []Fill) []Message {
	msgs := make([]Message, 0, len(fills))
	for i := range fills {
		fill := fills[i]
		msgs = append(msgs, Message{
			Type:       MessageTypeFill,
			Instrument: instrument,
			Fill:       &fill,
		})
	}
	return msgs
}
