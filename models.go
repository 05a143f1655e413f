package match

import (
	"github.com/0x5487/implied-engine/protocol"
	"github.com/shopspring/decimal"
)

type Side = protocol.Side

const (
	Buy  Side = protocol.SideBuy
	Sell Side = protocol.SideSell
)

type Instrument = protocol.Instrument

// Order represents the state of an order resting in (or passing through) a book.
type Order struct {
	ID         uint64          `json:"id"`
	Side       Side            `json:"side"`
	Size       int64           `json:"size"` // Remaining size
	Price      decimal.Decimal `json:"price"`
	Timestamp  int64           `json:"timestamp"` // Logical market time at arrival
	ClientID   int64           `json:"client_id"`
	Instrument Instrument      `json:"instrument"`
	Implied    bool            `json:"implied,omitempty"`
}

// Outright is the static definition of a single tradable instrument.
type Outright struct {
	Name   string `json:"name"`
	Expiry int64  `json:"expiry"`
}

// Leg is one weighted component of a strategy. Outright is the 0-based outright slot.
type Leg struct {
	Outright   int   `json:"outright"`
	Multiplier int64 `json:"multiplier"`
}

// Strategy is a synthetic instrument priced off three outright legs.
type Strategy struct {
	Name      string        `json:"name"`
	CreatedAt int64         `json:"created_at"`
	Legs      [LegCount]Leg `json:"legs"`
}

// LevelInfo is the aggregated size at the best price of one side of a book.
type LevelInfo struct {
	Size  int64           `json:"size"`
	Price decimal.Decimal `json:"price"`
}

// Top holds the best level of each side. A nil level means the side is empty.
type Top struct {
	Bid *LevelInfo `json:"bid,omitempty"`
	Ask *LevelInfo `json:"ask,omitempty"`
}

// Fill is an execution against a non-implied order.
type Fill struct {
	ClientID int64           `json:"client_id"`
	Size     int64           `json:"size"`
	Price    decimal.Decimal `json:"price"`
	OrderID  uint64          `json:"order_id"`
	Done     bool            `json:"done"`
}

// UncrossResult is what a single uncrossing pass over one book produces.
// Matched counts every traded unit once, including trades where one side was implied.
type UncrossResult struct {
	Book    Book
	Fills   []Fill
	Matched int64
}

// DepthItem is one aggregated price level of a book side.
type DepthItem struct {
	ID    uint32          `json:"id"`
	Price decimal.Decimal `json:"price"`
	Size  int64           `json:"size"`
	Count int64           `json:"count"`
}
