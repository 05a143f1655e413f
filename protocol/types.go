package protocol

import "strconv"

// Side represents the order side (Buy/Sell).
type Side int8

const (
	SideBuy  Side = 1
	SideSell Side = 2
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	}
	return "unknown"
}

// InstrumentKind tells whether an instrument addresses an outright or a strategy book.
type InstrumentKind uint8

const (
	InstrumentUnknown  InstrumentKind = 0
	InstrumentOutright InstrumentKind = 1
	InstrumentStrategy InstrumentKind = 2
)

const (
	// OutrightCount is the number of outright books in a market.
	OutrightCount = 3
	// StrategyCount is the number of strategy books in a market.
	StrategyCount = 2
)

// Instrument addresses one book of the market.
// Number is 1-based, matching the venue's external numbering (Outright 1..3, Strategy 1..2).
type Instrument struct {
	Kind   InstrumentKind `json:"kind"`
	Number uint8          `json:"number"`
}

// NewOutright returns the instrument reference of outright n (1..3).
func NewOutright(n uint8) Instrument {
	return Instrument{Kind: InstrumentOutright, Number: n}
}

// NewStrategy returns the instrument reference of strategy n (1..2).
func NewStrategy(n uint8) Instrument {
	return Instrument{Kind: InstrumentStrategy, Number: n}
}

// Valid reports whether the instrument addresses an existing book.
func (i Instrument) Valid() bool {
	switch i.Kind {
	case InstrumentOutright:
		return i.Number >= 1 && i.Number <= OutrightCount
	case InstrumentStrategy:
		return i.Number >= 1 && i.Number <= StrategyCount
	}
	return false
}

// Index returns the 0-based slot of the instrument within its kind.
func (i Instrument) Index() int {
	return int(i.Number) - 1
}

func (i Instrument) String() string {
	switch i.Kind {
	case InstrumentOutright:
		return "outright-" + strconv.Itoa(int(i.Number))
	case InstrumentStrategy:
		return "strategy-" + strconv.Itoa(int(i.Number))
	}
	return "unknown"
}
