package protocol

// CommandType defines the type of the command (using uint8 for memory alignment and performance)
type CommandType uint8

// Command Type Numbering Strategy:
// - 0-50:  Query Commands (read path, answered through a response channel)
// - 51+:   Trading Commands (mutate the market)
const (
	CmdUnknown CommandType = 0

	CmdNewOrder              CommandType = 51
	CmdCancelOrder           CommandType = 52
	CmdTriggerImpliedUncross CommandType = 53
)

// Command is the standard carrier for commands entering the Matching Engine.
// It is designed to be efficient for serialization and compatible with Event Sourcing.
type Command struct {
	// Version is the protocol version for backward compatibility.
	Version uint8 `json:"version"`

	// SeqID is used for global ordering and deduplication.
	SeqID uint64 `json:"seq_id"`

	// Type identifies the payload type for fast routing.
	Type CommandType `json:"type"`

	// Payload contains the serialized business data (e.g., JSON bytes of NewOrderCommand).
	Payload []byte `json:"payload"`

	// Metadata stores non-business context (e.g., Tracing ID, Source IP).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewOrderCommand is the payload for placing a new limit order.
type NewOrderCommand struct {
	ClientID   int64      `json:"client_id"`
	Instrument Instrument `json:"instrument"`
	Size       int64      `json:"size"`
	Side       Side       `json:"side"`
	Price      string     `json:"price"` // Using string to prevent precision loss in JSON
}

// CancelOrderCommand is the payload for cancelling a resting order.
type CancelOrderCommand struct {
	ClientID   int64      `json:"client_id"`
	OrderID    uint64     `json:"order_id"`
	Instrument Instrument `json:"instrument"`
	Side       Side       `json:"side"`
}

// TriggerImpliedUncrossCommand asks the venue to run the direct matching pass
// followed by the implied cycles of both strategies. It carries no data.
type TriggerImpliedUncrossCommand struct{}
