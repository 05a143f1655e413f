package match

import "github.com/0x5487/implied-engine/protocol"

const (
	// EngineVersion is the current version of the matching engine
	EngineVersion = "v1.0.0"

	// SnapshotSchemaVersion is the current version of the snapshot schema
	// Increment this when the snapshot format changes in a backward-incompatible way
	SnapshotSchemaVersion = 1

	// ImpliedClientID is the client identifier carried by engine-generated implied orders.
	ImpliedClientID int64 = -1

	// LegCount is the number of legs of every strategy.
	LegCount = 3

	OutrightCount = protocol.OutrightCount
	StrategyCount = protocol.StrategyCount
)
