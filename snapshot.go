package match

// MarketSnapshot contains the full state of a Market at one point of logical time.
// Queues are not part of a snapshot: inbound events are either processed or not,
// and outbound messages belong to whoever consumed them.
type MarketSnapshot struct {
	SchemaVersion int                     `json:"schema_version"`
	EngineVersion string                  `json:"engine_version"`
	Time          int64                   `json:"time"`
	LastOrderID   uint64                  `json:"last_order_id"`
	Outrights     [OutrightCount]Outright `json:"outrights"`
	Strategies    [StrategyCount]Strategy `json:"strategies"`
	OutrightBooks [OutrightCount]Book     `json:"outright_books"`
	StrategyBooks [StrategyCount]Book     `json:"strategy_books"`
}

// Snapshot captures the market state. The books are copied, so the snapshot
// does not share memory with the market.
func (m Market) Snapshot() *MarketSnapshot {
	snap := &MarketSnapshot{
		SchemaVersion: SnapshotSchemaVersion,
		EngineVersion: EngineVersion,
		Time:          m.Time,
		LastOrderID:   m.LastOrderID,
		Outrights:     m.Outrights,
		Strategies:    m.Strategies,
	}
	for i := range m.OutrightBooks {
		snap.OutrightBooks[i] = m.OutrightBooks[i].clone()
	}
	for i := range m.StrategyBooks {
		snap.StrategyBooks[i] = m.StrategyBooks[i].clone()
	}
	return snap
}

// RestoreMarket rebuilds a Market from a snapshot, with empty queues.
func RestoreMarket(snap *MarketSnapshot) Market {
	m := NewMarket(snap.Outrights, snap.Strategies)
	m.Time = snap.Time
	m.LastOrderID = snap.LastOrderID
	for i := range snap.OutrightBooks {
		m.OutrightBooks[i] = snap.OutrightBooks[i].clone()
	}
	for i := range snap.StrategyBooks {
		m.StrategyBooks[i] = snap.StrategyBooks[i].clone()
	}
	return m
}
