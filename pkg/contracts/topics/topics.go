package topics

const (
	// Feed do bookmaker
	RawMarkets    = "raw_markets"
	RawMarketsDLQ = "raw_markets_dlq"

	// Liquidação
	SettlementCompleted = "settlement_completed"
)
