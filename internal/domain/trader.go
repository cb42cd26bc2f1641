package domain

import (
	"sort"
	"time"
)

// WalletMetrics summarizes a wallet's recent trading activity. Metrics
// are recomputed per analysis run and never cached.
type WalletMetrics struct {
	TotalTransactions  int
	SuccessfulTrades   int
	FailedTrades       int
	UniqueTokensTraded int
	LastActive         *time.Time
}

// WalletAnalysis is the outcome of analyzing one wallet. Failed is set
// when the upstream signature listing itself errored, as opposed to the
// wallet simply having no qualifying activity in the window. Both carry
// zero metrics; the flag lets callers tell them apart.
type WalletAnalysis struct {
	Metrics WalletMetrics
	Failed  bool
}

// TraderRecord merges a Holder, a USD price and a WalletMetrics into
// one row of a ranking. Constructed per run, persisted once, then
// discarded.
type TraderRecord struct {
	Wallet     string
	Balance    float64
	BalanceUSD float64
	Decimals   int
	Symbol     string

	WalletMetrics
}

// Ranking is the ordered output of the trader-analytics pipeline for
// one token.
type Ranking struct {
	TokenAddress string
	ObservedAt   time.Time
	Traders      []TraderRecord
}

// SortTraderRecords orders records by SuccessfulTrades desc, Balance
// desc, Wallet asc. The wallet tie-break keeps the order deterministic
// for identical activity profiles.
func SortTraderRecords(records []TraderRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].SuccessfulTrades != records[j].SuccessfulTrades {
			return records[i].SuccessfulTrades > records[j].SuccessfulTrades
		}
		if records[i].Balance != records[j].Balance {
			return records[i].Balance > records[j].Balance
		}
		return records[i].Wallet < records[j].Wallet
	})
}
