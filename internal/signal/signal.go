// Package signal turns indicator snapshots into discrete trading
// recommendations using a deterministic additive point system.
package signal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the trading recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// RiskTier classifies signal risk.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
)

// Signal is one immutable scored recommendation for an instrument.
type Signal struct {
	Instrument  string
	Action      Action
	Entry       decimal.Decimal
	StopLoss    decimal.Decimal
	TakeProfit  decimal.Decimal
	Confidence  int
	Risk        RiskTier
	Reasons     []string
	EvaluatedAt time.Time
}

// Actionable reports whether the signal recommends entering a position.
func (s Signal) Actionable() bool {
	return s.Action == ActionBuy || s.Action == ActionSell
}
