package models

import "time"

// Quote is the market data needed to price one holding.
type Quote struct {
	Ticker    string
	Latest    float64   // Latest trade price
	PrevClose float64   // Close of the session before the latest trade
	DayRange  *DayRange // Range of the latest session, nil when the source has none
	Timestamp time.Time
}

// DayRange is the low/high range of a single trading session.
type DayRange struct {
	Low  float64
	High float64
}

// Clock represents the market status.
type Clock struct {
	Timestamp time.Time
	IsOpen    bool
	NextOpen  time.Time
	NextClose time.Time
}

// Bar represents a candlestick for a timeframe.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}
