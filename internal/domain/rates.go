package domain

import "time"

// RateSet is the process-wide exchange-rate snapshot for a session.
// OfficialUSD and OfficialEUR are the central-bank VES pairs; ParallelBuy
// and ParallelSell come from the peer market. A zero field means "rate
// unavailable". The set is replaced wholesale or merged, never patched
// field by field.
type RateSet struct {
	OfficialUSD  float64   `json:"usd_official"`
	OfficialEUR  float64   `json:"eur_official"`
	ParallelBuy  float64   `json:"parallel_buy"`
	ParallelSell float64   `json:"parallel_sell"`
	UpdatedAt    time.Time `json:"last_updated"`
}

// IsZero reports whether no rate in the set carries a value.
func (r RateSet) IsZero() bool {
	return r.OfficialUSD == 0 && r.OfficialEUR == 0 &&
		r.ParallelBuy == 0 && r.ParallelSell == 0
}

// Merge overlays the non-zero fields of in onto r and returns the result.
// The newer UpdatedAt wins.
func (r RateSet) Merge(in RateSet) RateSet {
	out := r
	if in.OfficialUSD != 0 {
		out.OfficialUSD = in.OfficialUSD
	}
	if in.OfficialEUR != 0 {
		out.OfficialEUR = in.OfficialEUR
	}
	if in.ParallelBuy != 0 {
		out.ParallelBuy = in.ParallelBuy
	}
	if in.ParallelSell != 0 {
		out.ParallelSell = in.ParallelSell
	}
	if in.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = in.UpdatedAt
	}
	return out
}

// EURUSDCross derives the EUR→USD rate from the two official VES pairs.
// Returns 0 when either leg is missing.
func (r RateSet) EURUSDCross() float64 {
	if r.OfficialUSD == 0 || r.OfficialEUR == 0 {
		return 0
	}
	return r.OfficialEUR / r.OfficialUSD
}

// SyncStatus is the coarse signal summarizing whether local state is
// known to match the remote store.
type SyncStatus string

const (
	SyncSynced  SyncStatus = "synced"
	SyncSyncing SyncStatus = "syncing"
	SyncError   SyncStatus = "error"
)
