package metrics

import "github.com/san-kum/dicesim/internal/dice"

// SettleTime records the time at which every die first came to rest.
// Value is zero until then.
type SettleTime struct {
	name    string
	at      float64
	settled bool
}

func NewSettleTime() *SettleTime {
	return &SettleTime{
		name: "settle_time",
	}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(pool []*dice.Die, t float64) {
	if s.settled || len(pool) == 0 {
		return
	}
	for _, d := range pool {
		if !d.Settled() {
			return
		}
	}
	s.settled = true
	s.at = t
}

func (s *SettleTime) Value() float64 { return s.at }

func (s *SettleTime) Settled() bool { return s.settled }

func (s *SettleTime) Reset() {
	s.at = 0
	s.settled = false
}
