package metrics

import (
	"math"

	"github.com/san-kum/dicesim/internal/dice"
)

// KineticEnergy tracks the total kinetic energy of the pool. Value is the
// latest sample; the full trace is kept for plotting.
type KineticEnergy struct {
	name  string
	trace []float64
	peak  float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(pool []*dice.Die, t float64) {
	total := 0.0
	for _, d := range pool {
		total += d.Body.KineticEnergy()
	}
	e.trace = append(e.trace, total)
	e.peak = math.Max(e.peak, total)
}

func (e *KineticEnergy) Value() float64 {
	if len(e.trace) == 0 {
		return 0
	}
	return e.trace[len(e.trace)-1]
}

func (e *KineticEnergy) Peak() float64 { return e.peak }

// Trace returns a copy of every observed sample.
func (e *KineticEnergy) Trace() []float64 {
	return append([]float64(nil), e.trace...)
}

func (e *KineticEnergy) Reset() {
	e.trace = e.trace[:0]
	e.peak = 0
}

// MeanSpeed averages the mean linear speed of the pool over all samples.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{
		name: "mean_speed",
	}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(pool []*dice.Die, t float64) {
	if len(pool) == 0 {
		return
	}
	speed := 0.0
	for _, d := range pool {
		speed += d.Body.Velocity.Len()
	}
	m.sum += speed / float64(len(pool))
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}
