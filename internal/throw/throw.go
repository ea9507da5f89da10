// Package throw launches a pool of dice: it places each die at its spawn slot,
// gives it a random tilt and velocity, picks a target value per die and hands
// all targets to the outcome reconciler in a single batch.
package throw

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/dice"
)

// Outcomes accepts the desired outcome of every die in a throw.
type Outcomes interface {
	SubmitDesiredOutcomes(reqs []dice.Request) error
}

type Params struct {
	Base           mgl64.Vec3
	Spacing        float64
	TiltDegrees    float64
	VelocityBias   mgl64.Vec3
	VelocityJitter mgl64.Vec3
	AngularSpeed   float64
}

func ParamsFromConfig(c config.ThrowConfig) Params {
	return Params{
		Base:           mgl64.Vec3(c.Base),
		Spacing:        c.Spacing,
		TiltDegrees:    c.TiltDegrees,
		VelocityBias:   mgl64.Vec3(c.VelocityBias),
		VelocityJitter: mgl64.Vec3(c.VelocityJitter),
		AngularSpeed:   c.AngularSpeed,
	}
}

type Dispatcher struct {
	params   Params
	rng      *rand.Rand
	outcomes Outcomes
	logger   *log.Logger

	lastTargets []int
}

// NewDispatcher returns a dispatcher drawing from rng. A nil logger discards output.
func NewDispatcher(params Params, rng *rand.Rand, outcomes Outcomes, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Dispatcher{params: params, rng: rng, outcomes: outcomes, logger: logger}
}

// SpawnPosition returns the launch position of the i-th die. Slots fill a
// diagonal row of three, then stack upward.
func (d *Dispatcher) SpawnPosition(i int) mgl64.Vec3 {
	s := d.params.Spacing
	col, row := float64(i%3), float64(i/3)
	return mgl64.Vec3{
		d.params.Base.X() - col*s,
		d.params.Base.Y() + row*s,
		d.params.Base.Z() + col*s,
	}
}

// Throw launches every die and submits one target per die. Nothing is
// submitted for an empty pool.
func (d *Dispatcher) Throw(pool []*dice.Die) error {
	d.lastTargets = d.lastTargets[:0]
	if len(pool) == 0 {
		return nil
	}

	reqs := make([]dice.Request, 0, len(pool))
	for i, die := range pool {
		die.Mesh.Position = d.SpawnPosition(i)
		die.Mesh.Rotation = d.tilt()
		die.SyncBody()

		die.Body.Velocity = d.velocity()
		die.Body.AngularVelocity = d.spin()
		die.Body.Wake()

		target := d.rng.Intn(die.Faces) + 1
		reqs = append(reqs, dice.Request{Die: die, Target: target})
		d.lastTargets = append(d.lastTargets, target)
	}

	d.logger.Printf("targets %v", d.lastTargets)
	if err := d.outcomes.SubmitDesiredOutcomes(reqs); err != nil {
		return fmt.Errorf("submit outcomes: %w", err)
	}
	return nil
}

// LastTargets returns the targets chosen by the most recent throw.
func (d *Dispatcher) LastTargets() []int {
	return append([]int(nil), d.lastTargets...)
}

// tilt rotates about X (pitch) then Z (roll); yaw stays fixed.
func (d *Dispatcher) tilt() mgl64.Quat {
	limit := mgl64.DegToRad(d.params.TiltDegrees)
	pitch := d.uniform(-limit, limit)
	roll := d.uniform(-limit, limit)
	return mgl64.AnglesToQuat(pitch, 0, roll, mgl64.XYZ)
}

func (d *Dispatcher) velocity() mgl64.Vec3 {
	var v mgl64.Vec3
	for k := 0; k < 3; k++ {
		v[k] = d.params.VelocityBias[k] + d.rng.Float64()*d.params.VelocityJitter[k]
	}
	return v
}

func (d *Dispatcher) spin() mgl64.Vec3 {
	w := d.params.AngularSpeed
	return mgl64.Vec3{d.uniform(-w, w), d.uniform(-w, w), d.uniform(-w, w)}
}

func (d *Dispatcher) uniform(lo, hi float64) float64 {
	return lo + d.rng.Float64()*(hi-lo)
}

// NewSeed reads a seed from crypto/rand for runs without a configured seed.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) & math.MaxInt64), nil
}
