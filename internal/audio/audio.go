// Package audio synthesizes dice clatter from contact impulses and plays it
// through portaudio.
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/dicesim/internal/sim"
)

const (
	SampleRate = 44100
	BufferSize = 512

	maxVoices = 16
)

// voice is one decaying knock: a resonant ping plus a burst of noise.
type voice struct {
	freq  float64
	amp   float64
	phase float64
	decay float64
}

type Processor struct {
	Stream *portaudio.Stream

	// Impulses below Threshold are inaudible.
	Threshold float64
	// Impulse that maps to full volume.
	FullScale float64

	mu      sync.Mutex
	pending []float64

	voices      []voice
	noise       uint32
	filterState [2]float64
	prevInput   [2]float64
	delayLine   [2][]float64
	delayHead   int
	hits        int

	Active bool
}

func NewProcessor() *Processor {
	// short slap delay for a wooden tray
	delayLen := int(float64(SampleRate) * 0.045)

	return &Processor{
		Threshold: 2,
		FullScale: 60,
		noise:     0x9e3779b9,
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.ProcessAudio)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio start: %w", err)
	}

	a.Stream = stream
	a.Active = true
	return nil
}

func (a *Processor) Stop() {
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
		a.Stream = nil
	}
	if a.Active {
		portaudio.Terminate()
	}
	a.Active = false
}

// Hit queues a knock for an impulse magnitude. Safe to call from the
// simulation goroutine while the stream callback runs.
func (a *Processor) Hit(impulse float64) {
	if impulse < a.Threshold {
		return
	}
	a.mu.Lock()
	a.pending = append(a.pending, impulse)
	a.mu.Unlock()
}

// OnTick turns the largest contact impulse of the last step into a knock.
func (a *Processor) OnTick(_ int, s *sim.State) {
	a.Hit(s.World.LastImpulse())
}

// Hits is the number of knocks started so far.
func (a *Processor) Hits() int { return a.hits }

func (a *Processor) startVoices() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	for _, imp := range pending {
		amp := math.Min(imp/a.FullScale, 1)
		v := voice{
			freq:  900 + 1400*a.rand(),
			amp:   0.2 + 0.8*amp,
			decay: math.Exp(-1 / (0.012 * SampleRate)),
		}
		if len(a.voices) == maxVoices {
			a.voices = a.voices[1:]
		}
		a.voices = append(a.voices, v)
		a.hits++
	}
}

// rand is xorshift32 noise in [0,1].
func (a *Processor) rand() float64 {
	x := a.noise
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	a.noise = x
	return float64(x) / float64(math.MaxUint32)
}

// High pass (one pole) to keep the knocks dry and clicky
func hpf(sample, prev, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := rc / (rc + dt)
	out := alpha * (state + sample - prev)
	return out, out
}

func (a *Processor) ProcessAudio(out [][]float32) {
	a.startVoices()

	dt := 1.0 / float64(SampleRate)
	vol := 0.35

	for i := 0; i < len(out[0]); i++ {
		sample := 0.0
		live := a.voices[:0]
		for _, v := range a.voices {
			ping := math.Sin(2 * math.Pi * v.phase)
			hiss := 2*a.rand() - 1
			sample += v.amp * (0.6*ping + 0.4*hiss)

			v.phase += v.freq * dt
			v.amp *= v.decay
			if v.amp > 1e-4 {
				live = append(live, v)
			}
		}
		a.voices = live

		var outL, outR float64
		outL, a.filterState[0] = hpf(sample, a.prevInput[0], 120, dt, a.filterState[0])
		outR, a.filterState[1] = hpf(sample, a.prevInput[1], 140, dt, a.filterState[1])
		a.prevInput[0], a.prevInput[1] = sample, sample

		delayL := a.delayLine[0][a.delayHead]
		delayR := a.delayLine[1][a.delayHead]
		mixL := outL + delayR*0.25
		mixR := outR + delayL*0.25
		a.delayLine[0][a.delayHead] = mixL * 0.4
		a.delayLine[1][a.delayHead] = mixR * 0.4
		a.delayHead = (a.delayHead + 1) % len(a.delayLine[0])

		out[0][i] = float32(clamp(mixL * vol))
		out[1][i] = float32(clamp(mixR * vol))
	}
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
