package audio

import (
	"math"
	"testing"
)

func render(p *Processor, frames int) [][]float32 {
	out := [][]float32{make([]float32, frames), make([]float32, frames)}
	p.ProcessAudio(out)
	return out
}

func peak(buf [][]float32) float64 {
	m := 0.0
	for _, ch := range buf {
		for _, v := range ch {
			m = math.Max(m, math.Abs(float64(v)))
		}
	}
	return m
}

func TestSilentWithoutHits(t *testing.T) {
	p := NewProcessor()
	if got := peak(render(p, BufferSize)); got != 0 {
		t.Errorf("expected silence, got peak %f", got)
	}
}

func TestHitBelowThresholdIgnored(t *testing.T) {
	p := NewProcessor()
	p.Hit(p.Threshold / 2)
	render(p, BufferSize)
	if p.Hits() != 0 {
		t.Errorf("expected no knocks, got %d", p.Hits())
	}
}

func TestHitProducesDecayingKnock(t *testing.T) {
	p := NewProcessor()
	p.Hit(p.FullScale)

	first := peak(render(p, BufferSize))
	if p.Hits() != 1 {
		t.Fatalf("expected 1 knock, got %d", p.Hits())
	}
	if first == 0 || first > 1 {
		t.Errorf("unexpected first peak %f", first)
	}

	for i := 0; i < 40; i++ {
		render(p, BufferSize)
	}
	if late := peak(render(p, BufferSize)); late >= first/10 {
		t.Errorf("knock did not decay: first %f late %f", first, late)
	}
}

func TestVoiceLimit(t *testing.T) {
	p := NewProcessor()
	for i := 0; i < maxVoices*2; i++ {
		p.Hit(p.FullScale)
	}
	render(p, 1)
	if len(p.voices) > maxVoices {
		t.Errorf("expected at most %d voices, got %d", maxVoices, len(p.voices))
	}
	if p.Hits() != maxVoices*2 {
		t.Errorf("expected %d knocks, got %d", maxVoices*2, p.Hits())
	}
}
