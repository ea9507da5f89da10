package throw

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/dice"
	"github.com/san-kum/dicesim/internal/physics"
	"github.com/san-kum/dicesim/internal/scene"
)

type recorder struct {
	batches [][]dice.Request
	err     error
}

func (r *recorder) SubmitDesiredOutcomes(reqs []dice.Request) error {
	r.batches = append(r.batches, append([]dice.Request(nil), reqs...))
	return r.err
}

func makeDice(t *testing.T, n, faces int) []*dice.Die {
	t.Helper()
	f, err := dice.NewFactory(dice.FactoryConfig{Size: 1.5, Mass: 1})
	if err != nil {
		t.Fatal(err)
	}
	out := make([]*dice.Die, n)
	for i := range out {
		out[i], err = f.CreateDie(faces, scene.Color{})
		if err != nil {
			t.Fatal(err)
		}
	}
	return out
}

func defaultParams() Params {
	return ParamsFromConfig(config.DefaultConfig().Throw)
}

func TestSpawnPositions(t *testing.T) {
	d := NewDispatcher(defaultParams(), rand.New(rand.NewSource(1)), &recorder{}, nil)

	want := []mgl64.Vec3{
		{-15, 2, -15},
		{-16.5, 2, -13.5},
		{-18, 2, -12},
		{-15, 3.5, -15},
		{-16.5, 3.5, -13.5},
	}
	seen := map[mgl64.Vec3]bool{}
	for i, w := range want {
		got := d.SpawnPosition(i)
		if !got.ApproxEqual(w) {
			t.Errorf("slot %d: got %v, want %v", i, got, w)
		}
		if seen[got] {
			t.Errorf("slot %d reuses position %v", i, got)
		}
		seen[got] = true
	}
}

func TestThrowSubmitsOneBatch(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(defaultParams(), rand.New(rand.NewSource(7)), rec, nil)
	pool := makeDice(t, 5, 12)

	if err := d.Throw(pool); err != nil {
		t.Fatal(err)
	}
	if len(rec.batches) != 1 {
		t.Fatalf("expected one submission, got %d", len(rec.batches))
	}
	batch := rec.batches[0]
	if len(batch) != 5 {
		t.Fatalf("expected 5 requests, got %d", len(batch))
	}

	targets := d.LastTargets()
	for i, req := range batch {
		if req.Die != pool[i] {
			t.Errorf("request %d is for the wrong die", i)
		}
		if req.Target < 1 || req.Target > 12 {
			t.Errorf("target %d out of range", req.Target)
		}
		if targets[i] != req.Target {
			t.Errorf("LastTargets[%d] = %d, submitted %d", i, targets[i], req.Target)
		}
	}
}

func TestThrowKinematics(t *testing.T) {
	p := defaultParams()
	d := NewDispatcher(p, rand.New(rand.NewSource(3)), &recorder{}, nil)
	pool := makeDice(t, 5, 6)
	for _, die := range pool {
		die.Body.Sleep()
	}

	if err := d.Throw(pool); err != nil {
		t.Fatal(err)
	}
	for i, die := range pool {
		if die.Body.Position != d.SpawnPosition(i) || die.Mesh.Position != die.Body.Position {
			t.Errorf("die %d not at its spawn slot", i)
		}
		if die.Body.Sleeping {
			t.Errorf("die %d still asleep", i)
		}
		for k := 0; k < 3; k++ {
			v := die.Body.Velocity[k]
			if v < p.VelocityBias[k] || v >= p.VelocityBias[k]+p.VelocityJitter[k] {
				t.Errorf("die %d velocity[%d] = %f", i, k, v)
			}
			if w := die.Body.AngularVelocity[k]; math.Abs(w) > p.AngularSpeed {
				t.Errorf("die %d angular velocity[%d] = %f", i, k, w)
			}
		}

		up := die.Body.Quaternion.Rotate(mgl64.Vec3{0, 1, 0})
		if up.Y() < 0.5-1e-9 {
			t.Errorf("die %d tilted past the limit: up %v", i, up)
		}
	}
}

func TestZeroTiltIsIdentity(t *testing.T) {
	p := defaultParams()
	p.TiltDegrees = 0
	d := NewDispatcher(p, rand.New(rand.NewSource(3)), &recorder{}, nil)
	pool := makeDice(t, 2, 20)

	if err := d.Throw(pool); err != nil {
		t.Fatal(err)
	}
	for _, die := range pool {
		if !die.Body.Quaternion.ApproxEqual(mgl64.QuatIdent()) {
			t.Errorf("expected identity orientation, got %v", die.Body.Quaternion)
		}
	}
}

func TestThrowDeterministicForSeed(t *testing.T) {
	run := func() []int {
		d := NewDispatcher(defaultParams(), rand.New(rand.NewSource(99)), &recorder{}, nil)
		if err := d.Throw(makeDice(t, 4, 20)); err != nil {
			t.Fatal(err)
		}
		return d.LastTargets()
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("targets differ: %v vs %v", a, b)
		}
	}
}

func TestThrowEmptyPool(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(defaultParams(), rand.New(rand.NewSource(1)), rec, nil)
	if err := d.Throw(nil); err != nil {
		t.Fatal(err)
	}
	if len(rec.batches) != 0 || len(d.LastTargets()) != 0 {
		t.Error("empty pool should not submit")
	}
}

func TestThrowPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	d := NewDispatcher(defaultParams(), rand.New(rand.NewSource(1)), &recorder{err: boom}, nil)
	if err := d.Throw(makeDice(t, 1, 6)); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestThrowWithReconciler(t *testing.T) {
	w := physics.NewWorld()
	w.Gravity = mgl64.Vec3{0, config.DefaultGravity, 0}
	floor := physics.NewBody(physics.NewPlane(), 0, physics.Material{Friction: 0.4})
	floor.Quaternion = mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	w.AddBody(floor)

	pool := makeDice(t, 1, 6)
	g := scene.NewGraph()
	pool[0].Attach(g, w)

	rec := dice.NewReconciler(w, config.DefaultDt, 300)
	d := NewDispatcher(defaultParams(), rand.New(rand.NewSource(5)), rec, nil)
	if err := d.Throw(pool); err != nil {
		t.Fatal(err)
	}
	if rec.LastSteps() == 0 {
		t.Error("reconciler did not step the shadow world")
	}
}

func TestNewSeed(t *testing.T) {
	s, err := NewSeed()
	if err != nil {
		t.Fatal(err)
	}
	if s < 0 {
		t.Errorf("seed should be non-negative, got %d", s)
	}
}
