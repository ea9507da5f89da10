package dice

import (
	"fmt"

	"github.com/san-kum/dicesim/internal/physics"
)

// Request asks for a die to come to rest showing Target.
type Request struct {
	Die    *Die
	Target int
}

// Reconciler runs a shadow copy of the world ahead until the requested dice rest,
// then relabels each die so the face it will land on carries its target value.
// The live world must be stepped with the same dt for the prediction to hold.
type Reconciler struct {
	world    *physics.World
	dt       float64
	maxSteps int

	lastSteps int
}

func NewReconciler(world *physics.World, dt float64, maxSteps int) *Reconciler {
	return &Reconciler{world: world, dt: dt, maxSteps: maxSteps}
}

// LastSteps is how many shadow steps the last submission needed.
func (r *Reconciler) LastSteps() int { return r.lastSteps }

func (r *Reconciler) SubmitDesiredOutcomes(reqs []Request) error {
	r.lastSteps = 0
	if len(reqs) == 0 {
		return nil
	}

	indices := make([]int, len(reqs))
	for i, req := range reqs {
		if req.Target < 1 || req.Target > req.Die.Faces {
			return fmt.Errorf("%w: %d for d%d", ErrTargetRange, req.Target, req.Die.Faces)
		}
		idx := r.world.IndexOf(req.Die.Body)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrDetached, req.Die.Mesh.Name)
		}
		indices[i] = idx
	}

	shadow := r.world.Clone()
	bodies := shadow.Bodies()
	for r.lastSteps < r.maxSteps && !allSleeping(bodies, indices) {
		if err := shadow.Step(r.dt); err != nil {
			return fmt.Errorf("shadow step %d: %w", r.lastSteps, err)
		}
		r.lastSteps++
	}

	for i, req := range reqs {
		face := req.Die.geom.RestingFace(bodies[indices[i]].Quaternion)
		if err := req.Die.showOn(face, req.Target); err != nil {
			return err
		}
	}
	return nil
}

func allSleeping(bodies []*physics.Body, indices []int) bool {
	for _, i := range indices {
		if !bodies[i].Sleeping {
			return false
		}
	}
	return true
}
