package pool_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dicesim/internal/dice"
	"github.com/san-kum/dicesim/internal/physics"
	"github.com/san-kum/dicesim/internal/pool"
	"github.com/san-kum/dicesim/internal/scene"
)

type countingThrower struct {
	calls [][]*dice.Die
	err   error
}

func (c *countingThrower) Throw(p []*dice.Die) error {
	c.calls = append(c.calls, append([]*dice.Die(nil), p...))
	return c.err
}

type brokenFactory struct{}

func (brokenFactory) CreateDie(int, scene.Color) (*dice.Die, error) {
	return nil, errors.New("out of plastic")
}

var _ = Describe("Manager", func() {
	var (
		graph    *scene.Graph
		world    *physics.World
		thrower  *countingThrower
		manager  *pool.Manager
		palette  []scene.Color
		fallback scene.Color
	)

	BeforeEach(func() {
		graph = scene.NewGraph()
		world = physics.NewWorld()
		thrower = &countingThrower{}
		palette = []scene.Color{
			scene.MustParseColor("#ff0000"),
			scene.MustParseColor("#ffff00"),
			scene.MustParseColor("#00ff00"),
		}
		fallback = scene.MustParseColor("#000000")

		factory, err := dice.NewFactory(dice.FactoryConfig{Size: 1.5, Mass: 1})
		Expect(err).NotTo(HaveOccurred())
		manager = pool.NewManager(graph, world, factory, thrower, palette, fallback, nil)
	})

	Describe("Rebuild", func() {
		It("creates the requested dice and attaches both halves", func() {
			Expect(manager.Rebuild(3, 4)).To(Succeed())

			Expect(manager.Dice()).To(HaveLen(3))
			Expect(graph.Len()).To(Equal(3))
			Expect(world.Len()).To(Equal(3))
			for _, d := range manager.Dice() {
				Expect(d.Faces).To(Equal(6))
				Expect(graph.Contains(d.Mesh)).To(BeTrue())
				Expect(world.IndexOf(d.Body)).To(BeNumerically(">=", 0))
			}
		})

		It("throws the new pool exactly once", func() {
			Expect(manager.Rebuild(2, 0)).To(Succeed())
			Expect(thrower.calls).To(HaveLen(1))
			Expect(thrower.calls[0]).To(Equal(manager.Dice()))
		})

		It("removes every old die before adding the new ones", func() {
			Expect(manager.Rebuild(5, 0)).To(Succeed())
			old := manager.Dice()

			Expect(manager.Rebuild(1, 5)).To(Succeed())
			Expect(graph.Len()).To(Equal(1))
			Expect(world.Len()).To(Equal(1))
			for _, d := range old {
				Expect(graph.Contains(d.Mesh)).To(BeFalse())
				Expect(world.IndexOf(d.Body)).To(Equal(-1))
			}
			Expect(manager.Dice()[0].Faces).To(Equal(4))
		})

		It("colors dice from the palette and falls back past its end", func() {
			Expect(manager.Rebuild(5, 2)).To(Succeed())
			got := manager.Dice()
			Expect(got[0].Color).To(Equal(palette[0]))
			Expect(got[2].Color).To(Equal(palette[2]))
			Expect(got[3].Color).To(Equal(fallback))
			Expect(got[4].Color).To(Equal(fallback))
		})

		DescribeTable("rejects out-of-range arguments without touching the pool",
			func(count, typeIndex int, want error) {
				Expect(manager.Rebuild(2, 1)).To(Succeed())
				before := manager.Dice()

				err := manager.Rebuild(count, typeIndex)
				Expect(errors.Is(err, want)).To(BeTrue())
				Expect(manager.Dice()).To(Equal(before))
				Expect(graph.Len()).To(Equal(2))
				Expect(thrower.calls).To(HaveLen(1))
			},
			Entry("zero dice", 0, 0, pool.ErrCountOutOfRange),
			Entry("six dice", 6, 0, pool.ErrCountOutOfRange),
			Entry("negative type", 1, -1, pool.ErrTypeOutOfRange),
			Entry("type past d4", 1, 6, pool.ErrTypeOutOfRange),
		)

		It("propagates factory errors", func() {
			m := pool.NewManager(graph, world, brokenFactory{}, thrower, palette, fallback, nil)
			Expect(m.Rebuild(1, 0)).To(MatchError(ContainSubstring("out of plastic")))
			Expect(thrower.calls).To(BeEmpty())
		})

		It("propagates thrower errors", func() {
			thrower.err = errors.New("arm sprained")
			Expect(manager.Rebuild(1, 0)).To(MatchError(ContainSubstring("arm sprained")))
		})
	})

	Describe("Throw", func() {
		It("re-throws the current pool without rebuilding", func() {
			Expect(manager.Rebuild(2, 3)).To(Succeed())
			first := manager.Dice()

			Expect(manager.Throw()).To(Succeed())
			Expect(thrower.calls).To(HaveLen(2))
			Expect(manager.Dice()).To(Equal(first))
		})
	})

	Describe("Dice", func() {
		It("returns a copy", func() {
			Expect(manager.Rebuild(2, 0)).To(Succeed())
			snapshot := manager.Dice()
			snapshot[0] = nil
			Expect(manager.Dice()[0]).NotTo(BeNil())
			Expect(manager.Len()).To(Equal(2))
		})
	})
})
