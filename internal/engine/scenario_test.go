package engine_test

import (
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/render"
	"github.com/san-kum/gravwell/internal/vecmath"
)

const frame = 16 * time.Millisecond

var _ = Describe("Engine", func() {
	var (
		e      *engine.Engine
		bounds vecmath.Bounds
	)

	BeforeEach(func() {
		bounds = vecmath.Bounds{Width: 800, Height: 600}
		var err error
		e, err = engine.New(engine.DefaultConfig(), bounds, engine.WithRand(rand.New(rand.NewSource(7))))
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts with the configured particles and no wells", func() {
		Expect(e.Particles()).To(HaveLen(200))
		Expect(e.Wells()).To(BeEmpty())
	})

	Context("after a left click", func() {
		BeforeEach(func() {
			e.HandleMouseInteraction(engine.Interaction{Position: vecmath.Vec2{X: 100, Y: 200}})
		})

		It("holds one attractive well", func() {
			ws := e.Wells()
			Expect(ws).To(HaveLen(1))
			Expect(ws[0].Repulsive).To(BeFalse())
			Expect(ws[0].Strength).To(Equal(50.0))
			Expect(ws[0].Position).To(Equal(vecmath.Vec2{X: 100, Y: 200}))
		})

		It("expires the well after its lifetime", func() {
			for i := 0; i < 600; i++ {
				e.Update(frame)
			}
			Expect(e.Wells()).To(HaveLen(1))

			e.Update(frame)
			Expect(e.Wells()).To(BeEmpty())
		})

		It("keeps every particle finite and in bounds", func() {
			for i := 0; i < 300; i++ {
				e.Update(frame)
			}
			for _, p := range e.Particles() {
				Expect(p.Position.IsFinite()).To(BeTrue())
				Expect(p.Velocity.Length()).To(BeNumerically("<=", p.Config().MaxSpeed+1e-9))
				Expect(p.Position.X).To(BeNumerically(">=", 0))
				Expect(p.Position.X).To(BeNumerically("<=", bounds.Width))
				Expect(p.Position.Y).To(BeNumerically(">=", 0))
				Expect(p.Position.Y).To(BeNumerically("<=", bounds.Height))
				Expect(len(p.Trail)).To(BeNumerically("<=", p.Config().MaxTrailLength))
			}
		})
	})

	It("trims to the newest 50 wells past 100", func() {
		for i := 0; i < 101; i++ {
			e.HandleMouseInteraction(engine.Interaction{
				Position: vecmath.Vec2{X: float64(i), Y: 1},
				Button:   engine.Button(i % 2),
			})
		}
		ws := e.Wells()
		Expect(ws).To(HaveLen(50))
		Expect(ws[0].Position.X).To(Equal(51.0))
	})

	Context("while paused", func() {
		BeforeEach(func() {
			e.TogglePause()
			Expect(e.IsPaused()).To(BeTrue())
		})

		It("renders the same frame every time", func() {
			a := render.NewRecorder(bounds)
			b := render.NewRecorder(bounds)
			Expect(e.Render(a)).To(Succeed())
			e.Update(frame)
			Expect(e.Render(b)).To(Succeed())
			Expect(b.Ops).To(Equal(a.Ops))
		})

		It("still accepts wells", func() {
			e.HandleMouseInteraction(engine.Interaction{Position: vecmath.Vec2{X: 10, Y: 10}, Button: engine.ButtonRight})
			Expect(e.Wells()).To(HaveLen(1))
			Expect(e.Wells()[0].Repulsive).To(BeTrue())
		})
	})

	It("clears wells without touching particles", func() {
		e.HandleMouseInteraction(engine.Interaction{Position: vecmath.Vec2{X: 10, Y: 10}})
		before := e.Particles()
		e.ClearGravityWells()
		Expect(e.Wells()).To(BeEmpty())
		Expect(e.Particles()).To(Equal(before))
	})
})
