package engine_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
)

const frame = time.Second / 60

var _ = Describe("Controller", func() {
	var (
		lab   *stubLab
		sched *engine.ManualScheduler
		win   *engine.Window
		surf  *draw.Surface
		c     *engine.Controller
	)

	BeforeEach(func() {
		lab = &stubLab{}
		sched = engine.NewManualScheduler(time.Unix(0, 0))
		win = engine.NewWindow()
		surf = draw.NewSurface(640, 360)
		c = engine.Start(surf, lab, sched, win, engine.WithSeed(1))
	})

	AfterEach(func() {
		c.Stop()
	})

	It("schedules exactly one frame at a time", func() {
		Expect(sched.Pending()).To(Equal(1))
		Expect(sched.Advance(frame)).To(Equal(1))
		Expect(sched.Pending()).To(Equal(1))
		Expect(lab.last().renders).To(Equal(1))
	})

	It("uses a fixed first step and clamps long gaps", func() {
		sched.Advance(frame)
		sched.Advance(500 * time.Millisecond)
		sched.Advance(10 * time.Millisecond)

		dts := lab.last().dts
		Expect(dts).To(HaveLen(3))
		Expect(dts[0]).To(BeNumerically("~", 0.016, 1e-9))
		Expect(dts[1]).To(BeNumerically("~", 0.033, 1e-9))
		Expect(dts[2]).To(BeNumerically("~", 0.010, 1e-9))
		Expect(c.Stats().Clamped).To(Equal(1))
	})

	It("treats a clock going backwards as a zero step", func() {
		sched.Advance(frame)
		sched.Fire(time.Unix(0, 0))
		Expect(lab.last().dts[1]).To(BeZero())
	})

	It("applies the clamped value on the next frame", func() {
		Expect(c.SetControl("angle", 200)).To(Succeed())
		v, ok := c.Control("angle")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(75.0))

		sched.Advance(frame)
		Expect(lab.last().angle).To(Equal(75.0))

		Expect(c.SetControl("angle", -3)).To(Succeed())
		sched.Advance(frame)
		Expect(lab.last().angle).To(Equal(5.0))
	})

	It("keeps the last of several writes made between frames", func() {
		c.SetControl("angle", 10)
		c.SetControl("angle", 20)
		sched.Advance(frame)
		Expect(lab.last().angle).To(Equal(20.0))
	})

	It("rejects unknown controls", func() {
		err := c.SetControl("nope", 1)
		Expect(errors.Is(err, control.ErrUnknownControl)).To(BeTrue())
	})

	It("registers resize and key listeners", func() {
		Expect(win.Listeners(engine.EventResize)).To(Equal(1))
		Expect(win.Listeners(engine.EventKeyDown)).To(Equal(1))
		Expect(win.Listeners(engine.EventKeyUp)).To(Equal(1))
	})

	It("relayouts on resize", func() {
		surf.Resize(320, 200)
		win.Dispatch(engine.Event{Kind: engine.EventResize})
		Expect(lab.last().size).To(Equal(draw.Size{W: 320, H: 200}))
		Expect(lab.last().resizes).To(Equal(1))
	})

	It("drives key axes from key events", func() {
		win.Dispatch(engine.Event{Kind: engine.EventKeyDown, Key: "D"})
		sched.Run(5, frame)
		v, _ := c.Control("drive")
		Expect(v).To(BeNumerically("~", 0.2, 1e-9))
		Expect(lab.last().drive).To(BeNumerically("~", 0.2, 1e-9))

		win.Dispatch(engine.Event{Kind: engine.EventKeyUp, Key: "d"})
		Expect(c.Axes()).To(Equal([]control.AxisState{control.AxisReturning}))
		sched.Run(10, frame)
		v, _ = c.Control("drive")
		Expect(v).To(BeZero())
		Expect(c.Axes()).To(Equal([]control.AxisState{control.AxisRest}))
	})

	It("hands a directly set axis value to the sim before it decays", func() {
		sched.Advance(frame)
		Expect(c.SetControl("drive", -0.5)).To(Succeed())
		sched.Advance(frame)
		v, _ := c.Control("drive")
		Expect(v).To(Equal(-0.5))
		Expect(lab.last().drive).To(Equal(-0.5))

		sched.Advance(frame)
		v, _ = c.Control("drive")
		Expect(v).To(BeNumerically("~", -0.48, 1e-9))
		Expect(lab.last().drive).To(BeNumerically("~", -0.48, 1e-9))
	})

	It("notifies observers after each frame", func() {
		var seen []int
		c.AddObserver(engine.ObserverFunc(func(f engine.Frame) {
			seen = append(seen, f.Index)
			Expect(f.Context).NotTo(BeNil())
		}))
		sched.Run(3, frame)
		Expect(seen).To(Equal([]int{1, 2, 3}))
	})

	It("hands observers the frame's readouts", func() {
		var got []engine.Readout
		c.AddObserver(engine.ObserverFunc(func(f engine.Frame) { got = f.Readouts }))
		c.SetControl("angle", 30)
		sched.Advance(frame)
		Expect(got).To(Equal([]engine.Readout{{Label: "angle", Value: 30, Unit: "deg"}}))
	})

	It("lets an observer stop the loop", func() {
		c.AddObserver(engine.ObserverFunc(func(f engine.Frame) {
			if f.Index == 2 {
				c.Stop()
			}
		}))
		sched.Run(5, frame)
		Expect(c.Stats().Frames).To(Equal(2))
		Expect(c.Err()).NotTo(HaveOccurred())
	})

	Describe("Stop", func() {
		It("cancels the pending frame and removes its listeners", func() {
			sched.Advance(frame)
			c.Stop()
			Expect(sched.Pending()).To(BeZero())
			Expect(win.Listeners(0)).To(BeZero())
			Expect(sched.Advance(frame)).To(BeZero())
			Expect(lab.last().renders).To(Equal(1))
		})

		It("is idempotent", func() {
			other := win.AddListener(engine.EventResize, func(engine.Event) {})
			c.Stop()
			c.Stop()
			Expect(win.Listeners(0)).To(Equal(1))
			win.RemoveListener(other)
			Expect(c.Stopped()).To(BeTrue())
			Expect(c.Err()).NotTo(HaveOccurred())
		})

		It("ignores events after stopping", func() {
			c.Stop()
			win.Dispatch(engine.Event{Kind: engine.EventResize})
			Expect(lab.last().resizes).To(BeZero())
		})
	})

	Describe("render faults", func() {
		It("halt the loop and record the frame", func() {
			sched.Advance(frame)
			c.SetControl("boom", 1)
			sched.Advance(frame)

			err := c.Err()
			Expect(errors.Is(err, engine.ErrRenderFault)).To(BeTrue())
			var fe *engine.FrameError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Frame).To(Equal(2))
			Expect(fe.Cause).To(Equal("stub exploded"))

			Expect(c.Stopped()).To(BeTrue())
			Expect(sched.Pending()).To(BeZero())
			Expect(win.Listeners(0)).To(BeZero())
		})
	})
})

var _ = Describe("Start without a surface", func() {
	It("returns an inert controller", func() {
		for _, surf := range []engine.Surface{nil, draw.NewSurface(0, 0), draw.NewSurface(100, 0)} {
			lab := &stubLab{}
			sched := engine.NewManualScheduler(time.Unix(0, 0))
			win := engine.NewWindow()

			c := engine.Start(surf, lab, sched, win)
			Expect(errors.Is(c.Err(), engine.ErrNoSurface)).To(BeTrue())
			Expect(c.Stopped()).To(BeTrue())
			Expect(sched.Pending()).To(BeZero())
			Expect(win.Listeners(0)).To(BeZero())
			Expect(lab.sims).To(BeEmpty())

			Expect(c.SetControl("angle", 30)).To(Succeed())
			c.Stop()
		}
	})

	It("rejects a nil lab", func() {
		c := engine.Start(draw.NewSurface(10, 10), nil, engine.NewManualScheduler(time.Now()), nil)
		Expect(errors.Is(c.Err(), engine.ErrNoLab)).To(BeTrue())
	})
})

var _ = Describe("Start options", func() {
	It("applies clamped overrides and skips unknown ones", func() {
		lab := &stubLab{}
		sched := engine.NewManualScheduler(time.Unix(0, 0))
		c := engine.Start(draw.NewSurface(10, 10), lab, sched, nil,
			engine.WithOverrides(map[string]float64{"angle": 90, "missing": 1}),
			engine.MaxStep(50*time.Millisecond),
		)
		defer c.Stop()

		v, _ := c.Control("angle")
		Expect(v).To(Equal(75.0))

		sched.Advance(frame)
		sched.Advance(time.Second)
		Expect(lab.last().dts[1]).To(BeNumerically("~", 0.05, 1e-9))
	})
})

var _ = Describe("TickerScheduler", func() {
	It("runs frames until stopped", func() {
		sched := engine.NewTickerScheduler(context.Background(), 200)
		defer sched.Close()

		c := engine.Start(draw.NewSurface(64, 64), &stubLab{}, sched, engine.NewWindow())
		Eventually(func() int { return c.Stats().Frames }).
			WithTimeout(2 * time.Second).
			Should(BeNumerically(">=", 3))

		c.Stop()
		n := c.Stats().Frames
		Consistently(func() int { return c.Stats().Frames }).
			WithTimeout(50 * time.Millisecond).
			Should(Equal(n))
	})

	It("exits its goroutine on Close", func() {
		sched := engine.NewTickerScheduler(context.Background(), 120)
		sched.Close()
		Eventually(sched.Done()).Should(BeClosed())
		sched.Close()
	})
})
