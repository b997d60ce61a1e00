package engine_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/engine"
)

var _ = Describe("ManualScheduler", func() {
	var sched *engine.ManualScheduler

	BeforeEach(func() {
		sched = engine.NewManualScheduler(time.Unix(100, 0))
	})

	It("fires callbacks with the synthetic clock", func() {
		var got time.Time
		sched.Schedule(func(now time.Time) { got = now })
		Expect(sched.Advance(time.Second)).To(Equal(1))
		Expect(got).To(Equal(time.Unix(101, 0)))
		Expect(sched.Now()).To(Equal(time.Unix(101, 0)))
	})

	It("drops cancelled callbacks", func() {
		ran := false
		tok := sched.Schedule(func(time.Time) { ran = true })
		sched.Cancel(tok)
		sched.Cancel(tok)
		Expect(sched.Advance(frame)).To(BeZero())
		Expect(ran).To(BeFalse())
	})

	It("defers callbacks scheduled while firing to the next frame", func() {
		count := 0
		var again engine.FrameFunc
		again = func(time.Time) {
			count++
			sched.Schedule(again)
		}
		sched.Schedule(again)

		sched.Advance(frame)
		Expect(count).To(Equal(1))
		Expect(sched.Pending()).To(Equal(1))
		Expect(sched.Run(4, frame)).To(Equal(4))
		Expect(count).To(Equal(5))
	})

	It("issues distinct non-zero tokens", func() {
		a := sched.Schedule(func(time.Time) {})
		b := sched.Schedule(func(time.Time) {})
		Expect(a).NotTo(BeZero())
		Expect(b).NotTo(Equal(a))
	})
})

var _ = Describe("Window", func() {
	It("dispatches by kind in registration order", func() {
		win := engine.NewWindow()
		var order []string
		win.AddListener(engine.EventKeyDown, func(ev engine.Event) { order = append(order, "first:"+ev.Key) })
		win.AddListener(engine.EventKeyUp, func(engine.Event) { order = append(order, "up") })
		win.AddListener(engine.EventKeyDown, func(ev engine.Event) { order = append(order, "second:"+ev.Key) })

		Expect(win.Dispatch(engine.Event{Kind: engine.EventKeyDown, Key: "A"})).To(Equal(2))
		Expect(order).To(Equal([]string{"first:a", "second:a"}))
	})

	It("removes listeners by id and ignores unknown ids", func() {
		win := engine.NewWindow()
		id := win.AddListener(engine.EventResize, func(engine.Event) {})
		win.RemoveListener(id)
		win.RemoveListener(id)
		win.RemoveListener(999)
		Expect(win.Listeners(0)).To(BeZero())
		Expect(win.Dispatch(engine.Event{Kind: engine.EventResize})).To(BeZero())
	})
})

var _ = Describe("Readout", func() {
	DescribeTable("formats values",
		func(r engine.Readout, want string) {
			Expect(r.String()).To(Equal(want))
		},
		Entry("plain", engine.Readout{Value: 2}, "2.000"),
		Entry("with unit", engine.Readout{Value: 25.3716, Unit: "deg"}, "25.372 deg"),
		Entry("small", engine.Readout{Value: 0.0166667}, "0.01667"),
		Entry("text wins", engine.Readout{Value: 1, Text: "total internal reflection"}, "total internal reflection"),
	)
})
