package sim_test

import (
	"context"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/algosim/internal/algorithms"
	"github.com/san-kum/algosim/internal/sim"
)

type frameLog struct {
	mu     sync.Mutex
	frames []sim.Frame
}

func (l *frameLog) OnFrame(f sim.Frame) {
	l.mu.Lock()
	l.frames = append(l.frames, f)
	l.mu.Unlock()
}

func (l *frameLog) count(state sim.RunState) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, f := range l.frames {
		if f.State == state {
			n++
		}
	}
	return n
}

func (l *frameLog) last() sim.Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames[len(l.frames)-1]
}

var _ = Describe("Visualizer", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		v      *sim.Visualizer
		log    *frameLog
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		log = &frameLog{}
		v = sim.New(algorithms.NewBubble(), sim.WithSleeper(sim.Instant()), sim.WithSeed(1))
		v.AddObserver(log)
	})

	AfterEach(func() {
		cancel()
		Eventually(v.Done()).Should(BeClosed())
	})

	Context("in step mode", func() {
		BeforeEach(func() {
			v.SetStepMode(true)
			_, err := v.Load([]float64{2, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Start(ctx)).To(Succeed())
			Eventually(v.State).Should(Equal(sim.AwaitingStep))
		})

		It("never completes without an advance", func() {
			Consistently(v.State, 100*time.Millisecond).Should(Equal(sim.AwaitingStep))
			Expect(v.Gate().Released()).To(BeZero())
		})

		It("passes exactly one suspension point per advance", func() {
			Expect(v.Counters().Writes).To(BeZero())

			Expect(v.Advance()).To(BeTrue())
			Eventually(func() uint64 { return v.Gate().Released() }).Should(Equal(uint64(1)))
			Eventually(v.Gate().Waiting).Should(BeTrue())
			Consistently(func() int { return v.Counters().Writes }, 50*time.Millisecond).Should(Equal(1))
			Expect(v.State()).To(Equal(sim.AwaitingStep))

			Expect(v.Advance()).To(BeTrue())
			Eventually(v.State).Should(Equal(sim.Completed))
			Expect(v.Values()).To(Equal(sim.Sequence{1, 2}))
			Expect(log.count(sim.AwaitingStep)).To(Equal(2))
		})

		It("keeps a pending step when step mode is switched off", func() {
			v.SetStepMode(false)
			Consistently(v.State, 50*time.Millisecond).Should(Equal(sim.AwaitingStep))

			v.Advance()
			Eventually(v.State).Should(Equal(sim.Completed))
			Expect(v.Gate().Released()).To(Equal(uint64(1)))
		})

		It("ignores a second start", func() {
			Expect(v.Start(ctx)).To(Succeed())
			Expect(v.State()).To(Equal(sim.AwaitingStep))

			_, err := v.Run(ctx)
			Expect(err).To(MatchError(sim.ErrRunInProgress))
		})

		It("rejects sequence changes while running", func() {
			_, err := v.Load([]float64{9, 8, 7})
			Expect(err).To(MatchError(sim.ErrRunInProgress))
			Expect(v.Randomize(10)).To(MatchError(sim.ErrRunInProgress))
			Expect(v.Reset()).To(MatchError(sim.ErrRunInProgress))
		})

		It("accepts speed changes while running", func() {
			v.SetSpeed(80)
			Expect(v.Timing().Speed()).To(Equal(80))
		})

		It("aborts back to idle when the context is cancelled", func() {
			cancel()
			Eventually(v.State).Should(Equal(sim.Idle))
			Eventually(v.Done()).Should(BeClosed())

			f := v.Snapshot()
			Expect(f.Notice.Kind).To(Equal(sim.NoticeAborted))
			Expect(f.Values).To(Equal(sim.Sequence{2, 1}))
			Expect(f.Counters).To(Equal(sim.Counters{}))
		})
	})

	Context("with an observer that advances on every pause", func() {
		It("completes without losing an advance", func() {
			v.SetStepMode(true)
			var lost atomic.Int32
			v.AddObserver(sim.ObserverFunc(func(f sim.Frame) {
				if f.State == sim.AwaitingStep && !v.Advance() {
					lost.Add(1)
				}
			}))
			_, err := v.Load([]float64{3, 2, 1})
			Expect(err).NotTo(HaveOccurred())

			runCtx, stop := context.WithTimeout(ctx, 2*time.Second)
			defer stop()
			out, err := v.Run(runCtx)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Output).To(Equal(sim.Sequence{1, 2, 3}))
			Expect(lost.Load()).To(BeZero())
			Expect(v.Gate().Released()).To(BeEquivalentTo(log.count(sim.AwaitingStep)))
		})
	})

	Context("without step mode", func() {
		It("runs to completion and publishes a final frame", func() {
			_, err := v.Load([]float64{12, 4, 8, 20, 1, 15, 7, 3, 10})
			Expect(err).NotTo(HaveOccurred())

			out, err := v.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Counters).To(Equal(sim.Counters{Comparisons: 36, Writes: 20}))
			Expect(out.Frames).To(BeNumerically(">", 36))

			f := log.last()
			Expect(f.State).To(Equal(sim.Completed))
			Expect(f.Highlight).To(BeNil())
			Expect(f.Notice.Kind).To(Equal(sim.NoticeSorted))
			Expect(f.Seq).To(Equal(v.Snapshot().Seq))

			last, ok := v.LastOutcome()
			Expect(ok).To(BeTrue())
			Expect(last.Output).To(Equal(out.Output))
		})

		It("resets counters at the next start", func() {
			_, err := v.Load([]float64{3, 2, 1})
			Expect(err).NotTo(HaveOccurred())
			first, err := v.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Counters.Writes).To(Equal(3))

			second, err := v.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Counters).To(Equal(sim.Counters{Comparisons: 3, Writes: 0}))
		})

		It("restores the loaded sequence on reset", func() {
			_, err := v.Load([]float64{3, 2, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Start(ctx)).To(Succeed())
			v.Wait()
			Expect(v.State()).To(Equal(sim.Completed))

			Expect(v.Reset()).To(Succeed())
			Expect(v.State()).To(Equal(sim.Idle))
			Expect(v.Values()).To(Equal(sim.Sequence{3, 2, 1}))
			Expect(v.Counters()).To(Equal(sim.Counters{}))
			Expect(v.Snapshot().Highlight).To(BeNil())
		})

		It("rejects an empty start without mutating state", func() {
			Expect(v.Start(ctx)).To(MatchError(sim.ErrEmptySequence))
			Expect(v.State()).To(Equal(sim.Idle))
			Expect(v.Counters()).To(Equal(sim.Counters{}))
			Expect(v.Snapshot().Notice.Kind).To(Equal(sim.NoticeEmpty))
		})
	})

	Context("loading input", func() {
		It("truncates to the cap with a notice", func() {
			n, err := v.LoadText(strings.Repeat("5, ", 23) + "5")
			Expect(err).NotTo(HaveOccurred())
			Expect(n.Kind).To(Equal(sim.NoticeTruncated))
			Expect(n.Message).To(ContainSubstring("4 dropped"))
			Expect(v.Values()).To(HaveLen(20))
		})

		It("keeps the previous sequence on unusable input", func() {
			_, err := v.Load([]float64{1, 2})
			Expect(err).NotTo(HaveOccurred())

			_, err = v.LoadText("a, b, c")
			Expect(err).To(MatchError(sim.ErrEmptyInput))
			Expect(v.Values()).To(Equal(sim.Sequence{1, 2}))
		})

		It("randomizes deterministically for a seed", func() {
			other := sim.New(algorithms.NewBubble(), sim.WithSeed(1))
			Expect(v.Randomize(8)).To(Succeed())
			Expect(other.Randomize(8)).To(Succeed())
			Expect(v.Values()).To(Equal(other.Values()))
		})

		It("clamps the random size", func() {
			Expect(v.Randomize(1)).To(Succeed())
			Expect(v.Values()).To(HaveLen(5))
			Expect(v.Randomize(500)).To(Succeed())
			Expect(v.Values()).To(HaveLen(20))
		})

		It("sorts input for drivers that require it", func() {
			b := sim.New(algorithms.NewBinary(), sim.WithSleeper(sim.Instant()))
			_, err := b.LoadText("9, 3, 5")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Values()).To(Equal(sim.Sequence{3, 5, 9}))
		})

		It("rejects non-finite targets", func() {
			b := sim.New(algorithms.NewLinear())
			Expect(b.SetTarget(math.NaN())).To(MatchError(sim.ErrInvalidTarget))
			Expect(b.SetTarget(math.Inf(-1))).To(MatchError(sim.ErrInvalidTarget))
			_, ok := b.Target()
			Expect(ok).To(BeFalse())

			Expect(b.SetTarget(0)).To(Succeed())
			t, ok := b.Target()
			Expect(ok).To(BeTrue())
			Expect(t).To(BeZero())

			b.ClearTarget()
			_, ok = b.Target()
			Expect(ok).To(BeFalse())
		})
	})
})
