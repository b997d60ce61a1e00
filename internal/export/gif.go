package export

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/raster"
)

var ErrNoFrames = errors.New("export: no frames recorded")

// Recorder captures frames from a running lab and encodes them as an
// animated GIF. It is an engine.Observer.
type Recorder struct {
	Width, Height int
	// Every keeps one frame out of Every.
	Every int
	// Max caps the number of kept frames; 0 means no cap.
	Max int

	mu     sync.Mutex
	pool   *draw.Pool
	frames []*draw.List
	delays []int
	pend   time.Duration
}

func NewRecorder(width, height, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Width: width, Height: height, Every: every, pool: draw.NewPool()}
}

func (r *Recorder) OnFrame(f engine.Frame) {
	list, ok := f.Context.(*draw.List)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pend += f.DT
	if f.Index%r.Every != 0 {
		return
	}
	if r.Max > 0 && len(r.frames) >= r.Max {
		return
	}
	r.frames = append(r.frames, r.pool.GetAndCopy(list))
	// gif delays are in hundredths of a second
	r.delays = append(r.delays, max(int(r.pend/(10*time.Millisecond)), 1))
	r.pend = 0
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Encode writes the recorded frames and releases them.
func (r *Recorder) Encode(w io.Writer) error {
	r.mu.Lock()
	frames, delays := r.frames, r.delays
	r.frames, r.delays = nil, nil
	r.mu.Unlock()

	defer func() {
		for _, l := range frames {
			r.pool.Put(l)
		}
	}()
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", raster.ErrEmptyImage, r.Width, r.Height)
	}

	anim := &gif.GIF{LoopCount: 0}
	for i, l := range frames {
		img, err := r.frame(l)
		if err != nil {
			return fmt.Errorf("export: gif frame %d: %w", i, err)
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delays[i])
	}
	return gif.EncodeAll(w, anim)
}

// frame rasterises a list, scales it to the output size and dithers it
// onto the web-safe palette. Lists smaller than the output are drawn
// straight at the output size; larger ones are drawn natively and
// filtered down.
func (r *Recorder) frame(l *draw.List) (*image.Paletted, error) {
	sz := l.Size()
	w, h := int(sz.W), int(sz.H)
	if w*h < r.Width*r.Height {
		w, h = r.Width, r.Height
	}
	src, err := raster.Render(l, w, h)
	if err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, r.Width, r.Height)
	scaled := image.NewRGBA(bounds)
	xdraw.ApproxBiLinear.Scale(scaled, bounds, src, src.Bounds(), xdraw.Src, nil)

	out := image.NewPaletted(bounds, palette.WebSafe)
	xdraw.FloydSteinberg.Draw(out, bounds, scaled, image.Point{})
	return out, nil
}
