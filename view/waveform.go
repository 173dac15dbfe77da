package view

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/lectern-cli/lectern/util"
)

// DefaultBars is the number of waveform bars.
const DefaultBars = 35

const studyScale = 0.6

// Bar is one column of the waveform.
type Bar struct {
	// Height is a percentage in [10, 100].
	Height   float64
	Active   bool
	Animated bool
}

// waveform memoizes the bar heights of the current track so that redraws do
// not jitter. Heights are seeded by the track ID, so a track shows the same
// shape whenever it comes back.
type waveform struct {
	count   int
	id      string
	heights []float64
}

func newWaveform(count int) *waveform {
	return &waveform{count: count}
}

func (w *waveform) base(id string) []float64 {
	if w.heights != nil && w.id == id {
		return w.heights
	}

	hash := fnv.New64a()
	_, _ = hash.Write([]byte(id))
	r := rand.New(rand.NewSource(int64(hash.Sum64())))

	h := make([]float64, w.count)
	for i := range h {
		x := float64(i)
		h[i] = 30 + math.Sin(x*0.5)*20 + math.Cos(x*0.2)*20 + r.Float64()*20
	}

	w.id = id
	w.heights = h
	return h
}

func (w *waveform) bars(id string, fraction float64, study, playing bool) []Bar {
	base := w.base(id)
	progress := fraction * 100

	bars := make([]Bar, len(base))
	for i, h := range base {
		if study {
			h *= studyScale
		}
		active := float64(i)/float64(len(base))*100 <= progress
		bars[i] = Bar{
			Height:   util.Clamp(h, 10, 100),
			Active:   active,
			Animated: active && playing,
		}
	}
	return bars
}
