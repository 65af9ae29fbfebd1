package indices

import (
	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/algorithms/stats"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

// ActivityResult holds the acoustic activity sub-metrics.
type ActivityResult struct {
	SNR             float64 `json:"SNR"`                   // max frame level above background, dB
	Activity        float64 `json:"Acoustic_activity"`     // fraction of active frames
	EventCount      int     `json:"Count_acoustic_events"` // completed events
	AverageDuration float64 `json:"Average_duration"`      // mean event length, seconds
	BackgroundDB    float64 `json:"background_dB"`
}

// coverage is the histogram mass (about two standard deviations of a normal
// distribution) gathered around the mode before placing the noise level.
const coverage = 0.68

// AcousticActivity estimates the background noise level from the histogram
// of frame peak levels (Towsey 2013) and reports the signal-to-noise ratio,
// the fraction of frames above background plus activity_threshold_dB, and
// the count and mean duration of events crossing that threshold.
func (c *Calculator) AcousticActivity(sig Signal, cfg config.AcousticActivityConfig) (*ActivityResult, error) {
	if !cfg.Use {
		return nil, nil
	}

	res, err := c.acousticActivity(sig, cfg.Params)
	if err != nil {
		return nil, indexError(config.IndexAcousticActivity, sig, err)
	}
	return res, nil
}

func (c *Calculator) acousticActivity(sig Signal, p config.AcousticActivityParams) (*ActivityResult, error) {
	if err := sig.validate(); err != nil {
		return nil, err
	}

	peaks, err := c.envelope.ComputePeak(sig.Samples, p.FrameLen, p.FrameLen)
	if err != nil {
		return nil, err
	}

	levels := make([]float64, len(peaks))
	for i, v := range peaks {
		levels[i] = common.AmplitudeToDB(v)
	}

	lowest := levels[0]
	for _, v := range levels {
		lowest = min(lowest, v)
	}
	lowest = max(lowest, p.MinDB)

	hist, err := stats.NewHistogram(levels, p.HistNumberBins, lowest, lowest+p.DBRange)
	if err != nil {
		return nil, err
	}
	smoothed := common.MovingAverageSame(hist.Counts, p.HistSmoothingKernel)
	mode := common.ArgMax(smoothed)

	background := hist.Edges[mode]
	if p.N > 0 {
		target := coverage * common.Sum(smoothed)
		mass := smoothed[mode]
		width := 1
		for mass < target {
			above, below := mode+width, mode-width
			if above >= len(smoothed) && below < 0 {
				break
			}
			if above < len(smoothed) {
				mass += smoothed[above]
			}
			if below >= 0 {
				mass += smoothed[below]
			}
			width++
		}
		background = hist.Edges[min(p.HistNumberBins, mode+int(p.N*float64(width)))]
	}

	excess := make([]float64, len(levels))
	active := 0
	for i, v := range levels {
		excess[i] = v - background - p.ActivityThresholdDB
		if excess[i] > 0 {
			active++
		}
	}

	count, meanFrames := detectEvents(excess)

	res := &ActivityResult{
		SNR:          common.Max(levels) - background,
		Activity:     float64(active) / float64(len(levels)),
		EventCount:   count,
		BackgroundDB: background,
	}
	if count > 0 {
		res.AverageDuration = meanFrames * sig.Duration() / float64(len(levels))
	}
	return res, nil
}

// detectEvents finds upward (start) and downward (end) zero crossings of
// excess and pairs each start with the first end after it. It returns the
// number of pairs and their mean length in frames.
func detectEvents(excess []float64) (int, float64) {
	var starts, ends []int
	for i := 0; i+1 < len(excess); i++ {
		switch {
		case excess[i] < 0 && excess[i+1] > 0:
			starts = append(starts, i)
		case excess[i] > 0 && excess[i+1] < 0:
			ends = append(ends, i)
		}
	}

	count := 0
	total := 0
	j := 0
	for _, s := range starts {
		for j < len(ends) && ends[j] <= s {
			j++
		}
		if j == len(ends) {
			break
		}
		total += ends[j] - s
		count++
		j++
	}

	if count == 0 {
		return 0, 0
	}
	return count, float64(total) / float64(count)
}
