package indices

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

// Bioacoustic computes the Bioacoustic Index (Boelman et al. 2007): the area
// under the time-averaged dB spectrum between fs_min and fs_max, measured
// above its own minimum.
//
// The band starts one bin below the bin closest to fs_min and ends before
// the bin closest to fs_max. Magnitudes are scaled by the band maximum,
// averaged over time as power and converted back to dB.
func (c *Calculator) Bioacoustic(sig Signal, cfg config.BIConfig) (*float64, error) {
	if !cfg.Use {
		return nil, nil
	}

	bi, err := c.bioacoustic(sig, cfg)
	if err != nil {
		return nil, indexError(config.IndexBI, sig, err)
	}
	return &bi, nil
}

func (c *Calculator) bioacoustic(sig Signal, cfg config.BIConfig) (float64, error) {
	spec, err := c.spectrogram(sig, cfg.Spectrogram)
	if err != nil {
		return 0, err
	}

	fsMax := math.Min(cfg.Params.FsMax, float64(sig.SampleRate)/2)
	lo := max(0, common.ArgMinDistance(spec.Frequencies, cfg.Params.FsMin)-1)
	hi := common.ArgMinDistance(spec.Frequencies, fsMax)
	if hi <= lo {
		return 0, fmt.Errorf("%w: no bins between %g Hz and %g Hz", common.ErrEmptyBand, cfg.Params.FsMin, fsMax)
	}
	band := spec.Magnitude[lo:hi]

	peak := 0.0
	for _, row := range band {
		peak = math.Max(peak, common.Max(row))
	}
	if peak == 0 {
		return 0, fmt.Errorf("%w: band maximum is zero", common.ErrZeroEnergy)
	}

	meanDB := make([]float64, len(band))
	for k, row := range band {
		power := 0.0
		for _, v := range row {
			r := v / peak
			power += r * r
		}
		meanDB[k] = common.PowerToDB(power / float64(len(row)))
	}

	floor := meanDB[0]
	for _, v := range meanDB {
		floor = math.Min(floor, v)
	}

	binWidth := spec.BinWidth()
	bi := 0.0
	for _, v := range meanDB {
		bi += (v - floor) / binWidth
	}
	return bi, nil
}
