package indices

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

// AcousticComplexity computes the Acoustic Complexity Index (Pieretti et al.
// 2011). Frames are grouped into blocks of Bin seconds, leftover frames are
// dropped, and for every block and frequency bin the summed absolute
// frame-to-frame change is divided by the summed magnitude. The index is the
// total over bins and blocks, so it grows with recording length.
func (c *Calculator) AcousticComplexity(sig Signal, cfg config.ACIConfig) (*float64, error) {
	if !cfg.Use {
		return nil, nil
	}

	aci, err := c.acousticComplexity(sig, cfg)
	if err != nil {
		return nil, indexError(config.IndexACI, sig, err)
	}
	return &aci, nil
}

func (c *Calculator) acousticComplexity(sig Signal, cfg config.ACIConfig) (float64, error) {
	spec, err := c.spectrogram(sig, cfg.Spectrogram)
	if err != nil {
		return 0, err
	}

	blockFrames := int(cfg.Params.Bin * float64(sig.SampleRate) / float64(cfg.Spectrogram.Hop))
	if blockFrames < 1 {
		return 0, fmt.Errorf("%w: block of %g s is shorter than one hop", common.ErrInvalidParams, cfg.Params.Bin)
	}

	fullBlocks := spec.Frames() / blockFrames
	if fullBlocks < 1 {
		return 0, fmt.Errorf("%w: %d frames do not fill one block of %d frames",
			common.ErrSignalTooShort, spec.Frames(), blockFrames)
	}

	aci := 0.0
	total := 0.0
	for b := range fullBlocks {
		start := b * blockFrames
		for _, row := range spec.Magnitude {
			block := row[start : start+blockFrames]

			energy := 0.0
			change := 0.0
			for i, v := range block {
				energy += v
				if i > 0 {
					change += math.Abs(v - block[i-1])
				}
			}
			total += energy
			if energy > 0 {
				aci += change / energy
			}
		}
	}

	if total == 0 {
		return 0, fmt.Errorf("%w: spectrogram is silent", common.ErrZeroEnergy)
	}
	return aci, nil
}
