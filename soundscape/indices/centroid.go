package indices

import (
	"github.com/RyanBlaney/soundscape/algorithms/spectral"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

// SpectralCentroid returns the per-frame spectral centroid track. Silent
// frames are marked undefined; the track mean covers defined frames only.
func (c *Calculator) SpectralCentroid(sig Signal, cfg config.SpectrogramConfig) (*spectral.CentroidTrack, error) {
	if !cfg.Use {
		return nil, nil
	}

	spec, err := c.spectrogram(sig, cfg.Spectrogram)
	if err != nil {
		return nil, indexError(config.IndexSpectralCentroid, sig, err)
	}

	track, err := spectral.NewSpectralCentroid().ComputeSpectrogram(spec)
	if err != nil {
		return nil, indexError(config.IndexSpectralCentroid, sig, err)
	}
	return track, nil
}
