package indices

import (
	"github.com/RyanBlaney/soundscape/algorithms/speech"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

// Formants fits an LPC model to the whole signal and summarises the
// frequencies of its upper-half-plane roots. A nil order selects
// sample_rate/1000 (integer division).
func (c *Calculator) Formants(sig Signal, cfg config.FormantsConfig) (*speech.FormantResult, error) {
	if !cfg.Use {
		return nil, nil
	}
	if err := sig.validate(); err != nil {
		return nil, indexError(config.IndexFormants, sig, err)
	}

	order := speech.DefaultLPCOrder(sig.SampleRate)
	if cfg.Params.Order != nil {
		order = *cfg.Params.Order
	}

	res, err := speech.NewFormantAnalyzer(sig.SampleRate, order).AnalyzeFormants(sig.Samples)
	if err != nil {
		return nil, indexError(config.IndexFormants, sig, err)
	}
	return res, nil
}
