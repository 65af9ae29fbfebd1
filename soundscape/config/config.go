package config

import (
	"sort"

	"github.com/RyanBlaney/soundscape/algorithms/spectral"
)

// Index names. They double as configuration section names and, for scalar
// indices, as record keys.
const (
	IndexACI              = "Acoustic_Complexity_Index"
	IndexADI              = "Acoustic_Diversity_Index"
	IndexBI               = "Bioacoustic_Index"
	IndexSpectralEntropy  = "Spectral_entropy"
	IndexTemporalEntropy  = "Temporal_entropy"
	IndexAEI              = "Acoustic_Evenness_Index"
	IndexSpectralCentroid = "Spectral_centroid"
	IndexAcousticActivity = "Acoustic_activity"
	IndexFormants         = "Formants"
)

// Config is the full analysis configuration, loaded once per batch run and
// read-only afterwards.
type Config struct {
	Bioacoustic BioacousticConfig `yaml:"Bioacoustic_features" json:"Bioacoustic_features"`
	Spectral    FeaturesConfig    `yaml:"Spectral_features" json:"Spectral_features"`
	Cache       CacheConfig       `yaml:"Cache" json:"Cache"`
}

// CacheConfig sizes the per-worker spectrogram cache. Size <= 0 disables it.
type CacheConfig struct {
	Size int `yaml:"size" json:"size"`
}

// BioacousticConfig holds one section per index.
type BioacousticConfig struct {
	ACI              ACIConfig             `yaml:"Acoustic_Complexity_Index" json:"Acoustic_Complexity_Index"`
	ADI              SegmentedConfig       `yaml:"Acoustic_Diversity_Index" json:"Acoustic_Diversity_Index"`
	BI               BIConfig              `yaml:"Bioacoustic_Index" json:"Bioacoustic_Index"`
	SpectralEntropy  SpectrogramConfig     `yaml:"Spectral_entropy" json:"Spectral_entropy"`
	TemporalEntropy  ToggleConfig          `yaml:"Temporal_entropy" json:"Temporal_entropy"`
	AEI              SegmentedConfig       `yaml:"Acoustic_Evenness_Index" json:"Acoustic_Evenness_Index"`
	SpectralCentroid SpectrogramConfig     `yaml:"Spectral_centroid" json:"Spectral_centroid"`
	AcousticActivity AcousticActivityConfig `yaml:"Acoustic_activity" json:"Acoustic_activity"`
	Formants         FormantsConfig        `yaml:"Formants" json:"Formants"`
}

// ToggleConfig is an index with no parameters.
type ToggleConfig struct {
	Use bool `yaml:"use" json:"use"`
}

// SpectrogramConfig is an index driven only by spectrogram framing.
type SpectrogramConfig struct {
	Use         bool            `yaml:"use" json:"use"`
	Spectrogram spectral.Params `yaml:"spectrogram" json:"spectrogram"`
}

// ACIParams: Bin is the block duration in seconds.
type ACIParams struct {
	Bin float64 `yaml:"bin" json:"bin"`
}

type ACIConfig struct {
	Use         bool            `yaml:"use" json:"use"`
	Params      ACIParams       `yaml:"params" json:"params"`
	Spectrogram spectral.Params `yaml:"spectrogram" json:"spectrogram"`
}

// SegmentedConfig drives the banded indices (ADI, AEI).
type SegmentedConfig struct {
	Use    bool                   `yaml:"use" json:"use"`
	Params spectral.SegmentParams `yaml:"params" json:"params"`
}

type BIParams struct {
	FsMin float64 `yaml:"fs_min" json:"fs_min"`
	FsMax float64 `yaml:"fs_max" json:"fs_max"`
}

type BIConfig struct {
	Use         bool            `yaml:"use" json:"use"`
	Params      BIParams        `yaml:"params" json:"params"`
	Spectrogram spectral.Params `yaml:"spectrogram" json:"spectrogram"`
}

// AcousticActivityParams configures background-noise estimation and event
// detection on the frame-peak envelope.
type AcousticActivityParams struct {
	FrameLen            int     `yaml:"frame_len" json:"frame_len"`
	MinDB               float64 `yaml:"min_dB" json:"min_dB"`
	DBRange             float64 `yaml:"dB_range" json:"dB_range"`
	HistNumberBins      int     `yaml:"hist_number_bins" json:"hist_number_bins"`
	HistSmoothingKernel int     `yaml:"hist_smoothing_kernel" json:"hist_smoothing_kernel"`
	N                   float64 `yaml:"N" json:"N"`
	ActivityThresholdDB float64 `yaml:"activity_threshold_dB" json:"activity_threshold_dB"`
}

type AcousticActivityConfig struct {
	Use    bool                   `yaml:"use" json:"use"`
	Params AcousticActivityParams `yaml:"params" json:"params"`
}

// FormantsParams: a nil Order selects sample_rate/1000.
type FormantsParams struct {
	Order *int `yaml:"order" json:"order"`
}

type FormantsConfig struct {
	Use    bool           `yaml:"use" json:"use"`
	Params FormantsParams `yaml:"params" json:"params"`
}

// FeaturesConfig maps a frame descriptor name (SpectralFlatness, MFCC, ...)
// to its settings.
type FeaturesConfig map[string]FeatureConfig

type FeatureConfig struct {
	Use    bool          `yaml:"use" json:"use"`
	Params FeatureParams `yaml:"params" json:"params"`
}

// FeatureParams is the union of descriptor parameters; each descriptor reads
// the fields it needs.
type FeatureParams struct {
	BlockSize int `yaml:"block_size" json:"block_size"`
	StepSize  int `yaml:"step_size" json:"step_size"`

	CepsNbCoeffs         int     `yaml:"CepsNbCoeffs,omitempty" json:"CepsNbCoeffs,omitempty"`
	CepsIgnoreFirstCoeff *int    `yaml:"CepsIgnoreFirstCoeff,omitempty" json:"CepsIgnoreFirstCoeff,omitempty"`
	MelNbFilters         int     `yaml:"MelNbFilters,omitempty" json:"MelNbFilters,omitempty"`
	MelMinFreq           float64 `yaml:"MelMinFreq,omitempty" json:"MelMinFreq,omitempty"`
	MelMaxFreq           float64 `yaml:"MelMaxFreq,omitempty" json:"MelMaxFreq,omitempty"`
	LPCNbCoeffs          int     `yaml:"LPCNbCoeffs,omitempty" json:"LPCNbCoeffs,omitempty"`
	RolloffPercent       float64 `yaml:"RolloffPercent,omitempty" json:"RolloffPercent,omitempty"`
}

// IgnoreFirstCoeff reports whether the MFCC drops its first coefficient.
// An unset value counts as 0.
func (p FeatureParams) IgnoreFirstCoeff() bool {
	return p.CepsIgnoreFirstCoeff != nil && *p.CepsIgnoreFirstCoeff == 1
}

// Default returns every index enabled with the reference parameters and all
// frame descriptors disabled.
func Default() *Config {
	return &Config{
		Bioacoustic: BioacousticConfig{
			ACI: ACIConfig{
				Use:         true,
				Params:      ACIParams{Bin: 5},
				Spectrogram: spectral.DefaultParams(),
			},
			ADI: SegmentedConfig{
				Use:    true,
				Params: DefaultSegmentParams(),
			},
			BI: BIConfig{
				Use:         true,
				Params:      BIParams{FsMin: 2000, FsMax: 8000},
				Spectrogram: spectral.DefaultParams(),
			},
			SpectralEntropy: SpectrogramConfig{
				Use:         true,
				Spectrogram: spectral.DefaultParams(),
			},
			TemporalEntropy: ToggleConfig{Use: true},
			AEI: SegmentedConfig{
				Use:    true,
				Params: DefaultSegmentParams(),
			},
			SpectralCentroid: SpectrogramConfig{
				Use:         true,
				Spectrogram: spectral.DefaultParams(),
			},
			AcousticActivity: AcousticActivityConfig{
				Use:    true,
				Params: DefaultAcousticActivityParams(),
			},
			Formants: FormantsConfig{Use: true},
		},
		Spectral: DefaultFeatures(),
		Cache:    CacheConfig{Size: spectral.DefaultCacheSize},
	}
}

// DefaultSegmentParams splits 0-10 kHz into 1 kHz bands at -50 dB.
func DefaultSegmentParams() spectral.SegmentParams {
	return spectral.SegmentParams{
		FsMax:       10000,
		FsStep:      1000,
		DBThreshold: -50,
	}
}

func DefaultAcousticActivityParams() AcousticActivityParams {
	return AcousticActivityParams{
		FrameLen:            512,
		MinDB:               -60,
		DBRange:             10,
		HistNumberBins:      100,
		HistSmoothingKernel: 5,
		N:                   0,
		ActivityThresholdDB: 3,
	}
}

// DefaultFeatures lists every supported frame descriptor, disabled.
func DefaultFeatures() FeaturesConfig {
	block := FeatureParams{BlockSize: 1024, StepSize: 512}

	mfcc := block
	mfcc.CepsNbCoeffs = 13
	mfcc.CepsIgnoreFirstCoeff = new(int)
	*mfcc.CepsIgnoreFirstCoeff = 1
	mfcc.MelNbFilters = 40
	mfcc.MelMinFreq = 400
	mfcc.MelMaxFreq = 6000

	lpc := block
	lpc.LPCNbCoeffs = 2

	rolloff := block
	rolloff.RolloffPercent = 0.99

	return FeaturesConfig{
		"SpectralFlatness":    {Params: block},
		"SpectralFlux":        {Params: block},
		"SpectralRolloff":     {Params: rolloff},
		"SpectralSlope":       {Params: block},
		"SpectralCrestFactor": {Params: block},
		"ZCR":                 {Params: block},
		"MFCC":                {Params: mfcc},
		"LPC":                 {Params: lpc},
	}
}

// Enabled returns the names of enabled descriptors in sorted order.
func (f FeaturesConfig) Enabled() []string {
	var names []string
	for name, fc := range f {
		if fc.Use {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
