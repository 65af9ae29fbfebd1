package spectral

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey identifies a spectrogram by a content fingerprint of the signal
// plus every framing parameter, so two different signals never alias.
type cacheKey struct {
	fingerprint uint64
	length      int
	sampleRate  int
	params      Params
}

func newCacheKey(samples []float64, sampleRate int, params Params) cacheKey {
	return cacheKey{
		fingerprint: Fingerprint(samples),
		length:      len(samples),
		sampleRate:  sampleRate,
		params:      params,
	}
}

// Fingerprint returns the xxhash64 of the IEEE-754 bit patterns of samples.
func Fingerprint(samples []float64) uint64 {
	const chunk = 4096
	var buf [chunk * 8]byte

	d := xxhash.New()
	for start := 0; start < len(samples); start += chunk {
		end := min(start+chunk, len(samples))
		n := 0
		for _, v := range samples[start:end] {
			binary.LittleEndian.PutUint64(buf[n:], math.Float64bits(v))
			n += 8
		}
		_, _ = d.Write(buf[:n])
	}
	return d.Sum64()
}

// spectrogramCache wraps a thread-safe LRU. A nil inner cache means caching
// is disabled and every lookup misses.
type spectrogramCache struct {
	lru *lru.Cache[cacheKey, *Spectrogram]
}

func newSpectrogramCache(size int) *spectrogramCache {
	if size <= 0 {
		return &spectrogramCache{}
	}
	c, err := lru.New[cacheKey, *Spectrogram](size)
	if err != nil {
		// only returned for non-positive sizes
		return &spectrogramCache{}
	}
	return &spectrogramCache{lru: c}
}

func (c *spectrogramCache) get(key cacheKey) (*Spectrogram, bool) {
	if c.lru == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *spectrogramCache) add(key cacheKey, spec *Spectrogram) bool {
	if c.lru == nil {
		return false
	}
	return c.lru.Add(key, spec)
}

func (c *spectrogramCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

func (c *spectrogramCache) purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
