package transcode

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, path string, sampleRate, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func noFFmpeg() *DecoderConfig {
	cfg := DefaultDecoderConfig()
	cfg.FFmpegPath = "/nonexistent/ffmpeg"
	cfg.FFprobePath = "/nonexistent/ffprobe"
	return cfg
}

func TestDecodeWAVStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")

	const frames = 800
	data := make([]int, 0, 2*frames)
	for range frames {
		data = append(data, 16384, 8192)
	}
	writeWAV(t, path, 8000, 2, data)

	got, err := DecodeWAVFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.SampleRate != 8000 || got.Channels != 2 || got.BitDepth != 16 {
		t.Errorf("format = %d Hz, %d ch, %d bit", got.SampleRate, got.Channels, got.BitDepth)
	}
	if len(got.PCM) != frames {
		t.Fatalf("got %d samples, want %d", len(got.PCM), frames)
	}
	if got.Duration != 100*time.Millisecond {
		t.Errorf("duration = %v", got.Duration)
	}
	for i, v := range got.PCM {
		if math.Abs(v-0.375) > 1e-12 {
			t.Fatalf("sample %d = %v, want 0.375", i, v)
		}
	}

	sig := got.Signal("stereo")
	if sig.ID != "stereo" || sig.SampleRate != 8000 || len(sig.Samples) != frames {
		t.Errorf("signal = %+v", sig)
	}
}

func TestDecodeWAVInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("definitely not RIFF data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeWAVFile(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
	if _, err := DecodeWAVFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoaderWithoutFFmpeg(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(noFFmpeg())

	if exts := loader.Extensions(); !slices.Equal(exts, []string{".wav"}) {
		t.Errorf("extensions = %v", exts)
	}
	if !loader.Supports("A.WAV") || loader.Supports("a.mp3") {
		t.Error("Supports disagrees with Extensions")
	}

	for _, name := range []string{"song.mp3", "notes.txt"} {
		if _, err := loader.Load(context.Background(), filepath.Join(dir, name)); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: got %v, want ErrUnsupportedFormat", name, err)
		}
	}

	path := filepath.Join(dir, "mono.wav")
	writeWAV(t, path, 16000, 1, []int{0, 32767, -32768, 0})
	data, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 32767.0 / 32768, -1, 0}
	if !slices.Equal(data.PCM, want) {
		t.Errorf("pcm = %v, want %v", data.PCM, want)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loader.Load(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestParseFFprobeOutput(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
		want    AudioMetadata
	}{
		{
			name: "flac",
			json: `{"streams":[{"codec_type":"audio","codec_name":"flac","sample_rate":"48000","channels":2,"duration":"12.5","codec_long_name":"FLAC"}]}`,
			want: AudioMetadata{SampleRate: 48000, Channels: 2, Codec: "flac", Duration: 12.5, Format: "FLAC"},
		},
		{name: "no streams", json: `{"streams":[]}`, wantErr: true},
		{name: "video", json: `{"streams":[{"codec_type":"video","sample_rate":"0","channels":0}]}`, wantErr: true},
		{name: "no rate", json: `{"streams":[{"codec_type":"audio","sample_rate":"N/A","channels":1}]}`, wantErr: true},
		{name: "garbage", json: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFFprobeOutput([]byte(tt.json))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && *got != tt.want {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestBytesToFloat64(t *testing.T) {
	raw := make([]byte, 0, 20)
	for _, v := range []float64{0.25, -1} {
		raw = binary.LittleEndian.AppendUint64(raw, math.Float64bits(v))
	}
	raw = append(raw, 1, 2, 3, 4)

	if got := bytesToFloat64(raw); !slices.Equal(got, []float64{0.25, -1}) {
		t.Errorf("got %v", got)
	}
	if got := bytesToFloat64([]byte{1, 2}); got != nil {
		t.Errorf("partial sample gave %v", got)
	}
}

func TestDownmix(t *testing.T) {
	got := downmix([]float64{1, 3, -2, 2, 5}, 2)
	if !slices.Equal(got, []float64{2, 0}) {
		t.Errorf("got %v", got)
	}
}
