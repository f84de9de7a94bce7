// Package audio plays PlayTone commands on the host speaker.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	// bufferDuration is the speaker latency; tones are short so keep it small.
	bufferDuration = 50 * time.Millisecond
)

type NewTonePlayerOptions struct {
	Enabled    bool
	SampleRate int
	Logger     *log.Logger
}

// TonePlayer is an effects.Dispatcher that realizes PlayTone commands and
// ignores everything else. When the speaker is unavailable it logs once and
// drops tones.
type TonePlayer struct {
	sampleRate beep.SampleRate
	logger     *log.Logger

	lock    sync.Mutex
	enabled bool
	play    func(...beep.Streamer)
	closer  func()
}

func NewTonePlayer(opts NewTonePlayerOptions) *TonePlayer {
	sr := DefaultSampleRate
	if opts.SampleRate > 0 {
		sr = beep.SampleRate(opts.SampleRate)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	p := &TonePlayer{
		sampleRate: sr,
		logger:     logger.WithComponent("audio"),
	}
	if !opts.Enabled {
		p.logger.Info("Audio disabled")
		return p
	}
	if err := speaker.Init(sr, sr.N(bufferDuration)); err != nil {
		p.logger.Warn("Audio unavailable, tones will be dropped: %v", err)
		return p
	}
	p.enabled = true
	p.play = speaker.Play
	p.closer = speaker.Close
	return p
}

// Enabled reports whether tones reach a speaker.
func (p *TonePlayer) Enabled() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.enabled
}

func (p *TonePlayer) Dispatch(cmds []effects.Command) {
	p.lock.Lock()
	enabled, play := p.enabled, p.play
	p.lock.Unlock()
	if !enabled {
		return
	}
	for _, c := range cmds {
		if c.Kind != effects.KindPlayTone {
			continue
		}
		s, err := toneStreamer(p.sampleRate, effects.Tone{DurationMs: c.DurationMs, FrequencyHz: c.FrequencyHz})
		if err != nil {
			p.logger.Warn("Failed to play tone: %v", err)
			continue
		}
		play(s)
	}
}

// Close releases the speaker. The player drops tones afterwards.
func (p *TonePlayer) Close() {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.closer != nil {
		p.closer()
	}
	p.enabled = false
	p.play = nil
	p.closer = nil
}

func toneStreamer(sr beep.SampleRate, tone effects.Tone) (beep.Streamer, error) {
	if tone.DurationMs <= 0 {
		return nil, fmt.Errorf("invalid tone duration: %dms", tone.DurationMs)
	}
	sine, err := generators.SineTone(sr, float64(tone.FrequencyHz))
	if err != nil {
		return nil, fmt.Errorf("failed to create sine tone: %v", err)
	}
	return beep.Take(sr.N(time.Duration(tone.DurationMs)*time.Millisecond), sine), nil
}
