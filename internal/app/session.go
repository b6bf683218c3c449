package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emmett/voxset/internal/audio"
	"github.com/emmett/voxset/internal/config"
	"github.com/emmett/voxset/internal/dataset"
	"github.com/emmett/voxset/internal/input"
	"github.com/emmett/voxset/internal/output"
	"github.com/emmett/voxset/internal/validate"
)

// requiredDiskMB is the free-space floor checked before each session.
const requiredDiskMB = 100

// longSilenceSeconds is the advisory threshold for dead air inside a take.
const longSilenceSeconds = 3.0

// SessionConfig holds everything one recording session needs.
type SessionConfig struct {
	Config      *config.Config
	Store       *dataset.Store
	Text        string            // Narration to pair with the take
	Meta        *dataset.Metadata // Optional generation metadata
	DeviceIndex int               // Negative = default device
	Hotkey      string            // Global record toggle, empty disables

	// NextText, when set with AutogenerateNext enabled, supplies fresh
	// narration after each save.
	NextText func() (string, *dataset.Metadata, error)
}

// Session drives one interactive record-validate-save cycle from the
// terminal: live level meter while recording, pause/resume, and a save
// pipeline that gates the take through the validators before the store
// assigns it a number.
type Session struct {
	cfg      SessionConfig
	recorder *audio.Recorder
	out      *output.ConsoleOutput

	mu        sync.Mutex
	lastLevel float64
}

// NewSession creates a session for the given configuration.
func NewSession(cfg SessionConfig) *Session {
	return &Session{
		cfg:      cfg,
		recorder: audio.NewRecorder(cfg.Config.SampleRate, 1),
		out:      output.DefaultConsoleOutput(),
	}
}

// Run executes the interactive loop until the user quits or the context
// is cancelled. Returns the number of samples saved.
func (s *Session) Run(ctx context.Context) (int, error) {
	if err := validate.ValidateBasePath(s.cfg.Config.BasePath); err != nil {
		return 0, fmt.Errorf("base path invalid: %w", err)
	}
	if err := validate.CheckDiskSpace(s.cfg.Config.BasePath, requiredDiskMB); err != nil {
		return 0, err
	}

	s.recorder.SetLevelCallback(func(level float64) {
		s.mu.Lock()
		s.lastLevel = level
		s.mu.Unlock()
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	commands := make(chan string, 10)

	// Stdin reader
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case commands <- strings.TrimSpace(strings.ToLower(scanner.Text())):
			case <-ctx.Done():
				return
			}
		}
	}()

	// Optional global hotkey mapping to the record toggle
	if s.cfg.Hotkey != "" {
		hk := input.NewHotkeyManager(func() {
			select {
			case commands <- "r":
			default:
			}
		})
		if err := hk.Start(ctx, s.cfg.Hotkey); err != nil {
			return 0, err
		}
		defer hk.Stop()
		s.out.Info(fmt.Sprintf("Hotkey %s toggles recording", s.cfg.Hotkey))
	}

	s.printText()
	fmt.Println()
	fmt.Println("Commands: [r] record/stop  [p] pause/resume  [d] discard  [q] quit")
	fmt.Println()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	saved := 0
	for {
		select {
		case <-ctx.Done():
			s.abandonTake()
			return saved, ctx.Err()

		case <-ticker.C:
			s.renderMeter()

		case cmd := <-commands:
			switch cmd {
			case "r", "":
				if !s.recorder.IsRecording() {
					if err := s.recorder.Start(s.cfg.DeviceIndex); err != nil {
						s.out.Error(fmt.Sprintf("Failed to start recording: %v", err))
						continue
					}
					s.out.Info("Recording...")
					continue
				}
				n, err := s.finishTake()
				if err != nil {
					s.out.Error(err.Error())
					continue
				}
				saved++
				s.reportSaved(n)
				if s.cfg.Config.AutogenerateNext && s.cfg.NextText != nil {
					text, meta, err := s.cfg.NextText()
					if err != nil {
						s.out.Error(fmt.Sprintf("Failed to generate next text: %v", err))
						continue
					}
					s.cfg.Text = text
					s.cfg.Meta = meta
					s.printText()
				}

			case "p":
				if s.recorder.IsPaused() {
					s.recorder.Resume()
					s.out.Info("Resumed")
				} else if s.recorder.IsRecording() {
					s.recorder.Pause()
					s.out.Info("Paused")
				}

			case "d":
				s.abandonTake()
				s.out.Info("Take discarded")

			case "q":
				s.abandonTake()
				return saved, nil

			default:
				s.out.Info(fmt.Sprintf("Unknown command %q", cmd))
			}
		}
	}
}

// finishTake stops the recorder, gates the take through the validators,
// and hands it to the store.
func (s *Session) finishTake() (int, error) {
	s.out.Clear()

	wave, err := s.recorder.Stop()
	if err != nil {
		return 0, fmt.Errorf("failed to stop recording: %w", err)
	}

	if err := validate.ValidateSample(wave, s.cfg.Text); err != nil {
		return 0, err
	}

	// Advisories warn but never block the save.
	if validate.DetectClipping(wave, validate.ClippingThreshold) {
		s.out.Warn("Clipping detected in this take")
	}
	if validate.DetectLongSilence(wave, validate.LongSilenceThreshold, longSilenceSeconds, s.recorder.SampleRate()) {
		s.out.Warn(fmt.Sprintf("Silence longer than %.0fs detected in this take", longSilenceSeconds))
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("voxset-%s.wav", uuid.NewString()))
	if err := s.recorder.SaveAudio(wave, tmpPath); err != nil {
		return 0, fmt.Errorf("failed to save audio: %w", err)
	}

	number, err := s.cfg.Store.Save(tmpPath, s.cfg.Text, s.cfg.Meta)
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to save sample: %w", err)
	}

	return number, nil
}

// abandonTake stops any active recording and drops the buffered audio.
func (s *Session) abandonTake() {
	if s.recorder.IsRecording() {
		_, _ = s.recorder.Stop()
	}
	s.recorder.ClearAudio()
	s.out.Clear()
}

func (s *Session) renderMeter() {
	if !s.recorder.IsRecording() {
		return
	}

	state := "REC"
	if s.recorder.IsPaused() {
		state = "PAUSE"
	}

	s.mu.Lock()
	level := s.lastLevel
	s.mu.Unlock()

	s.out.WriteRecordingMeter(state, s.recorder.LiveDuration(), level)
}

func (s *Session) reportSaved(number int) {
	total := s.cfg.Store.TotalSamples()
	minutes := s.cfg.Store.EstimateTotalDuration()
	s.out.Info(fmt.Sprintf("Saved sample %03d (%d total, %.1f minutes)", number, total, minutes))
}

func (s *Session) printText() {
	fmt.Println("Narration text:")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Println(s.cfg.Text)
	fmt.Println(strings.Repeat("-", 70))
}
