package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateAudioData(t *testing.T) {
	tests := []struct {
		name    string
		data    []float32
		wantErr string
	}{
		{"nil", nil, "no audio data"},
		{"empty", []float32{}, "empty"},
		{"all zero", make([]float32, 4410), "silent"},
		{"below threshold", []float32{0.0005, -0.0009}, "silent"},
		{"exactly at threshold", []float32{0.001}, ""},
		{"normal speech", []float32{0.1, -0.3, 0.2}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAudioData(tt.data)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTextContent(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"whitespace only", "   \n\t  ", "empty"},
		{"nine chars", "123456789", "too short"},
		{"padded nine chars", "  123456789  ", "too short"},
		{"five multibyte chars", "日本語です", "too short"},
		{"nine multibyte chars", "音声訓練用の文章だ", "too short"},
		{"exactly ten chars", "1234567890", ""},
		{"exactly ten multibyte chars", "音声訓練用の文章です", ""},
		{"ten chars after trim", "  1234567890  ", ""},
		{"normal sentence", "Hello world, this is a test.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTextContent(tt.text)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSampleShortCircuits(t *testing.T) {
	// Bad audio masks the also-bad text.
	err := ValidateSample(nil, "")
	if err == nil || !strings.Contains(err.Error(), "no audio data") {
		t.Fatalf("err = %v, want audio failure first", err)
	}

	err = ValidateSample([]float32{0.5}, "short")
	if err == nil || !strings.Contains(err.Error(), "too short") {
		t.Fatalf("err = %v, want text failure", err)
	}

	if err := ValidateSample([]float32{0.5}, "Hello world, this is a test."); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}
}

func TestDetectClipping(t *testing.T) {
	if DetectClipping(nil, ClippingThreshold) {
		t.Error("empty audio flagged as clipped")
	}
	if DetectClipping([]float32{0.5, -0.7, 0.98}, ClippingThreshold) {
		t.Error("sub-threshold audio flagged as clipped")
	}
	// Threshold is inclusive.
	if !DetectClipping([]float32{0.1, 0.99}, ClippingThreshold) {
		t.Error("sample at threshold not flagged")
	}
	if !DetectClipping([]float32{-1.0}, ClippingThreshold) {
		t.Error("negative full-scale sample not flagged")
	}
}

func TestDetectLongSilence(t *testing.T) {
	rate := 1000
	loud := float32(0.5)
	quiet := float32(0.0001)

	build := func(segments ...[]float32) []float32 {
		var out []float32
		for _, seg := range segments {
			out = append(out, seg...)
		}
		return out
	}
	fill := func(v float32, n int) []float32 {
		seg := make([]float32, n)
		for i := range seg {
			seg[i] = v
		}
		return seg
	}

	// 3 seconds of silence in the middle fires at minDuration 3.0.
	data := build(fill(loud, 500), fill(quiet, 3000), fill(loud, 500))
	if !DetectLongSilence(data, 0.01, 3.0, rate) {
		t.Error("3s silent run not detected")
	}

	// Silence split by a loud sample never reaches the run length.
	data = build(fill(quiet, 2900), fill(loud, 1), fill(quiet, 2900))
	if DetectLongSilence(data, 0.01, 3.0, rate) {
		t.Error("broken runs counted as one")
	}

	// Run exactly at minDuration fires.
	if !DetectLongSilence(fill(quiet, 3000), 0.01, 3.0, rate) {
		t.Error("run exactly at minimum not detected")
	}

	// One sample short does not.
	if DetectLongSilence(fill(quiet, 2999), 0.01, 3.0, rate) {
		t.Error("under-length run detected")
	}

	// Samples at the threshold are not silent.
	if DetectLongSilence(fill(0.25, 5000), 0.25, 3.0, rate) {
		t.Error("at-threshold samples treated as silent")
	}

	// Quiet-but-audible dead air (above the hard silence gate, below the
	// advisory threshold) is still flagged.
	if !DetectLongSilence(fill(0.005, 3000), LongSilenceThreshold, 3.0, rate) {
		t.Error("quiet dead air not detected")
	}
	if DetectLongSilence(fill(0.005, 3000), SilenceThreshold, 3.0, rate) {
		t.Error("audible samples counted as silent at the hard gate")
	}

	if DetectLongSilence(nil, 0.01, 3.0, rate) {
		t.Error("empty audio detected as silent run")
	}
	if DetectLongSilence(fill(quiet, 5000), 0.01, 3.0, 0) {
		t.Error("zero sample rate should report false")
	}
}

func TestCheckDiskSpace(t *testing.T) {
	// A temp dir should comfortably hold 1 MB.
	if err := CheckDiskSpace(t.TempDir(), 1); err != nil {
		t.Fatalf("disk space check failed: %v", err)
	}

	err := CheckDiskSpace(filepath.Join(t.TempDir(), "missing"), 1)
	if err == nil {
		t.Fatal("nonexistent path accepted")
	}
}

func TestValidateBasePath(t *testing.T) {
	t.Run("existing writable dir", func(t *testing.T) {
		if err := ValidateBasePath(t.TempDir()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("creates missing dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "datasets", "voice")
		if err := ValidateBasePath(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		st, err := os.Stat(path)
		if err != nil || !st.IsDir() {
			t.Fatalf("directory not created: %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if err := ValidateBasePath(""); err == nil {
			t.Fatal("empty path accepted")
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		err := ValidateBasePath(path)
		if err == nil || !strings.Contains(err.Error(), "directory") {
			t.Fatalf("err = %v, want directory failure", err)
		}
	})

	t.Run("removes probe file", func(t *testing.T) {
		dir := t.TempDir()
		if err := ValidateBasePath(dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, ".write_test")); !os.IsNotExist(err) {
			t.Error("probe file left behind")
		}
	})
}
