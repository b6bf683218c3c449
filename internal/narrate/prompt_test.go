package narrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"General Purpose", StyleGeneralPurpose},
		{"general purpose", StyleGeneralPurpose},
		{"COLLOQUIAL", StyleColloquial},
		{"voice note", StyleVoiceNote},
		{"Technical", StyleTechnical},
		{"prose", StyleProse},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if err != nil {
			t.Errorf("ParseStyle(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseStyle("casual"); err == nil {
		t.Error("unknown style accepted")
	}
}

func TestRequestWordCount(t *testing.T) {
	tests := []struct {
		minutes float64
		wpm     int
		want    int
	}{
		{3.0, 150, 450},
		{0.5, 120, 60},
		{1.5, 100, 150},
		{0, 150, 0},
	}
	for _, tt := range tests {
		r := Request{DurationMinutes: tt.minutes, WPM: tt.wpm}
		if got := r.WordCount(); got != tt.want {
			t.Errorf("WordCount(%.1f min, %d wpm) = %d, want %d", tt.minutes, tt.wpm, got, tt.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Request{
		DurationMinutes: 3.0,
		WPM:             150,
		Style:           StyleTechnical,
	})

	for _, want := range []string{
		"approximately 450 words",
		"3 minutes at 150 WPM",
		"technical style",
		"without any meta-commentary",
		"Technical style guidance:",
		"Begin the text now:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Vocabulary requirements:") {
		t.Error("vocabulary block present without vocabulary")
	}
}

func TestBuildPromptVocabulary(t *testing.T) {
	prompt := BuildPrompt(Request{
		DurationMinutes: 1.0,
		WPM:             150,
		Style:           StyleGeneralPurpose,
		Vocabulary:      []string{"stethoscope", "auscultation"},
	})

	if !strings.Contains(prompt, "Vocabulary requirements:") {
		t.Fatal("vocabulary block missing")
	}
	if !strings.Contains(prompt, "stethoscope, auscultation") {
		t.Error("vocabulary words not joined into the prompt")
	}
}

func TestBuildPromptUnknownStyleFallsBack(t *testing.T) {
	prompt := BuildPrompt(Request{
		DurationMinutes: 1.0,
		WPM:             150,
		Style:           Style("Mystery"),
	})
	if !strings.Contains(prompt, styleDescriptions[StyleGeneralPurpose]) {
		t.Error("unknown style did not fall back to general purpose description")
	}
}

func TestBuildPromptStyleGuidance(t *testing.T) {
	guidance := map[Style]string{
		StyleVoiceNote:  "Voice note style guidance:",
		StyleColloquial: "Colloquial style guidance:",
		StyleTechnical:  "Technical style guidance:",
		StyleProse:      "Prose style guidance:",
	}
	for style, marker := range guidance {
		prompt := BuildPrompt(Request{DurationMinutes: 1, WPM: 150, Style: style})
		if !strings.Contains(prompt, marker) {
			t.Errorf("%s prompt missing its guidance block", style)
		}
	}

	prompt := BuildPrompt(Request{DurationMinutes: 1, WPM: 150, Style: StyleGeneralPurpose})
	if strings.Contains(prompt, "style guidance:") {
		t.Error("general purpose prompt has a style guidance block")
	}
}

func TestCleanGeneratedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "The quick brown fox.", "The quick brown fox."},
		{"leading whitespace", "  \n The quick brown fox. \n", "The quick brown fox."},
		{"heres your text", "Here's your text: The quick brown fox.", "The quick brown fox."},
		{"certainly", "Certainly! The quick brown fox.", "The quick brown fox."},
		{"case insensitive", "SURE! The quick brown fox.", "The quick brown fox."},
		{"surrounding quotes", `"The quick brown fox."`, "The quick brown fox."},
		{"single quotes", "'The quick brown fox.'", "The quick brown fox."},
		{"phrase then quotes", `Here is the text: "The quick brown fox."`, "The quick brown fox."},
		{"internal quotes kept", `She said "hello" and left.`, `She said "hello" and left.`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanGeneratedText(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateVocabulary(t *testing.T) {
	if err := ValidateVocabulary(nil); err != nil {
		t.Errorf("empty list rejected: %v", err)
	}
	if err := ValidateVocabulary([]string{"alpha", "beta"}); err != nil {
		t.Errorf("small list rejected: %v", err)
	}

	fifty := make([]string, 50)
	for i := range fifty {
		fifty[i] = fmt.Sprintf("word%d", i)
	}
	if err := ValidateVocabulary(fifty); err != nil {
		t.Errorf("50 words rejected: %v", err)
	}
	if err := ValidateVocabulary(append(fifty, "one more")); err == nil {
		t.Error("51 words accepted")
	}

	if err := ValidateVocabulary([]string{strings.Repeat("x", 30)}); err != nil {
		t.Errorf("30-char word rejected: %v", err)
	}
	if err := ValidateVocabulary([]string{strings.Repeat("x", 31)}); err == nil {
		t.Error("31-char word accepted")
	}

	// Length is counted in characters, not bytes.
	if err := ValidateVocabulary([]string{strings.Repeat("語", 30)}); err != nil {
		t.Errorf("30-char multibyte word rejected: %v", err)
	}
	if err := ValidateVocabulary([]string{strings.Repeat("語", 31)}); err == nil {
		t.Error("31-char multibyte word accepted")
	}
}

func TestLoadVocabulary(t *testing.T) {
	writeVocab := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write vocab: %v", err)
		}
		return path
	}

	t.Run("valid file", func(t *testing.T) {
		path := writeVocab(t, "name: medical terms\nwords:\n  - stethoscope\n  - auscultation\n")
		vf, err := LoadVocabulary(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if vf.Name != "medical terms" {
			t.Errorf("name = %q", vf.Name)
		}
		if len(vf.Words) != 2 || vf.Words[0] != "stethoscope" {
			t.Errorf("words = %v", vf.Words)
		}
	})

	t.Run("no words", func(t *testing.T) {
		path := writeVocab(t, "name: empty\nwords: []\n")
		if _, err := LoadVocabulary(path); err == nil {
			t.Fatal("empty word list accepted")
		}
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := writeVocab(t, "words: [unclosed\n")
		if _, err := LoadVocabulary(path); err == nil {
			t.Fatal("malformed yaml accepted")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("missing file accepted")
		}
	})
}
