package narrate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Style selects the register of the generated narration text.
type Style string

const (
	StyleGeneralPurpose Style = "General Purpose"
	StyleColloquial     Style = "Colloquial"
	StyleVoiceNote      Style = "Voice Note"
	StyleTechnical      Style = "Technical"
	StyleProse          Style = "Prose"
)

// Styles lists every supported style, in menu order.
func Styles() []Style {
	return []Style{StyleGeneralPurpose, StyleColloquial, StyleVoiceNote, StyleTechnical, StyleProse}
}

// ParseStyle resolves a user-supplied style name, case-insensitively.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles() {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown style %q (valid: General Purpose, Colloquial, Voice Note, Technical, Prose)", s)
}

var styleDescriptions = map[Style]string{
	StyleGeneralPurpose: "varied, neutral content suitable for general voice training",
	StyleColloquial:     "casual, everyday conversational speech with natural patterns",
	StyleVoiceNote:      "natural dictation style with thinking patterns and pauses, as if speaking into a voice recorder",
	StyleTechnical:      "professional and technical language with industry terminology",
	StyleProse:          "literary, narrative style with descriptive and flowing language",
}

// Request holds the parameters of one narration generation.
type Request struct {
	DurationMinutes float64
	WPM             int
	Style           Style
	Vocabulary      []string
}

// WordCount is the target length implied by duration and pace.
func (r Request) WordCount() int {
	return int(r.DurationMinutes * float64(r.WPM))
}

// BuildPrompt renders the user prompt for a generation request.
func BuildPrompt(req Request) string {
	styleDesc, ok := styleDescriptions[req.Style]
	if !ok {
		styleDesc = styleDescriptions[StyleGeneralPurpose]
	}

	parts := []string{
		fmt.Sprintf("Generate approximately %d words (%g minutes at %d WPM) of %s.",
			req.WordCount(), req.DurationMinutes, req.WPM, styleDesc),
		"",
		"Requirements:",
		fmt.Sprintf("- Write in a %s style", strings.ToLower(string(req.Style))),
		"- Generate ONLY the text content without any meta-commentary, introduction, or explanation",
		"- Make the text natural and suitable for voice recording",
		"- Avoid special formatting, markdown, or unusual characters",
	}

	if len(req.Vocabulary) > 0 {
		parts = append(parts,
			"",
			"Vocabulary requirements:",
			fmt.Sprintf("- Naturally incorporate these words throughout the text: %s", strings.Join(req.Vocabulary, ", ")),
			"- Use the words in appropriate context",
			"- Don't force the words if they don't fit naturally",
		)
	}

	switch req.Style {
	case StyleVoiceNote:
		parts = append(parts,
			"",
			"Voice note style guidance:",
			"- Include natural speech patterns like 'um', 'you know', 'I think'",
			"- Add brief pauses and thinking patterns",
			"- Make it sound like someone talking through their thoughts",
		)
	case StyleColloquial:
		parts = append(parts,
			"",
			"Colloquial style guidance:",
			"- Use everyday language and common expressions",
			"- Include contractions (don't, won't, can't)",
			"- Make it sound conversational and natural",
		)
	case StyleTechnical:
		parts = append(parts,
			"",
			"Technical style guidance:",
			"- Use professional terminology appropriately",
			"- Maintain formal but clear language",
			"- Focus on explanatory or instructional content",
		)
	case StyleProse:
		parts = append(parts,
			"",
			"Prose style guidance:",
			"- Use descriptive and flowing language",
			"- Create narrative or literary content",
			"- Employ varied sentence structures",
		)
	}

	parts = append(parts, "", "Begin the text now:")
	return strings.Join(parts, "\n")
}

// metaPhrases are boilerplate openers models prepend despite being told
// not to.
var metaPhrases = []string{
	"Here's your text:",
	"Here is the text:",
	"Here's the generated text:",
	"Here is your text:",
	"As requested,",
	"Certainly!",
	"Sure!",
	"Of course!",
	"I'll generate",
	"I've generated",
}

// CleanGeneratedText strips meta-commentary openers and surrounding
// quotes from a model reply.
func CleanGeneratedText(text string) string {
	cleaned := strings.TrimSpace(text)

	for _, phrase := range metaPhrases {
		if len(cleaned) >= len(phrase) && strings.EqualFold(cleaned[:len(phrase)], phrase) {
			cleaned = strings.TrimSpace(cleaned[len(phrase):])
		}
	}

	if len(cleaned) >= 2 {
		if (strings.HasPrefix(cleaned, `"`) && strings.HasSuffix(cleaned, `"`)) ||
			(strings.HasPrefix(cleaned, "'") && strings.HasSuffix(cleaned, "'")) {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}

	return strings.TrimSpace(cleaned)
}

// ValidateVocabulary sanity-checks a vocabulary list before it is folded
// into a prompt.
func ValidateVocabulary(words []string) error {
	if len(words) == 0 {
		return nil
	}
	if len(words) > 50 {
		return fmt.Errorf("vocabulary contains more than 50 words, reduce the list for better results")
	}
	for _, word := range words {
		if utf8.RuneCountInString(word) > 30 {
			return fmt.Errorf("word %q is unusually long, check your vocabulary list", word)
		}
	}
	return nil
}
