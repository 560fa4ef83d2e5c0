// Package dialogue splits physician–patient transcripts into ordered speaker turns.
package dialogue

import (
	"strings"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	// SpeakerPhysician is the clinician side of the conversation.
	SpeakerPhysician Speaker = "physician"
	// SpeakerPatient is the patient side of the conversation.
	SpeakerPatient Speaker = "patient"
)

// ExaminationPrefix marks turns synthesized from bracketed annotation lines.
const ExaminationPrefix = "EXAMINATION: "

// excerptLength is the number of characters kept by Excerpt.
const excerptLength = 50

// Turn is one contiguous block of text attributed to a single speaker.
type Turn struct {
	Speaker    Speaker
	Text       string
	Index      int
	Annotation bool
}

// speakerTags maps lower-cased line prefixes to the speaker they open.
var speakerTags = []struct {
	prefix  string
	speaker Speaker
}{
	{prefix: "physician:", speaker: SpeakerPhysician},
	{prefix: "doctor:", speaker: SpeakerPhysician},
	{prefix: "patient:", speaker: SpeakerPatient},
}

// segmenter holds the state of one pass over a transcript.
type segmenter struct {
	turns     []Turn
	fragments []string
	speaker   Speaker
	open      bool
}

// Segment splits raw transcript text into speaker turns in transcript order.
// It never fails: malformed input yields fewer or no turns.
func Segment(text string) []Turn {
	s := &segmenter{}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if speaker, rest, ok := matchSpeakerTag(line); ok {
			s.flush()
			s.speaker = speaker
			s.open = true
			if rest != "" {
				s.fragments = append(s.fragments, rest)
			}
			continue
		}

		if isAnnotation(line) {
			s.flush()
			s.emit(Turn{
				Speaker:    SpeakerPhysician,
				Text:       ExaminationPrefix + strings.TrimSpace(line[1:len(line)-1]),
				Annotation: true,
			})
			continue
		}

		if s.open {
			s.fragments = append(s.fragments, line)
		}
	}

	s.flush()
	return s.turns
}

// flush emits the open turn when it has collected any text. The speaker stays
// active so untagged lines after an annotation continue that speaker.
func (s *segmenter) flush() {
	if len(s.fragments) == 0 {
		return
	}
	s.emit(Turn{
		Speaker: s.speaker,
		Text:    strings.Join(s.fragments, " "),
	})
	s.fragments = nil
}

func (s *segmenter) emit(turn Turn) {
	turn.Index = len(s.turns)
	s.turns = append(s.turns, turn)
}

// matchSpeakerTag reports whether line opens a new turn and returns the
// trimmed remainder after the first colon.
func matchSpeakerTag(line string) (Speaker, string, bool) {
	lower := strings.ToLower(line)
	for _, tag := range speakerTags {
		if strings.HasPrefix(lower, tag.prefix) {
			_, rest, _ := strings.Cut(line, ":")
			return tag.speaker, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}

func isAnnotation(line string) bool {
	return len(line) >= 2 && strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

// BySpeaker returns the turns spoken by speaker, preserving order.
func BySpeaker(turns []Turn, speaker Speaker) []Turn {
	var out []Turn
	for _, t := range turns {
		if t.Speaker == speaker {
			out = append(out, t)
		}
	}
	return out
}

// PatientTurns returns the patient turns with non-blank text.
func PatientTurns(turns []Turn) []Turn {
	var out []Turn
	for _, t := range BySpeaker(turns, SpeakerPatient) {
		if strings.TrimSpace(t.Text) != "" {
			out = append(out, t)
		}
	}
	return out
}

// Texts returns the text body of each turn.
func Texts(turns []Turn) []string {
	out := make([]string, 0, len(turns))
	for _, t := range turns {
		out = append(out, t.Text)
	}
	return out
}

// Excerpt shortens text to its first 50 characters followed by "..." when
// truncated. Excerpts of different turns may collide.
func Excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return string(runes[:excerptLength]) + "..."
}
