// Package soap drafts a SOAP note (Subjective, Objective, Assessment, Plan)
// from a segmented transcript.
package soap

import (
	"strings"

	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/Veraticus/physician-notetaker/internal/dialogue"
	"github.com/Veraticus/physician-notetaker/internal/lexicon"
)

const (
	historyStatements = 3
	historyLimit      = 300
)

// Subjective is the patient-reported part of the note.
type Subjective struct {
	ChiefComplaint string `json:"Chief_Complaint" yaml:"Chief_Complaint"`
	History        string `json:"History_of_Present_Illness" yaml:"History_of_Present_Illness"`
}

// Objective holds the examination findings.
type Objective struct {
	PhysicalExam string `json:"Physical_Exam" yaml:"Physical_Exam"`
	Observations string `json:"Observations" yaml:"Observations"`
}

// Assessment holds the diagnosis and its severity.
type Assessment struct {
	Diagnosis string `json:"Diagnosis" yaml:"Diagnosis"`
	Severity  string `json:"Severity" yaml:"Severity"`
}

// Plan holds treatment and follow-up instructions.
type Plan struct {
	Treatment string `json:"Treatment" yaml:"Treatment"`
	FollowUp  string `json:"Follow_Up" yaml:"Follow_Up"`
}

// Note is a drafted SOAP note.
type Note struct {
	Subjective Subjective `json:"Subjective" yaml:"Subjective"`
	Objective  Objective  `json:"Objective" yaml:"Objective"`
	Assessment Assessment `json:"Assessment" yaml:"Assessment"`
	Plan       Plan       `json:"Plan" yaml:"Plan"`
}

// Generate drafts a note for transcript.
func Generate(transcript string) Note {
	return FromTurns(dialogue.Segment(transcript), transcript)
}

// FromTurns drafts a note from already segmented turns. transcript is the
// raw text the turns came from; whole-visit findings are read from it.
func FromTurns(turns []dialogue.Turn, transcript string) Note {
	patient := dialogue.Texts(dialogue.PatientTurns(turns))
	physician := dialogue.Texts(dialogue.BySpeaker(turns, dialogue.SpeakerPhysician))
	lower := strings.ToLower(transcript)

	return Note{
		Subjective: Subjective{
			ChiefComplaint: chiefComplaint(patient),
			History:        history(patient),
		},
		Objective: Objective{
			PhysicalExam: physicalExam(physician),
			Observations: observations(lower),
		},
		Assessment: Assessment{
			Diagnosis: diagnosis(lower),
			Severity:  severity(lower),
		},
		Plan: Plan{
			Treatment: treatment(lower),
			FollowUp:  followUp(physician),
		},
	}
}

func chiefComplaint(statements []string) string {
	for _, s := range statements {
		lower := strings.ToLower(s)
		if !classify.ContainsAny(lower, lexicon.SymptomKeywords) {
			continue
		}
		if strings.Contains(lower, "neck") || strings.Contains(lower, "back") {
			if strings.Contains(lower, "pain") {
				return "Neck and back pain"
			}
			return "Neck and back discomfort"
		}
	}
	return "Post-accident symptoms"
}

// history collects up to three statements describing the incident, how the
// symptoms progressed and the treatment received.
func history(statements []string) string {
	var parts []string
	for _, s := range statements {
		lower := strings.ToLower(s)
		if !classify.ContainsAny(lower, lexicon.SubjectiveKeywords) {
			continue
		}

		incident := containsAny(lower, "accident", "hit")
		progression := containsAny(lower, "weeks", "months", "after", "started") &&
			containsAny(lower, "pain", "discomfort")
		treated := containsAny(lower, "physiotherapy", "sessions")

		if incident || progression || treated {
			parts = append(parts, s)
		}
		if len(parts) >= historyStatements {
			break
		}
	}

	if len(parts) == 0 {
		return "Patient reports symptoms following incident."
	}
	combined := []rune(strings.Join(parts, " "))
	if len(combined) > historyLimit {
		return string(combined[:historyLimit]) + "..."
	}
	return string(combined)
}

func physicalExam(statements []string) string {
	var findings []string
	for _, s := range statements {
		lower := strings.ToLower(s)
		if !classify.ContainsAny(lower, lexicon.ObjectiveKeywords) {
			continue
		}
		if containsAny(lower, "range of motion", "range of movement") {
			findings = appendUnique(findings, "Full range of motion in cervical and lumbar spine")
		}
		if (strings.Contains(lower, "no tenderness") || !strings.Contains(lower, "tenderness")) &&
			strings.Contains(lower, "good") {
			findings = appendUnique(findings, "No tenderness on palpation")
		}
		if strings.Contains(lower, "good condition") {
			findings = appendUnique(findings, "Muscles and spine in good condition")
		}
	}

	if len(findings) == 0 {
		return "Physical examination conducted. No significant abnormalities noted."
	}
	return strings.Join(findings, ", ") + "."
}

func observations(lower string) string {
	var found []string
	if strings.Contains(lower, "looks good") {
		found = append(found, "Patient appears in good general health")
	}
	if strings.Contains(lower, "full range") {
		found = append(found, "Normal mobility observed")
	}
	if containsAny(lower, "no lasting damage", "no signs of") {
		found = append(found, "No signs of permanent damage")
	}

	if len(found) == 0 {
		return "Patient presents with normal gait and posture."
	}
	return strings.Join(found, ", ") + "."
}

func diagnosis(lower string) string {
	var found []string
	if strings.Contains(lower, "whiplash") {
		found = append(found, "Whiplash injury")
	}
	if strings.Contains(lower, "back") && containsAny(lower, "strain", "pain") {
		found = append(found, "Lower back strain")
	}
	if strings.Contains(lower, "neck") && strings.Contains(lower, "strain") {
		found = append(found, "Cervical strain")
	}

	if len(found) == 0 {
		return "Soft tissue injury"
	}
	return strings.Join(found, " and ")
}

func severity(lower string) string {
	switch {
	case containsAny(lower, "improving", "better", "positive", "good"):
		if strings.Contains(lower, "occasional") {
			return "Mild, improving"
		}
		return "Improving"
	case containsAny(lower, "severe", "bad", "rough"):
		return "Moderate, improving"
	default:
		return "Mild to moderate"
	}
}

func treatment(lower string) string {
	var plan []string
	if containsAny(lower, "physiotherapy", "physical therapy") {
		plan = append(plan, "Continue physiotherapy as needed")
	}
	if containsAny(lower, "painkiller", "analgesic", "medication") {
		plan = append(plan, "Use analgesics for pain relief as needed")
	}
	if strings.Contains(lower, "rest") {
		plan = append(plan, "Rest as needed")
	}

	if len(plan) == 0 {
		return "Continue current management, symptomatic treatment as needed."
	}
	return strings.Join(plan, ", ") + "."
}

func followUp(statements []string) string {
	for _, s := range statements {
		lower := strings.ToLower(s)
		if containsAny(lower, "come back", "follow-up") && containsAny(lower, "worsening", "worse") {
			return "Patient to return if symptoms worsen or persist."
		}
		if containsAny(lower, "reach out", "contact") {
			return "Patient may contact clinic if needed."
		}
		if strings.Contains(lower, "months") {
			return "Expected full recovery within six months. Return if symptoms persist beyond this timeframe."
		}
	}
	return "Follow up as needed."
}

func containsAny(text string, phrases ...string) bool {
	return classify.ContainsAny(text, phrases)
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
