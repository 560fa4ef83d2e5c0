package soap

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

const followUpVisit = `Doctor: How are you feeling today?
Patient: I had a car accident. My neck and back hurt a lot for four weeks.
Doctor: Did you receive treatment?
Patient: Yes, I had ten physiotherapy sessions, and now I only have occasional back pain.
[Physical Examination Conducted]
Doctor: Everything looks good. Your neck and back have a full range of movement.
Doctor: I'd expect you to make a full recovery within six months.`

func TestGenerate(t *testing.T) {
	got := Generate(followUpVisit)

	assert.Equal(t, Note{
		Subjective: Subjective{
			ChiefComplaint: "Neck and back discomfort",
			History: "I had a car accident. My neck and back hurt a lot for four weeks. " +
				"Yes, I had ten physiotherapy sessions, and now I only have occasional back pain.",
		},
		Objective: Objective{
			PhysicalExam: "Full range of motion in cervical and lumbar spine, No tenderness on palpation.",
			Observations: "Patient appears in good general health, Normal mobility observed.",
		},
		Assessment: Assessment{
			Diagnosis: "Lower back strain",
			Severity:  "Mild, improving",
		},
		Plan: Plan{
			Treatment: "Continue physiotherapy as needed.",
			FollowUp:  "Expected full recovery within six months. Return if symptoms persist beyond this timeframe.",
		},
	}, got)
}

func TestGenerate_Defaults(t *testing.T) {
	got := Generate("Patient: Hello.\nDoctor: Hi.")

	assert.Equal(t, "Post-accident symptoms", got.Subjective.ChiefComplaint)
	assert.Equal(t, "Patient reports symptoms following incident.", got.Subjective.History)
	assert.Equal(t, "Physical examination conducted. No significant abnormalities noted.", got.Objective.PhysicalExam)
	assert.Equal(t, "Patient presents with normal gait and posture.", got.Objective.Observations)
	assert.Equal(t, "Soft tissue injury", got.Assessment.Diagnosis)
	assert.Equal(t, "Mild to moderate", got.Assessment.Severity)
	assert.Equal(t, "Continue current management, symptomatic treatment as needed.", got.Plan.Treatment)
	assert.Equal(t, "Follow up as needed.", got.Plan.FollowUp)
}

func TestGenerate_Empty(t *testing.T) {
	assert.NotPanics(t, func() {
		got := Generate("")
		assert.Equal(t, "Post-accident symptoms", got.Subjective.ChiefComplaint)
	})
}

func TestFollowUp(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      string
	}{
		{name: "worsening", statement: "Come back for a follow-up if it gets worse.", want: "Patient to return if symptoms worsen or persist."},
		{name: "contact", statement: "Contact us anytime.", want: "Patient may contact clinic if needed."},
		{name: "timeline", statement: "Give it a few months.", want: "Expected full recovery within six months. Return if symptoms persist beyond this timeframe."},
		{name: "none", statement: "Goodbye.", want: "Follow up as needed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, followUp([]string{tt.statement}))
		})
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "i'm doing better", want: "Improving"},
		{text: "doing better with occasional aches", want: "Mild, improving"},
		{text: "it was really bad", want: "Moderate, improving"},
		{text: "it hurts", want: "Mild to moderate"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, severity(tt.text))
		})
	}
}

func TestHistory_Truncates(t *testing.T) {
	long := strings.Repeat("The accident was scary. ", 20)
	got := history([]string{long})

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, historyLimit+3, utf8.RuneCountInString(got))
}

func TestHistory_CapsStatements(t *testing.T) {
	statements := []string{
		"The accident was sudden.",
		"After two weeks the pain eased.",
		"I did six sessions.",
		"I also had an accident years ago.",
	}
	got := history(statements)
	assert.Equal(t, "The accident was sudden. After two weeks the pain eased. I did six sessions.", got)
}

func TestNote_Format(t *testing.T) {
	out := Generate(followUpVisit).Format()

	assert.True(t, strings.HasPrefix(out, rule+"\nSOAP NOTE\n"+rule))
	assert.True(t, strings.HasSuffix(out, rule))
	for _, want := range []string{
		"--- SUBJECTIVE ---", "--- OBJECTIVE ---", "--- ASSESSMENT ---", "--- PLAN ---",
		"Chief Complaint: Neck and back discomfort",
		"Diagnosis: Lower back strain",
		"Follow Up: Expected full recovery",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "SUBJECTIVE"), strings.Index(out, "PLAN"))
}
