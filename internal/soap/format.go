package soap

import (
	"fmt"
	"strings"
)

const rule = "============================================================"

// Format renders the note as plain text, one labelled line per field.
func (n Note) Format() string {
	var b strings.Builder
	b.WriteString(rule + "\nSOAP NOTE\n" + rule + "\n")

	section := func(title string, fields ...[2]string) {
		fmt.Fprintf(&b, "\n--- %s ---\n", title)
		for _, f := range fields {
			fmt.Fprintf(&b, "%s: %s\n", f[0], f[1])
		}
	}

	section("SUBJECTIVE",
		[2]string{"Chief Complaint", n.Subjective.ChiefComplaint},
		[2]string{"History of Present Illness", n.Subjective.History})
	section("OBJECTIVE",
		[2]string{"Physical Exam", n.Objective.PhysicalExam},
		[2]string{"Observations", n.Objective.Observations})
	section("ASSESSMENT",
		[2]string{"Diagnosis", n.Assessment.Diagnosis},
		[2]string{"Severity", n.Assessment.Severity})
	section("PLAN",
		[2]string{"Treatment", n.Plan.Treatment},
		[2]string{"Follow Up", n.Plan.FollowUp})

	b.WriteString("\n" + rule)
	return b.String()
}
