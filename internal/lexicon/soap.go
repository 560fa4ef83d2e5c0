package lexicon

// SubjectiveKeywords mark patient history and reported symptoms.
var SubjectiveKeywords = []string{
	"accident", "injury", "happened", "started", "began",
	"felt", "feeling", "feel", "experienced", "noticed",
	"pain", "ache", "hurt", "hurts", "discomfort", "sore",
	"stiff", "stiffness", "numbness", "tingling", "weakness",
	"weeks", "days", "months", "since", "after", "before",
	"went to", "visited", "saw", "they said", "sessions",
}

// ObjectiveKeywords mark examination findings.
var ObjectiveKeywords = []string{
	"examination", "exam", "physical", "checked", "observed",
	"range of motion", "range of movement", "mobility",
	"tenderness", "swelling", "no signs", "normal", "good condition",
	"full range", "movement", "muscles", "spine",
	"looks", "appears", "gait", "posture",
}

// SymptomKeywords mark a statement as describing the chief complaint.
var SymptomKeywords = []string{"pain", "ache", "hurt", "discomfort", "injured"}
