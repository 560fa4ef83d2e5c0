package lexicon

// MedicalTerms are single words that mark a phrase as medically relevant.
var MedicalTerms = []string{
	// symptoms
	"pain", "ache", "discomfort", "stiffness", "swelling", "numbness",
	"tingling", "weakness", "fatigue", "nausea", "dizziness", "headache",
	// body parts
	"neck", "back", "spine", "cervical", "lumbar", "thoracic", "shoulder",
	"head", "muscle", "joint", "vertebra", "disc",
	// conditions
	"whiplash", "injury", "strain", "sprain", "fracture", "concussion",
	"inflammation", "trauma", "accident", "impact",
	// treatments
	"physiotherapy", "therapy", "physical therapy", "medication", "painkillers",
	"treatment", "surgery", "injection", "exercise", "rehabilitation",
	// procedures
	"x-ray", "xray", "mri", "scan", "examination", "assessment",
	// prognosis
	"recovery", "prognosis", "improvement", "healing", "chronic", "acute",
	// time
	"weeks", "months", "sessions", "follow-up", "appointment",
}

// MedicalPhrases are multi-word phrases ranked above their parts.
var MedicalPhrases = []string{
	"whiplash injury",
	"physical examination",
	"full recovery",
	"long-term damage",
	"range of motion",
	"range of movement",
	"back pain",
	"neck pain",
	"lower back",
	"upper back",
	"car accident",
	"physiotherapy sessions",
	"physical therapy",
	"full range",
	"no tenderness",
	"emergency room",
	"accident and emergency",
	"muscle strain",
	"soft tissue",
	"pain relief",
	"six months",
	"four weeks",
}
