// Package entities extracts patient name, symptoms, diagnosis, treatments,
// prognosis and current status from a transcript.
package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Defaults shown in the display record when nothing was found.
const (
	UnknownName  = "Unknown"
	NotSpecified = "Not specified"
)

// Entities holds everything found in one transcript. Lists are deduplicated
// and keep discovery order.
type Entities struct {
	PatientName   string
	CurrentStatus string
	Symptoms      []string
	Diagnosis     []string
	Treatments    []string
	Prognosis     []string
}

// Record is the display form of Entities.
type Record struct {
	PatientName   string   `json:"Patient_Name" yaml:"Patient_Name"`
	Symptoms      []string `json:"Symptoms" yaml:"Symptoms"`
	Diagnosis     string   `json:"Diagnosis" yaml:"Diagnosis"`
	Treatment     []string `json:"Treatment" yaml:"Treatment"`
	CurrentStatus string   `json:"Current_Status" yaml:"Current_Status"`
	Prognosis     string   `json:"Prognosis" yaml:"Prognosis"`
}

// Record renders e with defaults for missing values.
func (e Entities) Record() Record {
	return Record{
		PatientName:   orDefault(e.PatientName, UnknownName),
		Symptoms:      nonNil(e.Symptoms),
		Diagnosis:     first(e.Diagnosis),
		Treatment:     nonNil(e.Treatments),
		CurrentStatus: orDefault(e.CurrentStatus, NotSpecified),
		Prognosis:     first(e.Prognosis),
	}
}

// synonyms maps a canonical entity to the phrases that indicate it.
type synonyms struct {
	name    string
	phrases []string
}

var symptomSynonyms = []synonyms{
	{name: "neck pain", phrases: []string{"neck pain", "pain in my neck", "pain in the neck", "neck hurt"}},
	{name: "back pain", phrases: []string{"back pain", "pain in my back", "backache", "back hurt", "lower back pain"}},
	{name: "head impact", phrases: []string{"hit my head", "hit head", "head impact", "struck my head", "head on the steering"}},
	{name: "stiffness", phrases: []string{"stiffness", "stiff"}},
	{name: "trouble sleeping", phrases: []string{"trouble sleeping", "difficulty sleeping", "couldn't sleep"}},
	{name: "discomfort", phrases: []string{"discomfort"}},
}

var diagnosisSynonyms = []synonyms{
	{name: "whiplash injury", phrases: []string{"whiplash injury", "whiplash"}},
	{name: "lower back strain", phrases: []string{"lower back strain", "back strain"}},
	{name: "cervical strain", phrases: []string{"cervical strain", "neck strain"}},
}

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(Ms\.|Mrs\.|Mr\.|Dr\.)\s+([A-Z][a-z]+)`),
		regexp.MustCompile(`Good morning,?\s*(Ms\.|Mrs\.|Mr\.|Dr\.)?\s*([A-Z][a-z]+)`),
	}

	symptomPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(pain|ache|discomfort|stiffness|soreness)\s*(in|of)?\s*(my|the)?\s*(neck|back|head|shoulder|spine|lower back|upper back)`),
		regexp.MustCompile(`\b(neck|back|head|shoulder)\s*(pain|ache|discomfort|stiffness)`),
		regexp.MustCompile(`\b(hit|struck|impacted)\s*(my|the)?\s*(head|neck|back)`),
		regexp.MustCompile(`\bhad trouble\s+\w+ing\b`),
		regexp.MustCompile(`\b((?:occasional|constant|intermittent|chronic)\s*(?:back)?aches?)\b`),
		regexp.MustCompile(`\b(headache|migraine|nausea|dizziness|fatigue)\b`),
		regexp.MustCompile(`\bwhiplash\b`),
	}

	saidItWas = regexp.MustCompile(`said it was\s+(?:a\s+)?([^,.]+)`)

	sessionCount = regexp.MustCompile(`\b(\d+|` + numberAlternation() + `)\s+(?:(?:physiotherapy|physical therapy)\s+)?sessions?\b`)

	recoveryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:full|complete)\s*recovery\s*(?:expected|anticipated)?\s*(?:within|in)\s*(\w+\s*months?)`),
		regexp.MustCompile(`(?:expect|anticipate).*?(?:full|complete)\s*recovery\s*(?:within|in)?\s*(\w+\s*months?)?`),
		regexp.MustCompile(`on track for\s*(?:a\s*)?(?:full|complete)\s*recovery`),
	}

	currentlyFeeling = regexp.MustCompile(`(?:still|now)\s*(?:have|experiencing|feeling)\s+([^,.]+)`)
)

var numberWords = []string{
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen",
	"eighteen", "nineteen", "twenty",
}

func numberAlternation() string {
	return strings.Join(numberWords, "|")
}

// Extract finds every entity in text.
func Extract(text string) Entities {
	lower := strings.ToLower(text)
	return Entities{
		PatientName:   PatientName(text),
		Symptoms:      Symptoms(lower),
		Diagnosis:     Diagnosis(lower),
		Treatments:    Treatments(lower),
		Prognosis:     Prognosis(lower),
		CurrentStatus: CurrentStatus(lower),
	}
}

// PatientName returns the first addressed name, with its title when present.
func PatientName(text string) string {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil || m[2] == "" {
			continue
		}
		if m[1] == "" {
			return m[2]
		}
		return m[1] + " " + m[2]
	}
	return ""
}

// Symptoms returns the symptoms mentioned in lower, title-cased.
func Symptoms(lower string) []string {
	caser := cases.Title(language.English)
	var out []string

	for _, s := range symptomSynonyms {
		if containsAny(lower, s.phrases) {
			out = appendUnique(out, caser.String(s.name))
		}
	}

	for _, re := range symptomPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			found := joinGroups(m)
			if len(found) > 3 {
				out = appendUnique(out, caser.String(found))
			}
		}
	}
	return out
}

// Diagnosis returns the diagnoses mentioned in lower, title-cased.
func Diagnosis(lower string) []string {
	caser := cases.Title(language.English)
	var out []string

	for _, d := range diagnosisSynonyms {
		if containsAny(lower, d.phrases) {
			out = appendUnique(out, caser.String(d.name))
		}
	}

	if m := saidItWas.FindStringSubmatch(lower); m != nil {
		if d := strings.TrimSpace(m[1]); len(d) > 3 {
			out = appendUnique(out, caser.String(d))
		}
	}
	return out
}

// Treatments returns the treatments mentioned in lower.
func Treatments(lower string) []string {
	var out []string

	if strings.Contains(lower, "physiotherapy") || strings.Contains(lower, "physical therapy") {
		if n, ok := sessions(lower); ok {
			out = append(out, fmt.Sprintf("%d physiotherapy sessions", n))
		} else {
			out = append(out, "Physiotherapy")
		}
	}
	if strings.Contains(lower, "painkiller") {
		out = append(out, "Painkillers")
	}
	if strings.Contains(lower, "medication") || strings.Contains(lower, "medicine") {
		out = append(out, "Medication")
	}
	if containsAny(lower, []string{"x-ray", "x ray", "xray"}) {
		out = append(out, "X-ray examination")
	}
	return out
}

// sessions returns the number of therapy sessions mentioned in lower, written
// either as digits or as a word.
func sessions(lower string) (int, bool) {
	m := sessionCount.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	if n, err := strconv.Atoi(m[1]); err == nil {
		return n, true
	}
	for i, w := range numberWords {
		if w == m[1] {
			return i + 1, true
		}
	}
	return 0, false
}

// Prognosis returns the expected outcome mentioned in lower.
func Prognosis(lower string) []string {
	for _, re := range recoveryPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if len(m) > 1 && strings.TrimSpace(m[1]) != "" {
			return []string{"Full recovery expected within " + strings.TrimSpace(m[1])}
		}
		return []string{"Full recovery expected"}
	}

	if strings.Contains(lower, "no") && containsAny(lower, []string{"long-term", "lasting", "permanent"}) {
		return []string{"No long-term damage expected"}
	}
	return nil
}

// CurrentStatus describes how the patient is doing now.
func CurrentStatus(lower string) string {
	switch {
	case strings.Contains(lower, "occasional back"):
		return "Occasional backache"
	case strings.Contains(lower, "doing better"):
		return "Improving, with occasional discomfort"
	}

	if m := currentlyFeeling.FindStringSubmatch(lower); m != nil {
		return capitalize(strings.TrimSpace(m[1]))
	}
	return ""
}

// joinGroups joins the non-empty capture groups of m, or returns the whole
// match when the pattern has none.
func joinGroups(m []string) string {
	if len(m) == 1 {
		return strings.TrimSpace(m[0])
	}
	parts := make([]string, 0, len(m)-1)
	for _, g := range m[1:] {
		if g != "" {
			parts = append(parts, g)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

func first(list []string) string {
	if len(list) == 0 {
		return NotSpecified
	}
	return list[0]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
