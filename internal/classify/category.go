// Package classify implements the weighted rule-based classifier shared by the
// intent and sentiment analyses.
//
// A Table holds named categories, each with compiled regular expressions and
// keyword triggers. The Classifier scores a text against every category,
// applies the table's adjustment rules, and picks a primary category, up to a
// few secondary ones, a confidence and the supporting evidence.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// CategorySpec describes a category before its patterns are compiled.
type CategorySpec struct {
	Name     string
	Patterns []string
	Keywords []string
	// QuestionLike enables the question-mark bonus.
	QuestionLike bool
}

// Category is a named classification target. It is immutable once built.
type Category struct {
	name         string
	patterns     []*regexp.Regexp
	keywords     []string
	questionLike bool
}

// NewCategory compiles spec into a Category. Patterns are case-insensitive.
func NewCategory(spec CategorySpec) (Category, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return Category{}, fmt.Errorf("category name is required")
	}

	compiled := make([]*regexp.Regexp, 0, len(spec.Patterns))
	for _, p := range spec.Patterns {
		regexStr := p
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}

		re, err := regexp.Compile(regexStr)
		if err != nil {
			return Category{}, fmt.Errorf("failed to compile pattern %q for %s: %w", p, spec.Name, err)
		}
		compiled = append(compiled, re)
	}

	keywords := make([]string, 0, len(spec.Keywords))
	for _, k := range spec.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}

	return Category{
		name:         spec.Name,
		patterns:     compiled,
		keywords:     keywords,
		questionLike: spec.QuestionLike,
	}, nil
}

// Name returns the category label.
func (c Category) Name() string { return c.name }

// QuestionLike reports whether the question-mark bonus applies.
func (c Category) QuestionLike() bool { return c.questionLike }

// Keywords returns a copy of the category's keywords.
func (c Category) Keywords() []string {
	return append([]string(nil), c.keywords...)
}

// Patterns returns the source of each compiled pattern.
func (c Category) Patterns() []string {
	out := make([]string, 0, len(c.patterns))
	for _, re := range c.patterns {
		out = append(out, re.String())
	}
	return out
}
