package controller

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// LabelRules validates node labels before they reach the tree. Input is
// trimmed first; a blank label is always rejected with ErrEmptyLabel.
type LabelRules struct {
	MinLength      int
	MaxLength      int // 0 means unlimited
	Pattern        *regexp.Regexp
	PatternMessage string
}

// DefaultLabelRules accepts any non-blank label.
func DefaultLabelRules() LabelRules {
	return LabelRules{MinLength: 1}
}

// NewLabelRules builds rules from configuration values. An invalid pattern
// is reported rather than silently ignored.
func NewLabelRules(minLen, maxLen int, pattern, patternMessage string) (LabelRules, error) {
	r := LabelRules{MinLength: minLen, MaxLength: maxLen, PatternMessage: patternMessage}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return DefaultLabelRules(), fmt.Errorf("label pattern: %w", err)
		}
		r.Pattern = re
	}
	return r, nil
}

// Check returns the trimmed label or the first rule it breaks.
func (r LabelRules) Check(text string) (string, error) {
	label := strings.TrimSpace(text)
	if label == "" {
		return "", ErrEmptyLabel
	}
	n := utf8.RuneCountInString(label)
	if r.MinLength > 0 && n < r.MinLength {
		return "", &LabelError{
			Rule:    "min_length",
			Message: fmt.Sprintf("minimum %d characters required", r.MinLength),
		}
	}
	if r.MaxLength > 0 && n > r.MaxLength {
		return "", &LabelError{
			Rule:    "max_length",
			Message: fmt.Sprintf("maximum %d characters allowed", r.MaxLength),
		}
	}
	if r.Pattern != nil && !r.Pattern.MatchString(label) {
		msg := r.PatternMessage
		if msg == "" {
			msg = "invalid format"
		}
		return "", &LabelError{Rule: "pattern", Message: msg}
	}
	return label, nil
}
