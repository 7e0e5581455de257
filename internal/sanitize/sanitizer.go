package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

const redactedStr = "<redacted>"

// Instance is the process-wide sanitizer. Submitted answer values are user
// data and must never reach the logs in clear.
var Instance = NewSanitizer(SanitizerOptions{
	ExcludeFields: []string{"values", "value"},
})

type SanitizerOptions struct {
	// ExcludeFields is a list of fields to exclude from sanitization
	ExcludeFields []string
	// ExcludePatterns is a list of regexes - any capture groups are redacted
	ExcludePatterns []string
}

type Sanitizer struct {
	excludeFields map[string]struct{}
	patterns      []*regexp.Regexp
}

func NewSanitizer(opts SanitizerOptions) *Sanitizer {
	s := &Sanitizer{
		excludeFields: make(map[string]struct{}, len(opts.ExcludeFields)),
	}

	for _, f := range opts.ExcludeFields {
		s.excludeFields[f] = struct{}{}
		// redact the field from embedded JSON payloads too
		s.patterns = append(s.patterns, regexp.MustCompile(fmt.Sprintf(`"%s"\s*:\s*"([^"]+)"`, f)))
	}
	for _, p := range opts.ExcludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		s.patterns = append(s.patterns, re)
	}
	return s
}

func (s *Sanitizer) FieldExcluded(name string) bool {
	_, ok := s.excludeFields[name]
	return ok
}

// SanitizeKeyValue sanitizes a single log attribute. Excluded fields are
// redacted wholesale; string values are scrubbed for embedded sensitive
// payloads.
func (s *Sanitizer) SanitizeKeyValue(k string, v any) any {
	if s.FieldExcluded(k) {
		return redactedStr
	}
	return s.SanitizeString(v)
}

func (s *Sanitizer) SanitizeString(v any) any {
	str, ok := v.(string)
	if !ok {
		return v
	}
	for _, re := range s.patterns {
		str = re.ReplaceAllStringFunc(str, func(m string) string {
			groups := re.FindStringSubmatch(m)
			if len(groups) < 2 {
				return m
			}
			for _, g := range groups[1:] {
				if g != "" {
					m = strings.Replace(m, g, redactedStr, 1)
				}
			}
			return m
		})
	}
	return str
}
