package sqlbuilder

import "fmt"

// ParseError is returned for malformed filter, bucket or specification syntax.
type ParseError struct {
	Kind     string // "filter", "bucket", "specification"
	Input    string
	Fragment string
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s near %q", e.Kind, e.Input, e.Reason, e.Fragment)
}

func filterError(input, fragment, reason string) *ParseError {
	return &ParseError{Kind: "filter", Input: input, Fragment: fragment, Reason: reason}
}

func bucketError(input, fragment, reason string) *ParseError {
	return &ParseError{Kind: "bucket", Input: input, Fragment: fragment, Reason: reason}
}
