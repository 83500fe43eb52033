package serializers

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	reasonRequired = "this field is required"
	reasonNull     = "this field may not be null"
	reasonBlank    = "this field may not be blank"
)

type textRule struct {
	required   bool
	allowBlank bool
	maxLen     int
}

// checkText validates a string field. Required fields are only enforced on
// full (non-partial) payloads.
func checkText(verr *ValidationError, name string, f Field[string], partial bool, rule textRule) {
	if !f.Set {
		if rule.required && !partial {
			verr.Add(name, reasonRequired)
		}
		return
	}
	if f.Null {
		verr.Add(name, reasonNull)
		return
	}
	if !rule.allowBlank && strings.TrimSpace(f.Value) == "" {
		verr.Add(name, reasonBlank)
		return
	}
	if rule.maxLen > 0 && utf8.RuneCountInString(f.Value) > rule.maxLen {
		verr.Add(name, fmt.Sprintf("ensure this field has no more than %d characters", rule.maxLen))
	}
}

func checkOrder(verr *ValidationError, name string, f Field[int]) {
	if !f.Set {
		return
	}
	if f.Null {
		verr.Add(name, reasonNull)
		return
	}
	if f.Value < 0 {
		verr.Add(name, "ensure this value is greater than or equal to 0")
	}
}

func checkBool(verr *ValidationError, name string, f Field[bool]) {
	if f.Set && f.Null {
		verr.Add(name, reasonNull)
	}
}

func checkURL(verr *ValidationError, name string, f Field[string]) {
	if !f.Set || f.Null || f.Value == "" {
		return
	}
	u, err := url.ParseRequestURI(f.Value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		verr.Add(name, "enter a valid URL")
		return
	}
	if len(f.Value) > 200 {
		verr.Add(name, "ensure this field has no more than 200 characters")
	}
}

// nullableText maps an optional payload string onto a nullable column:
// null and "" both clear the value.
func nullableText(f Field[string]) *string {
	if f.Null || f.Value == "" {
		return nil
	}
	v := f.Value
	return &v
}
