// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"regexp"
	"strings"
)

// urlIDPattern matches an arXiv URL anywhere inside a larger text:
// the domain, one of the abs/pdf/html path segments, and a
// 4-digit-dot-4-or-5-digit identifier with optional version suffix.
var urlIDPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf|html)/(\d{4}\.\d{4,5})(?:v\d+)?`)

// bareIDPattern matches a bare identifier ("1706.03762",
// "arXiv:1706.03762v2") as the entire input.
var bareIDPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// ExtractID scans text for an arXiv identifier and returns it with any
// version suffix stripped, or "" when no identifier is present. URL
// forms are found as substrings, so identifiers embedded in pasted
// paragraphs still match; bare identifiers must be the whole input.
// Callers evaluate this before the free-text search path: an
// identifier match always pre-empts search.
func ExtractID(text string) string {
	if m := urlIDPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bareIDPattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		return m[1]
	}
	return ""
}
