// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts host-authored markdown into sanitized HTML for
// property descriptions and notification bodies.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// descriptionPolicy allows the safe subset of user-generated HTML while
// stripping scripts and event handlers. Hosts write descriptions, so the
// output is untrusted.
var descriptionPolicy = bluemonday.UGCPolicy()

// Markdown converts markdown source to sanitized HTML.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return descriptionPolicy.Sanitize(buf.String()), nil
}

// PlainText strips all HTML from s. Used for meta descriptions and mail
// bodies built from rich descriptions.
func PlainText(s string) string {
	return bluemonday.StrictPolicy().Sanitize(s)
}
