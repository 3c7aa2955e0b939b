// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package generation

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// RenderPrompt renders a named embedded template with the request's
// fields. Unknown template names are a schema violation: the caller
// asked for a prompt this build does not carry.
func RenderPrompt(name string, fields map[string]string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name+".tmpl")
	if err != nil {
		return "", fmt.Errorf("%w: unknown prompt template %q", ErrSchemaViolation, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, fields); err != nil {
		return "", fmt.Errorf("%w: rendering %q: %v", ErrSchemaViolation, name, err)
	}
	return buf.String(), nil
}
