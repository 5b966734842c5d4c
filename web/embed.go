// Package web provides the embedded templates and static assets of the site.
package web

import "embed"

// TemplatesFS embeds all HTML templates from the templates directory.
//
//go:embed templates
var TemplatesFS embed.FS

// StaticFS embeds all static assets from the static directory.
//
//go:embed static
var StaticFS embed.FS
