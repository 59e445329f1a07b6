// Package templates renders the configuration and script templates used
// during provisioning.
//
// Templates ship embedded in the binary. An override directory (the
// deploy tree's templates/ dir by default) takes precedence over a
// built-in template of the same name, so operators can customize the
// rendered scripts without rebuilding shipway.
package templates

import (
	"bytes"
	"embed"
	"io/fs"
	"text/template"

	"github.com/arthur-debert/shipway/pkg/errors"
	"github.com/arthur-debert/shipway/pkg/types"
)

//go:embed embedded/*.tmpl
var builtins embed.FS

// templateExt is appended to template names on disk
const templateExt = ".tmpl"

// Renderer resolves and renders named templates
type Renderer struct {
	overrideDir string
	fs          types.FS
}

// New creates a renderer. overrideDir may be empty to disable overrides;
// fsys is used only to read override templates.
func New(overrideDir string, fsys types.FS) *Renderer {
	return &Renderer{overrideDir: overrideDir, fs: fsys}
}

// Render produces the text of the named template with the given
// variables. A missing template, a parse failure, or a variable the
// mapping does not provide are all template errors.
func (r *Renderer) Render(name string, vars map[string]string) (string, error) {
	src, err := r.source(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "template %s has a syntax error", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "failed to render template %s", name)
	}

	return buf.String(), nil
}

// source returns the template text, preferring the override directory
// over the built-in set.
func (r *Renderer) source(name string) ([]byte, error) {
	if r.overrideDir != "" && r.fs != nil {
		override := r.overridePath(name)
		if _, err := r.fs.Stat(override); err == nil {
			data, err := r.fs.ReadFile(override)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrTemplateNotFound, "cannot read template override %s", override)
			}
			return data, nil
		}
	}

	data, err := fs.ReadFile(builtins, "embedded/"+name+templateExt)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateNotFound, "no template named %s", name)
	}
	return data, nil
}

func (r *Renderer) overridePath(name string) string {
	return r.overrideDir + "/" + name + templateExt
}
