package render

import (
	"fmt"
	"path/filepath"

	"mlrig/internal/fsutil"
	"mlrig/internal/logging"
)

// Renderer writes rendered templates into an output directory. Each render is
// a single-pass stateless transformation; destination files are fully
// regenerated and overwritten without merging. Writes are atomic, so a failed
// render never leaves a partial artifact.
type Renderer struct {
	outputDir string
	logger    *logging.Logger
}

// NewRenderer creates a renderer targeting the given output directory
func NewRenderer(outputDir string, logger *logging.Logger) *Renderer {
	return &Renderer{
		outputDir: outputDir,
		logger:    logger,
	}
}

// OutputPath returns the destination path a template renders to
func (r *Renderer) OutputPath(tmpl Template) string {
	return filepath.Join(r.outputDir, tmpl.OutputFile)
}

// Render validates and substitutes the template, then writes the artifact.
// A TemplateError aborts before anything touches the filesystem; a write
// failure surfaces as a wrapped I/O error.
func (r *Renderer) Render(tmpl Template, fields Fields) error {
	content, err := RenderTemplate(tmpl, fields)
	if err != nil {
		r.logger.Error("render.template.error", "Template rendering failed", map[string]interface{}{
			"template": tmpl.Name,
			"error":    err.Error(),
		})
		return err
	}

	if err := fsutil.EnsureDirectory(r.outputDir); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name, err)
	}

	path := r.OutputPath(tmpl)
	if err := fsutil.AtomicWriteFile(path, []byte(content), tmpl.Mode, r.logger); err != nil {
		r.logger.Error("render.write.error", "Failed to write artifact", map[string]interface{}{
			"template": tmpl.Name,
			"path":     path,
			"error":    err.Error(),
		})
		return fmt.Errorf("render %s: %w", tmpl.Name, err)
	}

	r.logger.Info("render.done", "Artifact written", map[string]interface{}{
		"template": tmpl.Name,
		"path":     path,
	})

	return nil
}
