package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/pkordes/boxlabel/internal/domain"
)

// qrPixels is the side length of the encoded QR PNG. Generous for a 25 mm
// print at 300 dpi.
const qrPixels = 512

// Renderer produces one printable PDF per box inside a working directory.
// Artifacts are kept after the run for troubleshooting; each box gets a
// unique basename so reruns never clobber earlier output.
type Renderer struct {
	size        Size
	workDir     string
	tagsEnabled bool

	// Compile runs the LaTeX engine on a .tex file inside dir. The default
	// shells out to lualatex; tests and dry runs substitute their own.
	Compile func(ctx context.Context, dir, texName string) error
}

// NewRenderer validates the label size and prepares the working directory.
// An empty workDir means a fresh temp directory for this run.
func NewRenderer(labelSize, workDir string, tagsEnabled bool) (*Renderer, error) {
	size, err := ParseSize(labelSize)
	if err != nil {
		return nil, err
	}
	if workDir == "" {
		workDir, err = os.MkdirTemp("", "boxlabel-*")
		if err != nil {
			return nil, fmt.Errorf("render.NewRenderer: %w", err)
		}
	} else if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("render.NewRenderer: %w", err)
	}
	return &Renderer{
		size:        size,
		workDir:     workDir,
		tagsEnabled: tagsEnabled,
		Compile:     compileLaTeX,
	}, nil
}

// WorkDir returns the directory artifacts are written to.
func (r *Renderer) WorkDir() string { return r.workDir }

// Render encodes the box's QR payload, writes the label document, compiles
// it, and returns the path of the resulting PDF.
func (r *Renderer) Render(ctx context.Context, box *domain.Box) (string, error) {
	base := uuid.NewString()
	payload := Payload(box, r.tagsEnabled)

	pngName := base + ".png"
	if err := qrcode.WriteFile(payload, qrcode.Medium, qrPixels, filepath.Join(r.workDir, pngName)); err != nil {
		return "", fmt.Errorf("render.Renderer.Render %s: encode qr: %w", box, err)
	}

	texName := base + ".tex"
	doc := Document(payload, pngName, r.size, r.tagsEnabled)
	if err := os.WriteFile(filepath.Join(r.workDir, texName), []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("render.Renderer.Render %s: write tex: %w", box, err)
	}

	if err := r.Compile(ctx, r.workDir, texName); err != nil {
		return "", fmt.Errorf("render.Renderer.Render %s: %w", box, err)
	}
	return filepath.Join(r.workDir, base+".pdf"), nil
}

// compileLaTeX invokes lualatex on texName inside dir. nonstopmode keeps a
// typesetting hiccup from hanging the run waiting for console input.
func compileLaTeX(ctx context.Context, dir, texName string) error {
	cmd := exec.CommandContext(ctx, "lualatex", "--interaction=nonstopmode", texName)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("lualatex %s: %w\n%s", texName, err, out)
	}
	return nil
}
