package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// EdgeEngineConfig holds configuration for the edge-tts CLI backend.
type EdgeEngineConfig struct {
	BinPath string // default: "edge-tts"
}

// EdgeEngine synthesizes speech by shelling out to an edge-tts compatible
// binary, one process per request.
type EdgeEngine struct {
	cfg EdgeEngineConfig
}

// NewEdgeEngine creates an EdgeEngine backed by a local edge-tts binary.
func NewEdgeEngine(cfg EdgeEngineConfig) *EdgeEngine {
	if cfg.BinPath == "" {
		cfg.BinPath = "edge-tts"
	}
	return &EdgeEngine{cfg: cfg}
}

func (e *EdgeEngine) Name() string { return "edge-tts" }

// Synthesize runs the binary and leaves an MP3 at req.OutputPath.
func (e *EdgeEngine) Synthesize(ctx context.Context, req SynthesisRequest) error {
	if req.Text == "" {
		return fmt.Errorf("%s: no text to synthesize", e.Name())
	}

	// Rate values may begin with '-', so they must be passed as a single
	// --flag=value token or the CLI parses them as an option.
	args := []string{
		"--text", req.Text,
		"--write-media", req.OutputPath,
	}
	if req.Voice != "" {
		args = append(args, "--voice", req.Voice)
	}
	if req.Rate != "" {
		args = append(args, "--rate="+req.Rate)
	}

	cmd := exec.CommandContext(ctx, e.cfg.BinPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s failed: %w (stderr: %s)", e.Name(), err, stderr.String())
	}
	return nil
}
