package resume

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFile = "resume_config.yaml"
	OutputFile = "resume.pdf"
)

// Builder renders a PDF resume with an external resumy binary.
type Builder struct {
	Command string
	Theme   string
	Dir     string
	Logger  zerolog.Logger
}

// WriteConfig writes the resume document for profile and returns its path.
func (b Builder) WriteConfig(profile models.Profile) (string, error) {
	dir := b.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(Document(profile))
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ConfigFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Build writes the config and runs `resumy build -o resume.pdf --theme
// <theme> resume_config.yaml` in Dir.
func (b Builder) Build(ctx context.Context, profile models.Profile) (string, error) {
	if _, err := b.WriteConfig(profile); err != nil {
		return "", err
	}
	command := b.Command
	if command == "" {
		command = "resumy"
	}
	args := []string{"build", "-o", OutputFile}
	if b.Theme != "" {
		args = append(args, "--theme", b.Theme)
	}
	args = append(args, ConfigFile)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = b.dir()
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("build resume: %w: %s", err, strings.TrimSpace(string(out)))
	}
	path := filepath.Join(b.dir(), OutputFile)
	b.Logger.Info().Str("path", path).Msg("resume built")
	return path, nil
}

func (b Builder) dir() string {
	if b.Dir == "" {
		return "."
	}
	return b.Dir
}
