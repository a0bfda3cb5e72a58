package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PathResolver finds runtime directories relative to the binary, the
// working directory and the user config directory.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver creates a resolver for the running executable.
// configDir may be empty.
func NewPathResolver(configDir string) (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}
	pr := &PathResolver{executableDir: filepath.Dir(execPath), configDir: configDir}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, configDir)
	return pr, nil
}

// Candidates lists the places a relative dir is looked up, in order of preference:
// the path itself when absolute, next to the executable, the working
// directory, then the config directory.
func (pr *PathResolver) Candidates(dir string) []string {
	if filepath.IsAbs(dir) {
		return []string{dir}
	}
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, dir))
	}
	candidates = append(candidates, filepath.Join(pr.executableDir, dir))
	if pr.configDir != "" {
		candidates = append(candidates, filepath.Join(pr.configDir, dir))
	}
	return candidates
}

// FindDir returns the first candidate for dir holding at least one file
// accepted by valid. ok is false when none does; dir is then the most
// likely location for error reporting.
func (pr *PathResolver) FindDir(dir string, valid func(name string) bool) (string, bool) {
	candidates := pr.Candidates(dir)
	for _, path := range candidates {
		if hasFile(path, valid) {
			log.Debugf("Found directory: %s", path)
			return path, true
		}
		log.Debugf("Directory candidate not valid: %s", path)
	}
	return candidates[0], false
}

func hasFile(dir string, valid func(string) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && valid(e.Name()) {
			return true
		}
	}
	return false
}
