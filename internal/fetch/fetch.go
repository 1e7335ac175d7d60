package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"readmegen/internal/logger"
)

// runGitCommand is injectable in tests.
var runGitCommand = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// IsRemote reports whether spec names a repository to clone rather than
// a local directory.
func IsRemote(spec string) bool {
	return strings.HasPrefix(spec, "http://") ||
		strings.HasPrefix(spec, "https://") ||
		strings.HasPrefix(spec, "git@")
}

// Resolve returns a local directory holding the repository named by spec.
// Local paths are validated in place. Remote URLs are shallow-cloned under
// workDir; an existing clone is reused after a fast-forward pull attempt.
func Resolve(ctx context.Context, spec, workDir string, log logger.Logger) (string, error) {
	if !IsRemote(spec) {
		st, err := os.Stat(spec)
		if err != nil {
			return "", fmt.Errorf("fetch: %w", err)
		}
		if !st.IsDir() {
			return "", fmt.Errorf("fetch: %s is not a directory", spec)
		}
		return spec, nil
	}

	name, err := repoDirName(spec)
	if err != nil {
		return "", err
	}
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "readmegen")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("fetch: mkdir work dir: %w", err)
	}
	target := filepath.Join(workDir, name)

	if st, err := os.Stat(target); err == nil && st.IsDir() {
		log.Info("reusing clone at %s", target)
		if err := runGitCommand(ctx, "-C", target, "pull", "--ff-only"); err != nil {
			log.Warn("pull failed, keeping existing checkout: %v", err)
		}
		return target, nil
	}

	log.Info("cloning %s into %s", spec, target)
	if err := runGitCommand(ctx, "clone", "--depth", "1", spec, target); err != nil {
		return "", err
	}
	return target, nil
}

// repoDirName derives the checkout directory name from a clone spec.
func repoDirName(spec string) (string, error) {
	s := spec
	if strings.HasPrefix(s, "git@") {
		if i := strings.Index(s, ":"); i >= 0 {
			s = s[i+1:]
		}
	} else {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("fetch: invalid repository URL %q: %w", spec, err)
		}
		s = u.Path
	}
	s = strings.Trim(s, "/")
	s = strings.TrimSuffix(s, ".git")
	name := path.Base(s)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("fetch: cannot derive a directory name from %q", spec)
	}
	return name, nil
}
