// Package uploader invokes the external upload tool (by default
// `twine upload`) against the files in the distribution directory. The glob
// is expanded here, never by a shell, so an empty dist directory is a
// deterministic local failure instead of tool-dependent behavior.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"time"

	"git.home.luguber.info/inful/wheelwright/internal/buildtool"
	"git.home.luguber.info/inful/wheelwright/internal/logfields"
	"git.home.luguber.info/inful/wheelwright/internal/workspace"
)

// ErrNoArtifacts is returned when the dist glob matches nothing.
var ErrNoArtifacts = errors.New("no artifacts matched in dist directory")

// Uploader runs the upload tool over the matched dist files.
type Uploader struct {
	Workspace     *workspace.Manager
	Command       []string // argv, e.g. ["twine", "upload"]
	Glob          string   // pattern under the dist directory
	RepositoryURL string   // optional --repository-url value
	SkipExisting  bool     // pass --skip-existing
	Timeout       time.Duration
	Env           []string // extra KEY=VALUE entries; credentials stay out of logs
	Stdout        io.Writer
	Stderr        io.Writer
}

// Expand resolves the dist glob to the sorted list of files to upload.
func (u *Uploader) Expand() ([]string, error) {
	files, err := u.Workspace.DistEntries(u.Glob)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w (dir %s, glob %q)", ErrNoArtifacts, u.Workspace.DistPath(), u.Glob)
	}
	sort.Strings(files)
	return files, nil
}

// Argv builds the full upload command line for the given files.
func (u *Uploader) Argv(files []string) []string {
	argv := make([]string, 0, len(u.Command)+len(files)+3)
	argv = append(argv, u.Command...)
	if u.RepositoryURL != "" {
		argv = append(argv, "--repository-url", u.RepositoryURL)
	}
	if u.SkipExisting {
		argv = append(argv, "--skip-existing")
	}
	return append(argv, files...)
}

// Run expands the glob and invokes the upload tool. Authentication,
// duplicate-version rejection, and network failures are all surfaced through
// the tool's exit status and console output.
func (u *Uploader) Run(ctx context.Context) error {
	if len(u.Command) == 0 {
		return fmt.Errorf("upload command not configured")
	}

	files, err := u.Expand()
	if err != nil {
		return err
	}

	if u.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}

	argv := u.Argv(files)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = u.Stdout
	cmd.Stderr = u.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(u.Env) > 0 {
		cmd.Env = append(os.Environ(), u.Env...)
	}

	slog.Info("Uploading distribution artifacts",
		logfields.Command(buildtool.CommandString(u.Command)),
		logfields.Count(len(files)))
	for _, file := range files {
		slog.Debug("Artifact queued for upload", logfields.Artifact(file))
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("upload command %q timed out after %s", buildtool.CommandString(u.Command), u.Timeout)
		}
		return fmt.Errorf("upload command %q failed: %w", buildtool.CommandString(u.Command), err)
	}

	slog.Info("Upload completed", logfields.Count(len(files)))
	return nil
}
