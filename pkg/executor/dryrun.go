package executor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shipway/pkg/identity"
	"github.com/arthur-debert/shipway/pkg/logging"
)

// DryRun is the Executor that prints the equivalent shell commands
// instead of performing them. It never creates, modifies, or deletes
// any filesystem entry.
type DryRun struct {
	out    io.Writer
	logger zerolog.Logger
}

// NewDryRun creates a dry-run executor writing to out. A nil writer
// defaults to standard output.
func NewDryRun(out io.Writer) *DryRun {
	if out == nil {
		out = os.Stdout
	}
	return &DryRun{
		out:    out,
		logger: logging.GetLogger("executor.dryrun"),
	}
}

func (e *DryRun) CreateDir(path string, owner identity.Credentials, mode os.FileMode) error {
	fmt.Fprintf(e.out, "mkdir -p %s\n", path)
	return e.OwnPath(path, owner, mode)
}

func (e *DryRun) OwnPath(path string, owner identity.Credentials, mode os.FileMode) error {
	fmt.Fprintf(e.out, "chown %s %s\n", owner, path)
	fmt.Fprintf(e.out, "chmod %o %s\n", mode, path)
	return nil
}

func (e *DryRun) WriteFile(path string, data []byte, owner identity.Credentials, mode os.FileMode) error {
	fmt.Fprintf(e.out, "# write %d bytes to %s\n", len(data), path)
	return e.OwnPath(path, owner, mode)
}

func (e *DryRun) Symlink(target, link string) error {
	fmt.Fprintf(e.out, "ln -sfn %s %s\n", target, link)
	return nil
}

func (e *DryRun) ExtractArchive(src, dest string) error {
	fmt.Fprintf(e.out, "tar -xzf %s -C %s\n", src, dest)
	return nil
}

func (e *DryRun) Run(name string, args ...string) error {
	if len(args) == 0 {
		fmt.Fprintf(e.out, "%s\n", name)
		return nil
	}
	fmt.Fprintf(e.out, "%s %s\n", name, strings.Join(args, " "))
	return nil
}
