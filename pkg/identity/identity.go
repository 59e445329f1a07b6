// Package identity resolves OS user and group names to numeric ids.
//
// The platform-specific lookup tools (getent on Linux, dscl on Darwin)
// are modeled as two Resolver implementations; the right one is picked
// once at startup from the detected platform.
package identity

import (
	"bytes"
	"os/exec"
	"runtime"
	"strings"
)

// Credentials carries the resolved ownership for filesystem operations.
// User and Group keep the configured names so dry-run output can print
// them; UID and GID are the resolved numeric ids used for real chown
// calls.
type Credentials struct {
	User  string
	Group string
	UID   int
	GID   int
}

// String renders the "user:group" form used by chown
func (c Credentials) String() string {
	return c.User + ":" + c.Group
}

// Resolver looks up user and group names on the local system
type Resolver interface {
	// Lookup resolves a user and group name to credentials. A missing
	// user or group is a fatal lookup error.
	Lookup(user, group string) (Credentials, error)
}

// runner invokes a lookup tool and returns its standard output.
// Injected so parsers can be tested without the real binaries.
type runner func(name string, args ...string) (string, error)

// NewResolver returns the resolver for the current platform
func NewResolver() Resolver {
	return newResolverFor(runtime.GOOS)
}

func newResolverFor(goos string) Resolver {
	switch goos {
	case "darwin":
		return &DsclResolver{run: runCommand}
	default:
		return &GetentResolver{run: runCommand}
	}
}

func runCommand(name string, args ...string) (string, error) {
	var stdout bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}
