package identity

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/shipway/pkg/errors"
)

// GetentResolver resolves users and groups through getent(1).
// Used on Linux and other platforms with an NSS database.
type GetentResolver struct {
	run runner
}

// NewGetentResolver creates a getent-backed resolver
func NewGetentResolver() *GetentResolver {
	return &GetentResolver{run: runCommand}
}

// Lookup resolves the user and group via "getent passwd" and
// "getent group".
func (r *GetentResolver) Lookup(user, group string) (Credentials, error) {
	passwdOut, err := r.run("getent", "passwd", user)
	if err != nil {
		return Credentials{}, errors.Wrapf(err, errors.ErrUserLookup, "user %q not found", user)
	}
	uid, err := parsePasswdEntry(passwdOut)
	if err != nil {
		return Credentials{}, err
	}

	groupOut, err := r.run("getent", "group", group)
	if err != nil {
		return Credentials{}, errors.Wrapf(err, errors.ErrGroupLookup, "group %q not found", group)
	}
	gid, err := parseGroupEntry(groupOut)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{User: user, Group: group, UID: uid, GID: gid}, nil
}

// parsePasswdEntry extracts the uid from a passwd(5) line
// ("name:x:uid:gid:gecos:home:shell").
func parsePasswdEntry(line string) (int, error) {
	fields := strings.Split(strings.TrimSpace(line), ":")
	if len(fields) < 3 {
		return 0, errors.Newf(errors.ErrUserLookup, "malformed passwd entry: %q", line)
	}
	uid, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrUserLookup, "malformed uid in passwd entry: %q", line)
	}
	return uid, nil
}

// parseGroupEntry extracts the gid from a group(5) line
// ("name:x:gid:members").
func parseGroupEntry(line string) (int, error) {
	fields := strings.Split(strings.TrimSpace(line), ":")
	if len(fields) < 3 {
		return 0, errors.Newf(errors.ErrGroupLookup, "malformed group entry: %q", line)
	}
	gid, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrGroupLookup, "malformed gid in group entry: %q", line)
	}
	return gid, nil
}
