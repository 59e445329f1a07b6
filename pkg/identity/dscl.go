package identity

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/shipway/pkg/errors"
)

// DsclResolver resolves users and groups through dscl(1) on Darwin.
type DsclResolver struct {
	run runner
}

// NewDsclResolver creates a dscl-backed resolver
func NewDsclResolver() *DsclResolver {
	return &DsclResolver{run: runCommand}
}

// Lookup resolves the user's UniqueID and the group's PrimaryGroupID
// from the local directory service.
func (r *DsclResolver) Lookup(user, group string) (Credentials, error) {
	userOut, err := r.run("dscl", ".", "-read", "/Users/"+user, "UniqueID")
	if err != nil {
		return Credentials{}, errors.Wrapf(err, errors.ErrUserLookup, "user %q not found", user)
	}
	uid, err := parseDsclAttribute(userOut, "UniqueID", errors.ErrUserLookup)
	if err != nil {
		return Credentials{}, err
	}

	groupOut, err := r.run("dscl", ".", "-read", "/Groups/"+group, "PrimaryGroupID")
	if err != nil {
		return Credentials{}, errors.Wrapf(err, errors.ErrGroupLookup, "group %q not found", group)
	}
	gid, err := parseDsclAttribute(groupOut, "PrimaryGroupID", errors.ErrGroupLookup)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{User: user, Group: group, UID: uid, GID: gid}, nil
}

// parseDsclAttribute extracts a numeric attribute from dscl output of the
// form "AttributeName: value".
func parseDsclAttribute(output, attribute string, code errors.ErrorCode) (int, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, attribute+":") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, attribute+":"))
		id, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.Wrapf(err, code, "malformed %s in dscl output: %q", attribute, line)
		}
		return id, nil
	}
	return 0, errors.Newf(code, "%s not found in dscl output: %q", attribute, output)
}
