package identity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shipway/pkg/errors"
)

// fakeRunner returns canned output per command line
func fakeRunner(outputs map[string]string) runner {
	return func(name string, args ...string) (string, error) {
		key := name
		for _, arg := range args {
			key += " " + arg
		}
		out, ok := outputs[key]
		if !ok {
			return "", fmt.Errorf("exit status 2")
		}
		return out, nil
	}
}

func TestGetentLookup(t *testing.T) {
	r := &GetentResolver{run: fakeRunner(map[string]string{
		"getent passwd deploy": "deploy:x:1042:1042:Deploy User:/home/deploy:/bin/bash",
		"getent group staff":   "staff:x:50:deploy,other",
	})}

	creds, err := r.Lookup("deploy", "staff")
	require.NoError(t, err)

	assert.Equal(t, 1042, creds.UID)
	assert.Equal(t, 50, creds.GID)
	assert.Equal(t, "deploy", creds.User)
	assert.Equal(t, "staff", creds.Group)
	assert.Equal(t, "deploy:staff", creds.String())
}

func TestGetentUserNotFound(t *testing.T) {
	r := &GetentResolver{run: fakeRunner(nil)}

	_, err := r.Lookup("ghost", "staff")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUserLookup))
}

func TestGetentGroupNotFound(t *testing.T) {
	r := &GetentResolver{run: fakeRunner(map[string]string{
		"getent passwd deploy": "deploy:x:1042:1042::/home/deploy:/bin/bash",
	})}

	_, err := r.Lookup("deploy", "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGroupLookup))
}

func TestParsePasswdEntry(t *testing.T) {
	uid, err := parsePasswdEntry("www-data:x:33:33:www-data:/var/www:/usr/sbin/nologin")
	require.NoError(t, err)
	assert.Equal(t, 33, uid)

	_, err = parsePasswdEntry("garbage")
	require.Error(t, err)

	_, err = parsePasswdEntry("user:x:notanumber:33::/home:/bin/sh")
	require.Error(t, err)
}

func TestParseGroupEntry(t *testing.T) {
	gid, err := parseGroupEntry("adm:x:4:syslog")
	require.NoError(t, err)
	assert.Equal(t, 4, gid)

	_, err = parseGroupEntry("short")
	require.Error(t, err)
}

func TestDsclLookup(t *testing.T) {
	r := &DsclResolver{run: fakeRunner(map[string]string{
		"dscl . -read /Users/deploy UniqueID":       "UniqueID: 501",
		"dscl . -read /Groups/staff PrimaryGroupID": "PrimaryGroupID: 20",
	})}

	creds, err := r.Lookup("deploy", "staff")
	require.NoError(t, err)

	assert.Equal(t, 501, creds.UID)
	assert.Equal(t, 20, creds.GID)
}

func TestDsclUserNotFound(t *testing.T) {
	r := &DsclResolver{run: fakeRunner(nil)}

	_, err := r.Lookup("ghost", "staff")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUserLookup))
}

func TestParseDsclAttribute(t *testing.T) {
	id, err := parseDsclAttribute("UniqueID: 501", "UniqueID", errors.ErrUserLookup)
	require.NoError(t, err)
	assert.Equal(t, 501, id)

	// Multi-line output with unrelated attributes
	id, err = parseDsclAttribute("RecordName: staff\nPrimaryGroupID: 20\n", "PrimaryGroupID", errors.ErrGroupLookup)
	require.NoError(t, err)
	assert.Equal(t, 20, id)

	_, err = parseDsclAttribute("RecordName: staff", "PrimaryGroupID", errors.ErrGroupLookup)
	require.Error(t, err)

	_, err = parseDsclAttribute("UniqueID: many", "UniqueID", errors.ErrUserLookup)
	require.Error(t, err)
}

func TestNewResolverForPlatform(t *testing.T) {
	assert.IsType(t, &DsclResolver{}, newResolverFor("darwin"))
	assert.IsType(t, &GetentResolver{}, newResolverFor("linux"))
	assert.IsType(t, &GetentResolver{}, newResolverFor("freebsd"))
}
