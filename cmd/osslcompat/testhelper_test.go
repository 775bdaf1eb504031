package main

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// executeCommand executes a new root command with the given args and returns
// its standard output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeCommandWithInput(t, nil, args...)
	return stdout, err
}

// executeCommandWithInput is like executeCommand, but it uses stdin as the
// command input and returns the standard error too.
func executeCommandWithInput(t *testing.T, stdin []byte, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv(configEnv, "")

	root := newRootCmd()
	outBuf, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(outBuf)
	root.SetErr(errBuf)
	root.SetIn(bytes.NewReader(stdin))
	root.SetArgs(args)

	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeTempFile writes content to name in a temporary directory and returns
// its path.
func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// outputLines splits the output of a command in lines.
func outputLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func mustCertificate(t *testing.T) *x509.Certificate {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "osslcompat"},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, priv)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}
