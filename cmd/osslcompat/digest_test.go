package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.step.sm/osslcompat/digest"
)

func TestDigestCmd(t *testing.T) {
	file := writeTempFile(t, "hello.txt", []byte("hello"))
	config := writeTempFile(t, "config.yaml", []byte("digest: md5\n"))

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"stdin default", "hello", []string{"digest"},
			"SHA-256(stdin)= 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824\n"},
		{"stdin md5", "hello", []string{"digest", "--md", "md5"},
			"MD5(stdin)= 5d41402abc4b2a76b9719d911017c592\n"},
		{"stdin dash", "hello", []string{"digest", "--md", "Digest::SHA1", "-"},
			"SHA-1(stdin)= aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d\n"},
		{"file", "", []string{"digest", "--md", "OpenSSL::Digest::SHA256", file},
			"SHA-256(" + file + ")= 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824\n"},
		{"files", "", []string{"digest", "--md", "md5", file, file},
			"MD5(" + file + ")= 5d41402abc4b2a76b9719d911017c592\n" +
				"MD5(" + file + ")= 5d41402abc4b2a76b9719d911017c592\n"},
		{"empty", "", []string{"digest", "--md", "sha256"},
			"SHA-256(stdin)= e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855\n"},
		{"config", "hello", []string{"digest", "--config", config},
			"MD5(stdin)= 5d41402abc4b2a76b9719d911017c592\n"},
		{"flag over config", "hello", []string{"digest", "--config", config, "--md", "DSS1"},
			"SHA-1(stdin)= aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := executeCommandWithInput(t, []byte(tt.stdin), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDigestCmd_names(t *testing.T) {
	got, err := executeCommand(t, "digest", "--names", "SHA256", "DSS1", "Digest::SHA384", "RIPEMD160", "foo")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SHA256\tSHA-256\tblock=64\tsupported",
		"DSS1\tSHA-1\tblock=64\tsupported",
		"Digest::SHA384\tSHA-384\tblock=128\tsupported",
		"RIPEMD160\tRIPEMD160\tblock=unavailable\tsupported",
		"foo\tfoo\tblock=unavailable\tunsupported",
	}, outputLines(got))

	_, err = executeCommand(t, "digest", "--names")
	assert.Error(t, err)
}

func TestDigestCmd_list(t *testing.T) {
	got, err := executeCommand(t, "digest", "--list")
	require.NoError(t, err)
	lines := outputLines(got)
	assert.Len(t, lines, len(digest.Supported()))
	assert.Contains(t, lines, "SHA-256\tsize=32\tblock=64")
	assert.Contains(t, lines, "SHA-512\tsize=64\tblock=128")
	assert.Contains(t, lines, "MD5\tsize=16\tblock=64")
}

func TestDigestCmd_errors(t *testing.T) {
	_, err := executeCommand(t, "digest", "--md", "foo")
	assert.ErrorIs(t, err, digest.ErrUnsupportedAlgorithm)

	_, err = executeCommand(t, "digest", t.TempDir()+"/missing.txt")
	assert.Error(t, err)

	bad := writeTempFile(t, "config.yaml", []byte("digest: foo\n"))
	_, err = executeCommand(t, "digest", "--config", bad)
	assert.Error(t, err)
}
