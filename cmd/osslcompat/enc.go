package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.step.sm/osslcompat/evp"
)

type encFlags struct {
	decrypt bool
	cipher  string
	in      string
	out     string
	pass    string
	md      string
	iter    int
	pbkdf2  bool
	noSalt  bool
	salt    string
	base64  bool
}

func newEncCmd(a *app) *cobra.Command {
	var f encFlags
	cmd := &cobra.Command{
		Use:   "enc",
		Short: "Encrypt or decrypt files like openssl enc",
		Long: `Encrypt or decrypt data in the format of openssl enc:

  "Salted__" || salt || ciphertext

The key and iv are derived from the password with EVP_BytesToKey, or with
PBKDF2 if --pbkdf2 is set. Files created by OpenSSL < 1.1.0 use --md md5.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cipherName, err := f.options(cmd, a.cfg)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, f.in)
			if err != nil {
				return err
			}

			pass, err := readPasswordArg(f.pass, "enter "+cipherName+" password: ", !f.decrypt)
			if err != nil {
				return err
			}
			defer clear(pass)

			var out []byte
			if f.decrypt {
				if f.base64 {
					if data, err = decodeBase64(data); err != nil {
						return err
					}
				}
				a.logger.Debug("decrypting", "cipher", cipherName, "bytes", len(data))
				if out, err = evp.Decrypt(cipherName, pass, data, opts...); err != nil {
					return err
				}
			} else {
				a.logger.Debug("encrypting", "cipher", cipherName, "bytes", len(data))
				if out, err = evp.Encrypt(cipherName, pass, data, opts...); err != nil {
					return err
				}
				if f.base64 {
					out = encodeBase64(out)
				}
			}
			return writeOutput(cmd, f.out, out)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&f.decrypt, "decrypt", "d", false, "Decrypt the input")
	flags.StringVar(&f.cipher, "cipher", "AES-256-CBC", "Cipher name")
	flags.StringVar(&f.in, "in", stdinFilename, "Input file")
	flags.StringVar(&f.out, "out", stdinFilename, "Output file")
	flags.StringVar(&f.pass, "pass", "", "Password source: pass:<password>, env:<var> or file:<path>")
	flags.StringVar(&f.md, "md", evp.DefaultDigest, "Digest used by the key derivation")
	flags.IntVar(&f.iter, "iter", 0, "Iteration count of the key derivation")
	flags.BoolVar(&f.pbkdf2, "pbkdf2", false, "Use PBKDF2 to derive the key and iv")
	flags.BoolVar(&f.noSalt, "nosalt", false, "Do not use a salt")
	flags.StringVar(&f.salt, "salt", "", "Salt in hex, 8 bytes")
	flags.BoolVarP(&f.base64, "base64", "a", false, "Base64 encode the output or decode the input")
	return cmd
}

// options returns the evp options and the cipher name of the flags. Flags
// that are not set on the command line take their value from cfg.
func (f *encFlags) options(cmd *cobra.Command, cfg *Config) ([]evp.Option, string, error) {
	flags := cmd.Flags()

	cipherName := f.cipher
	if !flags.Changed("cipher") {
		cipherName = cfg.Cipher
	}
	md := f.md
	if !flags.Changed("md") {
		md = cfg.Digest
	}
	iter := f.iter
	if !flags.Changed("iter") {
		iter = cfg.Iterations
	}
	usePBKDF2 := f.pbkdf2 || (!flags.Changed("pbkdf2") && cfg.PBKDF2)

	opts := []evp.Option{evp.WithDigest(md)}
	if iter != 0 {
		opts = append(opts, evp.WithIterations(iter))
	}
	if usePBKDF2 {
		opts = append(opts, evp.WithPBKDF2())
	}

	switch {
	case f.noSalt && f.salt != "":
		return nil, "", errors.New("flags --salt and --nosalt are mutually exclusive")
	case f.noSalt:
		opts = append(opts, evp.WithNoSalt())
	case f.salt != "":
		if f.decrypt {
			return nil, "", errors.New("flag --salt cannot be used with --decrypt")
		}
		salt, err := hex.DecodeString(f.salt)
		if err != nil {
			return nil, "", errors.Wrap(err, "error decoding --salt")
		}
		opts = append(opts, evp.WithSalt(salt))
	}

	return opts, cipherName, nil
}

// encodeBase64 wraps lines at 64 characters like openssl enc -a.
func encodeBase64(b []byte) []byte {
	s := base64.StdEncoding.EncodeToString(b)
	var buf bytes.Buffer
	for len(s) > 64 {
		buf.WriteString(s[:64])
		buf.WriteByte('\n')
		s = s[64:]
	}
	buf.WriteString(s)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func decodeBase64(b []byte) ([]byte, error) {
	clean := bytes.Join(bytes.Fields(b), nil)
	out := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(out, clean)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding base64 input")
	}
	return out[:n], nil
}
