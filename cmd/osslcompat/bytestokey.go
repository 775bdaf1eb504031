package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.step.sm/osslcompat/digest"
	"go.step.sm/osslcompat/evp"
	"go.step.sm/osslcompat/randutil"
)

type bytesToKeyFlags struct {
	cipher string
	md     string
	salt   string
	noSalt bool
	iter   int
	pass   string
	pkcs5  bool
	keyLen int
	ivLen  int
}

func newBytesToKeyCmd(a *app) *cobra.Command {
	var f bytesToKeyFlags
	cmd := &cobra.Command{
		Use:   "bytestokey",
		Short: "Print the key and iv derived by EVP_BytesToKey",
		Long: `Derive a key and an iv from a password with EVP_BytesToKey and print them
like openssl enc -P.

The key and iv lengths are the ones of --cipher, unless --key-len or --iv-len
are set. A random salt is used if --salt and --nosalt are not set.

With --pkcs5 the derivation of Cipher#pkcs5_keyivgen is used: MD5 and 2048
iterations unless --md and --iter are set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cipherName := f.cipher
			if !flags.Changed("cipher") {
				cipherName = a.cfg.Cipher
			}
			c, err := evp.LookupCipher(cipherName)
			if err != nil {
				return err
			}

			var salt []byte
			switch {
			case f.noSalt && f.salt != "":
				return errors.New("flags --salt and --nosalt are mutually exclusive")
			case f.salt != "":
				if salt, err = hex.DecodeString(f.salt); err != nil {
					return errors.Wrap(err, "error decoding --salt")
				}
				if len(salt) > evp.SaltSize {
					return errors.Errorf("flag --salt must be at most %d bytes", evp.SaltSize)
				}
			case !f.noSalt:
				salt = randutil.Salt(evp.SaltSize)
			}

			pass, err := readPasswordArg(f.pass, "Enter password: ", false)
			if err != nil {
				return err
			}
			defer clear(pass)

			var key, iv []byte
			if f.pkcs5 {
				md := f.md
				if !flags.Changed("md") {
					md = ""
				}
				key, iv, err = evp.PKCS5KeyIVGen(c, pass, salt, f.iter, md)
			} else {
				key, iv, err = deriveBytesToKey(a, flags.Changed("md"), &f, c, salt, pass)
			}
			if err != nil {
				return err
			}
			defer clear(key)

			a.logger.Debug("key derived", "cipher", c.Name, "key-len", len(key), "iv-len", len(iv))
			out := cmd.OutOrStdout()
			if salt != nil {
				fmt.Fprintf(out, "salt=%s\n", upperHex(salt))
			}
			fmt.Fprintf(out, "key=%s\n", upperHex(key))
			if len(iv) > 0 {
				fmt.Fprintf(out, "iv =%s\n", upperHex(iv))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.cipher, "cipher", "AES-256-CBC", "Cipher that sets the key and iv lengths")
	flags.StringVar(&f.md, "md", evp.DefaultDigest, "Digest used by the key derivation")
	flags.StringVar(&f.salt, "salt", "", "Salt in hex, 8 bytes")
	flags.BoolVar(&f.noSalt, "nosalt", false, "Do not use a salt")
	flags.IntVar(&f.iter, "iter", 0, "Iteration count, 1 by default")
	flags.StringVar(&f.pass, "pass", "", "Password source: pass:<password>, env:<var> or file:<path>")
	flags.BoolVar(&f.pkcs5, "pkcs5", false, "Use the defaults of Cipher#pkcs5_keyivgen")
	flags.IntVar(&f.keyLen, "key-len", -1, "Key length in bytes")
	flags.IntVar(&f.ivLen, "iv-len", -1, "IV length in bytes")
	return cmd
}

func deriveBytesToKey(a *app, mdChanged bool, f *bytesToKeyFlags, c *evp.Cipher, salt, pass []byte) (key, iv []byte, err error) {
	label := f.md
	if !mdChanged {
		label = a.cfg.Digest
	}
	md, err := digest.New(label)
	if err != nil {
		return nil, nil, err
	}

	keyLen, ivLen := c.KeyLen, c.IVLen
	if f.keyLen >= 0 {
		keyLen = f.keyLen
	}
	if f.ivLen >= 0 {
		ivLen = f.ivLen
	}

	count := f.iter
	if count == 0 {
		count = max(a.cfg.Iterations, 1)
	}
	return evp.BytesToKey(keyLen, ivLen, md, salt, pass, count)
}

func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
