package main

import (
	"crypto/rand"
	"encoding/pem"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.step.sm/osslcompat/digest"
	"go.step.sm/osslcompat/fingerprint"
	"go.step.sm/osslcompat/pemutil"
)

type derFlags struct {
	in      string
	out     string
	passIn  string
	passOut string
	pemType string
	encrypt string
	fpMD    string
	fpEnc   string
}

func newDERCmd(a *app) *cobra.Command {
	var f derFlags
	cmd := &cobra.Command{
		Use:   "der",
		Short: "Convert PEM or DER input to DER",
		Long: `Read a PEM or DER input and write the DER bytes it contains.

If the input holds PEM blocks the first one is used, anything else is taken
as DER as is. A block encrypted with the legacy "Proc-Type: 4,ENCRYPTED"
headers is decrypted with --passin.

With --pem the output is armored again using the given block type, and with
--encrypt it is also encrypted with the given cipher and --passout.

With --fingerprint only the fingerprint of the DER bytes is printed, like
openssl x509 -noout -fingerprint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.encrypt != "" && f.pemType == "" {
				return errors.New("flag --encrypt requires --pem")
			}

			var in pemutil.Input
			if f.in == "" || f.in == stdinFilename {
				in = pemutil.InputFromReader(cmd.InOrStdin())
			} else {
				b, err := readInput(cmd, f.in)
				if err != nil {
					return err
				}
				in = pemutil.InputFromBytes(b)
			}

			der, err := pemutil.NormalizeDecrypt(in, func(msg string) ([]byte, error) {
				a.logger.Debug("input is encrypted")
				return readPasswordArg(f.passIn, msg, false)
			})
			if err != nil {
				return err
			}

			if f.fpMD != "" {
				return printFingerprint(cmd, f.fpMD, f.fpEnc, der)
			}
			if f.pemType == "" {
				return writeOutput(cmd, f.out, der)
			}

			block := &pem.Block{Type: f.pemType, Bytes: der}
			if f.encrypt != "" {
				pass, err := readPasswordArg(f.passOut, "Enter PEM pass phrase:", true)
				if err != nil {
					return err
				}
				defer clear(pass)
				if block, err = pemutil.EncryptPEMBlock(rand.Reader, f.pemType, der, pass, f.encrypt); err != nil {
					return err
				}
			}
			return writeOutput(cmd, f.out, pem.EncodeToMemory(block))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.in, "in", stdinFilename, "Input file")
	flags.StringVar(&f.out, "out", stdinFilename, "Output file")
	flags.StringVar(&f.passIn, "passin", "", "Password source of an encrypted input")
	flags.StringVar(&f.passOut, "passout", "", "Password source used with --encrypt")
	flags.StringVar(&f.pemType, "pem", "", "Write a PEM block of the given type instead of DER")
	flags.StringVar(&f.encrypt, "encrypt", "", "Encrypt the PEM output with the given cipher")
	flags.StringVar(&f.fpMD, "fingerprint", "", "Print the fingerprint using the given digest")
	flags.StringVar(&f.fpEnc, "fingerprint-encoding", "hex", "Fingerprint encoding: hex, hex-raw, base64, base64-url, base64-raw or base64-raw-url")
	return cmd
}

func printFingerprint(cmd *cobra.Command, md, encoding string, der []byte) error {
	d, err := digest.New(md)
	if err != nil {
		return err
	}
	enc, err := fingerprint.ParseEncoding(encoding)
	if err != nil {
		return err
	}
	fp, err := fingerprint.New(der, md, enc)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Fingerprint=%s\n", d.Name(), fp)
	return nil
}
