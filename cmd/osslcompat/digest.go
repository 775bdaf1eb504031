package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.step.sm/osslcompat/digest"
	"go.step.sm/osslcompat/evp"
)

type digestFlags struct {
	md    string
	names bool
	list  bool
}

func newDigestCmd(a *app) *cobra.Command {
	var f digestFlags
	cmd := &cobra.Command{
		Use:   "digest [FILE...]",
		Short: "Compute message digests",
		Long: `Compute the digest of each FILE, or STDIN, like openssl dgst.

The algorithm name follows the legacy rules: a namespace like "Digest::" is
ignored, DSS and DSS1 are aliases of SHA and SHA-1, and SHA256 is SHA-256.

With --names the arguments are algorithm names, and the canonical name and
the legacy block length of each one are printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case f.list:
				return listDigests(cmd)
			case f.names:
				return printDigestNames(cmd, args)
			}

			md := f.md
			if !cmd.Flags().Changed("md") {
				md = a.cfg.Digest
			}
			d, err := digest.New(md)
			if err != nil {
				return err
			}
			a.logger.Debug("digest selected", "label", md, "name", d.Name())

			if len(args) == 0 {
				args = []string{stdinFilename}
			}
			for _, name := range args {
				if err := digestFile(cmd, d, name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.md, "md", evp.DefaultDigest, "Digest algorithm")
	cmd.Flags().BoolVar(&f.names, "names", false, "Print the canonical name and block length of the arguments")
	cmd.Flags().BoolVar(&f.list, "list", false, "List the supported digests")
	return cmd
}

func digestFile(cmd *cobra.Command, d *digest.Digest, filename string) error {
	var r io.Reader
	label := filename
	if filename == stdinFilename {
		r, label = cmd.InOrStdin(), "stdin"
	} else {
		file, err := os.Open(filename)
		if err != nil {
			return errors.Wrapf(err, "error opening %s", filename)
		}
		defer file.Close()
		r = file
	}

	if _, err := io.Copy(d, r); err != nil {
		return errors.Wrapf(err, "error reading %s", label)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s(%s)= %s\n", d.Name(), label, hex.EncodeToString(d.Finish()))
	return nil
}

func printDigestNames(cmd *cobra.Command, labels []string) error {
	if len(labels) == 0 {
		return errors.New("--names requires at least one algorithm name")
	}
	for _, label := range labels {
		name := digest.Canonicalize(label)
		block := "unavailable"
		if n, err := digest.BlockLength(name); err == nil {
			block = strconv.Itoa(n)
		}
		supported := "supported"
		if !digest.IsSupported(label) {
			supported = "unsupported"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tblock=%s\t%s\n", label, name, block, supported)
	}
	return nil
}

func listDigests(cmd *cobra.Command) error {
	for _, name := range digest.Supported() {
		d, err := digest.NewCanonical(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\tsize=%d\tblock=%d\n", name, d.Size(), d.BlockSize())
	}
	return nil
}
