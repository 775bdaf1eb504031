package main

import (
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.step.sm/osslcompat/attribute"
	"go.step.sm/osslcompat/pemutil"
)

// attributePEMType is the block type used by attr --format pem.
const attributePEMType = "ATTRIBUTE"

type attrFlags struct {
	seq    bool
	set    bool
	format string
	out    string
}

func newAttrCmd(a *app) *cobra.Command {
	var f attrFlags
	cmd := &cobra.Command{
		Use:   "attr OID VALUE...",
		Short: "Encode an ASN.1 Attribute",
		Long: `Encode the ASN.1 Attribute with the given type and values.

OID is a dotted object identifier or an object name like challengePassword
or "X509v3 Subject Alternative Name". Each VALUE is TYPE:VALUE, where TYPE is
one of printable, utf8, ia5, numeric, int, oid, bool, octet, raw, null, utc
or generalized. A value without a known type is a PrintableString.

A single primitive value is wrapped in a SET. Several values are wrapped in
a SET, or in a SEQUENCE with --seq.`,
		Example: `  osslcompat attr challengePassword utf8:secret
  osslcompat attr 1.2.840.113549.1.9.14 int:1 int:2 --seq
  osslcompat attr contentType oid:1.2.840.113549.1.7.1 --format pem`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.seq && f.set {
				return errors.New("flags --seq and --set are mutually exclusive")
			}

			values := make([]asn1.RawValue, len(args)-1)
			for i, spec := range args[1:] {
				rv, err := attribute.ParseValueSpec(spec)
				if err != nil {
					return err
				}
				values[i] = rv
			}

			value := values[0]
			if len(values) > 1 || f.seq || f.set {
				var err error
				if f.seq {
					value, err = attribute.Sequence(values...)
				} else {
					value, err = attribute.Set(values...)
				}
				if err != nil {
					return err
				}
			}

			attr, err := attribute.New(args[0], value)
			if err != nil {
				return err
			}
			der, err := attr.MarshalDER()
			if err != nil {
				return err
			}
			a.logger.Debug("attribute encoded", "type", attr.OID(), "values", len(values), "bytes", len(der))
			return writeFormatted(cmd, f.format, f.out, der)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&f.seq, "seq", false, "Wrap the values in a SEQUENCE")
	flags.BoolVar(&f.set, "set", false, "Wrap the values in a SET, even a single one")
	flags.StringVar(&f.format, "format", "hex", "Output format: hex, der or pem")
	flags.StringVar(&f.out, "out", stdinFilename, "Output file")

	cmd.AddCommand(newAttrParseCmd(a))
	return cmd
}

func newAttrParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the type and values of a PEM or DER Attribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			der, err := pemutil.NormalizeFile(args[0])
			if err != nil {
				return err
			}
			attr, err := attribute.Parse(der)
			if err != nil {
				return err
			}
			value, _ := attr.Value()
			a.logger.Debug("attribute parsed", "type", attr.OID(), "bytes", len(der))
			fmt.Fprintf(cmd.OutOrStdout(), "type=%s\nvalues=%s\n", attr.OID(), hex.EncodeToString(value.FullBytes))
			return nil
		},
	}
}

func writeFormatted(cmd *cobra.Command, format, filename string, der []byte) error {
	switch format {
	case "hex":
		return writeOutput(cmd, filename, []byte(hex.EncodeToString(der)+"\n"))
	case "der":
		return writeOutput(cmd, filename, der)
	case "pem":
		return writeOutput(cmd, filename, pem.EncodeToMemory(&pem.Block{Type: attributePEMType, Bytes: der}))
	default:
		return errors.Errorf("unsupported format %q", format)
	}
}
