// Package utils contains helpers shared by the osslcompat packages.
package utils

// IsPrintableString reports whether the given s is a valid ASN.1
// PrintableString. If asterisk is true then '*' is also allowed, reflecting
// existing practice. If ampersand is true then '&' is allowed as well.
func IsPrintableString(s string, asterisk, ampersand bool) bool {
	for _, b := range s {
		valid := 'a' <= b && b <= 'z' ||
			'A' <= b && b <= 'Z' ||
			'0' <= b && b <= '9' ||
			'\'' <= b && b <= ')' ||
			'+' <= b && b <= '/' ||
			b == ' ' ||
			b == ':' ||
			b == '=' ||
			b == '?' ||
			(asterisk && b == '*') ||
			(ampersand && b == '&')

		if !valid {
			return false
		}
	}

	return true
}

// IsIA5String reports whether s only contains ASCII characters.
func IsIA5String(s string) bool {
	for _, r := range s {
		if r > 0x7F {
			return false
		}
	}
	return true
}

// IsNumericString reports whether s is a valid ASN.1 NumericString.
func IsNumericString(s string) bool {
	for _, b := range s {
		if !('0' <= b && b <= '9' || b == ' ') {
			return false
		}
	}
	return true
}
