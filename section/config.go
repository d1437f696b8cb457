package section

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/gomdict/mdict/errs"
	"github.com/gomdict/mdict/format"
)

// Attributes is the string-to-string map decoded from the header's XML
// element. Populated once during Open and immutable thereafter.
type Attributes map[string]string

// rootElement captures the name and every attribute of the single element
// the header XML carries, regardless of the specific attribute set a given
// dictionary author chose to emit.
type rootElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

// ParseAttributes decodes the header's decoded XML string (the "Dictionary"
// or "Library_Data" element MDict writers emit) into an Attributes map.
func ParseAttributes(headerXML string) (Attributes, error) {
	var root rootElement
	if err := xml.Unmarshal([]byte(headerXML), &root); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrBadHeader, err)
	}

	if name := root.XMLName.Local; name != "Dictionary" && name != "Library_Data" {
		return nil, fmt.Errorf("%w: unexpected header element %q", errs.ErrBadHeader, name)
	}

	if len(root.Attrs) == 0 {
		return nil, fmt.Errorf("%w: header element carries no attributes", errs.ErrBadHeader)
	}

	attrs := make(Attributes, len(root.Attrs))
	for _, a := range root.Attrs {
		attrs[a.Name.Local] = a.Value
	}

	return attrs, nil
}

// Encrypted returns the integer value of the Encrypted attribute, defaulting
// to 0 (no encryption) when absent or unparsable.
func (a Attributes) Encrypted() int {
	v, err := strconv.Atoi(a["Encrypted"])
	if err != nil {
		return 0
	}

	return v
}

// IsV2 reports whether GeneratedByEngineVersion selects the v2 wire variant
// (version >= 2.0).
func (a Attributes) IsV2() bool {
	v, err := strconv.ParseFloat(a["GeneratedByEngineVersion"], 64)
	if err != nil {
		return false
	}

	return v >= 2.0
}

func (a Attributes) yesNo(key string) bool {
	return strings.EqualFold(a[key], "yes")
}

// KeyCaseSensitive reports the attribute of the same name.
func (a Attributes) KeyCaseSensitive() bool { return a.yesNo("KeyCaseSensitive") }

// StripKey reports the attribute of the same name.
func (a Attributes) StripKey() bool { return a.yesNo("StripKey") }

// Encoding resolves the Encoding attribute to a format.Encoding.
func (a Attributes) Encoding() format.Encoding { return format.ParseEncoding(a["Encoding"]) }

// Config is the set of derived, per-dictionary parsing parameters computed
// once from Attributes at Open time.
type Config struct {
	V2               bool
	Encoding         format.Encoding
	Encrypted        int
	KeyCaseSensitive bool
	StripKey         bool
}

// DeriveConfig computes a Config from a parsed Attributes map.
func DeriveConfig(attrs Attributes) Config {
	return Config{
		V2:               attrs.IsV2(),
		Encoding:         attrs.Encoding(),
		Encrypted:        attrs.Encrypted(),
		KeyCaseSensitive: attrs.KeyCaseSensitive(),
		StripKey:         attrs.StripKey(),
	}
}

// HeaderEncrypted reports whether header encryption (bit 0) is set; Open
// rejects such files since the registration key is out of scope.
func (c Config) HeaderEncrypted() bool { return c.Encrypted&EncryptedHeaderBit != 0 }

// KeywordIndexEncrypted reports whether keyword-index encryption (bit 1) is
// set.
func (c Config) KeywordIndexEncrypted() bool { return c.Encrypted&EncryptedKeywordIndexBit != 0 }

var keyStripChars = ",. '_-"

// AdaptKey applies case-folding and punctuation-stripping per the
// dictionary's attributes, yielding the form used for both hashing and
// directory range comparisons.
func (c Config) AdaptKey(key string) string {
	if !c.KeyCaseSensitive {
		key = strings.ToLower(key)
	}

	if c.StripKey {
		key = strings.Map(func(r rune) rune {
			if strings.ContainsRune(keyStripChars, r) {
				return -1
			}

			return r
		}, key)
	}

	return key
}

// AdaptResourcePath normalizes an mdd resource path: strip any leading `/`
// or `\`, then prepend a single `\`, matching the backslash-rooted paths
// mdd dictionaries store their keys as.
func AdaptResourcePath(path string) string {
	path = strings.TrimLeft(path, `/\`)
	path = strings.ReplaceAll(path, "/", `\`)

	return `\` + path
}
