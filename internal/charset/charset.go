// Package charset decodes the text encodings an MDict dictionary may declare.
//
// UTF-8 and UTF-16LE are decoded directly (the common case); the handful of
// legacy single-byte-unit dictionaries that declare GBK or BIG5 are decoded
// through golang.org/x/text code pages, since the corpus carries no dedicated
// charset library and x/text is the canonical ecosystem choice for this —
// see the root DESIGN.md.
package charset

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/gomdict/mdict/endian"
	"github.com/gomdict/mdict/format"
)

var leEngine = endian.GetLittleEndianEngine()

// Decode converts raw wire bytes (already sliced to the unit count, excluding
// any tail padding) to a Go string, per the dictionary's declared Encoding.
func Decode(raw []byte, enc format.Encoding) (string, error) {
	switch enc {
	case format.EncodingUTF16:
		return decodeUTF16LE(raw), nil
	case format.EncodingGBK:
		out, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}

		return string(out), nil
	case format.EncodingBig5:
		out, err := traditionalchinese.Big5.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}

		return string(out), nil
	default:
		return string(raw), nil
	}
}

func decodeUTF16LE(raw []byte) string {
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = leEngine.Uint16(raw[2*i : 2*i+2])
	}

	return string(utf16.Decode(units))
}
