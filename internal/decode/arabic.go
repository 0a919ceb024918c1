// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import "unicode"

// arabicCharsets are the legacy Arabic encodings, tried in this order.
// cp1256, the Windows Arabic code page, comes first.
var arabicCharsets = []string{"windows-1256", "iso-8859-6"}

// looksArabic reports whether the non-ASCII text in s is mostly Arabic
// letters. Latin-1 text decoded as cp1256 also yields Arabic letters, but
// glued to ASCII letters ("Martيnez"), which real Arabic words never are.
func looksArabic(s string) bool {
	var (
		arabic, other           int
		afterLatin, afterArabic bool
	)
	for _, r := range s {
		switch {
		case r <= unicode.MaxASCII:
			latin := 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
			if latin && afterArabic {
				return false
			}
			afterLatin, afterArabic = latin, false
			continue
		case unicode.IsMark(r):
			afterLatin = false
			continue
		case unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r):
			if afterLatin {
				return false
			}
			arabic++
			afterArabic = true
		default:
			other++
			afterArabic = false
		}
		afterLatin = false
	}
	return arabic > 0 && arabic*5 >= (arabic+other)*4
}
