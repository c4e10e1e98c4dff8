package catalog

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// audioExtensions are the extensions recognized as playable audio.
var audioExtensions = []string{"mp3", "wav", "ogg", "m4a", "flac", "aac"}

// IsAudioFile reports whether key ends in a recognized audio extension.
// The match is case-insensitive.
func IsAudioFile(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range audioExtensions {
		if strings.HasSuffix(lower, "."+ext) {
			return true
		}
	}
	return false
}

// SanitizeName derives a display title from a file name: the extension is
// stripped, '-' and '_' become spaces and every word is capitalized.
//
//	SanitizeName("my-demo_track.mp3") == "My Demo Track"
func SanitizeName(filename string) string {
	base := path.Base(filename)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}

	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)

	words := strings.Fields(base)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
