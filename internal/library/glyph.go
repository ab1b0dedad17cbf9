package library

import "hash/fnv"

// Fallback icons for records saved without one. The pick is a hash of the
// record text so the same text always gets the same glyph.
var glyphs = []string{
	"💕", "💖", "💘", "💝", "🌹", "🌸", "✨", "🎀",
	"🎯", "🎲", "🎪", "🎭", "🎁", "🔥", "⭐", "🍀",
	"🍓", "🍒", "🥂", "🎵", "💋", "🤗", "😘", "😊",
}

// SuggestGlyph returns a stable icon for the given text. Empty text gets
// the first glyph.
func SuggestGlyph(text string) string {
	if text == "" {
		return glyphs[0]
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	return glyphs[h.Sum32()%uint32(len(glyphs))]
}
