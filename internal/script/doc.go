// Package script loads and applies edit scripts: lists of splice, insert
// and remove operations addressed by offsets into an original text.
//
// Scripts are written in TOML, YAML or JSON:
//
//	units = "runes"
//
//	[[edits]]
//	op = "splice"
//	range = "0..5"
//	text = "goodbye"
//
//	[[edits]]
//	op = "insert"
//	at = 11
//	text = "!"
//
// Operations name their offsets in the script's unit (bytes unless set).
// splice and remove take either a range spelling or start/end offsets;
// insert takes at. Programmatic scripts live in the luascript subpackage.
package script
