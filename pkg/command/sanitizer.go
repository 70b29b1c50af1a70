package command

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxNoteSize caps the note at 4KB.
	DefaultMaxNoteSize = 4096
	// EnvMaxNoteSize overrides DefaultMaxNoteSize.
	EnvMaxNoteSize = "SEGUE_MAX_NOTE_SIZE"
)

var (
	ErrNoteTooLarge = errors.New("note exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("note contains invalid UTF-8 sequences")
)

// SanitizeNote rejects oversized or invalid UTF-8 notes and strips control
// characters other than newline, tab and carriage return. The note ends up
// inside a prompt and a transcript, so terminal escapes must not survive.
func SanitizeNote(note string) (string, error) {
	if limit := maxNoteSize(); len(note) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrNoteTooLarge, len(note), limit)
	}
	if !utf8.ValidString(note) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(note, isUnsafeControl) < 0 {
		return note, nil
	}
	return strings.Map(func(r rune) rune {
		if isUnsafeControl(r) {
			return -1
		}
		return r
	}, note), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func maxNoteSize() int {
	if val := os.Getenv(EnvMaxNoteSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxNoteSize
}
