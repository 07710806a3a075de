package epub

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures that abort a parse.
type ErrorKind int

const (
	// KindUnknown is reported by KindOf for errors that are not an *Error.
	KindUnknown ErrorKind = iota
	// KindDecode means the input was not valid base64.
	KindDecode
	// KindArchive means the decoded bytes are not a readable zip archive.
	KindArchive
	// KindMissingEntry means a requested archive entry is absent.
	KindMissingEntry
	// KindXMLParse means container.xml or the OPF is not well-formed XML.
	KindXMLParse
	// KindMissingField means container.xml names no rootfile full-path.
	KindMissingField
	// KindNoChapters means every spine item was skipped.
	KindNoChapters
)

var (
	// ErrDecode is matched by errors of kind KindDecode.
	ErrDecode = errors.New("input is not valid base64")
	// ErrArchive is matched by errors of kind KindArchive.
	ErrArchive = errors.New("not a valid zip archive")
	// ErrMissingEntry is matched by errors of kind KindMissingEntry.
	ErrMissingEntry = errors.New("archive entry not found")
	// ErrXMLParse is matched by errors of kind KindXMLParse.
	ErrXMLParse = errors.New("malformed XML document")
	// ErrMissingField is matched by errors of kind KindMissingField.
	ErrMissingField = errors.New("required field missing")
	// ErrNoChapters is matched by errors of kind KindNoChapters.
	ErrNoChapters = errors.New("no readable chapters found in EPUB")
)

func (k ErrorKind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindArchive:
		return "archive"
	case KindMissingEntry:
		return "missing-entry"
	case KindXMLParse:
		return "xml-parse"
	case KindMissingField:
		return "missing-field"
	case KindNoChapters:
		return "no-chapters"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindDecode:
		return ErrDecode
	case KindArchive:
		return ErrArchive
	case KindMissingEntry:
		return ErrMissingEntry
	case KindXMLParse:
		return ErrXMLParse
	case KindMissingField:
		return ErrMissingField
	case KindNoChapters:
		return ErrNoChapters
	default:
		return nil
	}
}

// Error is returned for every failure that aborts Parse.
// Path names the archive entry involved, when there is one.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel()
	if msg == nil {
		msg = errors.New("epub error")
	}
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", msg, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%v: %s", msg, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", msg, e.Err)
	default:
		return msg.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf reports the ErrorKind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
