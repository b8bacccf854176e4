package data

import (
	"errors"
	"fmt"
)

// Configuration errors. They are returned before any file is touched.
var (
	ErrZeroChaptersPerVolume = errors.New("comicenc: number of chapters per volume cannot be zero")
	ErrInvalidStartChapter   = errors.New("comicenc: start chapter cannot be zero")
	ErrInvalidEndChapter     = errors.New("comicenc: end chapter cannot be zero")
	ErrStartAfterEnd         = errors.New("comicenc: end chapter cannot be lower than start chapter")
	ErrConflictingOptions    = errors.New("comicenc: conflicting options")
	ErrUnknownFormat         = errors.New("comicenc: unknown volume format")
)

// Missing resources.
var (
	ErrChaptersDirNotFound = errors.New("comicenc: chapters directory not found")
	ErrOutputDirNotFound   = errors.New("comicenc: output directory not found")
	ErrInputNotFound       = errors.New("comicenc: input file not found")
	ErrInputIsDirectory    = errors.New("comicenc: input path is a directory")
	ErrNotADirectory       = errors.New("comicenc: path is not a directory")
	ErrRecordNotFound      = errors.New("comicenc: no such volume in history")
)

// Encoding errors.
var (
	ErrInvalidName       = errors.New("comicenc: name is not valid UTF-8")
	ErrMissingExtension  = errors.New("comicenc: picture has no file extension")
	ErrUnsupportedFormat = errors.New("comicenc: unsupported archive format")
	ErrCorruptImage      = errors.New("comicenc: picture cannot be decoded")
)

// Output conflicts.
var (
	ErrOutputExists      = errors.New("comicenc: output file already exists")
	ErrOutputIsDirectory = errors.New("comicenc: output path is a directory")
)

// ErrPlanInvariant means the volume planner produced something it never should.
var ErrPlanInvariant = errors.New("comicenc: internal planning error")

// ConfigError is a rejected option value.
type ConfigError struct {
	Option string
	Value  any
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Option, e.Err)
	}
	return fmt.Sprintf("%s=%v: %v", e.Option, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// VolumeError is a failure while building one volume.
// Chapter is 0 when the failure is not tied to a chapter.
type VolumeError struct {
	Volume  int
	Chapter int
	Path    string
	Op      string
	Err     error
}

func (e *VolumeError) Error() string {
	msg := fmt.Sprintf("volume %d", e.Volume)
	if e.Chapter > 0 {
		msg += fmt.Sprintf(", chapter %d", e.Chapter)
	}
	msg += ": " + e.Op
	if e.Path != "" {
		msg += fmt.Sprintf(" '%s'", e.Path)
	}
	return msg + ": " + e.Err.Error()
}

func (e *VolumeError) Unwrap() error { return e.Err }

// DecodeError is a failure while extracting pages from an archive.
type DecodeError struct {
	Archive string
	Entry   string // entry path or page number inside the archive
	Op      string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s '%s'", e.Op, e.Archive)
	if e.Entry != "" {
		msg += fmt.Sprintf(" (%s)", e.Entry)
	}
	return msg + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
