package data

import "fmt"

// Method is how chapters are grouped into volumes. It is one of Compile, Each or Single.
type Method interface {
	fmt.Stringer
	method()
}

// Compile packs a fixed number of chapters into each volume.
type Compile struct {
	ChaptersPerVolume int
	ShowRange         bool // append " (cX-cY)" to volume names
	SkipExisting      bool
}

// Each writes one volume per chapter, named after the chapter directory.
type Each struct {
	SkipExisting bool
}

// Single writes every selected chapter into one volume at Output.
type Single struct {
	Output string
}

func (Compile) method() {}
func (Each) method()    {}
func (Single) method()  {}

func (Compile) String() string { return "compile" }
func (Each) String() string    { return "each" }
func (Single) String() string  { return "single" }

// SkipsExisting reports whether volumes whose output already exists are left alone.
func SkipsExisting(m Method) bool {
	switch m := m.(type) {
	case Compile:
		return m.SkipExisting
	case Each:
		return m.SkipExisting
	default:
		return false
	}
}
