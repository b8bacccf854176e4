package data

import "time"

// Chapter is one source directory of pictures.
type Chapter struct {
	Ordinal     int    // 1-based position among the selected chapters
	SourcePath  string // directory the pictures are read from
	DisplayName string // original directory name
}

// VolumeBatch is the group of chapters written into one output volume.
type VolumeBatch struct {
	Index           int // 1-based
	StartingChapter int // ordinal of the first chapter
	Chapters        []Chapter
}

// EndingChapter returns the ordinal of the last chapter of the batch.
func (b VolumeBatch) EndingChapter() int {
	return b.StartingChapter + len(b.Chapters) - 1
}

// Range is the 1-based inclusive chapter selection requested by the user.
// A nil bound means the first or last discovered chapter.
type Range struct {
	Start *int
	End   *int
}

// Plan is the full mapping of selected chapters onto volumes.
type Plan struct {
	Method             Method
	TotalChapters      int // chapters discovered before trimming
	FirstChapter       int // 1-based index of the first selected chapter in the discovered list
	SelectedChapters   int
	ChaptersPerVolume  int
	Volumes            []VolumeBatch
	VolumeNumberWidth  int
	ChapterNumberWidth int
}

// LastChapter returns the 1-based index of the last selected chapter in the discovered list.
func (p *Plan) LastChapter() int {
	return p.FirstChapter + p.SelectedChapters - 1
}

// Ignored returns how many discovered chapters are left out of the selection.
func (p *Plan) Ignored() int {
	return p.TotalChapters - p.SelectedChapters
}

// ImagePage is one picture of a chapter.
type ImagePage struct {
	Ordinal    int // 0-based position within its chapter
	SourcePath string
	Extension  string // verbatim, without the dot
}

// VolumeRecord is a built volume as stored in the history database.
type VolumeRecord struct {
	ID        string
	Path      string
	Method    string
	Volume    int
	Chapters  int
	Pages     int
	Bytes     int64
	Format    string
	CreatedAt time.Time
}
