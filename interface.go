package mosaic

// Recorder is told about every output tile once it's been written.
type Recorder interface {
	Record(e Entry) error
}

// Entry is a single output tile on disk.
type Entry struct {
	Layer int `db:"layer"`
	X     int `db:"x"`
	Y     int `db:"y"`

	Scale float64 `db:"scale"`

	// output directory (relative to the output root), eg. 960x540_webp
	Dir string `db:"dir"`

	// file name within Dir
	File string `db:"file"`

	// in pixels
	Width  int `db:"width"`
	Height int `db:"height"`
}

// entries is a Recorder that keeps everything in memory
type entries []Entry

func (e *entries) Record(in Entry) error {
	*e = append(*e, in)
	return nil
}
