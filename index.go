package mosaic

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlUpsertTile = `INSERT INTO tiles (id, layer, x, y, scale, dir, file, width, height)
		VALUES (:id, :layer, :x, :y, :scale, :dir, :file, :width, :height)
		ON CONFLICT (id) DO UPDATE SET scale=EXCLUDED.scale, file=EXCLUDED.file, width=EXCLUDED.width, height=EXCLUDED.height;`
	sqlSelectTiles = `SELECT layer, x, y, scale, dir, file, width, height FROM tiles`
	sqlOrderTiles  = ` ORDER BY dir, layer, y, x;`
)

// OpenIndex given it's filename (database file) on disk.
// Will create if it doesn't exist.
func OpenIndex(fname string) (*Index, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	idx := &Index{db: db, filename: fname}
	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Index is a sqlite catalogue of every tile written by a run, so later tools
// (eg. the manifest writer) needn't walk the output tree or re-run anything.
type Index struct {
	filename string
	db       *sqlx.DB
}

// Filename returns the path to the index on disk
func (i *Index) Filename() string {
	return i.filename
}

// Close the underlying database
func (i *Index) Close() error {
	return i.db.Close()
}

// Record an output tile. Writing the same (dir, layer, x, y) again replaces
// the old row.
func (i *Index) Record(e Entry) error {
	_, err := i.db.NamedExec(sqlUpsertTile, newDBEntry(e))
	return err
}

// Entries returns all recorded tiles in `dir`, or every tile if dir is "".
// Ordered by dir, layer, y then x.
func (i *Index) Entries(dir string) ([]Entry, error) {
	out := []Entry{}

	var err error
	if dir == "" {
		err = i.db.Select(&out, sqlSelectTiles+sqlOrderTiles)
	} else {
		err = i.db.Select(&out, sqlSelectTiles+` WHERE dir=?`+sqlOrderTiles, dir)
	}
	return out, err
}

// Dirs returns the distinct output directories in the index, sorted.
func (i *Index) Dirs() ([]string, error) {
	out := []string{}
	err := i.db.Select(&out, `SELECT DISTINCT dir FROM tiles ORDER BY dir;`)
	return out, err
}

// init creates our table if it doesn't exist
func (i *Index) init() error {
	createTiles := `CREATE TABLE IF NOT EXISTS tiles(
		id TEXT PRIMARY KEY,
		layer INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		scale REAL NOT NULL,
		dir TEXT NOT NULL,
		file TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL
	    );`
	_, err := i.db.Exec(createTiles)
	return err
}

// dbEntry is an Entry plus the key we upsert on.
type dbEntry struct {
	ID string `db:"id"`
	Entry
}

// newDBEntry crafts a dbEntry keyed by it's output dir & grid position
func newDBEntry(e Entry) dbEntry {
	return dbEntry{ID: fmt.Sprintf("%s/%d_%d_%d", e.Dir, e.Layer, e.X, e.Y), Entry: e}
}
