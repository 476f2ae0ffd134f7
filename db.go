package mkstft

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/mkstft/tft"
	_ "github.com/mattn/go-sqlite3"
)

// PreviewDB caches rendered previews keyed by the SHA1 of the decoded
// thumbnail so re-slicing an unchanged model skips the image work.
type PreviewDB struct {
	db *sql.DB
}

type preview struct {
	format string
	width  int
	height int

	small []byte
	large []byte
}

// NewPreviewDB opens, creating if necessary, the cache database in file.
func NewPreviewDB(file string) (*PreviewDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS thumbnail (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, format TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS preview (thumbnail_id INTEGER NOT NULL, tag TEXT NOT NULL, size INTEGER NOT NULL, colors INTEGER NOT NULL, block BLOB NOT NULL, UNIQUE(thumbnail_id, tag, size, colors), FOREIGN KEY(thumbnail_id) REFERENCES thumbnail(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &PreviewDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *PreviewDB) Close() error {
	return db.db.Close()
}

// Len returns the number of cached thumbnails.
func (db *PreviewDB) Len() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM thumbnail").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// addThumbnail returns the id of the thumbnail, inserting it first if needed.
// Workers converting files with the same thumbnail may race here so the
// insert must tolerate the row already existing.
func (db *PreviewDB) addThumbnail(sha, format string, width, height int) (int64, error) {
	if _, err := db.db.Exec("INSERT INTO thumbnail (sha1, format, width, height) VALUES (?, ?, ?, ?) ON CONFLICT(sha1) DO NOTHING", sha, format, width, height); err != nil {
		return 0, err
	}

	var id int64
	if err := db.db.QueryRow("SELECT id FROM thumbnail WHERE sha1 = ?", sha).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (db *PreviewDB) addPreview(thumbnail int64, tag string, size, colors int, block []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO preview (thumbnail_id, tag, size, colors, block) VALUES (?, ?, ?, ?, ?)", thumbnail, tag, size, colors, block); err != nil {
		return err
	}
	return nil
}

func (db *PreviewDB) findPreview(thumbnail int64, tag string, size, colors int) ([]byte, error) {
	var block []byte
	switch err := db.db.QueryRow("SELECT block FROM preview WHERE thumbnail_id = ? AND tag = ? AND size = ? AND colors = ?", thumbnail, tag, size, colors).Scan(&block); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return block, nil
	default:
		return nil, err
	}
}

func (db *PreviewDB) add(sha string, opts Options, p *preview) error {
	id, err := db.addThumbnail(sha, p.format, p.width, p.height)
	if err != nil {
		return err
	}

	if err := db.addPreview(id, tft.SmallTag, opts.SmallSize, opts.Colors, p.small); err != nil {
		return err
	}

	return db.addPreview(id, tft.LargeTag, opts.LargeSize, opts.Colors, p.large)
}

// find returns nil if either preview for the given options is missing
func (db *PreviewDB) find(sha string, opts Options) (*preview, error) {
	var id int64
	p := new(preview)
	switch err := db.db.QueryRow("SELECT id, format, width, height FROM thumbnail WHERE sha1 = ?", sha).Scan(&id, &p.format, &p.width, &p.height); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	var err error
	if p.small, err = db.findPreview(id, tft.SmallTag, opts.SmallSize, opts.Colors); err != nil || p.small == nil {
		return nil, err
	}
	if p.large, err = db.findPreview(id, tft.LargeTag, opts.LargeSize, opts.Colors); err != nil || p.large == nil {
		return nil, err
	}

	return p, nil
}
