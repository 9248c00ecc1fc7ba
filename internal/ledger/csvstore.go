package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/lox/blackjack/internal/fileutil"
)

// DefaultCSVPath is the file name the ledger has always used.
const DefaultCSVPath = "user_data.csv"

const csvFields = 5

// CSVStore keeps records in a CSV file, one row per player:
//
//	username,credential,gamesPlayed,gamesWon,chipBalance
//
// The file is read in full and rewritten in full. Numeric fields written as
// decimals (e.g. "510.0") are accepted and written back as integers.
type CSVStore struct {
	path string
	perm os.FileMode
}

// NewCSVStore creates a store backed by path. The file need not exist yet.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path, perm: 0o644}
}

// Path returns the backing file path
func (s *CSVStore) Path() string { return s.path }

// Load reads every row. A missing file is an empty ledger.
func (s *CSVStore) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []Record
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save rewrites the whole file through a temp file and rename.
func (s *CSVStore) Save(records []Record) error {
	return fileutil.WriteAtomic(s.path, s.perm, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.UseCRLF = true
		for _, rec := range records {
			if err := cw.Write(formatRow(rec)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func (s *CSVStore) Close() error { return nil }

func parseRow(row []string) (Record, error) {
	if len(row) != csvFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", csvFields, len(row))
	}

	played, err := parseWhole(row[2])
	if err != nil {
		return Record{}, fmt.Errorf("games played: %w", err)
	}
	won, err := parseWhole(row[3])
	if err != nil {
		return Record{}, fmt.Errorf("games won: %w", err)
	}
	chips, err := parseWhole(row[4])
	if err != nil {
		return Record{}, fmt.Errorf("chip balance: %w", err)
	}

	return Record{
		Username:    row[0],
		Credential:  row[1],
		GamesPlayed: played,
		GamesWon:    won,
		Chips:       chips,
	}, nil
}

// parseWhole accepts "510" and "510.0". Fractions are truncated toward zero.
func parseWhole(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return d.IntPart(), nil
}

func formatRow(rec Record) []string {
	return []string{
		rec.Username,
		rec.Credential,
		strconv.FormatInt(rec.GamesPlayed, 10),
		strconv.FormatInt(rec.GamesWon, 10),
		strconv.FormatInt(rec.Chips, 10),
	}
}
