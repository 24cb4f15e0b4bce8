package learning

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"morris/game"
)

// RecordSize is the number of bytes one record takes in a brain file.
const RecordSize = 12

// diskRecord is the little-endian layout of a record. There is no header,
// footer or count: a file is a plain sequence of records.
type diskRecord struct {
	State0 uint16
	State1 uint16
	State2 uint16
	From   uint8
	To     uint8
	Wins   uint16
	Losses uint16
}

func toDisk(r Record) diskRecord {
	return diskRecord{
		State0: r.Key[0],
		State1: r.Key[1],
		State2: r.Key[2],
		From:   uint8(r.Step.From),
		To:     uint8(r.Step.To),
		Wins:   r.Wins,
		Losses: r.Losses,
	}
}

func (d diskRecord) entry() entry {
	return entry{
		Key:  StateKey{d.State0, d.State1, d.State2},
		Step: Step{From: game.Cell(d.From), To: game.Cell(d.To)},
	}
}

// WriteTo writes all records in storage order.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, r := range s.records {
		if err := binary.Write(w, binary.LittleEndian, toDisk(r)); err != nil {
			return n, fmt.Errorf("failed to write record %d: %w", n/RecordSize, err)
		}
		n += RecordSize
	}
	return n, nil
}

// ReadFrom replaces the records with the ones read from r. Reading stops at
// the first incomplete record; the records before it are kept and the bytes of
// the incomplete one still count as read. Pairs that appear more than once are
// merged. On a read error the store is unchanged.
func (s *Store) ReadFrom(r io.Reader) (int64, error) {
	loaded := NewStore(WithRand(s.rng))
	var n int64
	var buf [RecordSize]byte
	for {
		m, err := io.ReadFull(r, buf[:])
		n += int64(m)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			log.Warn().Int64("offset", n-int64(m)).Int("bytes", m).Msg("ignoring truncated record at end of brain data")
			break
		}
		if err != nil {
			return n, fmt.Errorf("failed to read record %d: %w", n/RecordSize, err)
		}

		var d diskRecord
		if _, err := binary.Decode(buf[:], binary.LittleEndian, &d); err != nil {
			return n, fmt.Errorf("failed to decode record %d: %w", n/RecordSize-1, err)
		}
		loaded.record(d.entry(), d.Wins, d.Losses)
	}

	s.records = loaded.records
	s.index = loaded.index
	return n, nil
}

// Save writes the records to a brain file. The file is written next to its
// destination first and renamed into place.
func (s *Store) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to open %s for saving: %w", path, err)
	}
	defer os.Remove(f.Name())

	w := bufio.NewWriter(f)
	if _, err := s.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("records", len(s.records)).Msg("saved brain")
	return nil
}

// Load replaces the records with the content of a brain file.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for loading: %w", path, err)
	}
	defer f.Close()

	if _, err := s.ReadFrom(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("records", len(s.records)).Msg("loaded brain")
	return nil
}
