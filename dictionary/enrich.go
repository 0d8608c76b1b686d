package dictionary

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jplemma/model"

	"github.com/rs/zerolog/log"
)

const pitchBankPattern = "term_meta_bank_*.json"

type pitchMeta struct {
	Pitches []struct {
		Position int `json:"position"`
	} `json:"pitches"`
}

// LoadPitchAccents reads the term_meta_bank_*.json files of a pitch
// accent dictionary in dir. Each row is [term, mode, {"pitches": [...]}].
// The first row seen for a term wins; files are read in name order.
func LoadPitchAccents(dir string) (map[string][]int, error) {
	files, err := filepath.Glob(filepath.Join(dir, pitchBankPattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	accents := make(map[string][]int)
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrResourceMissing, err)
		}
		var rows [][]json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(f), err)
		}
		for _, row := range rows {
			if len(row) < 3 {
				continue
			}
			var term string
			if err := json.Unmarshal(row[0], &term); err != nil || term == "" {
				continue
			}
			if _, ok := accents[term]; ok {
				continue
			}
			var meta pitchMeta
			if err := json.Unmarshal(row[2], &meta); err != nil {
				continue
			}
			positions := make([]int, 0, len(meta.Pitches))
			for _, p := range meta.Pitches {
				positions = append(positions, p.Position)
			}
			accents[term] = positions
		}
	}
	log.Info().Int("terms", len(accents)).Int("files", len(files)).Msg("[dictionary.LoadPitchAccents] pitch accents loaded")
	return accents, nil
}

// ApplyPitchAccents gives each entry the accents of its first reading
// found in accents.
func ApplyPitchAccents(entries []Entry, accents map[string][]int) {
	for i := range entries {
		for _, r := range entries[i].Readings {
			if p, ok := accents[r]; ok {
				entries[i].PitchAccents = append([]int(nil), p...)
				break
			}
		}
	}
}

func parseOriginMark(s string) model.Origin {
	switch strings.TrimSpace(s) {
	case "和":
		return model.OriginWago
	case "漢":
		return model.OriginKango
	case "外":
		return model.OriginGairaigo
	}
	return model.OriginUnknown
}

// LoadOrigins reads a word,origin CSV with a header row. The origin
// column holds 和, 漢 or 外; anything else maps to OriginUnknown.
func LoadOrigins(r io.Reader) (map[string]model.Origin, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	origins := make(map[string]model.Origin)
	header := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse origins: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) < 2 {
			continue
		}
		word := strings.TrimPrefix(strings.TrimSpace(rec[0]), "\ufeff")
		if word == "" {
			continue
		}
		origins[word] = parseOriginMark(rec[1])
	}
	return origins, nil
}

// OpenOriginsFile loads a vocabulary origin CSV from disk.
func OpenOriginsFile(path string) (map[string]model.Origin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceMissing, err)
	}
	defer f.Close()
	return LoadOrigins(f)
}

// ApplyOrigins sets the origin of each entry from its first graphemic
// reading listed in origins, else from its first listed reading of any
// kind. Entries with no listed reading keep their origin.
func ApplyOrigins(entries []Entry, origins map[string]model.Origin) {
	for i := range entries {
		e := &entries[i]
		match := ""
		for j, r := range e.Readings {
			if _, ok := origins[r]; ok && j < len(e.ReadingTypes) && e.ReadingTypes[j] == Graphemic {
				match = r
				break
			}
		}
		if match == "" {
			for _, r := range e.Readings {
				if _, ok := origins[r]; ok {
					match = r
					break
				}
			}
		}
		if match != "" {
			e.Origin = origins[match]
		}
	}
}

// IsStale reports whether the database at dbPath must be rebuilt: it does
// not exist, or one of sources (files, or directories walked recursively)
// was modified after it. Empty and missing sources are ignored.
func IsStale(dbPath string, sources ...string) (bool, error) {
	dbInfo, err := os.Stat(dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	dbTime := dbInfo.ModTime()
	for _, src := range sources {
		if src == "" {
			continue
		}
		newer := ""
		err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.ModTime().After(dbTime) {
				newer = path
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			return false, err
		}
		if newer != "" {
			log.Info().Str("source", newer).Msg("[dictionary.IsStale] dictionary database is outdated")
			return true, nil
		}
	}
	return false, nil
}
