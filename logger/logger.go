// Package logger configures zerolog output and writes JSON dumps of
// analysis results for later inspection.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
)

const dumpSuffix = ".json"

// Setup sends the global logger to conf.Path (stderr when empty) at
// conf.Level.
func Setup(conf logging.LoggingConf) {
	logging.SetupLogging(conf)
}

// InitLogs makes sure dir exists and removes dumps left over from a
// previous run.
func InitLogs(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"+dumpSuffix))
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			log.Warn().Err(err).Str("file", f).Msg("[logger.InitLogs] failed to remove old dump")
		}
	}
	return nil
}

// LogJSON writes v as indented JSON to dir/<name>.json. The file is
// written under a temporary name and renamed, so readers never see a
// partial dump.
func LogJSON(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	final := filepath.Join(dir, filepath.Base(name)+dumpSuffix)
	tmp := final + ".tmp"
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return err
	}
	log.Debug().Str("file", final).Msg("[logger.LogJSON] dump written")
	return nil
}
