// Package cnf loads and validates the jplemma configuration file.
package cnf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"jplemma/combine"
	"jplemma/lookup"
	"jplemma/tokenize"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	dfltListenAddress          = "localhost"
	dfltListenPort             = 8090
	dfltServerReadTimeoutSecs  = 10
	dfltServerWriteTimeoutSecs = 30
	dfltCacheSize              = 10000
	dfltLogLevel               = "info"
)

// ErrInvalidConfig marks a configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string              `yaml:"listenAddress"`
	ListenPort             int                 `yaml:"listenPort"`
	ServerReadTimeoutSecs  int                 `yaml:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                 `yaml:"serverWriteTimeoutSecs"`
	Logging                logging.LoggingConf `yaml:"logging"`

	// LogsDir receives JSON dumps of analysis results. Empty disables them.
	LogsDir string `yaml:"logsDir"`

	// Tokenizer is the kagome system dictionary, "uni" or "ipa".
	Tokenizer string `yaml:"tokenizer"`

	// DictionaryPath is the SQLite dictionary database.
	DictionaryPath string   `yaml:"dictionaryPath"`
	JMdictPath     string   `yaml:"jmdictPath"`
	KanjidicPath   string   `yaml:"kanjidicPath"`
	Languages      []string `yaml:"languages"`

	// JMnedictPath adds proper names for readings JMdict lacks.
	JMnedictPath string `yaml:"jmnedictPath"`

	// PitchAccentDir holds term_meta_bank_*.json pitch accent files.
	PitchAccentDir string `yaml:"pitchAccentDir"`

	// OriginPath is a word,origin CSV (和, 漢 or 外).
	OriginPath string `yaml:"originPath"`

	// RulesPath overrides the embedded deconjugation rule table.
	RulesPath string `yaml:"rulesPath"`

	// CacheSize bounds the LRU of dictionary entries. Zero means default,
	// a negative value disables the cache.
	CacheSize int               `yaml:"cacheSize"`
	Redis     *lookup.RedisConf `yaml:"redis"`
	Combine   combine.Options   `yaml:"combine"`

	srcPath string
}

func (conf *Conf) IsDebugMode() bool {
	return conf.Logging.Level.IsDebugMode()
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

// LoadConfig reads a YAML config file. An empty path yields a
// configuration made of defaults only.
func LoadConfig(path string) (*Conf, error) {
	if path == "" {
		log.Warn().Msg("config path not specified, using defaults")
		return &Conf{}, nil
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	var conf Conf
	conf.srcPath = path
	if err := yaml.Unmarshal(rawData, &conf); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, err)
	}
	return &conf, nil
}

func checkFile(name, path string) error {
	if path == "" {
		return nil
	}
	isFile, err := fs.IsFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, name, err)
	}
	if !isFile {
		return fmt.Errorf("%w: %s: %s is not a file", ErrInvalidConfig, name, path)
	}
	return nil
}

// ValidateAndDefaults fills in defaults for missing values and checks
// the rest. The dictionary database may not exist yet, the import action
// creates it.
func ValidateAndDefaults(conf *Conf) error {
	if conf.ListenAddress == "" {
		conf.ListenAddress = dfltListenAddress
		log.Warn().Msgf("listenAddress not specified, using default: %s", dfltListenAddress)
	}
	if conf.ListenPort == 0 {
		conf.ListenPort = dfltListenPort
		log.Warn().Msgf("listenPort not specified, using default: %d", dfltListenPort)
	}
	if conf.ServerReadTimeoutSecs == 0 {
		conf.ServerReadTimeoutSecs = dfltServerReadTimeoutSecs
		log.Warn().Msgf(
			"serverReadTimeoutSecs not specified, using default: %d",
			dfltServerReadTimeoutSecs,
		)
	}
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.Logging.Level == "" {
		conf.Logging.Level = dfltLogLevel
	}
	switch conf.Tokenizer {
	case "":
		conf.Tokenizer = tokenize.DictUni
		log.Warn().Msgf("tokenizer not specified, using default: %s", tokenize.DictUni)
	case tokenize.DictUni, tokenize.DictIPA:
	default:
		return fmt.Errorf("%w: unknown tokenizer %q", ErrInvalidConfig, conf.Tokenizer)
	}
	if conf.CacheSize == 0 {
		conf.CacheSize = dfltCacheSize
		log.Warn().Msgf("cacheSize not specified, using default: %d", dfltCacheSize)
	}
	if conf.DictionaryPath != "" && fs.PathExists(conf.DictionaryPath) {
		if err := checkFile("dictionaryPath", conf.DictionaryPath); err != nil {
			return err
		}
	}
	if err := checkFile("jmdictPath", conf.JMdictPath); err != nil {
		return err
	}
	if err := checkFile("kanjidicPath", conf.KanjidicPath); err != nil {
		return err
	}
	if err := checkFile("rulesPath", conf.RulesPath); err != nil {
		return err
	}
	if err := checkFile("jmnedictPath", conf.JMnedictPath); err != nil {
		return err
	}
	if err := checkFile("originPath", conf.OriginPath); err != nil {
		return err
	}
	if conf.PitchAccentDir != "" {
		isDir, err := fs.IsDir(conf.PitchAccentDir)
		if err != nil {
			return fmt.Errorf("%w: pitchAccentDir: %s", ErrInvalidConfig, err)
		}
		if !isDir {
			return fmt.Errorf("%w: pitchAccentDir: %s is not a directory", ErrInvalidConfig, conf.PitchAccentDir)
		}
	}
	if conf.DictionaryPath == "" && conf.JMdictPath == "" {
		log.Warn().Msg("neither dictionaryPath nor jmdictPath specified, only built-in entries will be available")
	}
	if conf.Redis != nil && conf.Redis.Host == "" {
		return fmt.Errorf("%w: redis.host not specified", ErrInvalidConfig)
	}
	return nil
}
