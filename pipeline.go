package main

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"

	"jplemma/analyze"
	"jplemma/cnf"
	"jplemma/combine"
	"jplemma/deconjugate"
	"jplemma/dictionary"
	"jplemma/kanji"
	"jplemma/lookup"
	"jplemma/tokenize"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

const memoSize = 50000

// pipeline owns everything an Analyzer needs and the resources to
// release on exit.
type pipeline struct {
	analyzer *analyze.Analyzer
	decon    *deconjugate.Deconjugator
	closers  []func() error
}

func (p *pipeline) Close() {
	for _, c := range p.closers {
		if err := c(); err != nil {
			log.Error().Err(err).Msg("failed to release resource")
		}
	}
}

func newDeconjugator(conf *cnf.Conf) (*deconjugate.Deconjugator, error) {
	memo := deconjugate.WithMemo(deconjugate.NewMemo(memoSize))
	if conf.RulesPath != "" {
		return deconjugate.FromFile(conf.RulesPath, memo)
	}
	return deconjugate.Default(memo)
}

func jmdictOptions(conf *cnf.Conf) ([]dictionary.JMdictOption, error) {
	var opts []dictionary.JMdictOption
	if len(conf.Languages) > 0 {
		opts = append(opts, dictionary.WithLanguages(conf.Languages...))
	}
	if conf.KanjidicPath != "" {
		store, err := kanji.OpenFile(conf.KanjidicPath)
		if err != nil {
			return nil, err
		}
		log.Info().Int("kanji", store.Count()).Msg("kanjidic2 loaded")
		opts = append(opts, dictionary.WithKanjiStore(store))
	}
	return opts, nil
}

func loadEntries(conf *cnf.Conf) ([]dictionary.Entry, error) {
	entries := dictionary.CustomEntries()
	if conf.JMdictPath == "" {
		return entries, nil
	}
	opts, err := jmdictOptions(conf)
	if err != nil {
		return nil, err
	}
	jm, err := dictionary.OpenJMdictFile(conf.JMdictPath, opts...)
	if err != nil {
		return nil, err
	}
	entries = append(jm, entries...)
	if conf.JMnedictPath != "" {
		names, err := dictionary.OpenJMnedictFile(conf.JMnedictPath, dictionary.ReadingSet(entries))
		if err != nil {
			return nil, err
		}
		entries = consolidate(append(entries, names...))
	}
	if conf.PitchAccentDir != "" {
		acc, err := dictionary.LoadPitchAccents(conf.PitchAccentDir)
		if err != nil {
			return nil, err
		}
		dictionary.ApplyPitchAccents(entries, acc)
	}
	if conf.OriginPath != "" {
		origins, err := dictionary.OpenOriginsFile(conf.OriginPath)
		if err != nil {
			return nil, err
		}
		dictionary.ApplyOrigins(entries, origins)
	}
	return entries, nil
}

// consolidate keeps the first entry of each ID.
func consolidate(entries []dictionary.Entry) []dictionary.Entry {
	seen := make(map[int]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// dictionarySources lists every configured file the database is built from.
func dictionarySources(conf *cnf.Conf) []string {
	return []string{
		conf.JMdictPath, conf.KanjidicPath, conf.JMnedictPath,
		conf.PitchAccentDir, conf.OriginPath,
	}
}

// removeDatabase deletes a SQLite database together with its WAL files.
func removeDatabase(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// importDictionary builds a fresh SQLite database from the configured
// sources and returns the number of stored words.
func importDictionary(ctx context.Context, conf *cnf.Conf) (int, error) {
	if conf.DictionaryPath == "" {
		return 0, fmt.Errorf("%w: dictionaryPath not specified", cnf.ErrInvalidConfig)
	}
	if conf.JMdictPath == "" {
		return 0, fmt.Errorf("%w: jmdictPath not specified", cnf.ErrInvalidConfig)
	}
	entries, err := loadEntries(conf)
	if err != nil {
		return 0, err
	}
	if err := removeDatabase(conf.DictionaryPath); err != nil {
		return 0, err
	}
	db, err := dictionary.OpenSQLite(ctx, conf.DictionaryPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	if err := db.Import(ctx, entries); err != nil {
		return 0, err
	}
	return db.Count(ctx)
}

// newDictionary opens the SQLite database when dictionaryPath is set,
// rebuilding it first when it is missing or older than its sources.
// Without a database path JMdict is loaded into memory.
func newDictionary(ctx context.Context, conf *cnf.Conf) (dictionary.Dictionary, func() error, error) {
	var (
		dict    dictionary.Dictionary
		closeFn func() error
	)
	if conf.DictionaryPath != "" {
		if conf.JMdictPath != "" {
			stale, err := dictionary.IsStale(conf.DictionaryPath, dictionarySources(conf)...)
			if err != nil {
				return nil, nil, err
			}
			if stale {
				log.Info().Str("path", conf.DictionaryPath).Msg("rebuilding dictionary database")
				if _, err := importDictionary(ctx, conf); err != nil {
					return nil, nil, err
				}
			}

		} else if !fs.PathExists(conf.DictionaryPath) {
			return nil, nil, fmt.Errorf(
				"%w: dictionary database %s not found and no jmdictPath to build it from",
				dictionary.ErrResourceMissing, conf.DictionaryPath,
			)
		}
		db, err := dictionary.OpenSQLite(ctx, conf.DictionaryPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", conf.DictionaryPath).Msg("using SQLite dictionary")
		dict, closeFn = db, db.Close

	} else {
		entries, err := loadEntries(conf)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Int("entries", len(entries)).Msg("using in-memory dictionary")
		dict = dictionary.NewMemStore(entries...)
	}
	if conf.CacheSize > 0 {
		cached, err := dictionary.NewCached(dict, conf.CacheSize)
		if err != nil {
			return nil, nil, err
		}
		dict = cached
	}
	return dict, closeFn, nil
}

func newPipeline(ctx context.Context, conf *cnf.Conf) (*pipeline, error) {
	p := &pipeline{}
	decon, err := newDeconjugator(conf)
	if err != nil {
		return nil, err
	}
	p.decon = decon

	dict, closeDict, err := newDictionary(ctx, conf)
	if err != nil {
		return nil, err
	}
	if closeDict != nil {
		p.closers = append(p.closers, closeDict)
	}

	var opts []lookup.Option
	if conf.Redis != nil {
		rc := lookup.NewRedisCache(*conf.Redis)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis not reachable, falling back to in-memory resolution cache")
			rc.Close()

		} else {
			opts = append(opts, lookup.WithCache(rc))
			p.closers = append(p.closers, rc.Close)
		}
	}

	tok, err := tokenize.NewKagome(conf.Tokenizer)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.analyzer = analyze.New(
		combine.NewAnalyser(tok, conf.Combine),
		lookup.NewResolver(dict, decon, opts...),
	)
	return p, nil
}
