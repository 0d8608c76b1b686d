package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"jplemma/apiserver"
	"jplemma/cnf"
	"jplemma/ingest"
	"jplemma/kanji"
	"jplemma/logger"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

var version = "dev"

type service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode result")
	}
	fmt.Println(string(b))
}

func runAnalyse(conf *cnf.Conf, text string, morphemes, dump bool) {
	ctx := context.Background()
	p, err := newPipeline(ctx, conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize pipeline")
	}
	defer p.Close()

	if morphemes {
		res, err := p.analyzer.ParseMorphemes(ctx, text)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse morphemes")
		}
		printJSON(res)
		return
	}
	doc, err := ingest.NewDocument(text)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid input")
	}
	ans, err := p.analyzer.Analyze(ctx, doc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to analyse text")
	}
	if dump && conf.LogsDir != "" {
		if err := logger.InitLogs(conf.LogsDir); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare logs directory")
		}
		if err := logger.LogJSON(conf.LogsDir, doc.ID, ans); err != nil {
			log.Error().Err(err).Msg("failed to dump analysis")
		}
	}
	printJSON(ans)
}

func runDeconjugate(conf *cnf.Conf, word string) {
	decon, err := newDeconjugator(conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load deconjugation rules")
	}
	printJSON(decon.Deconjugate(word))
}

func runFurigana(conf *cnf.Conf, surface, reading string) {
	if conf.KanjidicPath == "" {
		log.Fatal().Msg("kanjidicPath not specified")
	}
	store, err := kanji.OpenFile(conf.KanjidicPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load kanjidic2")
	}
	pairs := store.Align(surface, reading)
	fmt.Println(kanji.Furigana(pairs))
	fmt.Println(kanji.FormatBracketsOnly(pairs))
}

func runImport(conf *cnf.Conf) {
	ctx := context.Background()
	n, err := importDictionary(ctx, conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to import dictionary")
	}
	log.Info().Int("entries", n).Str("db", conf.DictionaryPath).Msg("dictionary imported")
}

func runApiServer(conf *cnf.Conf) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := newPipeline(ctx, conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize pipeline")
	}
	defer p.Close()
	if conf.LogsDir != "" {
		if err := logger.InitLogs(conf.LogsDir); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare logs directory")
		}
	}

	var srv service = apiserver.New(conf, p.analyzer, p.decon, version)
	srv.Start(ctx)
	<-ctx.Done()
	log.Warn().Msg("shutdown request received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}
}

func main() {
	morphemes := flag.Bool("morphemes", false, "analyse: resolve raw morphemes without combining them")
	dump := flag.Bool("dump", false, "analyse: write the result as JSON into the configured logsDir")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "JPLEMMA - Japanese text to dictionary lemmas\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t%s [options] analyse [config.yaml] text\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] deconjugate [config.yaml] word\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] furigana [config.yaml] surface reading\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] import [config.yaml]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] serve [config.yaml]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] test [config.yaml]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s version\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	action := flag.Arg(0)
	if action == "version" {
		fmt.Printf("jplemma %s\n", version)
		return
	}
	conf, err := cnf.LoadConfig(flag.Arg(1))
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	logger.Setup(conf.Logging)
	if err := cnf.ValidateAndDefaults(conf); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	switch action {
	case "analyse":
		text := strings.Join(flag.Args()[min(2, flag.NArg()):], " ")
		if text == "" {
			flag.Usage()
			os.Exit(2)
		}
		runAnalyse(conf, text, *morphemes, *dump)
	case "deconjugate":
		if flag.NArg() < 3 {
			flag.Usage()
			os.Exit(2)
		}
		runDeconjugate(conf, flag.Arg(2))
	case "furigana":
		if flag.NArg() < 4 {
			flag.Usage()
			os.Exit(2)
		}
		runFurigana(conf, flag.Arg(2), flag.Arg(3))
	case "import":
		runImport(conf)
	case "serve":
		runApiServer(conf)
	case "test":
		log.Info().Str("source", conf.GetSourcePath()).Msg("config OK")
	default:
		log.Fatal().Msgf("Unknown action %s", action)
	}
}
