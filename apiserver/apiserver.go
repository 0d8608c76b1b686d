// Package apiserver exposes the lemma pipeline over HTTP.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jplemma/analyze"
	"jplemma/cnf"
	"jplemma/deconjugate"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Server is the HTTP API. One Analyzer serves all requests.
type Server struct {
	server  *http.Server
	conf    *cnf.Conf
	actions *Actions
}

func New(conf *cnf.Conf, analyzer *analyze.Analyzer, decon *deconjugate.Deconjugator, version string) *Server {
	return &Server{
		conf: conf,
		actions: &Actions{
			analyzer: analyzer,
			decon:    decon,
			logsDir:  conf.LogsDir,
			info: ServerInfo{
				Name:      "jplemma",
				Version:   version,
				Tokenizer: conf.Tokenizer,
				NumRules:  decon.Rules(),
			},
		},
	}
}

// Handler returns the routed gin engine.
func (api *Server) Handler() http.Handler {
	if !api.conf.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	engine.GET("/", api.actions.Info)
	engine.POST("/analyse", api.actions.Analyse)
	engine.POST("/parse", api.actions.Parse)
	engine.GET("/deconjugate", api.actions.Deconjugate)
	engine.POST("/resolve", api.actions.Resolve)
	return engine
}

func (api *Server) Start(ctx context.Context) {
	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      api.Handler(),
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
}

func (api *Server) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down jplemma HTTP API server")
	if api.server == nil {
		return nil
	}
	return api.server.Shutdown(ctx)
}
