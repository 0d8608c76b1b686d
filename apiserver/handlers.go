package apiserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jplemma/analyze"
	"jplemma/deconjugate"
	"jplemma/ingest"
	"jplemma/logger"
	"jplemma/model"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ServerInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Tokenizer string `json:"tokenizer"`
	NumRules  int    `json:"numRules"`
}

type textArgs struct {
	Text string `json:"text"`
}

type deconjugateResponse struct {
	Query string             `json:"query"`
	Forms []deconjugate.Form `json:"forms"`
}

type parseResponse struct {
	Words []model.ResolvedWord `json:"words"`
	Deck  []model.ResolvedWord `json:"deck"`
}

// Actions holds the handlers of the API.
type Actions struct {
	analyzer *analyze.Analyzer
	decon    *deconjugate.Deconjugator
	logsDir  string
	info     ServerInfo
}

func (a *Actions) Info(ctx *gin.Context) {
	uniresp.WriteJSONResponse(ctx.Writer, a.info)
}

func bindText(ctx *gin.Context) (string, bool) {
	var args textArgs
	if err := ctx.ShouldBindJSON(&args); err != nil {
		uniresp.RespondWithErrorJSON(ctx, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return "", false
	}
	return args.Text, true
}

// Analyse returns the sentences of the posted text with every unit
// resolved where possible.
func (a *Actions) Analyse(ctx *gin.Context) {
	text, ok := bindText(ctx)
	if !ok {
		return
	}
	doc, err := ingest.NewDocument(text)
	if errors.Is(err, ingest.ErrEmptyDocument) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	ans, err := a.analyzer.Analyze(ctx.Request.Context(), doc)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if a.logsDir != "" {
		if err := logger.LogJSON(a.logsDir, doc.ID, ans); err != nil {
			log.Warn().Err(err).Str("document", doc.ID).Msg("[apiserver.Analyse] failed to dump analysis")
		}
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// Parse returns the resolved words of the posted text and their deck.
// With ?morphemes=1 the combination passes are skipped.
func (a *Actions) Parse(ctx *gin.Context) {
	text, ok := bindText(ctx)
	if !ok {
		return
	}
	if strings.TrimSpace(text) == "" {
		uniresp.RespondWithErrorJSON(ctx, ingest.ErrEmptyDocument, http.StatusBadRequest)
		return
	}
	var words []model.ResolvedWord
	if ctx.Query("morphemes") == "1" {
		res, err := a.analyzer.ParseMorphemes(ctx.Request.Context(), text)
		if err != nil {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
			return
		}
		for _, r := range res {
			if r.Word != nil {
				words = append(words, *r.Word)
			}
		}

	} else {
		var err error
		words, err = a.analyzer.ParseText(ctx.Request.Context(), text)
		if err != nil {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
			return
		}
	}
	uniresp.WriteJSONResponse(ctx.Writer, parseResponse{Words: words, Deck: analyze.Deck(words)})
}

func (a *Actions) Deconjugate(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		uniresp.RespondWithErrorJSON(ctx, errors.New("missing query parameter q"), http.StatusBadRequest)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, deconjugateResponse{Query: q, Forms: a.decon.Deconjugate(q)})
}

// Resolve looks up a single word unit posted as a token.
func (a *Actions) Resolve(ctx *gin.Context) {
	var tok model.Token
	if err := ctx.ShouldBindJSON(&tok); err != nil {
		uniresp.RespondWithErrorJSON(ctx, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if tok.Text == "" {
		uniresp.RespondWithErrorJSON(ctx, errors.New("missing token text"), http.StatusBadRequest)
		return
	}
	w, ok, err := a.analyzer.Resolver().Resolve(ctx.Request.Context(), tok)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if !ok {
		uniresp.RespondWithErrorJSON(ctx, fmt.Errorf("no entry for %s", tok.Text), http.StatusNotFound)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, w)
}
