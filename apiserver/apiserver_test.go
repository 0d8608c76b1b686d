package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jplemma/analyze"
	"jplemma/cnf"
	"jplemma/combine"
	"jplemma/deconjugate"
	"jplemma/dictionary"
	"jplemma/lookup"
	"jplemma/model"
	"jplemma/tokenize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id int, readings []string, pos ...string) dictionary.Entry {
	e := dictionary.Entry{
		ID:         id,
		Readings:   readings,
		Priorities: []string{"ichi1"},
		Definitions: []dictionary.Definition{{
			PartsOfSpeech: pos,
			Meanings:      map[string][]string{dictionary.DefaultLanguage: {"test"}},
		}},
	}
	dictionary.Finalize(&e)
	return e
}

func record(surface, pos, sub, dict string) string {
	return tokenize.FormatRecord(surface, [4]string{pos, sub, "*", "*"}, dict, dict, "")
}

func testServer(t *testing.T, logsDir string) http.Handler {
	lines := []string{
		record("猫", "名詞", "一般", "猫"),
		record("が", "助詞", "格助詞", "が"),
		record("食べ", "動詞", "自立", "食べる"),
		record("た", "助動詞", "*", "た"),
		record("。", "記号", "句点", "。"),
		tokenize.EOS,
	}
	tok := tokenize.Func(func(ctx context.Context, text string, mode tokenize.Mode) (string, error) {
		return strings.Join(lines, "\n"), nil
	})
	dict := dictionary.NewMemStore(
		entry(1467640, []string{"猫", "ねこ"}, "n"),
		entry(1358280, []string{"食べる", "たべる"}, "v1", "vt"),
	)
	decon, err := deconjugate.Default()
	require.NoError(t, err)
	analyzer := analyze.New(combine.NewAnalyser(tok, combine.Options{}), lookup.NewResolver(dict, decon))
	conf := &cnf.Conf{LogsDir: logsDir}
	require.NoError(t, cnf.ValidateAndDefaults(conf))
	return New(conf, analyzer, decon, "test").Handler()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestInfo(t *testing.T) {
	rec := do(testServer(t, ""), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info ServerInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "jplemma", info.Name)
	assert.Equal(t, "uni", info.Tokenizer)
	assert.Positive(t, info.NumRules)
}

func TestAnalyse(t *testing.T) {
	dir := t.TempDir()
	rec := do(testServer(t, dir), http.MethodPost, "/analyse", `{"text": "猫が食べた。"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ans analyze.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ans))
	assert.NotEmpty(t, ans.DocumentID)
	assert.Equal(t, 2, ans.Resolved)
	require.Len(t, ans.Sentences, 1)
	assert.Equal(t, "猫が食べた。", ans.Sentences[0].Text)

	_, err := os.Stat(filepath.Join(dir, ans.DocumentID+".json"))
	assert.NoError(t, err, "analysis is dumped to the logs dir")
}

func TestAnalyseBadInput(t *testing.T) {
	h := testServer(t, "")
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/analyse", `{"text": "   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/analyse", `{"text": `).Code)
}

func TestParse(t *testing.T) {
	h := testServer(t, "")
	rec := do(h, http.MethodPost, "/parse", `{"text": "猫が食べた。"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp parseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Words, 2)
	assert.Equal(t, 1358280, resp.Words[1].WordID)
	assert.Len(t, resp.Deck, 2)

	rec = do(h, http.MethodPost, "/parse?morphemes=1", `{"text": "猫が食べた。"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Words)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/parse", `{"text": ""}`).Code)
}

func TestDeconjugate(t *testing.T) {
	h := testServer(t, "")
	rec := do(h, http.MethodGet, "/deconjugate?q=たべた", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp deconjugateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "たべた", resp.Query)
	var found bool
	for _, f := range resp.Forms {
		if f.Text == "たべる" {
			found = true
		}
	}
	assert.True(t, found)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/deconjugate", "").Code)
}

func TestResolve(t *testing.T) {
	h := testServer(t, "")
	rec := do(h, http.MethodPost, "/resolve", `{"text": "食べた", "pos": "verb", "dictionary_form": "食べる"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var w model.ResolvedWord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
	assert.Equal(t, 1358280, w.WordID)

	rec = do(h, http.MethodPost, "/resolve", `{"text": "ぴよぴよ", "pos": "noun"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ぴよぴよ")

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/resolve", `{"pos": "noun"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/resolve", `{"text": "猫", "pos": "bogus"}`).Code)
}

func TestUnknownRoute(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(testServer(t, ""), http.MethodGet, "/nope", "").Code)
}
