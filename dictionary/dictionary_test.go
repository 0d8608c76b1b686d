package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jplemma/kanji"
	"jplemma/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jmdictFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE JMdict [
<!ELEMENT JMdict (entry*)>
<!-- entities -->
<!ENTITY v1 "Ichidan verb">
<!ENTITY vt "transitive verb">
<!ENTITY n "noun (common) (futsuumeishi)">
<!ENTITY uk "word usually written using kana alone">
<!ENTITY ok "out-dated or obsolete kana usage">
<!ENTITY adj-i "adjective (keiyoushi)">
]>
<JMdict>
<entry>
<ent_seq>1358280</ent_seq>
<k_ele><keb>食べる</keb><ke_pri>ichi1</ke_pri><ke_pri>news2</ke_pri></k_ele>
<k_ele><keb>喰べる</keb></k_ele>
<r_ele><reb>たべる</reb><re_pri>ichi1</re_pri></r_ele>
<sense><pos>&v1;</pos><pos>&vt;</pos><gloss>to eat</gloss><gloss xml:lang="ger">essen</gloss></sense>
</entry>
<entry>
<ent_seq>1360000</ent_seq>
<k_ele><keb>日</keb></k_ele>
<k_ele><keb>陽</keb></k_ele>
<r_ele><reb>ひ</reb></r_ele>
<r_ele><reb>か</reb><re_restr>日</re_restr></r_ele>
<r_ele><reb>ゐ</reb><re_inf>&ok;</re_inf></r_ele>
<sense><pos>&n;</pos><gloss>day</gloss></sense>
<sense><stagr>よう</stagr><pos>&n;</pos><gloss>never kept</gloss></sense>
</entry>
<entry>
<ent_seq>1080000</ent_seq>
<r_ele><reb>パン</reb></r_ele>
<sense><pos>&n;</pos><misc>&uk;</misc><lsource xml:lang="por">pão</lsource><gloss>bread</gloss></sense>
</entry>
<entry>
<ent_seq>1200000</ent_seq>
<k_ele><keb>川口</keb></k_ele>
<r_ele><reb>かわぐち</reb></r_ele>
<r_ele><reb>カワグチ</reb><re_nokanji/></r_ele>
<sense><pos>&n;</pos><gloss>river mouth</gloss></sense>
</entry>
</JMdict>
`

const kanjiFixture = `<?xml version="1.0" encoding="UTF-8"?>
<kanjidic2>
<character><literal>川</literal><reading_meaning><rmgroup>
<reading r_type="ja_on">セン</reading><reading r_type="ja_kun">かわ</reading>
</rmgroup></reading_meaning></character>
<character><literal>口</literal><reading_meaning><rmgroup>
<reading r_type="ja_on">コウ</reading><reading r_type="ja_kun">くち</reading>
</rmgroup></reading_meaning></character>
</kanjidic2>
`

func loadFixture(t *testing.T, opts ...JMdictOption) map[int]Entry {
	entries, err := LoadJMdict(strings.NewReader(jmdictFixture), opts...)
	require.NoError(t, err)
	out := make(map[int]Entry)
	for _, e := range entries {
		out[e.ID] = e
	}
	return out
}

func TestLoadJMdict(t *testing.T) {
	entries := loadFixture(t)
	require.Len(t, entries, 4)

	taberu := entries[1358280]
	assert.Equal(t, []string{"食べる", "喰べる", "たべる"}, taberu.Readings)
	assert.Equal(t, []ReadingType{Graphemic, Graphemic, Phonetic}, taberu.ReadingTypes)
	assert.Equal(t, []string{"ichi1", "news2"}, taberu.Priorities)
	assert.Equal(t, []string{"v1", "vt"}, taberu.PartsOfSpeech)
	require.Len(t, taberu.Definitions, 1)
	assert.Equal(t, []string{"to eat"}, taberu.Definitions[0].Meanings["eng"])
	assert.Equal(t, []string{"essen"}, taberu.Definitions[0].Meanings["ger"])
	assert.Equal(t, model.OriginUnknown, taberu.Origin)

	hi := entries[1360000]
	assert.Equal(t, []string{"日", "陽", "ひ", "か"}, hi.Readings)
	assert.Equal(t, []string{"ゐ"}, hi.ObsoleteReadings)
	assert.Equal(t, []string{"日[ひ]", "陽[ひ]", "ひ", "か"}, hi.ReadingsFurigana)
	assert.Len(t, hi.Definitions, 1, "stagr sense must be dropped")

	pan := entries[1080000]
	assert.Equal(t, model.OriginGairaigo, pan.Origin)
	assert.True(t, pan.HasPOS("uk"))
	assert.True(t, pan.HasPOS("n"))
}

func TestLoadJMdictFuriganaAlignment(t *testing.T) {
	store, err := kanji.Load(strings.NewReader(kanjiFixture))
	require.NoError(t, err)

	plain := loadFixture(t)
	assert.Equal(t, "川口", plain[1200000].ReadingsFurigana[0])

	aligned := loadFixture(t, WithKanjiStore(store))
	assert.Equal(t, "川[かわ]口[ぐち]", aligned[1200000].ReadingsFurigana[0])
	assert.Equal(t, []string{"川口", "かわぐち", "カワグチ"}, aligned[1200000].Readings)
}

func TestLoadJMdictOptions(t *testing.T) {
	entries := loadFixture(t, WithLanguages("ger"))
	assert.Nil(t, entries[1358280].Definitions[0].Meanings["eng"])
	assert.Equal(t, []string{"essen"}, entries[1358280].Definitions[0].Meanings["ger"])

	limited, err := LoadJMdict(strings.NewReader(jmdictFixture), WithMaxEntries(2))
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestLoadJMdictBroken(t *testing.T) {
	_, err := LoadJMdict(strings.NewReader("<JMdict><entry><ent_seq>1</ent_seq>"))
	assert.Error(t, err)
}

func TestOpenJMdictFile(t *testing.T) {
	_, err := OpenJMdictFile(filepath.Join(t.TempDir(), "none.xml"))
	assert.ErrorIs(t, err, ErrResourceMissing)

	path := filepath.Join(t.TempDir(), "JMdict_e.xml")
	require.NoError(t, os.WriteFile(path, []byte(jmdictFixture), 0o644))
	entries, err := OpenJMdictFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestLookupKeys(t *testing.T) {
	assert.Equal(t, []string{"らーめん", "らあめん", "ラーメン"}, LookupKeys("ラーメン"))
	assert.Equal(t, []string{"たべる"}, LookupKeys("たべる"))
	assert.Equal(t, []string{"食べる"}, LookupKeys("食べる"))
	assert.Empty(t, LookupKeys(""))
}

func TestCustomEntries(t *testing.T) {
	entries := CustomEntries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, 8000000+i, e.ID)
		assert.Equal(t, []string{"exp"}, e.PartsOfSpeech)
		assert.Equal(t, e.Readings, e.ReadingsFurigana)
	}
}

func TestEntryClone(t *testing.T) {
	e := loadFixture(t)[1358280]
	c := e.Clone()
	c.Readings[0] = "x"
	c.Definitions[0].Meanings["eng"][0] = "y"
	assert.Equal(t, "食べる", e.Readings[0])
	assert.Equal(t, "to eat", e.Definitions[0].Meanings["eng"][0])
}

func fixtureEntries(t *testing.T) []Entry {
	entries, err := LoadJMdict(strings.NewReader(jmdictFixture))
	require.NoError(t, err)
	return append(entries, CustomEntries()...)
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore(fixtureEntries(t)...)
	assert.Equal(t, 7, m.Len())

	got, err := m.LookupByKey(ctx, "たべる")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1358280, got[0].ID)

	got, err = m.LookupByKey(ctx, "ぱん")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = m.LookupByKey(ctx, "ゐ")
	require.NoError(t, err)
	assert.Empty(t, got, "obsolete readings are not indexed")

	e, ok, err := m.LookupByID(ctx, 1360000)
	require.NoError(t, err)
	require.True(t, ok)
	e.Readings[0] = "changed"
	again, _, _ := m.LookupByID(ctx, 1360000)
	assert.Equal(t, "日", again.Readings[0])

	_, ok, err = m.LookupByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// reimport replaces the keys of the old entry
	require.NoError(t, m.Import(ctx, []Entry{{ID: 1080000, Readings: []string{"ぱんや"}}}))
	got, _ = m.LookupByKey(ctx, "ぱん")
	assert.Empty(t, got)
	got, _ = m.LookupByKey(ctx, "ぱんや")
	assert.Len(t, got, 1)
}

func TestSQLiteMatchesMemStore(t *testing.T) {
	ctx := context.Background()
	entries := fixtureEntries(t)

	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "dict.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Import(ctx, entries))
	mem := NewMemStore(entries...)

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(entries), n)

	for _, key := range []string{"たべる", "食べる", "ひ", "日", "ぱん", "パン", "かわぐち", "でした", "missing"} {
		want, err := mem.LookupByKey(ctx, key)
		require.NoError(t, err)
		got, err := db.LookupByKey(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, got, "key %s", key)
	}

	// importing again replaces instead of duplicating
	require.NoError(t, db.Import(ctx, entries[:1]))
	got, err := db.LookupByKey(ctx, "たべる")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

type countingDict struct {
	Dictionary
	keyCalls int
	idCalls  int
}

func (c *countingDict) LookupByKey(ctx context.Context, key string) ([]Entry, error) {
	c.keyCalls++
	return c.Dictionary.LookupByKey(ctx, key)
}

func (c *countingDict) LookupByID(ctx context.Context, id int) (Entry, bool, error) {
	c.idCalls++
	return c.Dictionary.LookupByID(ctx, id)
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingDict{Dictionary: NewMemStore(fixtureEntries(t)...)}
	c, err := NewCached(inner, 16)
	require.NoError(t, err)

	first, err := c.LookupByKey(ctx, "たべる")
	require.NoError(t, err)
	first[0].Readings[0] = "mutated"
	second, err := c.LookupByKey(ctx, "たべる")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.keyCalls)
	assert.Equal(t, "食べる", second[0].Readings[0])

	// IDs seen through key lookups are served from the cache
	e, ok, err := c.LookupByID(ctx, 1358280)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1358280, e.ID)
	assert.Equal(t, 0, inner.idCalls)

	_, ok, err = c.LookupByID(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, inner.idCalls)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, err = c.LookupByKey(ctx, "たべる")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.keyCalls)
}
