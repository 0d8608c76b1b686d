package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jmnedictFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE JMnedict [
<!ENTITY surname "family or surname">
<!ENTITY place "place name">
<!ENTITY given "given name or forename, gender not specified">
]>
<JMnedict>
<entry>
<ent_seq>5741815</ent_seq>
<k_ele><keb>山田</keb></k_ele>
<r_ele><reb>やまだ</reb></r_ele>
<trans><name_type>&surname;</name_type><trans_det>Yamada</trans_det></trans>
</entry>
<entry>
<ent_seq>5741816</ent_seq>
<k_ele><keb>山田</keb></k_ele>
<r_ele><reb>さんでん</reb></r_ele>
<trans><name_type>&place;</name_type><trans_det>Sanden</trans_det></trans>
<trans><name_type>&given;</name_type></trans>
</entry>
<entry>
<ent_seq>5000001</ent_seq>
<k_ele><keb>猫</keb></k_ele>
<r_ele><reb>ねこ</reb></r_ele>
<trans><name_type>&surname;</name_type><trans_det>Neko</trans_det></trans>
</entry>
<entry>
<ent_seq>5000002</ent_seq>
<r_ele><reb>さくら</reb></r_ele>
<trans><trans_det>Sakura</trans_det></trans>
</entry>
</JMnedict>
`

func TestLoadJMnedict(t *testing.T) {
	entries, err := LoadJMnedict(strings.NewReader(jmnedictFixture), nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	yamada := entries[0]
	assert.Equal(t, 5741815, yamada.ID)
	assert.Equal(t, []string{"山田", "やまだ", "さんでん"}, yamada.Readings)
	assert.Equal(t, []ReadingType{Graphemic, Phonetic, Phonetic}, yamada.ReadingTypes)
	require.Len(t, yamada.Definitions, 2, "a trans without details is dropped")
	assert.Equal(t, []string{"Yamada"}, yamada.Definitions[0].Meanings[DefaultLanguage])
	assert.Equal(t, []string{"place", "surname"}, yamada.PartsOfSpeech)
	assert.True(t, yamada.HasPriority(NamePriority))

	assert.Equal(t, 5000001, entries[1].ID)

	sakura := entries[2]
	assert.Equal(t, []string{"name"}, sakura.PartsOfSpeech)
	assert.True(t, sakura.HasPriority(NamePriority))
}

func TestLoadJMnedictSkipsKnownReadings(t *testing.T) {
	known := ReadingSet([]Entry{{ID: 1467640, Readings: []string{"猫", "ねこ"}}})
	assert.Contains(t, known, "猫")
	names, err := LoadJMnedict(strings.NewReader(jmnedictFixture), known)
	require.NoError(t, err)
	require.Len(t, names, 2)
	for _, n := range names {
		assert.NotEqual(t, 5000001, n.ID)
	}
}

func TestOpenJMnedictFile(t *testing.T) {
	_, err := OpenJMnedictFile(filepath.Join(t.TempDir(), "none.xml"), nil)
	assert.ErrorIs(t, err, ErrResourceMissing)

	path := filepath.Join(t.TempDir(), "JMnedict.xml")
	require.NoError(t, os.WriteFile(path, []byte(jmnedictFixture), 0o644))
	entries, err := OpenJMnedictFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
