package kanji

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<?xml version="1.0" encoding="UTF-8"?>
<kanjidic2>
<character><literal>入</literal><reading_meaning><rmgroup>
<reading r_type="pinyin">ru4</reading>
<reading r_type="ja_on">ニュウ</reading>
<reading r_type="ja_on">ジュ</reading>
<reading r_type="ja_kun">い.る</reading>
<reading r_type="ja_kun">-い.り</reading>
<reading r_type="ja_kun">はい.る</reading>
</rmgroup></reading_meaning></character>
<character><literal>見</literal><reading_meaning><rmgroup>
<reading r_type="ja_on">ケン</reading>
<reading r_type="ja_kun">み.る</reading>
<reading r_type="ja_kun">み.える</reading>
</rmgroup></reading_meaning></character>
<character><literal>内</literal><reading_meaning><rmgroup>
<reading r_type="ja_on">ナイ</reading>
<reading r_type="ja_on">ダイ</reading>
<reading r_type="ja_kun">うち</reading>
</rmgroup></reading_meaning></character>
<character><literal>川</literal><reading_meaning><rmgroup>
<reading r_type="ja_on">セン</reading>
<reading r_type="ja_kun">かわ</reading>
</rmgroup></reading_meaning></character>
<character><literal>口</literal><reading_meaning><rmgroup>
<reading r_type="ja_on">コウ</reading>
<reading r_type="ja_kun">くち</reading>
</rmgroup></reading_meaning></character>
</kanjidic2>`

func loadFixture(t *testing.T) *Store {
	s, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)
	return s
}

func TestLoadKeepsJapaneseReadingsOnly(t *testing.T) {
	s := loadFixture(t)
	assert.Equal(t, 5, s.Count())
	assert.Equal(t, []string{"ニュウ", "ジュ", "い.る", "-い.り", "はい.る"}, s.Readings('入'))
	assert.Nil(t, s.Readings('猫'))
}

func TestFuriganaAlignmentForIriminaiKawa(t *testing.T) {
	s := loadFixture(t)
	aligned := FormatBracketsOnly(s.Align("入見内川", "イリミナイカワ"))
	if aligned != "[いり][み][ない][かわ]" {
		t.Errorf("Expected [いり][み][ない][かわ], got %s", aligned)
	}
}

func TestAlignRendakuAndKana(t *testing.T) {
	s := loadFixture(t)
	assert.Equal(t, "川[かわ]口[ぐち]", Furigana(s.Align("川口", "カワグチ")))
	assert.Equal(t, "見[み]る", Furigana(s.Align("見る", "みる")))
}

func TestAlignLeftoverGoesToLastKanji(t *testing.T) {
	s := loadFixture(t)
	pairs := s.Align("川内", "かわまち")
	assert.Equal(t, [2]string{"内", "まち"}, pairs[1])
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanjidic2.xml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))
	s, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count())

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestNormalizeAndRendaku(t *testing.T) {
	assert.Equal(t, "いり", NormalizeReading("-い.り"))
	assert.Equal(t, "にゅう", NormalizeReading("ニュウ"))
	assert.Equal(t, "がわ", RendakuForm("かわ"))
	assert.Equal(t, "ない", RendakuForm("ない"))
}
