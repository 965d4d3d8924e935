package block

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDictionary(t *testing.T) {
	d := DefaultDictionary()

	assert.Equal(t, 7, d.Len())
	assert.Equal(t, "air", d.Definition(Air).Name)
	assert.Equal(t, "grass", d.Definition(Grass).Name)
	assert.Equal(t, "bedrock", d.Definition(Bedrock).Name)

	air := d.Definition(Air)
	assert.False(t, air.Visible)
	assert.True(t, air.Transparent)
	assert.True(t, air.Replaceable)

	bedrock := d.Definition(Bedrock)
	assert.True(t, bedrock.Visible)
	assert.False(t, bedrock.Breakable, "бедрок не ломается")

	rose := d.Definition(Rose)
	assert.True(t, rose.Transparent, "цветы не закрывают соседей")
	assert.True(t, rose.Replaceable)
}

func TestDictionaryUnknownIDFallsBackToAir(t *testing.T) {
	d := DefaultDictionary()
	def := d.Definition(200)
	assert.Equal(t, "air", def.Name, "неизвестный ID сворачивается в блок 0")
}

func TestNewDictionaryValidation(t *testing.T) {
	_, err := NewDictionary(nil)
	assert.Error(t, err, "пустой словарь отклоняется")

	_, err = NewDictionary([]Definition{{Name: "stone", Visible: true}})
	assert.Error(t, err, "первый блок обязан быть воздухом")
}

func TestLoadDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.yml")
	content := `blocks:
  - name: air
    transparent: true
    replaceable: true
  - name: marble
    visible: true
    breakable: true
    collidable: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	d, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	marble := d.Definition(1)
	assert.Equal(t, "marble", marble.Name)
	assert.True(t, marble.Visible)
	assert.True(t, marble.Breakable)
	assert.False(t, marble.Transparent)
}

func TestLoadDictionaryMissingFile(t *testing.T) {
	_, err := LoadDictionary(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
