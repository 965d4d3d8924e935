package block

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dictionary хранит определения всех типов блоков. Передается явно тем,
// кому нужны свойства блоков (генератор, мир, API), без глобального
// состояния.
type Dictionary struct {
	definitions []Definition
}

// NewDictionary создает словарь из списка определений. Первый элемент
// обязан быть воздухом (невидимый, прозрачный, заменяемый).
func NewDictionary(definitions []Definition) (*Dictionary, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("словарь блоков пуст")
	}
	first := definitions[0]
	if first.Visible || !first.Transparent || !first.Replaceable {
		return nil, fmt.Errorf("блок с ID 0 (%s) должен быть воздухом", first.Name)
	}
	return &Dictionary{definitions: definitions}, nil
}

// DefaultDictionary возвращает встроенный словарь блоков
func DefaultDictionary() *Dictionary {
	return &Dictionary{definitions: []Definition{
		{Name: "air", Transparent: true, Replaceable: true},
		{Name: "grass", Hoverable: true, Visible: true, Breakable: true, Collidable: true},
		{Name: "dirt", Hoverable: true, Visible: true, Breakable: true, Collidable: true},
		{Name: "stone", Hoverable: true, Visible: true, Breakable: true, Collidable: true},
		{Name: "bedrock", Hoverable: true, Visible: true, Collidable: true},
		{Name: "rose", Hoverable: true, Visible: true, Breakable: true, Replaceable: true, Transparent: true},
		{Name: "dandelion", Hoverable: true, Visible: true, Breakable: true, Replaceable: true, Transparent: true},
	}}
}

// LoadDictionary загружает словарь блоков из YAML файла
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла блоков %s: %w", path, err)
	}

	var file struct {
		Blocks []Definition `yaml:"blocks"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла блоков %s: %w", path, err)
	}

	return NewDictionary(file.Blocks)
}

// Definition возвращает определение блока по ID. Неизвестные ID
// сворачиваются в воздух (ID 0): мир может содержать значения палитры,
// которых нет в словаре, и это не должно ронять сервер.
func (d *Dictionary) Definition(id ID) Definition {
	if int(id) >= len(d.definitions) {
		return d.definitions[0]
	}
	return d.definitions[id]
}

// Len возвращает количество известных типов блоков
func (d *Dictionary) Len() int {
	return len(d.definitions)
}
