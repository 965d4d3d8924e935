package block

// ID идентифицирует тип блока в словаре. Хранится в палитре секции,
// поэтому нулевое значение обязано быть воздухом.
type ID uint8

// Идентификаторы встроенных блоков. Порядок фиксирован: индекс в словаре
// совпадает со значением ID.
const (
	Air ID = iota
	Grass
	Dirt
	Stone
	Bedrock
	Rose
	Dandelion
)

// Definition описывает свойства типа блока
type Definition struct {
	Name        string `yaml:"name"`
	Hoverable   bool   `yaml:"hoverable"`
	Visible     bool   `yaml:"visible"`
	Breakable   bool   `yaml:"breakable"`
	Collidable  bool   `yaml:"collidable"`
	Replaceable bool   `yaml:"replaceable"`
	Transparent bool   `yaml:"transparent"`
}
