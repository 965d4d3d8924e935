package util

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseParams описывает одно фрактальное поле шума
type NoiseParams struct {
	Octaves     int
	Frequency   float64
	Lacunarity  float64
	Persistence float64
}

// Fbm — фрактальное броуновское движение над симплекс-шумом: сумма
// октав с растущей частотой и затухающей амплитудой, нормированная
// суммой амплитуд в диапазон примерно [-1, 1].
type Fbm struct {
	noise  opensimplex.Noise
	params NoiseParams
}

// NewFbm создает поле с детерминированным зерном
func NewFbm(seed int64, params NoiseParams) *Fbm {
	if params.Octaves < 1 {
		params.Octaves = 1
	}
	return &Fbm{
		noise:  opensimplex.New(seed),
		params: params,
	}
}

// Eval2 вычисляет значение поля в 2D точке
func (f *Fbm) Eval2(x, y float64) float64 {
	sum, amplitude, total := 0.0, 1.0, 0.0
	frequency := f.params.Frequency
	for i := 0; i < f.params.Octaves; i++ {
		sum += f.noise.Eval2(x*frequency, y*frequency) * amplitude
		total += amplitude
		frequency *= f.params.Lacunarity
		amplitude *= f.params.Persistence
	}
	return sum / total
}

// Eval3 вычисляет значение поля в 3D точке
func (f *Fbm) Eval3(x, y, z float64) float64 {
	sum, amplitude, total := 0.0, 1.0, 0.0
	frequency := f.params.Frequency
	for i := 0; i < f.params.Octaves; i++ {
		sum += f.noise.Eval3(x*frequency, y*frequency, z*frequency) * amplitude
		total += amplitude
		frequency *= f.params.Lacunarity
		amplitude *= f.params.Persistence
	}
	return sum / total
}

// Ridged — мультифрактал хребтов: каждая октава 1-2|n| подчеркивает
// гребни, итог нормирован в диапазон примерно [-1, 1].
type Ridged struct {
	noise  opensimplex.Noise
	params NoiseParams
}

// NewRidged создает хребтовое поле с детерминированным зерном
func NewRidged(seed int64, params NoiseParams) *Ridged {
	if params.Octaves < 1 {
		params.Octaves = 1
	}
	return &Ridged{
		noise:  opensimplex.New(seed),
		params: params,
	}
}

// Eval2 вычисляет значение поля в 2D точке
func (r *Ridged) Eval2(x, y float64) float64 {
	sum, amplitude, total := 0.0, 1.0, 0.0
	frequency := r.params.Frequency
	for i := 0; i < r.params.Octaves; i++ {
		n := r.noise.Eval2(x*frequency, y*frequency)
		sum += (1 - 2*math.Abs(n)) * amplitude
		total += amplitude
		frequency *= r.params.Lacunarity
		amplitude *= r.params.Persistence
	}
	return sum / total
}
