package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/milleralan1/sales-prediction-api/internal/features"
	"github.com/milleralan1/sales-prediction-api/pkg/utils"
)

// catColumns — категориальные колонки под one-hot кодирование,
// в фиксированном порядке
var catColumns = []string{
	"Store_Type", "Location_Type", "Region_Code",
	"Store_Location_Type", "Holiday_Discount",
}

// Encoder превращает векторы признаков в числовую матрицу для модели:
// one-hot по категориальным колонкам (незнакомая категория — все нули),
// сглаженное target-кодирование идентификатора магазина (незнакомый
// магазин — глобальный приор) и числовые признаки в фиксированном
// порядке колонок. NaN числовых признаков проходит в матрицу как есть —
// пропуски обрабатывает модель.
type Encoder struct {
	CatColumns    []string            `json:"cat_columns"`
	Categories    map[string][]string `json:"categories"`
	NumColumns    []string            `json:"num_columns"`
	StoreEncoding map[string]float64  `json:"store_encoding"`
	StorePrior    float64             `json:"store_prior"`
	Smoothing     float64             `json:"smoothing"`

	catIndex map[string]map[string]int
}

// NewEncoder создает необученный кодировщик
func NewEncoder() *Encoder {
	return &Encoder{
		CatColumns: catColumns,
		Smoothing:  1.0,
	}
}

// Fit обучает кодировщик: словари категорий, порядок числовых колонок и
// target-кодирование магазинов по целевым значениям
func (e *Encoder) Fit(vectors []features.FeatureVector, y []float64) error {
	if len(vectors) == 0 {
		return fmt.Errorf("encoder: пустой обучающий батч")
	}
	if len(vectors) != len(y) {
		return fmt.Errorf("encoder: размер батча %d не совпадает с целевыми значениями %d", len(vectors), len(y))
	}

	// словари категорий
	e.Categories = make(map[string][]string, len(e.CatColumns))
	for _, col := range e.CatColumns {
		seen := make(map[string]bool)
		for i := range vectors {
			seen[vectors[i].Cat[col]] = true
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		e.Categories[col] = values
	}

	// порядок числовых колонок
	numSeen := make(map[string]bool)
	for i := range vectors {
		for name := range vectors[i].Num {
			numSeen[name] = true
		}
	}
	e.NumColumns = make([]string, 0, len(numSeen))
	for name := range numSeen {
		e.NumColumns = append(e.NumColumns, name)
	}
	sort.Strings(e.NumColumns)

	// сглаженное target-кодирование магазина
	e.StorePrior = utils.Mean(y)
	sums := make(map[string]float64)
	counts := make(map[string]float64)
	for i := range vectors {
		sums[vectors[i].StoreID] += y[i]
		counts[vectors[i].StoreID]++
	}
	e.StoreEncoding = make(map[string]float64, len(sums))
	for storeID, sum := range sums {
		e.StoreEncoding[storeID] = (sum + e.Smoothing*e.StorePrior) / (counts[storeID] + e.Smoothing)
	}

	e.rebuildIndex()
	return nil
}

// Transform кодирует батч в матрицу
func (e *Encoder) Transform(vectors []features.FeatureVector) ([][]float64, error) {
	if e.catIndex == nil {
		return nil, fmt.Errorf("encoder: не обучен")
	}

	X := make([][]float64, len(vectors))
	for i := range vectors {
		X[i] = e.encodeOne(&vectors[i])
	}
	return X, nil
}

func (e *Encoder) encodeOne(v *features.FeatureVector) []float64 {
	row := make([]float64, 0, e.Width())

	for _, col := range e.CatColumns {
		oneHot := make([]float64, len(e.Categories[col]))
		if idx, ok := e.catIndex[col][v.Cat[col]]; ok {
			oneHot[idx] = 1
		}
		row = append(row, oneHot...)
	}

	if enc, ok := e.StoreEncoding[v.StoreID]; ok {
		row = append(row, enc)
	} else {
		row = append(row, e.StorePrior)
	}

	for _, name := range e.NumColumns {
		if value, ok := v.Num[name]; ok {
			row = append(row, value)
		} else {
			row = append(row, math.NaN())
		}
	}
	return row
}

// Width возвращает количество колонок матрицы
func (e *Encoder) Width() int {
	width := 1 + len(e.NumColumns) // target-кодирование магазина + числовые
	for _, col := range e.CatColumns {
		width += len(e.Categories[col])
	}
	return width
}

// FeatureNames возвращает имена колонок матрицы в порядке кодирования
func (e *Encoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	for _, col := range e.CatColumns {
		for _, value := range e.Categories[col] {
			names = append(names, col+"="+value)
		}
	}
	names = append(names, "Store_id_target_enc")
	names = append(names, e.NumColumns...)
	return names
}

// rebuildIndex строит обратный индекс категорий; вызывается после Fit и
// после загрузки артефакта
func (e *Encoder) rebuildIndex() {
	e.catIndex = make(map[string]map[string]int, len(e.CatColumns))
	for _, col := range e.CatColumns {
		idx := make(map[string]int, len(e.Categories[col]))
		for i, value := range e.Categories[col] {
			idx[value] = i
		}
		e.catIndex[col] = idx
	}
}
