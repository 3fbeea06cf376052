package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Params — гиперпараметры бустинга
type Params struct {
	NEstimators     int     `json:"n_estimators"`
	MaxDepth        int     `json:"max_depth"`
	LearningRate    float64 `json:"learning_rate"`
	Subsample       float64 `json:"subsample"`
	ColsampleByTree float64 `json:"colsample_bytree"`
	Seed            int64   `json:"seed"`
}

// DefaultParams — параметры по умолчанию для обучения без поиска
func DefaultParams() Params {
	return Params{
		NEstimators:     500,
		MaxDepth:        6,
		LearningRate:    0.05,
		Subsample:       0.8,
		ColsampleByTree: 0.8,
		Seed:            42,
	}
}

// GradientBoosting — градиентный бустинг регрессионных деревьев с
// абсолютной ошибкой (LAD): деревья обучаются на знаках остатков,
// значения листьев — медианы остатков. Пропущенные значения признаков
// маршрутизируются выученным направлением в каждом узле — поэтому
// лаговые признаки магазина без истории не требуют импутации.
type GradientBoosting struct {
	Params    Params  `json:"params"`
	BaseScore float64 `json:"base_score"`
	Trees     []*tree `json:"trees"`
}

// NewGradientBoosting создает необученную модель
func NewGradientBoosting(params Params) *GradientBoosting {
	return &GradientBoosting{Params: params}
}

// Fit обучает модель на матрице признаков
func (g *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("gbdt: пустая обучающая выборка")
	}
	if len(X) != len(y) {
		return fmt.Errorf("gbdt: размер матрицы %d не совпадает с целевыми значениями %d", len(X), len(y))
	}

	n := len(X)
	width := len(X[0])
	rng := rand.New(rand.NewSource(g.Params.Seed))

	// старт с медианы — оптимум абсолютной ошибки
	g.BaseScore = median(y)
	g.Trees = make([]*tree, 0, g.Params.NEstimators)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.BaseScore
	}

	resid := make([]float64, n)
	grad := make([]float64, n)

	for m := 0; m < g.Params.NEstimators; m++ {
		for i := 0; i < n; i++ {
			resid[i] = y[i] - pred[i]
			grad[i] = sign(resid[i])
		}

		rows := g.sampleRows(rng, n)
		if len(rows) < 2 {
			continue
		}
		feats := g.sampleFeatures(rng, width)

		t := buildTree(X, grad, resid, rows, feats, g.Params.MaxDepth)
		g.Trees = append(g.Trees, t)

		for i := 0; i < n; i++ {
			pred[i] += g.Params.LearningRate * t.predict(X[i])
		}
	}
	return nil
}

// Predict возвращает прогноз для одной строки матрицы
func (g *GradientBoosting) Predict(x []float64) float64 {
	out := g.BaseScore
	for _, t := range g.Trees {
		out += g.Params.LearningRate * t.predict(x)
	}
	return out
}

// sampleRows отбирает долю Subsample строк без возвращения
func (g *GradientBoosting) sampleRows(rng *rand.Rand, n int) []int {
	if g.Params.Subsample >= 1.0 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if rng.Float64() < g.Params.Subsample {
			rows = append(rows, i)
		}
	}
	return rows
}

// sampleFeatures отбирает долю ColsampleByTree колонок для дерева
func (g *GradientBoosting) sampleFeatures(rng *rand.Rand, width int) []int {
	feats := rng.Perm(width)
	if g.Params.ColsampleByTree >= 1.0 {
		return feats
	}
	keep := int(math.Ceil(g.Params.ColsampleByTree * float64(width)))
	if keep < 1 {
		keep = 1
	}
	return feats[:keep]
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// median — медиана значений (gonum требует отсортированный срез)
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
