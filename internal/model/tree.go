package model

import (
	"math"
	"sort"
)

// maxBins — максимум кандидатов порога на признак (гистограммный поиск
// сплита)
const maxBins = 32

// treeNode — узел регрессионного дерева. MissingLeft задает выученное
// направление для пропущенных (NaN) значений признака.
type treeNode struct {
	Feature     int     `json:"f"`
	Threshold   float64 `json:"t"`
	MissingLeft bool    `json:"ml"`
	Left        int     `json:"l"`
	Right       int     `json:"r"`
	IsLeaf      bool    `json:"leaf"`
	Value       float64 `json:"v"`
}

// tree — регрессионное дерево с маршрутизацией пропусков
type tree struct {
	Nodes []treeNode `json:"nodes"`
}

// treeBuilder собирает одно дерево бустинга: сплиты ищутся по
// квадратичной ошибке рабочих откликов (градиентов), значения листьев —
// медианы фактических остатков (LAD)
type treeBuilder struct {
	X        [][]float64
	grad     []float64 // рабочие отклики, по ним ищем сплиты
	resid    []float64 // фактические остатки, по ним считаем листья
	features []int     // колонки, доступные этому дереву (colsample)
	maxDepth int
	minLeaf  int
	nodes    []treeNode
}

func buildTree(X [][]float64, grad, resid []float64, rows, featureSubset []int, maxDepth int) *tree {
	b := &treeBuilder{
		X:        X,
		grad:     grad,
		resid:    resid,
		features: featureSubset,
		maxDepth: maxDepth,
		minLeaf:  1,
	}
	b.grow(rows, 0)
	return &tree{Nodes: b.nodes}
}

// grow строит поддерево и возвращает индекс его корня
func (b *treeBuilder) grow(rows []int, depth int) int {
	if depth >= b.maxDepth || len(rows) < 2*b.minLeaf {
		return b.leaf(rows)
	}

	split, ok := b.bestSplit(rows)
	if !ok {
		return b.leaf(rows)
	}

	left, right := b.partition(rows, split)
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return b.leaf(rows)
	}

	// резервируем место под узел до рекурсии, чтобы индексы детей
	// были стабильны
	nodeIdx := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{})

	leftIdx := b.grow(left, depth+1)
	rightIdx := b.grow(right, depth+1)

	b.nodes[nodeIdx] = treeNode{
		Feature:     split.feature,
		Threshold:   split.threshold,
		MissingLeft: split.missingLeft,
		Left:        leftIdx,
		Right:       rightIdx,
	}
	return nodeIdx
}

func (b *treeBuilder) leaf(rows []int) int {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = b.resid[r]
	}
	b.nodes = append(b.nodes, treeNode{IsLeaf: true, Value: median(values)})
	return len(b.nodes) - 1
}

type splitCandidate struct {
	feature     int
	threshold   float64
	missingLeft bool
	gain        float64
}

// bestSplit перебирает кандидатов порога по каждому доступному признаку;
// строки с пропуском признака пробуются в обеих ветках, выбирается
// направление с лучшим выигрышем
func (b *treeBuilder) bestSplit(rows []int) (splitCandidate, bool) {
	parentSSE := b.sse(rows)
	best := splitCandidate{gain: 0}
	found := false

	for _, f := range b.features {
		present := make([]float64, 0, len(rows))
		for _, r := range rows {
			if !math.IsNaN(b.X[r][f]) {
				present = append(present, b.X[r][f])
			}
		}
		if len(present) < 2 {
			continue
		}

		for _, threshold := range thresholdCandidates(present) {
			for _, missingLeft := range []bool{true, false} {
				cand := splitCandidate{feature: f, threshold: threshold, missingLeft: missingLeft}
				left, right := b.partition(rows, cand)
				if len(left) < b.minLeaf || len(right) < b.minLeaf {
					continue
				}
				gain := parentSSE - b.sse(left) - b.sse(right)
				if gain > best.gain {
					best = cand
					best.gain = gain
					found = true
				}
			}
		}
	}
	return best, found
}

func (b *treeBuilder) partition(rows []int, s splitCandidate) (left, right []int) {
	for _, r := range rows {
		v := b.X[r][s.feature]
		if math.IsNaN(v) {
			if s.missingLeft {
				left = append(left, r)
			} else {
				right = append(right, r)
			}
			continue
		}
		if v < s.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}

// sse — сумма квадратов отклонений рабочих откликов от их среднего
func (b *treeBuilder) sse(rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rows {
		sum += b.grad[r]
	}
	mean := sum / float64(len(rows))

	sse := 0.0
	for _, r := range rows {
		d := b.grad[r] - mean
		sse += d * d
	}
	return sse
}

// thresholdCandidates возвращает до maxBins порогов по квантилям
// присутствующих значений признака
func thresholdCandidates(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	unique := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != unique[len(unique)-1] {
			unique = append(unique, v)
		}
	}
	if len(unique) < 2 {
		return nil
	}

	if len(unique)-1 <= maxBins {
		out := make([]float64, 0, len(unique)-1)
		for i := 1; i < len(unique); i++ {
			out = append(out, (unique[i-1]+unique[i])/2)
		}
		return out
	}

	out := make([]float64, 0, maxBins)
	step := float64(len(unique)-1) / float64(maxBins)
	for i := 1; i <= maxBins; i++ {
		idx := int(float64(i) * step)
		if idx >= len(unique) {
			idx = len(unique) - 1
		}
		out = append(out, (unique[idx-1]+unique[idx])/2)
	}
	return out
}

// predict прогоняет строку по дереву до листа
func (t *tree) predict(x []float64) float64 {
	idx := 0
	for {
		node := &t.Nodes[idx]
		if node.IsLeaf {
			return node.Value
		}
		v := x[node.Feature]
		if math.IsNaN(v) {
			if node.MissingLeft {
				idx = node.Left
			} else {
				idx = node.Right
			}
			continue
		}
		if v < node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}
