// Package stats compõe os números agregados exibidos nos cards de estatística
// (contagens por status, somas, médias, percentuais, taxas de abandono e janela recente).
package stats

import (
	"math"
	"time"

	"govitrine/internal/domain"
)

// DropOff define uma taxa de abandono entre dois rótulos de CountWhere.
type DropOff struct {
	From string
	To   string
}

// Spec enumera os agregados desejados para uma coleção de T.
// Count e as porcentagens de CountWhere são sempre calculados.
type Spec[T any] struct {
	CountWhere map[string]func(T) bool
	Sum        map[string]func(T) float64
	Average    map[string]func(T) float64
	DropOffs   map[string]DropOff

	// RecentWithinDays > 0 ativa a contagem da janela recente e da janela anterior.
	RecentWithinDays int
	Timestamp        func(T) time.Time
	// Now é o instante de referência da janela; nunca o relógio do próprio compositor.
	Now time.Time
}

// Summarize percorre a coleção uma única vez e calcula todos os agregados pedidos.
// Nunca retorna erro: divisões por zero resultam em 0.
func Summarize[T any](collection []T, spec Spec[T]) domain.AggregateStats {
	out := domain.AggregateStats{
		Count:       len(collection),
		ByLabel:     make(map[string]int, len(spec.CountWhere)),
		Percentages: make(map[string]float64, len(spec.CountWhere)),
		Sums:        make(map[string]float64, len(spec.Sum)),
		Averages:    make(map[string]float64, len(spec.Average)),
		DropOffs:    make(map[string]float64, len(spec.DropOffs)),
	}

	for label := range spec.CountWhere {
		out.ByLabel[label] = 0
	}
	for label := range spec.Sum {
		out.Sums[label] = 0
	}
	averageSums := make(map[string]float64, len(spec.Average))
	for label := range spec.Average {
		averageSums[label] = 0
	}

	window := time.Duration(spec.RecentWithinDays) * 24 * time.Hour
	trackRecent := spec.RecentWithinDays > 0 && spec.Timestamp != nil
	recentStart := spec.Now.Add(-window)
	previousStart := recentStart.Add(-window)

	for _, item := range collection {
		for label, predicate := range spec.CountWhere {
			if predicate(item) {
				out.ByLabel[label]++
			}
		}
		for label, field := range spec.Sum {
			out.Sums[label] += field(item)
		}
		for label, field := range spec.Average {
			averageSums[label] += field(item)
		}
		if trackRecent {
			ts := spec.Timestamp(item)
			switch {
			case ts.After(spec.Now):
				// datas futuras não entram em nenhuma janela
			case !ts.Before(recentStart):
				out.Recent++
			case !ts.Before(previousStart):
				out.PreviousRecent++
			}
		}
	}

	for label, count := range out.ByLabel {
		out.Percentages[label] = ratio(float64(count), float64(out.Count)) * 100
	}
	for label, total := range averageSums {
		out.Averages[label] = ratio(total, float64(out.Count))
	}
	for label, d := range spec.DropOffs {
		from := float64(out.ByLabel[d.From])
		to := float64(out.ByLabel[d.To])
		out.DropOffs[label] = ratio(from-to, from) * 100
	}
	if trackRecent && out.PreviousRecent > 0 {
		change := round1(float64(out.Recent-out.PreviousRecent) / float64(out.PreviousRecent) * 100)
		out.ChangePercent = &change
	}

	return out
}

func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
