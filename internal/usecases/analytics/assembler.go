package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/utils"
)

// Limites de itens por visão
const (
	maxRankedServices    = 5
	maxDemographicGroups = 15
)

// topN ordena de forma estável pela chave decrescente e mantém os n primeiros.
// Empates preservam a ordem de entrada.
func topN[T any](items []T, n int, key func(T) float64) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(key(b), key(a))
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// weekdaySeries monta a série de segunda a domingo; valores negativos viram zero
func weekdaySeries(amounts [7]float64) domain.RevenueSeries {
	series := make(domain.RevenueSeries, 0, len(amounts))
	for i, amount := range amounts {
		series = append(series, domain.RevenuePoint{
			Day:    domain.WeekdayLabels[i],
			Amount: max(amount, 0),
		})
	}
	return series
}

// percentage retorna part/total em [0,100]; total zero resulta em zero
func percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func roundedPercentage(part, total int) float64 {
	return utils.RoundWithTwoDecimalPlace(percentage(part, total))
}

func peakHourLabel(hour int) string {
	return fmt.Sprintf("%d:00-%d:00", hour, hour+2)
}

// counter conta ocorrências preservando a ordem da primeira aparição
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(key K) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// mostCommon retorna a chave mais frequente; em empate vence a que apareceu primeiro
func (c *counter[K]) mostCommon() (K, bool) {
	var (
		best  K
		count int
	)
	for _, key := range c.order {
		if c.counts[key] > count {
			best, count = key, c.counts[key]
		}
	}
	return best, count > 0
}
