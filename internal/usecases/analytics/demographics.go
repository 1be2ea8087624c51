package analytics

import "github.com/margareth/analytics-api/internal/domain"

// demographicAttribute associa um atributo do cliente ao prefixo exibido no dashboard
type demographicAttribute struct {
	prefix string
	value  func(domain.User) *string
}

var demographicAttributes = []demographicAttribute{
	{prefix: "Idade: ", value: func(u domain.User) *string { return u.AgeGroup }},
	{prefix: "Cabelo: ", value: func(u domain.User) *string { return u.HairType }},
	{prefix: "Frequência: ", value: func(u domain.User) *string { return u.VisitFrequency }},
	{prefix: "Gastos: ", value: func(u domain.User) *string { return u.SpendingRange }},
}

// BuildDemographics monta a distribuição de categorias dos clientes com perfil completo.
// O percentual é relativo ao total de clientes, não ao total de respostas do atributo.
func BuildDemographics(users []domain.User) domain.DemographicBreakdown {
	breakdown := make(domain.DemographicBreakdown, 0)

	for _, attribute := range demographicAttributes {
		categories := newCounter[string]()
		for _, user := range users {
			if category, ok := domain.Category(attribute.value(user)); ok {
				categories.add(category)
			}
		}

		for _, category := range categories.order {
			count := categories.counts[category]
			breakdown = append(breakdown, domain.DemographicItem{
				Category:   attribute.prefix + category,
				Percentage: roundedPercentage(count, len(users)),
				Count:      count,
			})
		}
	}

	return topN(breakdown, maxDemographicGroups, func(item domain.DemographicItem) float64 {
		return item.Percentage
	})
}
