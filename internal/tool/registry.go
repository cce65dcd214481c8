package tool

import "github.com/porcitech/kouakou/internal/domain"

// BuildCatalog assembles the full farm catalog from the available services.
// Unwired services contribute no handlers. Name collisions surface here, at
// startup, as an error.
func BuildCatalog(svcs domain.Services) (*Catalog, error) {
	catalog := NewCatalog()

	var handlers []Handler
	if svcs.Finance != nil {
		handlers = append(handlers, FinanceHandlers(svcs.Finance)...)
	}
	if svcs.Health != nil {
		handlers = append(handlers, HealthHandlers(svcs.Health)...)
	}
	if svcs.Livestock != nil {
		handlers = append(handlers, LivestockHandlers(svcs.Livestock)...)
	}
	if svcs.Marketplace != nil {
		handlers = append(handlers, MarketplaceHandlers(svcs.Marketplace)...)
	}
	if svcs.Reproduction != nil {
		handlers = append(handlers, ReproductionHandlers(svcs.Reproduction)...)
	}
	if svcs.Mortality != nil {
		handlers = append(handlers, MortalityHandlers(svcs.Mortality)...)
	}
	if svcs.Schedule != nil {
		handlers = append(handlers, ScheduleHandlers(svcs.Schedule)...)
	}
	if svcs.Nutrition != nil {
		handlers = append(handlers, NutritionHandlers(svcs.Nutrition)...)
	}
	if svcs.Knowledge != nil {
		handlers = append(handlers, KnowledgeHandlers(svcs.Knowledge)...)
	}

	for _, h := range handlers {
		if err := catalog.Register(h); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
