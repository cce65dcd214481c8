package tool

import (
	"context"
	"fmt"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// NutritionHandlers exposes the feed stock and ration operations to the model.
func NutritionHandlers(svc domain.NutritionService) []Handler {
	return []Handler{
		op{
			name:   "get_stock_status",
			desc:   "Donne l'état du stock d'aliments et signale les ingrédients en rupture.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				items, err := svc.StockStatus(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}

				low := 0
				for _, item := range items {
					if item.Low {
						low++
					}
				}
				message := "Stock d'aliments récupéré"
				if low > 0 {
					message = fmt.Sprintf("Attention: %d ingrédients sous le seuil d'alerte", low)
				}
				return success(message, items)
			},
		},
		op{
			name: "create_feed_usage",
			desc: "Enregistre une consommation d'aliment et déduit la quantité du stock.",
			params: objectSchema(map[string]interface{}{
				"ingredient":  stringProp("Nom de l'ingrédient consommé"),
				"quantity_kg": numberProp("Quantité consommée en kilogrammes"),
				"date":        stringProp("Date de la consommation au format AAAA-MM-JJ"),
			}, "ingredient", "quantity_kg"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				ingredient := argString(args, "ingredient")
				if ingredient == "" {
					return failure(kerrors.InvalidInput("nom de l'ingrédient manquant"))
				}
				quantity, err := normalizeAmount(args["quantity_kg"])
				if err != nil {
					return failure(kerrors.InvalidInput("quantité invalide, attendu un nombre de kilogrammes positif"))
				}

				item, err := svc.RecordFeedUsage(ctx, id.ProjectID, id.UserID, domain.FeedUsageInput{
					Ingredient: ingredient,
					QuantityKg: quantity,
					Date:       normalizeDate(argString(args, "date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Consommation de %s kg de %s enregistrée", formatFCFA(quantity), ingredient), item)
			},
		},
		op{
			name: "create_ration",
			desc: "Crée une formule de ration alimentaire avec ses ingrédients en proportion.",
			params: objectSchema(map[string]interface{}{
				"name":  stringProp("Nom de la ration"),
				"stage": enumProp("Stade d'élevage visé", "porcelet", "croissance", "finition", "gestante", "allaitante"),
				"ingredients": map[string]interface{}{
					"type":        "object",
					"description": "Ingrédients et leur part en kilogrammes pour 100 kg de ration",
				},
			}, "name", "ingredients"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				name := argString(args, "name")
				if name == "" {
					return failure(kerrors.InvalidInput("nom de la ration manquant"))
				}

				raw, _ := args["ingredients"].(map[string]interface{})
				ingredients := make(map[string]float64, len(raw))
				for ingredient, v := range raw {
					qty, ok := v.(float64)
					if !ok || qty <= 0 {
						return failure(kerrors.InvalidInput(fmt.Sprintf("quantité invalide pour %s", ingredient)))
					}
					ingredients[ingredient] = qty
				}
				if len(ingredients) == 0 {
					return failure(kerrors.InvalidInput("la ration doit contenir au moins un ingrédient"))
				}

				ration, err := svc.CreateRation(ctx, id.ProjectID, id.UserID, domain.RationInput{
					Name:        name,
					Ingredients: ingredients,
					Stage:       argString(args, "stage"),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Ration %s créée avec %d ingrédients", name, len(ingredients)), ration)
			},
		},
	}
}
