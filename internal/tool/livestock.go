package tool

import (
	"context"
	"fmt"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// LivestockHandlers exposes the animal inventory operations to the model.
func LivestockHandlers(svc domain.LivestockService) []Handler {
	return []Handler{
		op{
			name: "search_animal",
			desc: "Recherche un animal du cheptel par son code ou son nom.",
			params: objectSchema(map[string]interface{}{
				"query": stringProp("Code ou nom de l'animal recherché"),
			}, "query"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				query := argString(args, "query")
				if query == "" {
					return failure(kerrors.InvalidInput("code ou nom de l'animal manquant"))
				}
				animal, err := svc.FindAnimal(ctx, id.ProjectID, id.UserID, query)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Animal %s trouvé", animal.Code), animal)
			},
		},
		op{
			name:   "list_animals",
			desc:   "Liste tous les animaux du cheptel avec leur statut.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				animals, err := svc.ListAnimals(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("%d animaux dans le cheptel", len(animals)), animals)
			},
		},
		op{
			name:   "get_herd_stats",
			desc:   "Donne les statistiques du cheptel: effectifs par statut et par catégorie.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				stats, err := svc.HerdStats(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Cheptel de %d animaux dont %d actifs", stats.Total, stats.Active), stats)
			},
		},
		op{
			name: "create_weighing",
			desc: "Enregistre une pesée d'animal en kilogrammes.",
			params: objectSchema(map[string]interface{}{
				"animal_code": stringProp("Code ou nom de l'animal pesé"),
				"weight_kg":   numberProp("Poids mesuré en kilogrammes"),
				"date":        stringProp("Date de la pesée au format AAAA-MM-JJ"),
				"notes":       stringProp("Remarques éventuelles"),
			}, "animal_code", "weight_kg"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				code := argString(args, "animal_code")
				if code == "" {
					return failure(kerrors.InvalidInput("code de l'animal manquant"))
				}
				weight, err := normalizeAmount(args["weight_kg"])
				if err != nil {
					return failure(kerrors.InvalidInput("poids invalide, attendu un nombre de kilogrammes positif"))
				}

				weighing, err := svc.RecordWeighing(ctx, id.ProjectID, id.UserID, domain.WeighingInput{
					AnimalCode: code,
					WeightKg:   weight,
					Date:       normalizeDate(argString(args, "date")),
					Notes:      argString(args, "notes"),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Pesée de %s kg enregistrée pour %s", formatFCFA(weight), code), weighing)
			},
		},
		op{
			name: "get_weighing_history",
			desc: "Donne l'historique des pesées d'un animal pour suivre sa croissance.",
			params: objectSchema(map[string]interface{}{
				"animal_code": stringProp("Code ou nom de l'animal"),
			}, "animal_code"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				code := argString(args, "animal_code")
				if code == "" {
					return failure(kerrors.InvalidInput("code de l'animal manquant"))
				}
				history, err := svc.WeighingHistory(ctx, id.ProjectID, id.UserID, code)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("%d pesées trouvées pour %s", len(history), code), history)
			},
		},
	}
}
