package tool

import (
	"context"
	"fmt"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// MortalityHandlers exposes the death record operations to the model.
func MortalityHandlers(svc domain.MortalityService) []Handler {
	return []Handler{
		op{
			name: "create_mortality",
			desc: "Enregistre le décès d'un animal avec sa cause probable.",
			params: objectSchema(map[string]interface{}{
				"animal_code": stringProp("Code ou nom de l'animal décédé"),
				"cause":       stringProp("Cause probable du décès"),
				"date":        stringProp("Date du décès au format AAAA-MM-JJ"),
			}, "animal_code"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				code := argString(args, "animal_code")
				if code == "" {
					return failure(kerrors.InvalidInput("code de l'animal manquant"))
				}
				record, err := svc.RecordDeath(ctx, id.ProjectID, id.UserID, domain.DeathInput{
					AnimalCode: code,
					Cause:      argString(args, "cause"),
					Date:       normalizeDate(argString(args, "date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Décès de %s enregistré", code), record)
			},
		},
		op{
			name:   "get_mortality_stats",
			desc:   "Donne les statistiques de mortalité du cheptel: taux et causes.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				stats, err := svc.Stats(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Taux de mortalité: %.1f%%", stats.RatePct), stats)
			},
		},
	}
}
