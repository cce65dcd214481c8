package tool

import (
	"context"
	"fmt"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// ReproductionHandlers exposes the breeding cycle operations to the model.
func ReproductionHandlers(svc domain.ReproductionService) []Handler {
	return []Handler{
		op{
			name: "create_insemination",
			desc: "Enregistre une saillie ou insémination d'une truie.",
			params: objectSchema(map[string]interface{}{
				"sow_code":  stringProp("Code ou nom de la truie"),
				"boar_code": stringProp("Code ou nom du verrat"),
				"date":      stringProp("Date de la saillie au format AAAA-MM-JJ"),
			}, "sow_code"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				sow := argString(args, "sow_code")
				if sow == "" {
					return failure(kerrors.InvalidInput("code de la truie manquant"))
				}
				event, err := svc.RecordInsemination(ctx, id.ProjectID, id.UserID, domain.InseminationInput{
					SowCode:  sow,
					BoarCode: argString(args, "boar_code"),
					Date:     normalizeDate(argString(args, "date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Saillie enregistrée pour %s", sow), event)
			},
		},
		op{
			name: "create_farrowing",
			desc: "Enregistre une mise bas avec le nombre de porcelets nés vivants et mort-nés.",
			params: objectSchema(map[string]interface{}{
				"sow_code":   stringProp("Code ou nom de la truie"),
				"born_alive": intProp("Nombre de porcelets nés vivants"),
				"stillborn":  intProp("Nombre de porcelets mort-nés"),
				"date":       stringProp("Date de la mise bas au format AAAA-MM-JJ"),
			}, "sow_code", "born_alive"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				sow := argString(args, "sow_code")
				if sow == "" {
					return failure(kerrors.InvalidInput("code de la truie manquant"))
				}
				bornAlive, ok := argInt(args, "born_alive")
				if !ok || bornAlive < 0 {
					return failure(kerrors.InvalidInput("nombre de porcelets nés vivants invalide"))
				}
				stillborn, _ := argInt(args, "stillborn")
				if stillborn < 0 {
					stillborn = 0
				}

				event, err := svc.RecordFarrowing(ctx, id.ProjectID, id.UserID, domain.FarrowingInput{
					SowCode:   sow,
					BornAlive: bornAlive,
					Stillborn: stillborn,
					Date:      normalizeDate(argString(args, "date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Mise bas enregistrée: %d porcelets vivants pour %s", bornAlive, sow), event)
			},
		},
		op{
			name: "create_weaning",
			desc: "Enregistre un sevrage avec le nombre de porcelets sevrés.",
			params: objectSchema(map[string]interface{}{
				"sow_code":     stringProp("Code ou nom de la truie"),
				"weaned_count": intProp("Nombre de porcelets sevrés"),
				"date":         stringProp("Date du sevrage au format AAAA-MM-JJ"),
			}, "sow_code", "weaned_count"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				sow := argString(args, "sow_code")
				if sow == "" {
					return failure(kerrors.InvalidInput("code de la truie manquant"))
				}
				weaned, ok := argInt(args, "weaned_count")
				if !ok || weaned < 0 {
					return failure(kerrors.InvalidInput("nombre de porcelets sevrés invalide"))
				}

				event, err := svc.RecordWeaning(ctx, id.ProjectID, id.UserID, domain.WeaningInput{
					SowCode:     sow,
					WeanedCount: weaned,
					Date:        normalizeDate(argString(args, "date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Sevrage de %d porcelets enregistré pour %s", weaned, sow), event)
			},
		},
		op{
			name:   "get_gestation_schedule",
			desc:   "Donne le calendrier des gestations en cours et les mises bas attendues.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				schedule, err := svc.GestationSchedule(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("%d gestations en cours", len(schedule)), schedule)
			},
		},
	}
}
