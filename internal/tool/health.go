package tool

import (
	"context"
	"fmt"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// HealthHandlers exposes the veterinary record operations to the model.
func HealthHandlers(svc domain.HealthService) []Handler {
	return []Handler{
		op{
			name: "create_vaccination",
			desc: "Enregistre une vaccination effectuée sur un animal ou un lot.",
			params: objectSchema(map[string]interface{}{
				"vaccine":     stringProp("Nom du vaccin administré"),
				"animal_code": stringProp("Code ou nom de l'animal concerné, vide pour tout le lot"),
				"date":        stringProp("Date de la vaccination au format AAAA-MM-JJ"),
				"notes":       stringProp("Remarques éventuelles"),
			}, "vaccine"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				vaccine := argString(args, "vaccine")
				if vaccine == "" {
					return failure(kerrors.InvalidInput("nom du vaccin manquant"))
				}
				record, err := svc.RecordVaccination(ctx, id.ProjectID, id.UserID, domain.VaccinationInput{
					Vaccine:    vaccine,
					AnimalCode: argString(args, "animal_code"),
					Date:       normalizeDate(argString(args, "date")),
					Notes:      argString(args, "notes"),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Vaccination %s enregistrée", vaccine), record)
			},
		},
		op{
			name: "create_treatment",
			desc: "Enregistre un traitement médical (antibiotique, déparasitant...) administré à un animal.",
			params: objectSchema(map[string]interface{}{
				"product":     stringProp("Nom du produit ou traitement administré"),
				"animal_code": stringProp("Code ou nom de l'animal traité"),
				"date":        stringProp("Date du traitement au format AAAA-MM-JJ"),
				"notes":       stringProp("Posologie ou remarques"),
			}, "product"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				product := argString(args, "product")
				if product == "" {
					return failure(kerrors.InvalidInput("produit du traitement manquant"))
				}
				record, err := svc.RecordTreatment(ctx, id.ProjectID, id.UserID, domain.TreatmentInput{
					Product:    product,
					AnimalCode: argString(args, "animal_code"),
					Date:       normalizeDate(argString(args, "date")),
					Notes:      argString(args, "notes"),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Traitement %s enregistré", product), record)
			},
		},
		op{
			name: "create_vet_visit",
			desc: "Enregistre une visite du vétérinaire avec son motif et son coût éventuel.",
			params: objectSchema(map[string]interface{}{
				"reason": stringProp("Motif de la visite"),
				"vet":    stringProp("Nom du vétérinaire"),
				"date":   stringProp("Date de la visite au format AAAA-MM-JJ"),
				"cost":   numberProp("Coût de la visite en FCFA"),
			}, "reason"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				reason := argString(args, "reason")
				if reason == "" {
					return failure(kerrors.InvalidInput("motif de la visite manquant"))
				}

				var cost float64
				if _, present := args["cost"]; present {
					v, err := normalizeAmount(args["cost"])
					if err != nil {
						return failure(err)
					}
					cost = v
				}

				record, err := svc.RecordVetVisit(ctx, id.ProjectID, id.UserID, domain.VetVisitInput{
					Reason: reason,
					Vet:    argString(args, "vet"),
					Date:   normalizeDate(argString(args, "date")),
					Cost:   cost,
				})
				if err != nil {
					return failure(err)
				}
				return success("Visite vétérinaire enregistrée", record)
			},
		},
		op{
			name: "create_illness",
			desc: "Signale une maladie observée sur un animal avec ses symptômes.",
			params: objectSchema(map[string]interface{}{
				"name":        stringProp("Nom ou nature de la maladie"),
				"animal_code": stringProp("Code ou nom de l'animal malade"),
				"symptoms":    stringProp("Symptômes observés"),
				"date":        stringProp("Date d'apparition au format AAAA-MM-JJ"),
			}, "name"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				name := argString(args, "name")
				if name == "" {
					return failure(kerrors.InvalidInput("nom de la maladie manquant"))
				}
				record, err := svc.RecordIllness(ctx, id.ProjectID, id.UserID, domain.IllnessInput{
					Name:       name,
					AnimalCode: argString(args, "animal_code"),
					Symptoms:   argString(args, "symptoms"),
					Date:       normalizeDate(argString(args, "date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Maladie %s signalée", name), record)
			},
		},
		op{
			name:   "get_vaccinations",
			desc:   "Liste les vaccinations déjà enregistrées pour le projet.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				records, err := svc.ListVaccinations(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success("Vaccinations récupérées", records)
			},
		},
		op{
			name:   "get_upcoming_care",
			desc:   "Liste les soins et rappels de vaccination à venir.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				records, err := svc.UpcomingCare(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success("Soins à venir récupérés", records)
			},
		},
	}
}
