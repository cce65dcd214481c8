package tool

import (
	"context"
	"fmt"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// ScheduleHandlers exposes the reminder operations to the model.
func ScheduleHandlers(svc domain.ScheduleService) []Handler {
	return []Handler{
		op{
			name: "create_reminder",
			desc: "Programme un rappel pour une tâche de la ferme (vaccin, pesée, commande d'aliments...).",
			params: objectSchema(map[string]interface{}{
				"title":    stringProp("Intitulé du rappel"),
				"due_date": stringProp("Date d'échéance au format AAAA-MM-JJ"),
				"notes":    stringProp("Détails du rappel"),
			}, "title"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				title := argString(args, "title")
				if title == "" {
					return failure(kerrors.InvalidInput("intitulé du rappel manquant"))
				}
				reminder, err := svc.CreateReminder(ctx, id.ProjectID, id.UserID, domain.ReminderInput{
					Title:   title,
					DueDate: normalizeDate(argString(args, "due_date")),
					Notes:   argString(args, "notes"),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Rappel programmé pour le %s", reminder.DueDate), reminder)
			},
		},
		op{
			name:   "get_reminders",
			desc:   "Liste les rappels en attente du projet.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				reminders, err := svc.ListReminders(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("%d rappels en attente", len(reminders)), reminders)
			},
		},
		op{
			name: "complete_reminder",
			desc: "Marque un rappel comme effectué.",
			params: objectSchema(map[string]interface{}{
				"reminder_id": stringProp("Identifiant du rappel à clôturer"),
			}, "reminder_id"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				reminderID := argString(args, "reminder_id")
				if reminderID == "" {
					return failure(kerrors.InvalidInput("identifiant du rappel manquant"))
				}
				reminder, err := svc.CompleteReminder(ctx, reminderID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success("Rappel marqué comme effectué", reminder)
			},
		},
	}
}
