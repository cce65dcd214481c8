package tool

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

func formatFCFA(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// FinanceHandlers exposes the ledger operations to the model.
func FinanceHandlers(svc domain.FinanceLedger) []Handler {
	return []Handler{
		op{
			name: "create_expense",
			desc: "Enregistre une dépense de la ferme (aliments, soins, équipement, etc.) en FCFA.",
			params: objectSchema(map[string]interface{}{
				"amount":   numberProp("Montant de la dépense en FCFA"),
				"category": stringProp("Catégorie de la dépense (alimentation, sante, equipement...)"),
				"label":    stringProp("Libellé court de la dépense"),
				"comment":  stringProp("Commentaire ou détail supplémentaire"),
				"date":     stringProp("Date de la dépense au format AAAA-MM-JJ, vide pour aujourd'hui"),
			}, "amount"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				amount, err := normalizeAmount(args["amount"])
				if err != nil {
					return failure(err)
				}

				label := argString(args, "label")
				category := argString(args, "category")
				if category == "" {
					category = inferExpenseCategory(label + " " + argString(args, "comment"))
				}

				expense, err := svc.CreateExpense(ctx, id.ProjectID, id.UserID, domain.ExpenseInput{
					Amount:   amount,
					Category: category,
					Label:    label,
					Comment:  argString(args, "comment"),
					Date:     normalizeDate(argString(args, "date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Dépense de %s FCFA enregistrée (%s)", formatFCFA(amount), category), expense)
			},
		},
		op{
			name: "create_revenue",
			desc: "Enregistre un revenu de la ferme (vente d'animaux, de viande, subvention...) en FCFA.",
			params: objectSchema(map[string]interface{}{
				"amount":      numberProp("Montant du revenu en FCFA"),
				"category":    stringProp("Catégorie du revenu (vente_animaux, vente_viande, subvention...)"),
				"label":       stringProp("Libellé court du revenu"),
				"description": stringProp("Description ou détail supplémentaire"),
				"date":        stringProp("Date du revenu au format AAAA-MM-JJ, vide pour aujourd'hui"),
			}, "amount"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				amount, err := normalizeAmount(args["amount"])
				if err != nil {
					return failure(err)
				}

				label := argString(args, "label")
				category := argString(args, "category")
				if category == "" {
					category = inferRevenueCategory(label + " " + argString(args, "description"))
				}

				revenue, err := svc.CreateRevenue(ctx, id.ProjectID, id.UserID, domain.RevenueInput{
					Amount:      amount,
					Category:    category,
					Label:       label,
					Description: argString(args, "description"),
					Date:        normalizeDate(argString(args, "date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Revenu de %s FCFA enregistré (%s)", formatFCFA(amount), category), revenue)
			},
		},
		op{
			name: "create_fixed_charge",
			desc: "Enregistre une charge fixe récurrente (salaire, loyer, facture d'eau...).",
			params: objectSchema(map[string]interface{}{
				"amount":      numberProp("Montant de la charge en FCFA"),
				"label":       stringProp("Libellé de la charge"),
				"periodicity": enumProp("Périodicité de la charge", "mensuelle", "trimestrielle", "annuelle"),
				"start_date":  stringProp("Date de première échéance au format AAAA-MM-JJ"),
			}, "amount", "label"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				amount, err := normalizeAmount(args["amount"])
				if err != nil {
					return failure(err)
				}
				label := argString(args, "label")
				if label == "" {
					return failure(kerrors.InvalidInput("libellé de la charge manquant"))
				}

				periodicity := argString(args, "periodicity")
				if periodicity == "" {
					periodicity = "mensuelle"
				}

				charge, err := svc.CreateFixedCharge(ctx, id.ProjectID, id.UserID, domain.FixedChargeInput{
					Amount:      amount,
					Label:       label,
					Periodicity: periodicity,
					StartDate:   normalizeDate(argString(args, "start_date")),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Charge fixe %s de %s FCFA enregistrée", periodicity, formatFCFA(amount)), charge)
			},
		},
		op{
			name: "get_transactions",
			desc: "Liste les dépenses et revenus récents du projet, filtrables par type et période.",
			params: objectSchema(map[string]interface{}{
				"type":   enumProp("Type de transactions à lister", "depense", "revenu", "tous"),
				"period": enumProp("Période couverte", "semaine", "mois", "trimestre"),
			}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				kind := foldAccents(argString(args, "type"))
				if kind == "" {
					kind = "tous"
				}
				since := time.Now().AddDate(0, 0, -parsePeriodDays(argString(args, "period"))).Format("2006-01-02")

				data := map[string]interface{}{}
				if kind == "depense" || kind == "tous" {
					expenses, err := svc.ListExpenses(ctx, id.ProjectID, id.UserID)
					if err != nil {
						return failure(err)
					}
					data["depenses"] = filterExpenses(expenses, since)
				}
				if kind == "revenu" || kind == "tous" {
					revenues, err := svc.ListRevenues(ctx, id.ProjectID, id.UserID)
					if err != nil {
						return failure(err)
					}
					data["revenus"] = filterRevenues(revenues, since)
				}
				return success("Transactions récupérées", data)
			},
		},
		op{
			name: "modify_transaction",
			desc: "Corrige une dépense ou un revenu déjà enregistré (montant, catégorie, date...).",
			params: objectSchema(map[string]interface{}{
				"transaction_id": stringProp("Identifiant de la transaction à modifier"),
				"type":           enumProp("Type de la transaction", "depense", "revenu"),
				"amount":         numberProp("Nouveau montant en FCFA"),
				"category":       stringProp("Nouvelle catégorie"),
				"label":          stringProp("Nouveau libellé"),
				"date":           stringProp("Nouvelle date au format AAAA-MM-JJ"),
			}, "transaction_id"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				txID := argString(args, "transaction_id")
				if txID == "" {
					return failure(kerrors.InvalidInput("identifiant de transaction manquant"))
				}

				var amount *float64
				if _, present := args["amount"]; present {
					v, err := normalizeAmount(args["amount"])
					if err != nil {
						return failure(err)
					}
					amount = &v
				}

				var date string
				if argString(args, "date") != "" {
					date = normalizeDate(argString(args, "date"))
				}

				updateExpense := func() ExecutionResult {
					expense, err := svc.UpdateExpense(ctx, txID, id.UserID, domain.ExpenseUpdate{
						Amount:   amount,
						Category: argString(args, "category"),
						Label:    argString(args, "label"),
						Date:     date,
					})
					if err != nil {
						return failure(err)
					}
					return success("Dépense mise à jour", expense)
				}
				updateRevenue := func() ExecutionResult {
					revenue, err := svc.UpdateRevenue(ctx, txID, id.UserID, domain.RevenueUpdate{
						Amount:   amount,
						Category: argString(args, "category"),
						Label:    argString(args, "label"),
						Date:     date,
					})
					if err != nil {
						return failure(err)
					}
					return success("Revenu mis à jour", revenue)
				}

				switch foldAccents(argString(args, "type")) {
				case "depense":
					return updateExpense()
				case "revenu":
					return updateRevenue()
				case "":
					// No type hint: the id discriminates, ledger first.
					if result := updateExpense(); result.Success {
						return result
					}
					return updateRevenue()
				default:
					return failure(kerrors.InvalidInput("type de transaction inconnu, attendu depense ou revenu"))
				}
			},
		},
		op{
			name:   "get_financial_summary",
			desc:   "Donne le bilan financier du projet: total des dépenses, des revenus et le solde.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				summary, err := svc.Summary(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Solde actuel: %s FCFA", formatFCFA(summary.Balance)), summary)
			},
		},
	}
}

func filterExpenses(items []domain.Expense, since string) []domain.Expense {
	out := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item.Date >= since {
			out = append(out, item)
		}
	}
	return out
}

func filterRevenues(items []domain.Revenue, since string) []domain.Revenue {
	out := make([]domain.Revenue, 0, len(items))
	for _, item := range items {
		if item.Date >= since {
			out = append(out, item)
		}
	}
	return out
}
