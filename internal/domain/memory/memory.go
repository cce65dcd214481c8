// Package memory is an in-process implementation of the farm services,
// used by local runs and tests. Data lives for the lifetime of the process
// and is scoped per project.
package memory

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

type Store struct {
	mu           sync.Mutex
	entropy      *ulid.MonotonicEntropy
	expenses     map[string][]domain.Expense
	revenues     map[string][]domain.Revenue
	charges      map[string][]domain.FixedCharge
	care         map[string][]domain.CareRecord
	animals      map[string][]domain.Animal
	weighings    map[string][]domain.Weighing
	listings     map[string][]domain.Listing
	sales        map[string][]domain.Sale
	reproduction map[string][]domain.ReproductionEvent
	deaths       map[string][]domain.DeathRecord
	reminders    map[string][]domain.Reminder
	stock        map[string][]domain.StockItem
	rations      map[string][]domain.Ration
	articles     []domain.Article
}

func New() *Store {
	return &Store{
		entropy:      ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		expenses:     map[string][]domain.Expense{},
		revenues:     map[string][]domain.Revenue{},
		charges:      map[string][]domain.FixedCharge{},
		care:         map[string][]domain.CareRecord{},
		animals:      map[string][]domain.Animal{},
		weighings:    map[string][]domain.Weighing{},
		listings:     map[string][]domain.Listing{},
		sales:        map[string][]domain.Sale{},
		reproduction: map[string][]domain.ReproductionEvent{},
		deaths:       map[string][]domain.DeathRecord{},
		reminders:    map[string][]domain.Reminder{},
		stock:        map[string][]domain.StockItem{},
		rations:      map[string][]domain.Ration{},
	}
}

// Services bundles the store behind every collaborator interface.
func (s *Store) Services() domain.Services {
	return domain.Services{
		Finance:      s,
		Health:       s,
		Livestock:    s,
		Marketplace:  s,
		Reproduction: s,
		Mortality:    s,
		Schedule:     s,
		Nutrition:    s,
		Knowledge:    s,
	}
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *Store) CreateExpense(_ context.Context, projectID, _ string, in domain.ExpenseInput) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense := domain.Expense{
		ID:       s.newID(),
		Amount:   in.Amount,
		Category: in.Category,
		Label:    in.Label,
		Comment:  in.Comment,
		Date:     in.Date,
	}
	s.expenses[projectID] = append(s.expenses[projectID], expense)
	return &expense, nil
}

func (s *Store) CreateRevenue(_ context.Context, projectID, _ string, in domain.RevenueInput) (*domain.Revenue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revenue := domain.Revenue{
		ID:          s.newID(),
		Amount:      in.Amount,
		Category:    in.Category,
		Label:       in.Label,
		Description: in.Description,
		Date:        in.Date,
	}
	s.revenues[projectID] = append(s.revenues[projectID], revenue)
	return &revenue, nil
}

func (s *Store) CreateFixedCharge(_ context.Context, projectID, _ string, in domain.FixedChargeInput) (*domain.FixedCharge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	charge := domain.FixedCharge{
		ID:          s.newID(),
		Amount:      in.Amount,
		Label:       in.Label,
		Periodicity: in.Periodicity,
		StartDate:   in.StartDate,
	}
	s.charges[projectID] = append(s.charges[projectID], charge)
	return &charge, nil
}

func (s *Store) ListExpenses(_ context.Context, projectID, _ string) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Expense(nil), s.expenses[projectID]...), nil
}

func (s *Store) ListRevenues(_ context.Context, projectID, _ string) ([]domain.Revenue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Revenue(nil), s.revenues[projectID]...), nil
}

func (s *Store) UpdateExpense(_ context.Context, id, _ string, in domain.ExpenseUpdate) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for projectID, items := range s.expenses {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if in.Amount != nil {
				items[i].Amount = *in.Amount
			}
			if in.Category != "" {
				items[i].Category = in.Category
			}
			if in.Label != "" {
				items[i].Label = in.Label
			}
			if in.Date != "" {
				items[i].Date = in.Date
			}
			s.expenses[projectID] = items
			expense := items[i]
			return &expense, nil
		}
	}
	return nil, kerrors.NotFound(fmt.Sprintf("dépense %s introuvable", id))
}

func (s *Store) UpdateRevenue(_ context.Context, id, _ string, in domain.RevenueUpdate) (*domain.Revenue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for projectID, items := range s.revenues {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if in.Amount != nil {
				items[i].Amount = *in.Amount
			}
			if in.Category != "" {
				items[i].Category = in.Category
			}
			if in.Label != "" {
				items[i].Label = in.Label
			}
			if in.Date != "" {
				items[i].Date = in.Date
			}
			s.revenues[projectID] = items
			revenue := items[i]
			return &revenue, nil
		}
	}
	return nil, kerrors.NotFound(fmt.Sprintf("revenu %s introuvable", id))
}

func (s *Store) Summary(_ context.Context, projectID, _ string) (*domain.FinancialSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	monthStart := time.Now().Format("2006-01") + "-01"
	summary := &domain.FinancialSummary{}
	for _, e := range s.expenses[projectID] {
		summary.TotalExpenses += e.Amount
		if e.Date >= monthStart {
			summary.MonthExpenses += e.Amount
		}
	}
	for _, r := range s.revenues[projectID] {
		summary.TotalRevenues += r.Amount
		if r.Date >= monthStart {
			summary.MonthRevenues += r.Amount
		}
	}
	summary.Balance = summary.TotalRevenues - summary.TotalExpenses
	return summary, nil
}

func (s *Store) addCare(projectID string, record domain.CareRecord) *domain.CareRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = s.newID()
	s.care[projectID] = append(s.care[projectID], record)
	return &record
}

func (s *Store) RecordVaccination(_ context.Context, projectID, _ string, in domain.VaccinationInput) (*domain.CareRecord, error) {
	due := ""
	if t, err := time.Parse("2006-01-02", in.Date); err == nil {
		due = t.AddDate(0, 6, 0).Format("2006-01-02")
	}
	return s.addCare(projectID, domain.CareRecord{
		Kind:       "vaccination",
		Label:      in.Vaccine,
		AnimalCode: in.AnimalCode,
		Date:       in.Date,
		DueDate:    due,
		Notes:      in.Notes,
	}), nil
}

func (s *Store) RecordTreatment(_ context.Context, projectID, _ string, in domain.TreatmentInput) (*domain.CareRecord, error) {
	return s.addCare(projectID, domain.CareRecord{
		Kind:       "traitement",
		Label:      in.Product,
		AnimalCode: in.AnimalCode,
		Date:       in.Date,
		Notes:      in.Notes,
	}), nil
}

func (s *Store) RecordVetVisit(_ context.Context, projectID, _ string, in domain.VetVisitInput) (*domain.CareRecord, error) {
	return s.addCare(projectID, domain.CareRecord{
		Kind:  "visite",
		Label: in.Reason,
		Date:  in.Date,
		Cost:  in.Cost,
		Notes: in.Vet,
	}), nil
}

func (s *Store) RecordIllness(_ context.Context, projectID, _ string, in domain.IllnessInput) (*domain.CareRecord, error) {
	return s.addCare(projectID, domain.CareRecord{
		Kind:       "maladie",
		Label:      in.Name,
		AnimalCode: in.AnimalCode,
		Date:       in.Date,
		Notes:      in.Symptoms,
	}), nil
}

func (s *Store) ListVaccinations(_ context.Context, projectID, _ string) ([]domain.CareRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.CareRecord
	for _, record := range s.care[projectID] {
		if record.Kind == "vaccination" {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *Store) UpcomingCare(_ context.Context, projectID, _ string) ([]domain.CareRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := time.Now().Format("2006-01-02")
	var out []domain.CareRecord
	for _, record := range s.care[projectID] {
		if record.DueDate != "" && record.DueDate >= today {
			out = append(out, record)
		}
	}
	return out, nil
}

// AddAnimal seeds the inventory; production deployments sync animals from
// the herd registry instead.
func (s *Store) AddAnimal(projectID string, animal domain.Animal) domain.Animal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if animal.ID == "" {
		animal.ID = s.newID()
	}
	if animal.Status == "" {
		animal.Status = "actif"
	}
	s.animals[projectID] = append(s.animals[projectID], animal)
	return animal
}

func (s *Store) FindAnimal(_ context.Context, projectID, _, codeOrName string) (*domain.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(codeOrName))
	for _, animal := range s.animals[projectID] {
		if strings.ToLower(animal.Code) == needle || strings.ToLower(animal.Name) == needle {
			found := animal
			return &found, nil
		}
	}
	return nil, kerrors.NotFound(fmt.Sprintf("animal %s introuvable", codeOrName))
}

func (s *Store) ListAnimals(_ context.Context, projectID, _ string) ([]domain.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Animal(nil), s.animals[projectID]...), nil
}

func (s *Store) HerdStats(_ context.Context, projectID, _ string) (*domain.HerdStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &domain.HerdStats{ByCategory: map[string]int{}}
	for _, animal := range s.animals[projectID] {
		stats.Total++
		switch animal.Status {
		case "vendu":
			stats.Sold++
		case "decede":
			stats.Deceased++
		default:
			stats.Active++
		}
		if animal.Sex != "" {
			stats.ByCategory[animal.Sex]++
		}
	}
	return stats, nil
}

func (s *Store) RecordWeighing(_ context.Context, projectID, _ string, in domain.WeighingInput) (*domain.Weighing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weighing := domain.Weighing{
		ID:         s.newID(),
		AnimalCode: in.AnimalCode,
		WeightKg:   in.WeightKg,
		Date:       in.Date,
		Notes:      in.Notes,
	}
	s.weighings[projectID] = append(s.weighings[projectID], weighing)
	return &weighing, nil
}

func (s *Store) WeighingHistory(_ context.Context, projectID, _, animalCode string) ([]domain.Weighing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(animalCode))
	var out []domain.Weighing
	for _, weighing := range s.weighings[projectID] {
		if strings.ToLower(weighing.AnimalCode) == needle {
			out = append(out, weighing)
		}
	}
	return out, nil
}

func (s *Store) CreateListing(_ context.Context, projectID, _ string, in domain.ListingInput) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing := domain.Listing{
		ID:         s.newID(),
		AnimalCode: in.AnimalCode,
		PriceFCFA:  in.PriceFCFA,
		Status:     "active",
		Note:       in.Note,
		CreatedAt:  time.Now().Format("2006-01-02"),
	}
	s.listings[projectID] = append(s.listings[projectID], listing)
	return &listing, nil
}

func (s *Store) ListListings(_ context.Context, projectID, _ string) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Listing
	for _, listing := range s.listings[projectID] {
		if listing.Status == "active" {
			out = append(out, listing)
		}
	}
	return out, nil
}

func (s *Store) CloseListing(_ context.Context, listingID, _ string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for projectID, items := range s.listings {
		for i := range items {
			if items[i].ID != listingID {
				continue
			}
			items[i].Status = "closed"
			s.listings[projectID] = items
			s.sales[projectID] = append(s.sales[projectID], domain.Sale{
				ID:         s.newID(),
				AnimalCode: items[i].AnimalCode,
				AmountFCFA: items[i].PriceFCFA,
				Date:       time.Now().Format("2006-01-02"),
			})
			listing := items[i]
			return &listing, nil
		}
	}
	return nil, kerrors.NotFound(fmt.Sprintf("annonce %s introuvable", listingID))
}

func (s *Store) SalesHistory(_ context.Context, projectID, _ string) ([]domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Sale(nil), s.sales[projectID]...), nil
}

func (s *Store) addReproduction(projectID string, event domain.ReproductionEvent) *domain.ReproductionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.newID()
	s.reproduction[projectID] = append(s.reproduction[projectID], event)
	return &event
}

func (s *Store) RecordInsemination(_ context.Context, projectID, _ string, in domain.InseminationInput) (*domain.ReproductionEvent, error) {
	return s.addReproduction(projectID, domain.ReproductionEvent{
		Kind:    "saillie",
		SowCode: in.SowCode,
		Date:    in.Date,
		Details: in.BoarCode,
	}), nil
}

func (s *Store) RecordFarrowing(_ context.Context, projectID, _ string, in domain.FarrowingInput) (*domain.ReproductionEvent, error) {
	return s.addReproduction(projectID, domain.ReproductionEvent{
		Kind:    "mise_bas",
		SowCode: in.SowCode,
		Date:    in.Date,
		Details: fmt.Sprintf("%d vivants, %d mort-nés", in.BornAlive, in.Stillborn),
	}), nil
}

func (s *Store) RecordWeaning(_ context.Context, projectID, _ string, in domain.WeaningInput) (*domain.ReproductionEvent, error) {
	return s.addReproduction(projectID, domain.ReproductionEvent{
		Kind:    "sevrage",
		SowCode: in.SowCode,
		Date:    in.Date,
		Details: fmt.Sprintf("%d sevrés", in.WeanedCount),
	}), nil
}

// gestationDays is the pig gestation span used to project farrowing dates.
const gestationDays = 114

func (s *Store) GestationSchedule(_ context.Context, projectID, _ string) ([]domain.GestationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	farrowed := map[string]string{}
	for _, event := range s.reproduction[projectID] {
		if event.Kind == "mise_bas" {
			farrowed[event.SowCode] = event.Date
		}
	}

	var out []domain.GestationEntry
	for _, event := range s.reproduction[projectID] {
		if event.Kind != "saillie" {
			continue
		}
		if lastFarrow, ok := farrowed[event.SowCode]; ok && lastFarrow >= event.Date {
			continue
		}
		inseminated, err := time.Parse("2006-01-02", event.Date)
		if err != nil {
			continue
		}
		expected := inseminated.AddDate(0, 0, gestationDays)
		stage := "gestation"
		if time.Now().After(expected) {
			stage = "terme_depasse"
		}
		out = append(out, domain.GestationEntry{
			SowCode:         event.SowCode,
			InseminatedAt:   event.Date,
			ExpectedFarrows: expected.Format("2006-01-02"),
			Stage:           stage,
		})
	}
	return out, nil
}

func (s *Store) RecordDeath(_ context.Context, projectID, _ string, in domain.DeathInput) (*domain.DeathRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := domain.DeathRecord{
		ID:         s.newID(),
		AnimalCode: in.AnimalCode,
		Cause:      in.Cause,
		Date:       in.Date,
	}
	s.deaths[projectID] = append(s.deaths[projectID], record)

	animals := s.animals[projectID]
	for i := range animals {
		if strings.EqualFold(animals[i].Code, in.AnimalCode) {
			animals[i].Status = "decede"
		}
	}
	return &record, nil
}

func (s *Store) Stats(_ context.Context, projectID, _ string) (*domain.MortalityStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &domain.MortalityStats{ByCause: map[string]int{}}
	cutoff := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	for _, record := range s.deaths[projectID] {
		stats.Total++
		if record.Cause != "" {
			stats.ByCause[record.Cause]++
		}
		if record.Date >= cutoff {
			stats.Last30d++
		}
	}
	if herd := len(s.animals[projectID]); herd > 0 {
		stats.RatePct = float64(stats.Total) / float64(herd) * 100
	}
	return stats, nil
}

func (s *Store) CreateReminder(_ context.Context, projectID, _ string, in domain.ReminderInput) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminder := domain.Reminder{
		ID:      s.newID(),
		Title:   in.Title,
		DueDate: in.DueDate,
		Notes:   in.Notes,
	}
	s.reminders[projectID] = append(s.reminders[projectID], reminder)
	return &reminder, nil
}

func (s *Store) ListReminders(_ context.Context, projectID, _ string) ([]domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Reminder
	for _, reminder := range s.reminders[projectID] {
		if !reminder.Done {
			out = append(out, reminder)
		}
	}
	return out, nil
}

func (s *Store) CompleteReminder(_ context.Context, reminderID, _ string) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for projectID, items := range s.reminders {
		for i := range items {
			if items[i].ID != reminderID {
				continue
			}
			items[i].Done = true
			s.reminders[projectID] = items
			reminder := items[i]
			return &reminder, nil
		}
	}
	return nil, kerrors.NotFound(fmt.Sprintf("rappel %s introuvable", reminderID))
}

// SetStock seeds the feed inventory.
func (s *Store) SetStock(projectID string, items []domain.StockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[projectID] = items
}

func (s *Store) StockStatus(_ context.Context, projectID, _ string) ([]domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := append([]domain.StockItem(nil), s.stock[projectID]...)
	for i := range items {
		items[i].Low = items[i].AlertLevel > 0 && items[i].QuantityKg <= items[i].AlertLevel
	}
	return items, nil
}

func (s *Store) RecordFeedUsage(_ context.Context, projectID, _ string, in domain.FeedUsageInput) (*domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.stock[projectID]
	for i := range items {
		if !strings.EqualFold(items[i].Ingredient, in.Ingredient) {
			continue
		}
		items[i].QuantityKg -= in.QuantityKg
		if items[i].QuantityKg < 0 {
			items[i].QuantityKg = 0
		}
		items[i].Low = items[i].AlertLevel > 0 && items[i].QuantityKg <= items[i].AlertLevel
		s.stock[projectID] = items
		item := items[i]
		return &item, nil
	}
	return nil, kerrors.NotFound(fmt.Sprintf("ingrédient %s absent du stock", in.Ingredient))
}

func (s *Store) CreateRation(_ context.Context, projectID, _ string, in domain.RationInput) (*domain.Ration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ration := domain.Ration{
		ID:          s.newID(),
		Name:        in.Name,
		Ingredients: in.Ingredients,
		Stage:       in.Stage,
	}
	s.rations[projectID] = append(s.rations[projectID], ration)
	return &ration, nil
}

// SeedArticles loads the reference corpus searched by the knowledge tool.
func (s *Store) SeedArticles(articles []domain.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = articles
}

func (s *Store) Search(_ context.Context, _, query, category string, limit int) ([]domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	var out []domain.Article
	for _, article := range s.articles {
		if category != "" && !strings.EqualFold(article.Category, category) {
			continue
		}
		haystack := strings.ToLower(article.Title + " " + article.Excerpt)
		if strings.Contains(haystack, needle) {
			out = append(out, article)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
