// Package domain declares the contracts of the farm services the assistant
// invokes as tools. The implementations live outside this core; every
// operation is keyed by project and user identity and enforces its own
// ownership checks, surfacing failures through the error taxonomy.
package domain

import "context"

// FinanceLedger records and reads project money movements.
type FinanceLedger interface {
	CreateExpense(ctx context.Context, projectID, userID string, in ExpenseInput) (*Expense, error)
	CreateRevenue(ctx context.Context, projectID, userID string, in RevenueInput) (*Revenue, error)
	CreateFixedCharge(ctx context.Context, projectID, userID string, in FixedChargeInput) (*FixedCharge, error)
	ListExpenses(ctx context.Context, projectID, userID string) ([]Expense, error)
	ListRevenues(ctx context.Context, projectID, userID string) ([]Revenue, error)
	UpdateExpense(ctx context.Context, id, userID string, in ExpenseUpdate) (*Expense, error)
	UpdateRevenue(ctx context.Context, id, userID string, in RevenueUpdate) (*Revenue, error)
	Summary(ctx context.Context, projectID, userID string) (*FinancialSummary, error)
}

type ExpenseInput struct {
	Amount   float64
	Category string
	Label    string
	Comment  string
	Date     string
}

type ExpenseUpdate struct {
	Amount   *float64
	Category string
	Label    string
	Comment  string
	Date     string
}

type Expense struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Label    string  `json:"label,omitempty"`
	Comment  string  `json:"comment,omitempty"`
	Date     string  `json:"date"`
}

type RevenueInput struct {
	Amount      float64
	Category    string
	Label       string
	Description string
	Date        string
}

type RevenueUpdate struct {
	Amount      *float64
	Category    string
	Label       string
	Description string
	Date        string
}

type Revenue struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Label       string  `json:"label,omitempty"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
}

type FixedChargeInput struct {
	Amount      float64
	Label       string
	Periodicity string
	StartDate   string
}

type FixedCharge struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Label       string  `json:"label"`
	Periodicity string  `json:"periodicity"`
	StartDate   string  `json:"start_date"`
}

type FinancialSummary struct {
	TotalExpenses float64 `json:"total_expenses"`
	TotalRevenues float64 `json:"total_revenues"`
	Balance       float64 `json:"balance"`
	MonthExpenses float64 `json:"month_expenses"`
	MonthRevenues float64 `json:"month_revenues"`
}

// HealthService keeps veterinary and care records.
type HealthService interface {
	RecordVaccination(ctx context.Context, projectID, userID string, in VaccinationInput) (*CareRecord, error)
	RecordTreatment(ctx context.Context, projectID, userID string, in TreatmentInput) (*CareRecord, error)
	RecordVetVisit(ctx context.Context, projectID, userID string, in VetVisitInput) (*CareRecord, error)
	RecordIllness(ctx context.Context, projectID, userID string, in IllnessInput) (*CareRecord, error)
	ListVaccinations(ctx context.Context, projectID, userID string) ([]CareRecord, error)
	UpcomingCare(ctx context.Context, projectID, userID string) ([]CareRecord, error)
}

type VaccinationInput struct {
	Vaccine    string
	AnimalCode string
	Date       string
	Notes      string
}

type TreatmentInput struct {
	Product    string
	AnimalCode string
	Date       string
	Notes      string
}

type VetVisitInput struct {
	Reason string
	Vet    string
	Date   string
	Cost   float64
}

type IllnessInput struct {
	Name       string
	AnimalCode string
	Symptoms   string
	Date       string
}

type CareRecord struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Label      string  `json:"label"`
	AnimalCode string  `json:"animal_code,omitempty"`
	Date       string  `json:"date"`
	DueDate    string  `json:"due_date,omitempty"`
	Cost       float64 `json:"cost,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// LivestockService is the animal inventory.
type LivestockService interface {
	FindAnimal(ctx context.Context, projectID, userID, codeOrName string) (*Animal, error)
	ListAnimals(ctx context.Context, projectID, userID string) ([]Animal, error)
	HerdStats(ctx context.Context, projectID, userID string) (*HerdStats, error)
	RecordWeighing(ctx context.Context, projectID, userID string, in WeighingInput) (*Weighing, error)
	WeighingHistory(ctx context.Context, projectID, userID, animalCode string) ([]Weighing, error)
}

type Animal struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name,omitempty"`
	Sex      string  `json:"sex,omitempty"`
	Status   string  `json:"status"`
	WeightKg float64 `json:"weight_kg,omitempty"`
	BornAt   string  `json:"born_at,omitempty"`
}

type HerdStats struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Sold       int            `json:"sold"`
	Deceased   int            `json:"deceased"`
	ByCategory map[string]int `json:"by_category,omitempty"`
}

type WeighingInput struct {
	AnimalCode string
	WeightKg   float64
	Date       string
	Notes      string
}

type Weighing struct {
	ID         string  `json:"id"`
	AnimalCode string  `json:"animal_code"`
	WeightKg   float64 `json:"weight_kg"`
	Date       string  `json:"date"`
	Notes      string  `json:"notes,omitempty"`
}

// MarketplaceService lists animals for sale and tracks completed sales.
type MarketplaceService interface {
	CreateListing(ctx context.Context, projectID, userID string, in ListingInput) (*Listing, error)
	ListListings(ctx context.Context, projectID, userID string) ([]Listing, error)
	CloseListing(ctx context.Context, listingID, userID string) (*Listing, error)
	SalesHistory(ctx context.Context, projectID, userID string) ([]Sale, error)
}

type ListingInput struct {
	AnimalCode string
	PriceFCFA  float64
	Note       string
}

type Listing struct {
	ID         string  `json:"id"`
	AnimalCode string  `json:"animal_code"`
	PriceFCFA  float64 `json:"price_fcfa"`
	Status     string  `json:"status"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type Sale struct {
	ID         string  `json:"id"`
	AnimalCode string  `json:"animal_code,omitempty"`
	AmountFCFA float64 `json:"amount_fcfa"`
	Buyer      string  `json:"buyer,omitempty"`
	Date       string  `json:"date"`
}

// ReproductionService tracks breeding cycles.
type ReproductionService interface {
	RecordInsemination(ctx context.Context, projectID, userID string, in InseminationInput) (*ReproductionEvent, error)
	RecordFarrowing(ctx context.Context, projectID, userID string, in FarrowingInput) (*ReproductionEvent, error)
	RecordWeaning(ctx context.Context, projectID, userID string, in WeaningInput) (*ReproductionEvent, error)
	GestationSchedule(ctx context.Context, projectID, userID string) ([]GestationEntry, error)
}

type InseminationInput struct {
	SowCode  string
	BoarCode string
	Date     string
}

type FarrowingInput struct {
	SowCode   string
	BornAlive int
	Stillborn int
	Date      string
}

type WeaningInput struct {
	SowCode     string
	WeanedCount int
	Date        string
}

type ReproductionEvent struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	SowCode string `json:"sow_code"`
	Date    string `json:"date"`
	Details string `json:"details,omitempty"`
}

type GestationEntry struct {
	SowCode         string `json:"sow_code"`
	InseminatedAt   string `json:"inseminated_at"`
	ExpectedFarrows string `json:"expected_farrows"`
	Stage           string `json:"stage"`
}

// MortalityService records deaths and their causes.
type MortalityService interface {
	RecordDeath(ctx context.Context, projectID, userID string, in DeathInput) (*DeathRecord, error)
	Stats(ctx context.Context, projectID, userID string) (*MortalityStats, error)
}

type DeathInput struct {
	AnimalCode string
	Cause      string
	Date       string
}

type DeathRecord struct {
	ID         string `json:"id"`
	AnimalCode string `json:"animal_code"`
	Cause      string `json:"cause,omitempty"`
	Date       string `json:"date"`
}

type MortalityStats struct {
	Total   int            `json:"total"`
	ByCause map[string]int `json:"by_cause,omitempty"`
	RatePct float64        `json:"rate_pct"`
	Last30d int            `json:"last_30d"`
}

// ScheduleService manages reminders and appointments.
type ScheduleService interface {
	CreateReminder(ctx context.Context, projectID, userID string, in ReminderInput) (*Reminder, error)
	ListReminders(ctx context.Context, projectID, userID string) ([]Reminder, error)
	CompleteReminder(ctx context.Context, reminderID, userID string) (*Reminder, error)
}

type ReminderInput struct {
	Title   string
	DueDate string
	Notes   string
}

type Reminder struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
	Done    bool   `json:"done"`
	Notes   string `json:"notes,omitempty"`
}

// NutritionService tracks feed stock and rations.
type NutritionService interface {
	StockStatus(ctx context.Context, projectID, userID string) ([]StockItem, error)
	RecordFeedUsage(ctx context.Context, projectID, userID string, in FeedUsageInput) (*StockItem, error)
	CreateRation(ctx context.Context, projectID, userID string, in RationInput) (*Ration, error)
}

type StockItem struct {
	Ingredient string  `json:"ingredient"`
	QuantityKg float64 `json:"quantity_kg"`
	AlertLevel float64 `json:"alert_level,omitempty"`
	Low        bool    `json:"low"`
}

type FeedUsageInput struct {
	Ingredient string
	QuantityKg float64
	Date       string
}

type RationInput struct {
	Name        string
	Ingredients map[string]float64
	Stage       string
}

type Ration struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Ingredients map[string]float64 `json:"ingredients"`
	Stage       string             `json:"stage,omitempty"`
}

// KnowledgeBase searches husbandry reference articles.
type KnowledgeBase interface {
	Search(ctx context.Context, projectID, query, category string, limit int) ([]Article, error)
}

type Article struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
}

// Services bundles every collaborator the dispatcher can reach. Nil entries
// are tolerated; the corresponding handler set is simply not registered.
type Services struct {
	Finance      FinanceLedger
	Health       HealthService
	Livestock    LivestockService
	Marketplace  MarketplaceService
	Reproduction ReproductionService
	Mortality    MortalityService
	Schedule     ScheduleService
	Nutrition    NutritionService
	Knowledge    KnowledgeBase
}
