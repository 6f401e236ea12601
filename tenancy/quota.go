package tenancy

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/czarkazmx1x/stagifyai-saas/models"
)

// ResourceLimit : plafond entier sur une fenêtre de période.
type ResourceLimit struct {
	Amount int64
	Period string
}

// PlanLimits : table fixe plafond par offre et par ressource. Une ressource
// absente de la table vaut 0 (refus) : non configuré ne signifie jamais
// illimité.
type PlanLimits map[string]map[string]ResourceLimit

// DefaultPlanLimits : barème de référence.
func DefaultPlanLimits() PlanLimits {
	return PlanLimits{
		models.TenantPlanFree: {
			models.ResourceStaging:      {Amount: 10, Period: models.PeriodMonthly},
			models.ResourceStorageBytes: {Amount: 512 << 20, Period: models.PeriodMonthly},
			models.ResourceAPICall:      {Amount: 100, Period: models.PeriodDaily},
		},
		models.TenantPlanPro: {
			models.ResourceStaging:      {Amount: 100, Period: models.PeriodMonthly},
			models.ResourceStorageBytes: {Amount: 10 << 30, Period: models.PeriodMonthly},
			models.ResourceAPICall:      {Amount: 1000, Period: models.PeriodDaily},
		},
		models.TenantPlanEnterprise: {
			models.ResourceStaging:      {Amount: 1000, Period: models.PeriodMonthly},
			models.ResourceStorageBytes: {Amount: 100 << 30, Period: models.PeriodMonthly},
			models.ResourceAPICall:      {Amount: 10000, Period: models.PeriodDaily},
		},
	}
}

// QuotaStatus : résultat consultatif, la décision de bloquer appartient au
// Gate.
type QuotaStatus struct {
	Resource  string `json:"resource"`
	Used      int64  `json:"used"`
	Limit     int64  `json:"limit"`
	Remaining int64  `json:"remaining"`
	Period    string `json:"period"`
}

// Meter : journal de consommation + évaluation de quota. Les fenêtres sont
// calées sur le calendrier UTC (mois à partir du 1er 00:00, jour civil).
type Meter struct {
	db     *gorm.DB
	limits PlanLimits
	now    func() time.Time
}

func NewMeter(db *gorm.DB, limits PlanLimits) *Meter {
	if limits == nil {
		limits = DefaultPlanLimits()
	}
	return &Meter{db: db, limits: limits, now: time.Now}
}

// RecordUsage ajoute un événement au journal. Pas d'idempotence ici :
// l'appelant n'enregistre qu'après confirmation de l'opération mesurée,
// jamais avant, jamais sur un retry déjà comptabilisé.
func (m *Meter) RecordUsage(ctx context.Context, tenantID uint, resource string, amount int64) error {
	event := models.ResourceUsageEvent{
		TenantID:   tenantID,
		Resource:   resource,
		Amount:     amount,
		Period:     defaultPeriod(resource),
		RecordedAt: m.now().UTC(),
	}
	if err := m.db.WithContext(ctx).Create(&event).Error; err != nil {
		return reject(ReasonPersistence, err.Error())
	}
	return nil
}

// CurrentUsage : somme des événements du tenant pour la ressource dont
// l'horodatage tombe dans la fenêtre de période courante.
func (m *Meter) CurrentUsage(ctx context.Context, tenantID uint, resource, period string) (int64, error) {
	start, end := periodWindow(period, m.now().UTC())

	var total int64
	err := m.db.WithContext(ctx).
		Model(&models.ResourceUsageEvent{}).
		Where("tenant_id = ? AND resource = ? AND recorded_at >= ? AND recorded_at < ?",
			tenantID, resource, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, reject(ReasonPersistence, err.Error())
	}
	return total, nil
}

// CheckQuota compare la consommation courante au plafond de l'offre.
// Consultatif : ne bloque rien par lui-même.
func (m *Meter) CheckQuota(ctx context.Context, tenantID uint, plan, resource string) (QuotaStatus, error) {
	limit, ok := m.limits[plan][resource]
	if !ok {
		limit = ResourceLimit{Amount: 0, Period: defaultPeriod(resource)}
	}

	used, err := m.CurrentUsage(ctx, tenantID, resource, limit.Period)
	if err != nil {
		return QuotaStatus{}, err
	}

	remaining := limit.Amount - used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStatus{
		Resource:  resource,
		Used:      used,
		Limit:     limit.Amount,
		Remaining: remaining,
		Period:    limit.Period,
	}, nil
}

func defaultPeriod(resource string) string {
	if resource == models.ResourceAPICall {
		return models.PeriodDaily
	}
	return models.PeriodMonthly
}

// periodWindow : bornes [début, fin) de la fenêtre calendaire UTC contenant
// l'instant de référence.
func periodWindow(period string, ref time.Time) (time.Time, time.Time) {
	ref = ref.UTC()
	if period == models.PeriodDaily {
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	}
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
