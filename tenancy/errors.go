package tenancy

import "fmt"

// Reason : étiquette stable de refus, consommée telle quelle par le front
// pour afficher un message précis ("upgrade plan", "quota atteint", etc.).
type Reason string

const (
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonNoTenantContext   Reason = "no_tenant_context"
	ReasonInsufficientRole  Reason = "insufficient_role"
	ReasonPlanFeatureDenied Reason = "plan_feature_denied"
	ReasonQuotaExceeded     Reason = "quota_exceeded"
	ReasonUpstreamFailure   Reason = "upstream_generation_failure"
	ReasonPersistence       Reason = "persistence_failure"
)

// Rejection : refus d'admission porté jusqu'à l'appelant sans être
// requalifié en succès partiel.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return string(r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

func reject(reason Reason, detail string) *Rejection {
	return &Rejection{Reason: reason, Detail: detail}
}

// AsRejection extrait un *Rejection d'une erreur quelconque, ou l'enveloppe
// en échec de persistance si elle vient de la couche de stockage.
func AsRejection(err error) *Rejection {
	if err == nil {
		return nil
	}
	if rej, ok := err.(*Rejection); ok {
		return rej
	}
	return reject(ReasonPersistence, err.Error())
}
