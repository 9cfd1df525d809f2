// Package services holds the application use cases behind the HTTP handlers.
package services

import "pawmart/internal/domain"

// Mailer is the fire-and-forget notification surface the services use.
// *notify.Mailer satisfies it.
type Mailer interface {
	Welcome(u *domain.User)
	OrderPlaced(o *domain.Order)
	OrderStatusChanged(o *domain.Order)
}

type noMail struct{}

func (noMail) Welcome(*domain.User)             {}
func (noMail) OrderPlaced(*domain.Order)        {}
func (noMail) OrderStatusChanged(*domain.Order) {}

func mailerOrNoop(m Mailer) Mailer {
	if m == nil {
		return noMail{}
	}
	return m
}
