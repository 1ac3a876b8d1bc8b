package usersapi

import (
	"time"

	"moviestream-app/internal/domain/subscriptions"
)

func BuildSubscriptionDTO(sub *subscriptions.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	dto := &SubscriptionDTO{
		ID:         sub.ID,
		PlanName:   sub.Plan.Name,
		FinalPrice: sub.FinalPrice,
		IsActive:   sub.IsActive,
		StartDate:  sub.StartDate,
		EndDate:    sub.EndDate,
	}

	if sub.EndDate != nil {
		d := int(time.Until(*sub.EndDate).Hours() / 24)
		if d < 0 {
			d = 0
		}
		dto.DaysLeft = &d
	}

	return dto
}
