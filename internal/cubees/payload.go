package cubees

import (
	"github.com/cotahub/mdcota-etl/internal/etl"
)

// CustomerPayload is the body of the asynchronous customer-registry
// invocation.
type CustomerPayload struct {
	QuotaID             int64                  `json:"quota_id"`
	QuotaCode           string                 `json:"quota_code"`
	OwnershipPercentage float64                `json:"ownership_percentage"`
	MainOwner           string                 `json:"main_owner"`
	Customers           []CustomerRegistration `json:"customers"`
}

type CustomerRegistration struct {
	PersonCode string    `json:"person_code"`
	PersonType string    `json:"person_type"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Contacts   []Contact `json:"contacts,omitempty"`
}

type Contact struct {
	AreaCode string `json:"area_code,omitempty"`
	Number   string `json:"number"`
}

// BuildCustomerPayload assembles the registry payload: documents normalized
// to canonical CPF/CNPJ widths, contacts collected from the delivered phone
// pairs, ownership split evenly across joint owners.
func BuildCustomerPayload(quotaID int64, quotaCode string, owners []etl.Owner) CustomerPayload {
	payload := CustomerPayload{
		QuotaID:             quotaID,
		QuotaCode:           quotaCode,
		OwnershipPercentage: 1,
	}
	if len(owners) == 0 {
		return payload
	}

	payload.OwnershipPercentage = 1.0 / float64(len(owners))
	for _, owner := range owners {
		personCode := etl.NormalizeDocument(owner.Document, owner.PersonType)
		if owner.MainOwner || payload.MainOwner == "" {
			payload.MainOwner = personCode
		}

		reg := CustomerRegistration{
			PersonCode: personCode,
			PersonType: owner.PersonType,
			Name:       owner.Name,
			Email:      owner.Email,
		}
		for _, phone := range owner.Phones {
			if phone.Number == "" {
				continue
			}
			reg.Contacts = append(reg.Contacts, Contact{AreaCode: phone.AreaCode, Number: phone.Number})
		}
		payload.Customers = append(payload.Customers, reg)
	}
	return payload
}
