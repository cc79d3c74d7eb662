package cubees

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cotahub/mdcota-etl/internal/etl"
)

func TestBuildCustomerPayload(t *testing.T) {
	owners := []etl.Owner{
		{
			Document:   "345678909",
			PersonType: "F",
			Name:       "JOAO DA SILVA",
			MainOwner:  true,
			Email:      "joao@example.com",
			Phones: []etl.Phone{
				{AreaCode: "11", Number: "987654321"},
				{Number: ""},
			},
		},
		{
			Document:   "12.345.678/0001-95",
			PersonType: "J",
			Name:       "SILVA TRANSPORTES LTDA",
		},
	}

	payload := BuildCustomerPayload(42, "0000428", owners)

	require.Equal(t, int64(42), payload.QuotaID)
	require.Equal(t, "0000428", payload.QuotaCode)
	require.Equal(t, 0.5, payload.OwnershipPercentage)
	require.Equal(t, "00345678909", payload.MainOwner)

	require.Len(t, payload.Customers, 2)
	require.Equal(t, "00345678909", payload.Customers[0].PersonCode)
	require.Len(t, payload.Customers[0].Contacts, 1)
	require.Equal(t, "987654321", payload.Customers[0].Contacts[0].Number)
	require.Equal(t, "12345678000195", payload.Customers[1].PersonCode)
	require.Empty(t, payload.Customers[1].Contacts)
}

func TestBuildCustomerPayloadNoMainOwnerFlag(t *testing.T) {
	owners := []etl.Owner{
		{Document: "111", PersonType: "F"},
		{Document: "222", PersonType: "F"},
	}

	payload := BuildCustomerPayload(1, "0000018", owners)

	// Without an explicit main-owner flag the first owner is taken.
	require.Equal(t, "00000000111", payload.MainOwner)
	require.Equal(t, 0.5, payload.OwnershipPercentage)
}

func TestBuildCustomerPayloadNoOwners(t *testing.T) {
	payload := BuildCustomerPayload(1, "0000018", nil)
	require.Equal(t, 1.0, payload.OwnershipPercentage)
	require.Empty(t, payload.Customers)
}
