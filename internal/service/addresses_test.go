package service

import (
	"testing"

	"shop-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestAddressPatchApply(t *testing.T) {
	addr := models.Address{
		Country:  "Italy",
		City:     "Milan",
		PostCode: "20100",
		Address:  "Via Rossi 1",
		Phone:    "3331234567",
	}

	patch := AddressPatch{
		City:  strptr("Rome"),
		Phone: strptr("3407654321"),
	}
	patch.apply(&addr)

	assert.Equal(t, "Rome", addr.City)
	assert.Equal(t, "3407654321", addr.Phone)
	// Untouched fields keep their values.
	assert.Equal(t, "Italy", addr.Country)
	assert.Equal(t, "20100", addr.PostCode)
	assert.Equal(t, "Via Rossi 1", addr.Address)
}

func TestAddressPatchApplyEmpty(t *testing.T) {
	addr := models.Address{Country: "Italy", City: "Milan"}

	AddressPatch{}.apply(&addr)

	assert.Equal(t, "Italy", addr.Country)
	assert.Equal(t, "Milan", addr.City)
}
