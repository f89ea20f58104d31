package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
}

func TestOrder_Sum(t *testing.T) {
	order := Order{Items: []OrderLineItem{
		{MedicineName: "X", Quantity: 2, Price: decimal.NewFromInt(150)},
		{MedicineName: "Y", Quantity: 1, Price: decimal.RequireFromString("10.50")},
	}}
	assert.True(t, order.Sum().Equal(decimal.RequireFromString("310.50")))
	assert.True(t, (&Order{}).Sum().IsZero())
}

func TestMedicine_JSON(t *testing.T) {
	m := Medicine{Name: "Aspirin", Price: decimal.NewFromInt(12000), Quantity: 5, Restricted: Unrestricted}

	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Aspirin", out["ten_thuoc"])
	assert.Equal(t, float64(12000), out["gia_thuoc"])
	assert.Nil(t, out["hinh_anh"])
	assert.Equal(t, float64(5), out["so_luong"])
	assert.Equal(t, float64(0), out["han_che"])
	assert.False(t, m.IsRestricted())
}
