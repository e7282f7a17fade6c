package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_DerivedTotals(t *testing.T) {
	c := Cart{Items: []LineItem{
		{ID: "1", Price: 14.99, Quantity: 2},
		{ID: "12", Price: 3.99, Quantity: 1},
	}}

	assert.Equal(t, 33.97, c.Subtotal())
	assert.Equal(t, 3, c.ItemCount())
	assert.False(t, c.IsEmpty())
	assert.True(t, Cart{}.IsEmpty())
}

func TestCart_CloneSharesNothing(t *testing.T) {
	last := LineItem{ID: "1", Quantity: 1}
	c := Cart{Items: []LineItem{{ID: "1", Quantity: 1}}, LastAdded: &last}

	clone := c.Clone()
	clone.Items[0].Quantity = 9
	clone.LastAdded.Quantity = 9

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, c.LastAdded.Quantity)
}

func TestOrderStatus_JSON(t *testing.T) {
	data, err := json.Marshal(Order{ID: "o1", Status: StatusOutForDelivery})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"OutForDelivery"`)

	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":"o1","status":"delivered"}`), &o))
	assert.Equal(t, StatusDelivered, o.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"cancelled"}`), &o))
}

func TestOrderStatus_Order(t *testing.T) {
	statuses := OrderStatuses()
	require.Len(t, statuses, 4)
	for i := 1; i < len(statuses); i++ {
		assert.Greater(t, statuses[i], statuses[i-1])
	}
	assert.True(t, StatusDelivered.Terminal())
	assert.False(t, StatusPreparing.Terminal())
	assert.Equal(t, "Out for Delivery", StatusOutForDelivery.Label())
}

func TestCredential_JSONLayout(t *testing.T) {
	data, err := json.Marshal(Credential{
		User:         User{ID: "u1", Name: "Ana", Email: "ana@x.com", Role: RoleUser},
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","name":"Ana","email":"ana@x.com","role":"user","passwordHash":"hash"}`, string(data))
}
