package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{"id": float64(7), "amount": "20.00"}
	evt := NewEvent(EventTypeCreated, EntityTypeSavings, payload)

	assert.Equal(t, "savings.created", evt.Type)
	assert.Equal(t, EntityTypeSavings, evt.Entity)
	assert.WithinDuration(t, time.Now().UTC(), evt.Timestamp, time.Second)
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		wantType string
	}{
		{"transaction created", TransactionCreated(nil), "transaction.created"},
		{"budget created", BudgetCreated(nil), "budget.created"},
		{"budget updated", BudgetUpdated(nil), "budget.updated"},
		{"budget closed", BudgetClosed(nil), "budget.closed"},
		{"savings created", SavingsCreated(nil), "savings.created"},
		{"balance updated", BalanceUpdated(nil), "balance.updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.Type)
		})
	}
}

func TestEventToJSON(t *testing.T) {
	evt := BalanceUpdated(map[string]interface{}{"moneyOnHand": "448.00"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "balance.updated", decoded["type"])
	assert.Equal(t, "balance", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "448.00", payload["moneyOnHand"])
}
