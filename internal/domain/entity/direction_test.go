package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionLabels(t *testing.T) {
	tests := []struct {
		direction     Direction
		sendLabel     string
		sendPrefix    string
		receiveLabel  string
		receivePrefix string
		tab           Tab
	}{
		{UsdToPen, "Dollars", "$", "Soles", "S/", BuyTab},
		{PenToUsd, "Soles", "S/", "Dollars", "$", SellTab},
	}

	for _, tt := range tests {
		t.Run(tt.direction.String(), func(t *testing.T) {
			assert.Equal(t, tt.sendLabel, tt.direction.SendLabel())
			assert.Equal(t, tt.sendPrefix, tt.direction.SendPrefix())
			assert.Equal(t, tt.receiveLabel, tt.direction.ReceiveLabel())
			assert.Equal(t, tt.receivePrefix, tt.direction.ReceivePrefix())
			assert.Equal(t, tt.tab, tt.direction.Tab())
			assert.Equal(t, tt.direction, tt.tab.Direction())
		})
	}
}

func TestDirectionToggle(t *testing.T) {
	assert.Equal(t, PenToUsd, UsdToPen.Toggle())
	assert.Equal(t, UsdToPen, PenToUsd.Toggle())
	assert.Equal(t, UsdToPen, UsdToPen.Toggle().Toggle())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" usd_to_pen ")
	require.NoError(t, err)
	assert.Equal(t, UsdToPen, d)

	d, err = ParseDirection("PEN_TO_USD")
	require.NoError(t, err)
	assert.Equal(t, PenToUsd, d)

	_, err = ParseDirection("EUR_TO_PEN")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("SELL")
	require.NoError(t, err)
	assert.Equal(t, SellTab, tab)

	_, err = ParseTab("hold")
	assert.ErrorIs(t, err, ErrInvalidTab)
}

func TestDirectionJSON(t *testing.T) {
	var payload struct {
		Direction Direction `json:"direction"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"direction":"pen_to_usd"}`), &payload))
	assert.Equal(t, PenToUsd, payload.Direction)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"direction":"PEN_TO_USD"}`, string(out))

	err = json.Unmarshal([]byte(`{"direction":"sideways"}`), &payload)
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
