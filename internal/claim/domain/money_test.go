package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Money
		wantErr bool
	}{
		{name: "whole amount", raw: "150.00", want: 15000},
		{name: "no fraction", raw: "150", want: 15000},
		{name: "one decimal", raw: "3.5", want: 350},
		{name: "negative", raw: "-3.50", want: -350},
		{name: "leading dot", raw: ".75", want: 75},
		{name: "zero", raw: "0", want: 0},
		{name: "plus sign", raw: "+12.25", want: 1225},
		{name: "three decimals", raw: "1.005", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "not a number", raw: "abc", wantErr: true},
		{name: "lone dot", raw: ".", wantErr: true},
		{name: "sign inside fraction", raw: "1.-5", wantErr: true},
		{name: "plus inside fraction", raw: "1.+5", wantErr: true},
		{name: "double sign", raw: "--1", wantErr: true},
		{name: "sign after digits", raw: "1-", wantErr: true},
		{name: "space inside", raw: "1. 5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "150.00", Money(15000).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-3.50", Money(-350).String())
	assert.Equal(t, "0.00", Money(0).String())
}

func TestMoneyMulUnits(t *testing.T) {
	// 3 units at 33.33 each is exactly 99.99, no float drift.
	assert.Equal(t, Money(9999), Money(3333).MulUnits(3))
	assert.Equal(t, Money(0), Money(3333).MulUnits(0))
}

func TestMoneyJSON(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 150.00}`), &p))
	assert.Equal(t, Money(15000), p.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "99.99"}`), &p))
	assert.Equal(t, Money(9999), p.Amount)

	out, err := json.Marshal(payload{Amount: 1225})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 12.25}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"amount": 1.005}`), &p))
}
