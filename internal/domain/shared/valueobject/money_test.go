package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(1000), KRW)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, KRW, m.Currency())
}

func TestNewMoney_EmptyCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(100), "")
	assert.Error(t, err)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("1234.56", USD)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(1234.56)))

	_, err = NewMoneyFromString("not-a-number", USD)
	assert.Error(t, err)
}

func TestMoney_DefaultCurrencyIsKRW(t *testing.T) {
	assert.Equal(t, KRW, DefaultCurrency)
	assert.Equal(t, KRW, ZeroKRW().Currency())
	assert.Equal(t, KRW, NewMoneyKRWFromInt(500).Currency())
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyKRWFromInt(300)
	b := NewMoneyKRWFromInt(700)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(1000)))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := NewMoneyKRWFromInt(300)
	b, _ := NewMoneyFromInt(700, USD)

	_, err := a.Add(b)
	assert.Error(t, err)

	assert.Panics(t, func() {
		a.MustAdd(b)
	})
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyKRWFromInt(1000)
	b := NewMoneyKRWFromInt(300)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(700)))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroKRW().IsZero())
	assert.True(t, NewMoneyKRWFromInt(1).IsPositive())
	assert.True(t, NewMoneyKRWFromInt(-1).IsNegative())
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyKRWFromInt(100)
	large := NewMoneyKRWFromInt(200)

	less, err := small.LessThan(large)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := large.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, small.Equals(NewMoneyKRWFromInt(100)))
	assert.False(t, small.Equals(large))

	other, _ := NewMoneyFromInt(100, JPY)
	_, err = small.LessThan(other)
	assert.Error(t, err)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyKRWFromFloat(1234.5)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("99.99"))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}
