package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeposit(t *testing.T) {
	balance, err := Deposit(100, 50)
	require.NoError(t, err)
	assert.Equal(t, 150.0, balance)

	balance, err = Deposit(100, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, 100.0, balance)
}

func TestWithdraw(t *testing.T) {
	balance, err := Withdraw(150, 200)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 150.0, balance)

	balance, err = Withdraw(150, 150)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)

	_, err = Withdraw(150, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestNonFiniteAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
	}{
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
		{"-Inf", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, err := Deposit(100, tt.amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
			assert.Equal(t, 100.0, balance)

			balance, err = Withdraw(100, tt.amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
			assert.Equal(t, 100.0, balance)

			// 餘額為 0 時 NaN 不能當成足夠
			balance, err = Withdraw(0, tt.amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
			assert.Equal(t, 0.0, balance)

			assert.False(t, ValidAmount(tt.amount))
			assert.False(t, ValidInitialBalance(tt.amount))
		})
	}
	assert.True(t, ValidInitialBalance(0))
	assert.False(t, ValidAmount(0))
}
