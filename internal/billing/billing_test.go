package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taller-manrubia/workshop-service/internal/domain"
)

func TestComposeFlat(t *testing.T) {
	bill, err := Compose(Input{Mode: ModeFlat, Price: "25.5"})
	require.NoError(t, err)
	assert.Equal(t, 25.5, bill.Total)
	assert.Nil(t, bill.Breakdown)
}

func TestComposeFlatCommaSeparator(t *testing.T) {
	bill, err := Compose(Input{Mode: ModeFlat, Price: "12,90"})
	require.NoError(t, err)
	assert.Equal(t, 12.9, bill.Total)
}

func TestComposeFlatRejectsBadPrice(t *testing.T) {
	for _, price := range []string{"", "  ", "abc", "-5"} {
		_, err := Compose(Input{Mode: ModeFlat, Price: price})
		assert.Error(t, err, "price %q", price)
	}
}

func TestComposeItemizedSkipsIncompleteItems(t *testing.T) {
	bill, err := Compose(Input{Mode: ModeItemized, Items: []ItemInput{
		{Label: "Brakes", Amount: "10"},
		{Label: "", Amount: ""},
		{Label: "Tires", Amount: "15.5"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 25.5, bill.Total)
	require.Len(t, bill.Breakdown, 2)
	assert.Equal(t, domain.LineItem{Label: "Brakes", Amount: 10}, bill.Breakdown[0])
	assert.Equal(t, domain.LineItem{Label: "Tires", Amount: 15.5}, bill.Breakdown[1])
}

func TestComposeItemizedSkipsInvalidAmounts(t *testing.T) {
	bill, err := Compose(Input{Mode: ModeItemized, Items: []ItemInput{
		{Label: "Chain", Amount: "twelve"},
		{Label: "Refund", Amount: "-3"},
		{Label: "Checkup", Amount: "0"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, bill.Total)
	require.Len(t, bill.Breakdown, 1)
	assert.Equal(t, "Checkup", bill.Breakdown[0].Label)
}

func TestComposeItemizedRejectsWhenNothingValid(t *testing.T) {
	_, err := Compose(Input{Mode: ModeItemized, Items: []ItemInput{
		{Label: "", Amount: "10"},
		{Label: "Chain", Amount: "x"},
	}})
	assert.Error(t, err)

	_, err = Compose(Input{Mode: ModeItemized})
	assert.Error(t, err)
}

func TestComposeRoundsToCents(t *testing.T) {
	bill, err := Compose(Input{Mode: ModeItemized, Items: []ItemInput{
		{Label: "A", Amount: "0.1"},
		{Label: "B", Amount: "0.2"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 0.3, bill.Total)
}
