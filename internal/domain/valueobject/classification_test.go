package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/valueobject"
)

func TestClassificationForDaysPastDue_Boundaries(t *testing.T) {
	cases := []struct {
		dpd  int
		want valueobject.ArrearsClassification
	}{
		{-5, valueobject.ClassificationCurrent},
		{0, valueobject.ClassificationCurrent},
		{1, valueobject.ClassificationSpecialMention},
		{89, valueobject.ClassificationSpecialMention},
		{90, valueobject.ClassificationSubstandard},
		{179, valueobject.ClassificationSubstandard},
		{180, valueobject.ClassificationDoubtful},
		{364, valueobject.ClassificationDoubtful},
		{365, valueobject.ClassificationLoss},
		{1000, valueobject.ClassificationLoss},
	}
	for _, tc := range cases {
		got := valueobject.ClassificationForDaysPastDue(tc.dpd)
		assert.True(t, got.Equal(tc.want), "dpd %d: want %s, got %s", tc.dpd, tc.want, got)
	}
}

func TestProvisionRate(t *testing.T) {
	assert.True(t, valueobject.ClassificationCurrent.ProvisionRate().Equal(decimal.Zero))
	assert.True(t, valueobject.ClassificationSpecialMention.ProvisionRate().Equal(decimal.Zero))
	assert.True(t, valueobject.ClassificationSubstandard.ProvisionRate().Equal(decimal.NewFromFloat(0.20)))
	assert.True(t, valueobject.ClassificationDoubtful.ProvisionRate().Equal(decimal.NewFromFloat(0.50)))
	assert.True(t, valueobject.ClassificationLoss.ProvisionRate().Equal(decimal.NewFromInt(1)))
}

func TestIsNonAccrual(t *testing.T) {
	assert.False(t, valueobject.ClassificationCurrent.IsNonAccrual())
	assert.False(t, valueobject.ClassificationSpecialMention.IsNonAccrual())
	assert.True(t, valueobject.ClassificationSubstandard.IsNonAccrual())
	assert.True(t, valueobject.ClassificationDoubtful.IsNonAccrual())
	assert.True(t, valueobject.ClassificationLoss.IsNonAccrual())
}

func TestNewArrearsClassification(t *testing.T) {
	c, err := valueobject.NewArrearsClassification("SUBSTANDARD")
	require.NoError(t, err)
	assert.True(t, c.Equal(valueobject.ClassificationSubstandard))
	assert.False(t, c.IsZero())

	_, err = valueobject.NewArrearsClassification("WATCHLIST")
	assert.Error(t, err)
}

func TestNewInstallmentStatus(t *testing.T) {
	s, err := valueobject.NewInstallmentStatus("PARTIALLY_PAID")
	require.NoError(t, err)
	assert.False(t, s.IsSettled())

	paid, err := valueobject.NewInstallmentStatus("PAID")
	require.NoError(t, err)
	assert.True(t, paid.IsSettled())

	_, err = valueobject.NewInstallmentStatus("UNKNOWN")
	assert.Error(t, err)
}
