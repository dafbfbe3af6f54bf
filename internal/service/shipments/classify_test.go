package shipments

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cacao/internal/domain/models"
)

func TestClassifyProduct(t *testing.T) {
	tests := []struct {
		code string
		want models.ProductCategory
	}{
		{"180100", models.CategoryBeans},
		{"180310", models.CategoryLiquor},
		{"1804000000", models.CategoryButter},
		{"180500.0", models.CategoryPowder},
		{"1806.9", models.CategoryChocolate},
		{"1.801e+09", models.CategoryBeans},
		{" 180100 ", models.CategoryBeans},
		{"9999", models.CategoryOther},
		{"180", models.CategoryOther},
		{"1802", models.CategoryOther},
		{"-180100", models.CategoryOther},
		{"", models.CategoryOther},
		{"cocoa", models.CategoryOther},
		{"NaN", models.CategoryOther},
		{"inf", models.CategoryOther},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyProduct(tc.code), "code %q", tc.code)
	}
}

func TestDateFromSerial(t *testing.T) {
	d, err := DateFromSerial(2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = DateFromSerial(3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1900, 1, 2, 0, 0, 0, 0, time.UTC), d)

	d, err = DateFromSerial(44197)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = DateFromSerial(44197.5)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC), d)

	d, err = DateFromSerial(106000.25)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2190, 3, 19, 6, 0, 0, 0, time.UTC), d)

	d, err = DateFromSerial(-998)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1897, 4, 6, 0, 0, 0, 0, time.UTC), d)

	_, err = DateFromSerial(106755)
	require.Error(t, err)

	_, err = DateFromSerial(math.Inf(1))
	require.Error(t, err)

	_, err = DateFromSerial(1e9)
	require.Error(t, err)
}

func TestSeasonLabel(t *testing.T) {
	assert.Equal(t, "2020-2021", SeasonLabel(2020, 10))
	assert.Equal(t, "2020-2021", SeasonLabel(2020, 12))
	assert.Equal(t, "2019-2020", SeasonLabel(2020, 1))
	assert.Equal(t, "2019-2020", SeasonLabel(2020, 9))
	assert.Equal(t, models.Unknown, SeasonLabel(2020, 0))
	assert.Equal(t, models.Unknown, SeasonLabel(2020, 13))
}
