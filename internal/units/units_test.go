package units

import (
	"testing"

	"fittrack/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestToDisplayWeight(t *testing.T) {
	assert.Equal(t, 70.5, ToDisplayWeight(70.5, domain.UnitsMetric))
	assert.Equal(t, 155.0, ToDisplayWeight(70.5, domain.UnitsImperial)) // 155.43
	assert.Equal(t, 0.0, ToDisplayWeight(0, domain.UnitsImperial))
}

func TestWeightRoundTrip(t *testing.T) {
	for _, kg := range []float64{0, 45.3, 60, 72.25, 99.99, 150} {
		assert.Equal(t, kg, FromDisplayWeight(ToDisplayWeight(kg, domain.UnitsMetric), domain.UnitsMetric))

		back := FromDisplayWeight(ToDisplayWeight(kg, domain.UnitsImperial), domain.UnitsImperial)
		// Intermediate rounding to whole pounds loses at most half a pound.
		assert.InDelta(t, kg, back, 0.5/lbsPerKg+1e-9, "kg=%v", kg)
	}
}

func TestRoundStorage(t *testing.T) {
	assert.Equal(t, 68.04, RoundStorage(FromDisplayWeight(150, domain.UnitsImperial)))
	assert.Equal(t, 70.0, RoundStorage(70))
}

func TestToDisplayHeight(t *testing.T) {
	tests := []struct {
		name string
		cm   float64
		u    domain.UnitSystem
		want string
	}{
		{"metric whole", 180, domain.UnitsMetric, "180 cm"},
		{"metric fraction", 172.5, domain.UnitsMetric, "172.5 cm"},
		{"imperial", 180, domain.UnitsImperial, "5' 11\""},
		{"imperial exact feet", 182.88, domain.UnitsImperial, "6' 0\""},
		{"imperial carries rounded inches", 182.5, domain.UnitsImperial, "6' 0\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ToDisplayHeight(tt.cm, tt.u)
			assert.Equal(t, tt.want, h.Text)
			assert.Equal(t, tt.cm, h.Val)
		})
	}
}

func TestHeightFromDisplay(t *testing.T) {
	assert.Equal(t, 182.88, HeightFromDisplay(6, 0))
	assert.Equal(t, "5' 11\"", ToDisplayHeight(HeightFromDisplay(5, 11), domain.UnitsImperial).Text)
}

func TestWeightLabel(t *testing.T) {
	assert.Equal(t, "lbs", WeightLabel(domain.UnitsImperial))
	assert.Equal(t, "kg", WeightLabel(domain.UnitsMetric))
	assert.Equal(t, "kg", WeightLabel(""))
}
