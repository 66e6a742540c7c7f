package service

import (
	"context"
	"testing"

	"fittrack/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ProfileInput {
	return ProfileInput{
		Name: "Ana", Age: 31, Gender: "Female", Height: 168, Weight: 70, Units: "metric",
		Goal: "Weight Loss", ActivityLevel: "Lightly Active", DietType: "Balanced",
		Restrictions: []string{"Gluten-Free", "", "Gluten-Free", "Nut-Free"},
	}
}

func TestProfileSave_Onboarding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := NewProfileService(f.repos.Users)

	_, err := svc.Get(ctx, f.user.ID)
	assert.ErrorIs(t, err, ErrProfileRequired)

	saved, err := svc.Save(ctx, f.user.ID, validInput())
	require.NoError(t, err)
	assert.False(t, saved.NeedsRegeneration, "first save has no plan to regenerate")
	assert.Equal(t, []string{"Gluten-Free", "Nut-Free"}, saved.Profile.Restrictions)

	got, err := svc.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, got.Weight)
}

func TestProfileSave_ImperialConvertsToCanonical(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := NewProfileService(f.repos.Users)

	in := validInput()
	in.Units = "imperial"
	in.Weight = 154
	in.Height = 0
	in.HeightFeet = floatPtr(5)
	in.HeightInches = floatPtr(6)

	saved, err := svc.Save(ctx, f.user.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 69.85, saved.Profile.Weight)
	assert.Equal(t, 167.64, saved.Profile.Height)

	view := DisplayProfile(saved.Profile)
	assert.Equal(t, 154.0, view.DisplayWeight)
	assert.Equal(t, "lbs", view.WeightLabel)
	assert.Equal(t, `5' 6"`, view.DisplayHeight.Text)
}

func TestProfileSave_Validation(t *testing.T) {
	f := newFixture(t, false)
	svc := NewProfileService(f.repos.Users)

	for name, mutate := range map[string]func(*ProfileInput){
		"missing name":   func(in *ProfileInput) { in.Name = "" },
		"unknown goal":   func(in *ProfileInput) { in.Goal = "Bulk" },
		"zero weight":    func(in *ProfileInput) { in.Weight = 0 },
		"missing height": func(in *ProfileInput) { in.Height = 0 },
		"unknown units":  func(in *ProfileInput) { in.Units = "stone" },
	} {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Save(context.Background(), f.user.ID, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestProfileSave_NeedsRegeneration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := NewProfileService(f.repos.Users)
	_, err := svc.Save(ctx, f.user.ID, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Ana Maria"
	in.Weight = 68
	in.Restrictions = []string{"Nut-Free", "Gluten-Free"}
	saved, err := svc.Save(ctx, f.user.ID, in)
	require.NoError(t, err)
	assert.False(t, saved.NeedsRegeneration, "name, weight and restriction order are not critical")

	in.Equipment = "Dumbbells"
	saved, err = svc.Save(ctx, f.user.ID, in)
	require.NoError(t, err)
	assert.True(t, saved.NeedsRegeneration)
}

func TestCriticalChange(t *testing.T) {
	base := testProfile(domain.UnitsMetric)
	changed := *base
	changed.DietType = domain.DietVegan
	assert.True(t, CriticalChange(base, &changed))

	changed = *base
	changed.Restrictions = append([]string{"Dairy-Free"}, base.Restrictions...)
	assert.True(t, CriticalChange(base, &changed))

	changed = *base
	changed.ActivityLevel = domain.ActivityVeryActive
	assert.False(t, CriticalChange(base, &changed))
}

func TestProfileFromDomain(t *testing.T) {
	in := ProfileFromDomain(testProfile(domain.UnitsImperial))
	assert.Equal(t, 154.0, in.Weight)
	assert.Equal(t, "imperial", in.Units)
}
