package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/units"

	"github.com/go-playground/validator/v10"
)

// ProfileInput is a profile as entered by the user, in their display units.
// Imperial heights may be given as feet and inches instead of Height.
type ProfileInput struct {
	Name               string   `json:"name" validate:"required"`
	Age                int      `json:"age" validate:"gte=1,lte=120"`
	Gender             string   `json:"gender" validate:"oneof=Male Female Other"`
	Height             float64  `json:"height" validate:"gte=0"` // cm
	HeightFeet         *float64 `json:"heightFeet,omitempty" validate:"omitempty,gte=0"`
	HeightInches       *float64 `json:"heightInches,omitempty" validate:"omitempty,gte=0,lt=12"`
	Weight             float64  `json:"weight" validate:"gt=0"` // kg or lbs, per Units
	Units              string   `json:"units" validate:"oneof=metric imperial"`
	Goal               string   `json:"goal" validate:"oneof='Weight Loss' 'Muscle Gain' Maintenance Endurance Flexibility"`
	ActivityLevel      string   `json:"activityLevel" validate:"oneof=Sedentary 'Lightly Active' 'Moderately Active' 'Very Active'"`
	DietType           string   `json:"dietType" validate:"oneof=Vegan Vegetarian Non-Vegetarian Eggetarian Keto Paleo Balanced Other"`
	Restrictions       []string `json:"restrictions"`
	DietaryPreferences string   `json:"dietaryPreferences"`
	Injuries           string   `json:"injuries"`
	Allergies          string   `json:"allergies"`
	Equipment          string   `json:"equipment"`
}

// ProfileFromDomain fills an input form from a stored profile, in its display units.
func ProfileFromDomain(p *domain.Profile) ProfileInput {
	u := p.DisplayUnits()
	return ProfileInput{
		Name:               p.Name,
		Age:                p.Age,
		Gender:             string(p.Gender),
		Height:             p.Height,
		Weight:             units.ToDisplayWeight(p.Weight, u),
		Units:              string(u),
		Goal:               string(p.Goal),
		ActivityLevel:      string(p.ActivityLevel),
		DietType:           string(p.DietType),
		Restrictions:       append([]string(nil), p.Restrictions...),
		DietaryPreferences: p.DietaryPreferences,
		Injuries:           p.Injuries,
		Allergies:          p.Allergies,
		Equipment:          p.Equipment,
	}
}

// SavedProfile is the result of saving a profile. NeedsRegeneration is set when
// a field the plan depends on changed, so the caller can offer a new plan.
type SavedProfile struct {
	Profile           *domain.Profile `json:"profile"`
	NeedsRegeneration bool            `json:"needsRegeneration"`
}

// ProfileView is a profile prepared for display in its own unit system.
type ProfileView struct {
	*domain.Profile
	DisplayWeight float64      `json:"displayWeight"`
	WeightLabel   string       `json:"weightLabel"`
	DisplayHeight units.Height `json:"displayHeight"`
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Save(ctx context.Context, userID string, in ProfileInput) (*SavedProfile, error)
}

type profileService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo, validate: validator.New()}
}

// Get returns the user's profile, or ErrProfileRequired before onboarding.
func (s *profileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasProfile() {
		return nil, ErrProfileRequired
	}
	return user.Profile, nil
}

// Save converts in to canonical units and stores it as the user's profile.
func (s *profileService) Save(ctx context.Context, userID string, in ProfileInput) (*SavedProfile, error) {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: %s failed on %s", ErrInvalidInput, verrs[0].Field(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := in.toDomain()
	if profile.Height <= 0 {
		return nil, fmt.Errorf("%w: height is required", ErrInvalidInput)
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, err
	}
	return &SavedProfile{
		Profile:           profile,
		NeedsRegeneration: user.HasProfile() && CriticalChange(user.Profile, profile),
	}, nil
}

func (in ProfileInput) toDomain() *domain.Profile {
	u := domain.UnitSystem(in.Units)
	height := in.Height
	if u == domain.UnitsImperial && in.HeightFeet != nil {
		inches := 0.0
		if in.HeightInches != nil {
			inches = *in.HeightInches
		}
		height = units.HeightFromDisplay(*in.HeightFeet, inches)
	}
	return &domain.Profile{
		Name:               strings.TrimSpace(in.Name),
		Age:                in.Age,
		Gender:             domain.Gender(in.Gender),
		Height:             units.RoundStorage(height),
		Weight:             units.RoundStorage(units.FromDisplayWeight(in.Weight, u)),
		Units:              u,
		Goal:               domain.Goal(in.Goal),
		ActivityLevel:      domain.ActivityLevel(in.ActivityLevel),
		DietType:           domain.DietType(in.DietType),
		Restrictions:       domain.NormalizeRestrictions(in.Restrictions),
		DietaryPreferences: in.DietaryPreferences,
		Injuries:           in.Injuries,
		Allergies:          in.Allergies,
		Equipment:          in.Equipment,
	}
}

// CriticalChange reports whether any field the generated plan depends on
// differs between two profiles.
func CriticalChange(before, after *domain.Profile) bool {
	return before.Goal != after.Goal ||
		before.Injuries != after.Injuries ||
		before.DietType != after.DietType ||
		before.Allergies != after.Allergies ||
		before.Equipment != after.Equipment ||
		!domain.SameRestrictions(before.Restrictions, after.Restrictions)
}

// DisplayProfile renders a stored profile in its own unit system.
func DisplayProfile(p *domain.Profile) ProfileView {
	u := p.DisplayUnits()
	return ProfileView{
		Profile:       p,
		DisplayWeight: units.ToDisplayWeight(p.Weight, u),
		WeightLabel:   units.WeightLabel(u),
		DisplayHeight: units.ToDisplayHeight(p.Height, u),
	}
}
