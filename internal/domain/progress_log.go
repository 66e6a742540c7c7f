package domain

// ProgressLog is the record of one calendar day for one user, unique per date.
type ProgressLog struct {
	Date             string          `bson:"date" json:"date"`   // YYYY-MM-DD
	Weight           float64         `bson:"weight" json:"weight"` // kg at time of logging
	CaloriesConsumed *int            `bson:"caloriesConsumed,omitempty" json:"caloriesConsumed,omitempty"`
	WorkoutCompleted bool            `bson:"workoutCompleted" json:"workoutCompleted"`
	WaterIntake      int             `bson:"waterIntake" json:"waterIntake"` // ml
	Details          map[string]bool `bson:"details,omitempty" json:"details,omitempty"`
}

// Done reports whether the item behind key is marked complete.
func (l *ProgressLog) Done(key string) bool {
	if l == nil {
		return false
	}
	return l.Details[key]
}

// LogUpdate is the write shape for saving a log. Nil fields are "not
// provided" and keep their stored value. Details, when non-nil, replaces the
// stored map wholesale; merging individual keys is the caller's job.
type LogUpdate struct {
	Date             string
	Weight           *float64
	CaloriesConsumed *int
	WorkoutCompleted *bool
	WaterIntake      *int
	Details          map[string]bool
}

// ApplyTo merges the update over an existing log (incoming wins).
func (u LogUpdate) ApplyTo(l *ProgressLog) {
	l.Date = u.Date
	if u.Weight != nil {
		l.Weight = *u.Weight
	}
	if u.CaloriesConsumed != nil {
		c := *u.CaloriesConsumed
		l.CaloriesConsumed = &c
	}
	if u.WorkoutCompleted != nil {
		l.WorkoutCompleted = *u.WorkoutCompleted
	}
	if u.WaterIntake != nil {
		l.WaterIntake = *u.WaterIntake
	}
	if u.Details != nil {
		l.Details = CopyDetails(u.Details)
	}
}

// NewLog builds the record created by the first write for a date.
func (u LogUpdate) NewLog() ProgressLog {
	var l ProgressLog
	u.ApplyTo(&l)
	return l
}

// CopyDetails returns an independent copy of a details map (nil stays nil).
func CopyDetails(in map[string]bool) map[string]bool {
	if in == nil {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one entry of a user's coach transcript.
type ChatMessage struct {
	Role ChatRole `bson:"role" json:"role"`
	Text string   `bson:"text" json:"text"`
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}
