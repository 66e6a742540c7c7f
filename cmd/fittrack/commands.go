package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/service"
	"fittrack/fitness-app/internal/units"
)

func (c *cli) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register <email> <password>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.session.Register(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.emit(user, func(w io.Writer) {
				fmt.Fprintf(w, "Welcome, %s! Set up your profile with `fittrack profile set`.\n", user.Email)
			})
		},
	}
}

func (c *cli) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.session.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.emit(user, func(w io.Writer) { fmt.Fprintf(w, "Logged in as %s\n", user.Email) })
		},
	}
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(user, func(w io.Writer) { renderUser(w, user) })
		},
	}
}

func (c *cli) usersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := c.app.Services.Auth.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(users, func(w io.Writer) {
				for _, u := range users {
					fmt.Fprintf(w, "%s  %s\n", u.ID, u.Email)
				}
			})
		},
	}
}

// --- Profile ---

type profileFlags struct {
	in           service.ProfileInput
	feet, inches float64
}

func (c *cli) profileCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Show or edit your profile"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile in your units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			if !user.HasProfile() {
				return service.ErrProfileRequired
			}
			view := service.DisplayProfile(user.Profile)
			return c.emit(view, func(w io.Writer) { renderProfile(w, view) })
		},
	}

	var pf profileFlags
	set := &cobra.Command{
		Use:   "set",
		Short: "Create or update your profile; unset flags keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.saveProfile(cmd, pf)
		},
	}
	f := set.Flags()
	f.StringVar(&pf.in.Name, "name", "", "Display name")
	f.IntVar(&pf.in.Age, "age", 0, "Age in years")
	f.StringVar(&pf.in.Gender, "gender", "", "Male, Female or Other")
	f.Float64Var(&pf.in.Height, "height", 0, "Height in cm")
	f.Float64Var(&pf.feet, "feet", 0, "Height feet (imperial)")
	f.Float64Var(&pf.inches, "inches", 0, "Height inches (imperial)")
	f.Float64Var(&pf.in.Weight, "weight", 0, "Weight in your units")
	f.StringVar(&pf.in.Units, "units", "", "metric or imperial")
	f.StringVar(&pf.in.Goal, "goal", "", "Weight Loss, Muscle Gain, Maintenance, Endurance or Flexibility")
	f.StringVar(&pf.in.ActivityLevel, "activity", "", "Sedentary, Lightly Active, Moderately Active or Very Active")
	f.StringVar(&pf.in.DietType, "diet", "", "Vegan, Vegetarian, Non-Vegetarian, Eggetarian, Keto, Paleo, Balanced or Other")
	f.StringSliceVar(&pf.in.Restrictions, "restrictions", nil, "Dietary restrictions, comma separated")
	f.StringVar(&pf.in.DietaryPreferences, "preferences", "", "Free-text dietary preferences")
	f.StringVar(&pf.in.Injuries, "injuries", "", "Injuries or limitations")
	f.StringVar(&pf.in.Allergies, "allergies", "", "Food allergies")
	f.StringVar(&pf.in.Equipment, "equipment", "", "Available equipment")

	cmd.AddCommand(show, set)
	return cmd
}

// saveProfile overlays the changed flags on the stored profile.
func (c *cli) saveProfile(cmd *cobra.Command, pf profileFlags) error {
	ctx := cmd.Context()
	user, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	in := service.ProfileInput{Units: string(domain.UnitsMetric)}
	if user.HasProfile() {
		in = service.ProfileFromDomain(user.Profile)
	}

	changed := cmd.Flags().Changed
	if changed("inches") && !changed("feet") {
		return fmt.Errorf("%w: --inches needs --feet", service.ErrInvalidInput)
	}
	if changed("units") {
		in.Units = pf.in.Units
		if user.HasProfile() && !changed("weight") {
			in.Weight = units.ToDisplayWeight(user.Profile.Weight, domain.UnitSystem(in.Units))
		}
	}
	overlay := []struct {
		flag  string
		apply func()
	}{
		{"name", func() { in.Name = pf.in.Name }},
		{"age", func() { in.Age = pf.in.Age }},
		{"gender", func() { in.Gender = pf.in.Gender }},
		{"height", func() { in.Height = pf.in.Height }},
		{"feet", func() { in.HeightFeet = &pf.feet }},
		{"inches", func() { in.HeightInches = &pf.inches }},
		{"weight", func() { in.Weight = pf.in.Weight }},
		{"goal", func() { in.Goal = pf.in.Goal }},
		{"activity", func() { in.ActivityLevel = pf.in.ActivityLevel }},
		{"diet", func() { in.DietType = pf.in.DietType }},
		{"restrictions", func() { in.Restrictions = pf.in.Restrictions }},
		{"preferences", func() { in.DietaryPreferences = pf.in.DietaryPreferences }},
		{"injuries", func() { in.Injuries = pf.in.Injuries }},
		{"allergies", func() { in.Allergies = pf.in.Allergies }},
		{"equipment", func() { in.Equipment = pf.in.Equipment }},
	}
	for _, o := range overlay {
		if changed(o.flag) {
			o.apply()
		}
	}

	saved, err := c.app.Services.Profiles.Save(ctx, user.ID, in)
	if err != nil {
		return err
	}
	view := service.DisplayProfile(saved.Profile)
	return c.emit(saved, func(w io.Writer) {
		renderProfile(w, view)
		if saved.NeedsRegeneration {
			fmt.Fprintln(w, "\nYour goal or constraints changed. Run `fittrack plan generate` to get a matching plan.")
		}
	})
}

// --- Plan ---

func (c *cli) planCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "plan", Short: "Generate and view your weekly plan"}

	var showDiff bool
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Ask the coach for a new weekly plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Generating your plan...")
			out, err := c.app.Services.Plans.Generate(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			return c.emit(out, func(w io.Writer) {
				if showDiff {
					fmt.Fprint(w, planDiff(planText(out.Previous), planText(out.Plan)))
					return
				}
				renderPlan(w, out.Plan)
			})
		},
	}
	generate.Flags().BoolVar(&showDiff, "diff", false, "Show what changed compared to the previous plan")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the whole week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			plan, err := c.app.Services.Plans.Get(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			return c.emit(plan, func(w io.Writer) { renderPlan(w, plan) })
		},
	}

	day := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show the plan and your progress for a date (today by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			view, err := c.app.Services.Plans.Day(cmd.Context(), user.ID, optionalArg(args))
			if err != nil {
				return err
			}
			return c.emit(view, func(w io.Writer) { renderDay(w, view) })
		},
	}

	cmd.AddCommand(generate, show, day)
	return cmd
}

// --- Progress ---

func (c *cli) logCommand() *cobra.Command {
	var (
		calories, water int
		weightVal       float64
		workout         bool
		date            string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record today's weight, workout, calories or water",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			var in service.LogInput
			f := cmd.Flags()
			if f.Changed("weight") {
				in.Weight = &weightVal
			}
			if f.Changed("workout") {
				in.WorkoutCompleted = &workout
			}
			if f.Changed("calories") {
				in.CaloriesConsumed = &calories
			}
			if f.Changed("water") {
				in.WaterIntake = &water
			}
			saved, err := c.app.Services.Progress.SaveLog(cmd.Context(), user.ID, date, in)
			if err != nil {
				return err
			}
			return c.emit(saved, func(w io.Writer) { renderLog(w, saved, user.Profile) })
		},
	}
	f := cmd.Flags()
	f.Float64Var(&weightVal, "weight", 0, "Weight in your units")
	f.BoolVar(&workout, "workout", false, "Mark the workout as completed")
	f.IntVar(&calories, "calories", 0, "Calories consumed")
	f.IntVar(&water, "water", 0, "Water intake in ml")
	f.StringVar(&date, "date", "", "Date to log (only today is accepted)")
	return cmd
}

func (c *cli) toggleCommand() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "toggle <item-key>",
		Short: "Mark an exercise or meal of today as done or not done",
		Long:  "Item keys are listed by `fittrack plan day`, for example exercise-<id> or meal-<id>.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := c.app.Services.Progress.ToggleItem(cmd.Context(), user.ID, date, args[0]); err != nil {
				return err
			}
			view, err := c.app.Services.Plans.Day(cmd.Context(), user.ID, date)
			if err != nil {
				return err
			}
			return c.emit(view, func(w io.Writer) { renderDay(w, view) })
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date of the item (only today is accepted)")
	return cmd
}

func (c *cli) waterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "water <delta-ml>",
		Short: "Add (or with a negative value remove) water for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: delta must be a whole number of ml", service.ErrInvalidInput)
			}
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			saved, err := c.app.Services.Progress.AdjustWater(cmd.Context(), user.ID, "", delta)
			if err != nil {
				return err
			}
			return c.emit(saved, func(w io.Writer) {
				fmt.Fprintf(w, "Water today: %d / %d ml\n", saved.WaterIntake, service.DailyWaterGoal)
			})
		},
	}
}

// --- Analytics ---

func (c *cli) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streak, completed workouts and hydration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := c.app.Services.Analytics.Summary(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			return c.emit(summary, func(w io.Writer) { renderSummary(w, summary) })
		},
	}
}

func (c *cli) chartCommand() *cobra.Command {
	var rng string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show the progress series for a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			chart, err := c.app.Services.Analytics.Chart(cmd.Context(), user.ID, domain.Range(rng))
			if err != nil {
				return err
			}
			return c.emit(chart, func(w io.Writer) { renderChart(w, chart) })
		},
	}
	cmd.Flags().StringVar(&rng, "range", string(domain.RangeDaily), "daily, weekly or monthly")
	return cmd
}

func (c *cli) reportCommand() *cobra.Command {
	var rng, out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render an HTML progress report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := c.app.Services.Reports.Generate(cmd.Context(), user.ID, domain.Range(rng))
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				if rep.URL != "" {
					fmt.Fprintln(c.out, rep.URL)
					return nil
				}
				_, err = c.out.Write(rep.Body)
				return err
			}
			if err := os.WriteFile(out, rep.Body, 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Fprintf(c.out, "%s written to %s\n", rep.Title, out)
			if rep.URL != "" {
				fmt.Fprintf(c.out, "Download link: %s\n", rep.URL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rng, "range", string(domain.RangeWeekly), "daily, weekly or monthly")
	cmd.Flags().StringVar(&out, "out", "", "Write the report to this file instead of stdout")
	return cmd
}

// --- Chat and settings ---

func (c *cli) chatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the coach a question, or show the conversation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			var history []domain.ChatMessage
			if len(args) == 0 {
				history, err = c.app.Services.Chat.History(cmd.Context(), user.ID)
			} else {
				history, err = c.app.Services.Chat.Send(cmd.Context(), user.ID, args[0])
			}
			if err != nil {
				return err
			}
			return c.emit(history, func(w io.Writer) {
				if len(args) == 0 {
					renderChat(w, history)
					return
				}
				fmt.Fprintln(w, history[len(history)-1].Text)
			})
		},
	}
}

func (c *cli) themeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				theme := domain.Theme(args[0])
				if !theme.Valid() {
					return fmt.Errorf("%w: theme must be light or dark", service.ErrInvalidInput)
				}
				if err := c.session.SetTheme(cmd.Context(), theme); err != nil {
					return err
				}
			}
			fmt.Fprintln(c.out, c.session.Theme())
			return nil
		},
	}
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
