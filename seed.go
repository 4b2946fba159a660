package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

type seedCfg struct {
	Count       int
	Seed        int64
	Truncate    bool
	DismissRate float64
	Password    string
}

func seedCmd() *cobra.Command {
	var c seedCfg
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with a deterministic demo population",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			return runSeed(cfg, c)
		},
	}
	cmd.Flags().IntVar(&c.Count, "count", 200, "Number of users to create")
	cmd.Flags().Int64Var(&c.Seed, "seed", 42, "RNG seed (deterministic)")
	cmd.Flags().BoolVar(&c.Truncate, "truncate", false, "TRUNCATE target tables before running")
	cmd.Flags().Float64Var(&c.DismissRate, "dismiss-rate", 0.10, "Proportion of dismissals per user (0..1)")
	cmd.Flags().StringVar(&c.Password, "password", "test1234", "Password assigned to all users")
	return cmd
}

func runSeed(cfg *Config, c seedCfg) error {
	if c.Count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	if c.DismissRate < 0 || c.DismissRate > 1 {
		return fmt.Errorf("--dismiss-rate must be in range 0..1")
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := ensureSchema(db); err != nil {
		return err
	}

	r := rand.New(rand.NewSource(c.Seed))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// One big transaction: clean rollback if something breaks constraints.
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if c.Truncate {
		if _, err := tx.ExecContext(ctx, `
			TRUNCATE TABLE dismissed_matches CASCADE;
			TRUNCATE TABLE profiles CASCADE;
			TRUNCATE TABLE users CASCADE;
		`); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("truncate: %w", err)
		}
		logger.Info("truncated users, profiles, dismissed_matches")
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("bcrypt: %w", err)
	}

	ids, err := seedUsers(ctx, tx, r, c.Count, string(pwHash))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert users: %w", err)
	}

	for i, id := range ids {
		p := randomProfile(r, id)
		if err := upsertProfile(ctx, tx, p); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert profile %d: %w", i, err)
		}
	}

	dismissals, err := seedDismissals(ctx, tx, r, ids, c.DismissRate)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert dismissals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.Info("seed complete",
		zap.Int("users", len(ids)), zap.Int("dismissals", dismissals))
	return nil
}

func seedUsers(ctx context.Context, tx *sql.Tx, r *rand.Rand, n int, pwHash string) ([]string, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO users (id, email, password_hash, last_online)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	emails := make(map[string]struct{}, n)
	ids := make([]string, 0, n)

	// First two users are fixed so there is always a known login.
	fixed := []string{"user1@test.local", "user2@test.local"}

	for i := 0; i < n; i++ {
		var email string
		var lastOnline time.Time
		if i < len(fixed) {
			email = fixed[i]
			lastOnline = time.Now()
		} else {
			email = uniqueEmail(r, emails)
			lastOnline = time.Now().Add(-time.Duration(r.Intn(14*24)) * time.Hour)
		}

		id := uuid.NewString()
		if _, err := stmt.ExecContext(ctx, id, email, pwHash, lastOnline); err != nil {
			return nil, fmt.Errorf("user %d (%s): %w", i, email, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func uniqueEmail(r *rand.Rand, used map[string]struct{}) string {
	for {
		local := randomNameSlug(r)
		domain := []string{"example.com", "mail.test", "dev.local"}[r.Intn(3)]
		email := fmt.Sprintf("%s+%d@%s", local, r.Intn(1000000), domain)
		if _, ok := used[email]; !ok {
			used[email] = struct{}{}
			return email
		}
	}
}

func titleCase(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func randomNameSlug(r *rand.Rand) string {
	first := []string{"alex", "sam", "mia", "li", "noah", "olivia", "leo", "emil", "sara", "luca", "milla", "mikko", "eeva", "niklas", "sofia"}[r.Intn(15)]
	last := []string{"korhonen", "virtanen", "nieminen", "laine", "heikkinen", "koski", "maki", "aho", "salmi", "rantanen"}[r.Intn(10)]
	return strings.ToLower(fmt.Sprintf("%s.%s", first, last))
}

var (
	seedCities = []string{"Tallinn", "Tartu", "Pärnu", "Narva", "Viljandi"}
	seedJobs   = []string{"software developer", "nurse", "teacher", "barista", "designer", "student", "electrician", "accountant"}
	seedHobby  = []string{"reading", "hiking", "music", "gaming", "cooking", "yoga", "climbing", "photography", "board games", "cycling"}
	seedTraits = []string{"tidy", "quiet", "sociable", "respectful", "easygoing", "organized", "night owl", "early bird"}
)

func pickSome(r *rand.Rand, pool []string, max int) []string {
	n := 1 + r.Intn(max)
	out := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(out) < n {
		v := pool[r.Intn(len(pool))]
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func randomProfile(r *rand.Rand, id string) match.Profile {
	budgetMin := 300 + r.Intn(700)
	start := time.Now().AddDate(0, 0, r.Intn(90))
	var end *time.Time
	if r.Float64() < 0.7 {
		e := start.AddDate(0, 1+r.Intn(3), 0)
		end = &e
	}

	genders := []match.Gender{match.GenderFemale, match.GenderMale, match.GenderNonBinary}
	p := match.Profile{
		ID:          id,
		DisplayName: titleCase(strings.ReplaceAll(randomNameSlug(r), ".", " ")),
		Age:         18 + r.Intn(40),
		Occupation:  seedJobs[r.Intn(len(seedJobs))],
		Locations:   pickSome(r, seedCities, 2),
		Budget:      match.BudgetRange{Min: budgetMin, Max: budgetMin + 100 + r.Intn(600)},
		MoveIn:      &match.MoveInWindow{Start: start, End: end},
		HousingType: []match.HousingType{
			match.HousingApartment, match.HousingSharedRoom,
			match.HousingPrivateRoom, match.HousingNoPreference,
		}[r.Intn(4)],
		Cleanliness: []match.Cleanliness{
			match.CleanVeryTidy, match.CleanSomewhatTidy, match.CleanMessy,
		}[r.Intn(3)],
		CleaningFrequency: []match.CleaningFrequency{
			match.CleanDaily, match.CleanFewTimesWeek, match.CleanWeekly, match.CleanAsNeeded,
		}[r.Intn(4)],
		Smokes:           r.Float64() < 0.2,
		ToleratesSmokers: r.Float64() < 0.4,
		HasPets:          r.Float64() < 0.3,
		Diet: []match.Diet{
			match.DietOmnivore, match.DietVegetarian, match.DietVegan, match.DietOther,
		}[r.Intn(4)],
		Cooking: []match.CookingPreference{
			match.CookingShare, match.CookingSeparate,
		}[r.Intn(2)],
		WorkLocation: []match.WorkLocation{
			match.WorkRemote, match.WorkOffice, match.WorkHybrid,
		}[r.Intn(3)],
		WorkSchedule: []match.WorkSchedule{
			match.ShiftDay, match.ShiftEvening, match.ShiftOvernight,
		}[r.Intn(3)],
		Hobbies:       pickSome(r, seedHobby, 4),
		DesiredTraits: pickSome(r, seedTraits, 3),
		Gender:        genders[r.Intn(len(genders))],
		LeaseTerm:     []match.LeaseTerm{match.LeaseShort, match.LeaseLong}[r.Intn(2)],
	}
	if p.Smokes && r.Float64() < 0.8 {
		p.ToleratesSmokers = true
	}
	if !p.HasPets && r.Float64() < 0.2 {
		p.PetPolicy = "no pets please"
	}
	if r.Float64() < 0.3 {
		p.AcceptedGenders = []match.Gender{genders[r.Intn(len(genders))]}
	}
	return p
}

func seedDismissals(ctx context.Context, tx *sql.Tx, r *rand.Rand, ids []string, rate float64) (int, error) {
	if rate <= 0 || len(ids) < 2 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dismissed_matches (user_id, dismissed_user_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	total := 0
	for _, id := range ids {
		if r.Float64() >= rate {
			continue
		}
		target := ids[r.Intn(len(ids))]
		if target == id {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, target); err != nil {
			return total, err
		}
		total++
	}
	return total, nil
}
