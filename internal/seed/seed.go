// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"recipebox/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much data the seeder creates.
type Options struct {
	Users          int `yaml:"users"`
	TagsPerUser    int `yaml:"tags_per_user"`
	IngredientsPer int `yaml:"ingredients_per_user"`
	RecipesPerUser int `yaml:"recipes_per_user"`
	// Password is assigned to every seeded user so demo logins work.
	Password string `yaml:"password"`
}

// DefaultOptions returns a small but usable data set.
func DefaultOptions() Options {
	return Options{
		Users:          10,
		TagsPerUser:    5,
		IngredientsPer: 8,
		RecipesPerUser: 6,
		Password:       "changeme123",
	}
}

// Seeder creates demo users and their recipes.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll deletes all seeded data. Join tables go first so foreign keys
// never dangle.
func (s *Seeder) ClearAll() error {
	statements := []string{
		"DELETE FROM recipe_tags",
		"DELETE FROM recipe_ingredients",
		"DELETE FROM recipes",
		"DELETE FROM tags",
		"DELETE FROM ingredients",
		"DELETE FROM auth_tokens",
		"DELETE FROM users",
	}
	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cleanup failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// Run seeds the full data set.
func (s *Seeder) Run() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(s.opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for i := 0; i < s.opts.Users; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
			Name:     gofakeit.Name(),
			IsActive: true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		tags, err := s.seedTags(user)
		if err != nil {
			return err
		}
		ingredients, err := s.seedIngredients(user)
		if err != nil {
			return err
		}
		if err := s.seedRecipes(user, tags, ingredients); err != nil {
			return err
		}
	}

	log.Printf("seeded %d users with recipes (password %q)", s.opts.Users, s.opts.Password)
	return nil
}

func (s *Seeder) seedTags(user *models.User) ([]models.Tag, error) {
	kinds := []string{"Vegan", "Dessert", "Breakfast", "Dinner", "Quick", "Comfort food", "Spicy", "Low carb"}
	s.rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })

	n := s.opts.TagsPerUser
	if n > len(kinds) {
		n = len(kinds)
	}
	tags := make([]models.Tag, 0, n)
	for _, name := range kinds[:n] {
		tag := models.Tag{Name: name, UserID: user.ID}
		if err := s.db.Create(&tag).Error; err != nil {
			return nil, fmt.Errorf("create tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Seeder) seedIngredients(user *models.User) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, s.opts.IngredientsPer)
	seen := map[string]bool{}
	for len(ingredients) < s.opts.IngredientsPer {
		name := gofakeit.Vegetable()
		if s.rng.Intn(2) == 0 {
			name = gofakeit.Fruit()
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		ingredient := models.Ingredient{Name: name, UserID: user.ID}
		if err := s.db.Create(&ingredient).Error; err != nil {
			return nil, fmt.Errorf("create ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

func (s *Seeder) seedRecipes(user *models.User, tags []models.Tag, ingredients []models.Ingredient) error {
	for i := 0; i < s.opts.RecipesPerUser; i++ {
		recipe := &models.Recipe{
			Title:       gofakeit.Dinner(),
			TimeMinutes: 5 + s.rng.Intn(115),
			Price:       float64(s.rng.Intn(4000)+100) / 100,
			Link:        gofakeit.URL(),
			UserID:      user.ID,
			Tags:        pick(s.rng, tags, 2),
			Ingredients: pick(s.rng, ingredients, 4),
		}
		if err := s.db.Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
	}
	return nil
}

// pick returns up to n random elements from the slice.
func pick[T any](rng *rand.Rand, items []T, n int) []T {
	if len(items) == 0 {
		return nil
	}
	idx := rng.Perm(len(items))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]T, 0, n)
	for _, i := range idx[:n] {
		out = append(out, items[i])
	}
	return out
}
