// Package seed loads reference data (food and exercise catalogs, plan prices
// and optional fixture users) from YAML and upserts it.
package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// File is the layout of a seed document
type File struct {
	Foods           []Food           `yaml:"foods"`
	Exercises       []Exercise       `yaml:"exercises"`
	PaymentSettings []PaymentSetting `yaml:"payment_settings"`
	Users           []User           `yaml:"users"`
}

// Food is a protocol food with nutrients per 100 g
type Food struct {
	Name      string   `yaml:"name"`
	Group     string   `yaml:"group"`
	Calories  float64  `yaml:"calories"`
	Protein   float64  `yaml:"protein"`
	Carbs     float64  `yaml:"carbs"`
	Fats      float64  `yaml:"fats"`
	Fiber     float64  `yaml:"fiber"`
	MealTypes []string `yaml:"meal_types"`
}

type Exercise struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	MuscleGroup string `yaml:"muscle_group"`
	Equipment   string `yaml:"equipment"`
	Difficulty  string `yaml:"difficulty"`
	Description string `yaml:"description"`
}

type PaymentSetting struct {
	PlanType string   `yaml:"plan_type"`
	Price    *float64 `yaml:"price"`
	Active   *bool    `yaml:"active"`
}

// User is a fixture account for local environments
type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Admin    bool   `yaml:"admin"`
}

// Result counts what Apply wrote
type Result struct {
	Foods     int
	Exercises int
	Settings  int
	Users     int
}

// Load decodes a seed document, rejecting unknown keys
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	for i, food := range f.Foods {
		if food.Name == "" {
			return nil, fmt.Errorf("food #%d has no name", i+1)
		}
	}
	for i, e := range f.Exercises {
		if e.Name == "" || e.Type == "" {
			return nil, fmt.Errorf("exercise #%d needs a name and a type", i+1)
		}
	}
	return &f, nil
}

// Apply upserts the document. Running it twice leaves the same rows.
func Apply(ctx context.Context, db *gorm.DB, f *File) (Result, error) {
	var res Result
	catalog := service.NewCatalogService(db)
	admin := service.NewAdminService(db)
	auth := service.NewAuthService(db, "seed")

	for _, food := range f.Foods {
		row := &models.ProtocolFood{
			Name:      food.Name,
			FoodGroup: food.Group,
			Calories:  food.Calories,
			Protein:   food.Protein,
			Carbs:     food.Carbs,
			Fats:      food.Fats,
			Fiber:     food.Fiber,
			MealTypes: models.StringList(food.MealTypes),
		}
		if err := catalog.SaveFood(ctx, row); err != nil {
			return res, fmt.Errorf("seed food %q: %w", food.Name, err)
		}
		res.Foods++
	}

	for _, e := range f.Exercises {
		row := &models.Exercise{
			Name:         e.Name,
			ExerciseType: e.Type,
			MuscleGroup:  e.MuscleGroup,
			Equipment:    e.Equipment,
			Difficulty:   e.Difficulty,
			Description:  e.Description,
		}
		if err := catalog.SaveExercise(ctx, row); err != nil {
			return res, fmt.Errorf("seed exercise %q: %w", e.Name, err)
		}
		res.Exercises++
	}

	for _, s := range f.PaymentSettings {
		_, err := admin.UpdatePaymentSettings(ctx, &types.PaymentSettingsUpdate{
			PlanType: s.PlanType,
			Price:    s.Price,
			IsActive: s.Active,
		})
		if err != nil {
			return res, fmt.Errorf("seed payment settings %q: %w", s.PlanType, err)
		}
		res.Settings++
	}

	for _, u := range f.Users {
		created, err := auth.Register(ctx, &types.RegisterRequest{Name: u.Name, Email: u.Email, Password: u.Password})
		switch {
		case apperr.Is(err, apperr.KindConflict):
			logrus.WithField("email", u.Email).Debug("seed user already exists")
			continue
		case err != nil:
			return res, fmt.Errorf("seed user %q: %w", u.Email, err)
		}
		if u.Admin {
			err := db.WithContext(ctx).Model(&models.UserProfile{}).
				Where("user_id = ?", created.UserID).Update("is_admin", true).Error
			if err != nil {
				return res, fmt.Errorf("seed admin %q: %w", u.Email, err)
			}
		}
		res.Users++
	}
	return res, nil
}
