package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/nutrition"
	"github.com/nandoesporte/gut59/backend/internal/plan"
	"github.com/nandoesporte/gut59/backend/internal/types"
)

// MealPlanInput is everything the generator needs for a nutrition plan
type MealPlanInput struct {
	Request  *types.MealPlanRequest
	Calories nutrition.CalorieResult
	Foods    []models.ProtocolFood
}

// WorkoutPlanInput is everything the generator needs for a training plan
type WorkoutPlanInput struct {
	Request   *types.WorkoutPlanRequest
	Exercises []models.Exercise
}

// PhysioPlanInput is everything the generator needs for a rehabilitation plan
type PhysioPlanInput struct {
	Request   *types.PhysioPlanRequest
	Exercises []models.Exercise
}

const mealPlanSystemPrompt = `Você é um nutricionista esportivo. Responda somente com um objeto JSON no formato:
{"weeklyPlan": {"monday": {"dayName": "Segunda-feira", "meals": {"breakfast": MEAL, "morningSnack": MEAL, "lunch": MEAL, "afternoonSnack": MEAL, "dinner": MEAL}, "dailyTotals": {"calories": 0, "protein": 0, "carbs": 0, "fats": 0, "fiber": 0}}, ...},
 "weeklyTotals": {"averageCalories": 0, "averageProtein": 0, "averageCarbs": 0, "averageFats": 0, "averageFiber": 0},
 "recommendations": {"general": "", "preworkout": "", "postworkout": "", "timing": [""]}}
onde MEAL = {"description": "", "foods": [{"name": "", "portion": 0, "unit": "g", "details": ""}], "calories": 0, "macros": {"protein": 0, "carbs": 0, "fats": 0, "fiber": 0}}.
Use as chaves de dia em inglês (monday..sunday). Café da manhã, almoço e jantar são obrigatórios.`

const workoutPlanSystemPrompt = `Você é um educador físico. Responda somente com um objeto JSON no formato:
{"goal": "", "startDate": "YYYY-MM-DD", "endDate": "YYYY-MM-DD",
 "sessions": [{"dayNumber": 1, "dayName": "", "focusArea": "", "warmup": "", "cooldown": "",
   "exercises": [{"name": "", "sets": 3, "reps": "8-12", "restSeconds": 60, "load": "", "notes": ""}]}]}`

const physioPlanSystemPrompt = `Você é um fisioterapeuta. Responda somente com um objeto JSON no formato:
{"condition": "", "goal": "",
 "phases": [{"name": "", "weeks": 2,
   "sessions": [{"dayNumber": 1, "focusArea": "", "warmup": "", "cooldown": "",
     "exercises": [{"name": "", "sets": 2, "reps": "10", "restSeconds": 30, "notes": ""}]}]}]}`

// PlanGenerator builds prompts per plan type and decodes the completions
type PlanGenerator struct {
	llm ILLMClient
}

// Ensure PlanGenerator implements IPlanGenerator
var _ IPlanGenerator = (*PlanGenerator)(nil)

// NewPlanGenerator creates a new PlanGenerator instance
func NewPlanGenerator(llm ILLMClient) *PlanGenerator {
	return &PlanGenerator{llm: llm}
}

// GenerateMealPlan asks for a weekly menu that fits the computed targets
func (g *PlanGenerator) GenerateMealPlan(ctx context.Context, in MealPlanInput) (*plan.MealPlan, error) {
	content, err := g.llm.Complete(ctx, CompletionRequest{
		System:      mealPlanSystemPrompt,
		Prompt:      MealPlanPrompt(in),
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}
	p, err := plan.DecodeMealPlan([]byte(content))
	if err != nil {
		logging.Component(ctx, "generator").WithError(err).Warn("meal plan rejected")
		return nil, err
	}
	return p, nil
}

// GenerateWorkoutPlan asks for a training week
func (g *PlanGenerator) GenerateWorkoutPlan(ctx context.Context, in WorkoutPlanInput) (*plan.WorkoutPlan, error) {
	content, err := g.llm.Complete(ctx, CompletionRequest{
		System:      workoutPlanSystemPrompt,
		Prompt:      WorkoutPlanPrompt(in),
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}
	p, err := plan.DecodeWorkoutPlan([]byte(content))
	if err != nil {
		logging.Component(ctx, "generator").WithError(err).Warn("workout plan rejected")
		return nil, err
	}
	return p, nil
}

// GeneratePhysioPlan asks for a phased rehabilitation program
func (g *PlanGenerator) GeneratePhysioPlan(ctx context.Context, in PhysioPlanInput) (*plan.PhysioPlan, error) {
	content, err := g.llm.Complete(ctx, CompletionRequest{
		System:      physioPlanSystemPrompt,
		Prompt:      PhysioPlanPrompt(in),
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}
	p, err := plan.DecodePhysioPlan([]byte(content))
	if err != nil {
		logging.Component(ctx, "generator").WithError(err).Warn("physio plan rejected")
		return nil, err
	}
	return p, nil
}

// MealPlanPrompt renders the user message for a nutrition plan
func MealPlanPrompt(in MealPlanInput) string {
	req := in.Request
	var b strings.Builder
	fmt.Fprintf(&b, "Crie um cardápio semanal de 7 dias para: peso %.1f kg, altura %.0f cm, idade %d, sexo %s, nível de atividade %s, objetivo %s.\n",
		req.Weight, req.Height, req.Age, req.Gender, req.ActivityLevel, req.Goal)
	m := in.Calories.Macros
	fmt.Fprintf(&b, "Meta diária: %d kcal, proteínas %.0f g, carboidratos %.0f g, gorduras %.0f g.\n",
		in.Calories.DailyCalories, m.Protein, m.Carbs, m.Fats)
	if len(req.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "Restrições alimentares: %s.\n", strings.Join(req.DietaryRestrictions, ", "))
	}
	if len(req.Allergies) > 0 {
		fmt.Fprintf(&b, "Alergias (nunca use): %s.\n", strings.Join(req.Allergies, ", "))
	}
	if req.TrainingTime != nil && *req.TrainingTime != "" {
		fmt.Fprintf(&b, "Horário de treino: %s. Inclua orientações pré e pós-treino.\n", *req.TrainingTime)
	}
	if len(in.Foods) > 0 {
		b.WriteString("Use preferencialmente estes alimentos (valores por 100 g):\n")
		for _, f := range in.Foods {
			fmt.Fprintf(&b, "- %s: %.0f kcal, P %.1f g, C %.1f g, G %.1f g\n", f.Name, f.Calories, f.Protein, f.Carbs, f.Fats)
		}
	}
	b.WriteString("Inclua salada no almoço e no jantar.")
	return b.String()
}

// WorkoutPlanPrompt renders the user message for a training plan
func WorkoutPlanPrompt(in WorkoutPlanInput) string {
	req := in.Request
	days := req.DaysPerWeek
	if days == 0 {
		days = 3
	}
	minutes := req.SessionMinutes
	if minutes == 0 {
		minutes = 60
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Crie um plano de treino com %d sessões por semana de %d minutos para: idade %d, peso %.1f kg, altura %.0f cm, sexo %s, nível de atividade %s, objetivo %s.\n",
		days, minutes, req.Age, req.Weight, req.Height, req.Gender, req.ActivityLevel, req.Goal)
	if req.TrainingLocation != "" {
		fmt.Fprintf(&b, "Local de treino: %s.\n", req.TrainingLocation)
	}
	if len(req.PreferredExercises) > 0 {
		fmt.Fprintf(&b, "Tipos de exercício preferidos: %s.\n", strings.Join(req.PreferredExercises, ", "))
	}
	if len(req.AvailableEquipment) > 0 {
		fmt.Fprintf(&b, "Equipamentos disponíveis: %s.\n", strings.Join(req.AvailableEquipment, ", "))
	}
	if len(req.HealthConditions) > 0 {
		fmt.Fprintf(&b, "Condições de saúde a respeitar: %s.\n", strings.Join(req.HealthConditions, ", "))
	}
	writeExercises(&b, in.Exercises)
	return b.String()
}

// PhysioPlanPrompt renders the user message for a rehabilitation plan
func PhysioPlanPrompt(in PhysioPlanInput) string {
	req := in.Request
	weeks := req.WeeksAvailable
	if weeks == 0 {
		weeks = 6
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Crie um programa de reabilitação de %d semanas para a condição: %s. Nível de dor atual: %d/10.\n",
		weeks, req.Condition, req.PainLevel)
	if req.AffectedArea != "" {
		fmt.Fprintf(&b, "Região afetada: %s.\n", req.AffectedArea)
	}
	if req.Goal != "" {
		fmt.Fprintf(&b, "Objetivo: %s.\n", req.Goal)
	}
	if req.Age > 0 {
		fmt.Fprintf(&b, "Idade: %d.\n", req.Age)
	}
	if len(req.Limitations) > 0 {
		fmt.Fprintf(&b, "Limitações: %s.\n", strings.Join(req.Limitations, ", "))
	}
	writeExercises(&b, in.Exercises)
	return b.String()
}

func writeExercises(b *strings.Builder, exercises []models.Exercise) {
	if len(exercises) == 0 {
		return
	}
	b.WriteString("Priorize exercícios deste catálogo:\n")
	for _, e := range exercises {
		fmt.Fprintf(b, "- %s (%s, %s)\n", e.Name, e.MuscleGroup, e.Equipment)
	}
}
