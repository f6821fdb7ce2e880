package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/plan"
)

// ExportLinkTTL is how long an uploaded export link stays valid
const ExportLinkTTL = 24 * time.Hour

const (
	pdfLineHeight = 6.0
	pdfMargin     = 15.0
)

// ExportService renders plans as A4 PDF documents and optionally uploads them
type ExportService struct {
	store IObjectStore
}

// Ensure ExportService implements IExportService
var _ IExportService = (*ExportService)(nil)

// NewExportService creates a new ExportService instance. store may be nil when uploads are disabled.
func NewExportService(store IObjectStore) *ExportService {
	return &ExportService{store: store}
}

// RenderPDF renders a stored plan according to its type
func (s *ExportService) RenderPDF(stored *StoredPlan, owner string) ([]byte, error) {
	switch stored.PlanType {
	case models.PlanNutrition:
		p, err := stored.MealPlan()
		if err != nil {
			return nil, err
		}
		return s.MealPlanPDF(p, owner, stored.GeneratedAt)
	case models.PlanWorkout:
		p, err := stored.WorkoutPlan()
		if err != nil {
			return nil, err
		}
		return s.WorkoutPlanPDF(p, owner, stored.GeneratedAt)
	case models.PlanPhysio:
		p, err := stored.PhysioPlan()
		if err != nil {
			return nil, err
		}
		return s.PhysioPlanPDF(p, owner, stored.GeneratedAt)
	}
	return nil, apperr.New(apperr.KindInvalidInput, "render pdf", "unknown plan type")
}

// Publish uploads a rendered export and returns a temporary download link
func (s *ExportService) Publish(ctx context.Context, stored *StoredPlan, pdf []byte) (string, error) {
	const op = "publish export"
	if s.store == nil {
		return "", apperr.New(apperr.KindUnavailable, op, "export storage is not configured")
	}
	key := ExportKey(stored)
	if err := s.store.PutObject(ctx, key, "application/pdf", pdf); err != nil {
		logging.Component(ctx, "export").WithError(err).WithField("key", key).Error("failed to upload export")
		return "", apperr.Wrapf(apperr.KindUnavailable, op, err, "failed to upload export")
	}
	link, err := s.store.GeneratePresignedURL(ctx, key, ExportLinkTTL)
	if err != nil {
		return "", apperr.Wrapf(apperr.KindUnavailable, op, err, "failed to sign export link")
	}
	return link, nil
}

// ExportKey is the object key of a plan export
func ExportKey(stored *StoredPlan) string {
	return fmt.Sprintf("exports/%s/%s/%s.pdf", stored.UserID, stored.PlanType, stored.ID)
}

// ExportFilename is the download name of a plan export
func ExportFilename(stored *StoredPlan) string {
	return fmt.Sprintf("plano-%s-%s.pdf", stored.PlanType, stored.GeneratedAt.Format("2006-01-02"))
}

// pdfDoc wraps fpdf with the latin-1 translation and the shared layout
type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newPDFDoc(title, owner string, generatedAt time.Time) *pdfDoc {
	f := fpdf.New("P", "mm", "A4", "")
	d := &pdfDoc{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}
	f.SetTitle(title, true)
	f.SetAuthor("gut59", true)
	f.SetCreationDate(generatedAt)
	f.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	f.SetAutoPageBreak(true, pdfMargin)
	f.AliasNbPages("")
	f.SetFooterFunc(func() {
		f.SetY(-pdfMargin)
		f.SetFont("Helvetica", "I", 8)
		f.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", f.PageNo()), "", 0, "C", false, 0, "")
	})

	f.AddPage()
	f.SetFont("Helvetica", "B", 18)
	f.CellFormat(0, 10, d.tr(title), "", 1, "L", false, 0, "")
	f.SetFont("Helvetica", "", 10)
	meta := "Gerado em " + generatedAt.Format("02/01/2006")
	if owner != "" {
		meta = owner + " - " + meta
	}
	f.CellFormat(0, pdfLineHeight, d.tr(meta), "", 1, "L", false, 0, "")
	f.Ln(4)
	return d
}

func (d *pdfDoc) heading(text string) {
	d.SetFont("Helvetica", "B", 13)
	d.SetFillColor(225, 240, 225)
	d.CellFormat(0, 8, d.tr(text), "", 1, "L", true, 0, "")
	d.Ln(1)
}

func (d *pdfDoc) subheading(text string) {
	d.SetFont("Helvetica", "B", 11)
	d.CellFormat(0, 7, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *pdfDoc) line(text string) {
	d.SetFont("Helvetica", "", 10)
	d.MultiCell(0, pdfLineHeight, d.tr(text), "", "L", false)
}

func (d *pdfDoc) render() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, apperr.Wrapf(apperr.KindInternal, "render pdf", err, "failed to render pdf")
	}
	return buf.Bytes(), nil
}

// MealPlanPDF renders a nutrition plan with one section per day
func (s *ExportService) MealPlanPDF(p *plan.MealPlan, owner string, generatedAt time.Time) ([]byte, error) {
	d := newPDFDoc("Plano Alimentar", owner, generatedAt)

	for _, key := range p.DayKeys() {
		day := p.WeeklyPlan[key]
		name := day.DayName
		if name == "" {
			name = key
		}
		d.heading(name)
		for _, sm := range day.Meals.Ordered() {
			m := sm.Meal
			d.subheading(fmt.Sprintf("%s - %.0f kcal", plan.SlotLabels[sm.Slot], m.Calories))
			if m.Description != "" {
				d.line(m.Description)
			}
			for _, f := range m.Foods {
				item := fmt.Sprintf("- %s: %g %s", f.Name, f.Portion, f.Unit)
				if f.Details != "" {
					item += " (" + f.Details + ")"
				}
				d.line(item)
			}
			d.line(fmt.Sprintf("Proteínas %.1f g | Carboidratos %.1f g | Gorduras %.1f g | Fibras %.1f g",
				m.Macros.Protein, m.Macros.Carbs, m.Macros.Fats, m.Macros.Fiber))
			d.Ln(1)
		}
		t := day.DailyTotals
		d.SetFont("Helvetica", "B", 10)
		d.MultiCell(0, pdfLineHeight, d.tr(fmt.Sprintf("Total do dia: %.0f kcal | P %.1f g | C %.1f g | G %.1f g | Fibras %.1f g",
			t.Calories, t.Protein, t.Carbs, t.Fats, t.Fiber)), "T", "L", false)
		d.Ln(3)
	}

	w := p.WeeklyTotals
	d.heading("Médias semanais")
	d.line(fmt.Sprintf("Calorias %.0f kcal | Proteínas %.1f g | Carboidratos %.1f g | Gorduras %.1f g | Fibras %.1f g",
		w.AverageCalories, w.AverageProtein, w.AverageCarbs, w.AverageFats, w.AverageFiber))

	r := p.Recommendations
	if r.General != "" || r.Preworkout != "" || r.Postworkout != "" || len(r.Timing) > 0 {
		d.Ln(2)
		d.heading("Recomendações")
		if r.General != "" {
			d.line(r.General)
		}
		if r.Preworkout != "" {
			d.line("Pré-treino: " + r.Preworkout)
		}
		if r.Postworkout != "" {
			d.line("Pós-treino: " + r.Postworkout)
		}
		for _, t := range r.Timing {
			d.line("- " + t)
		}
	}
	return d.render()
}

// WorkoutPlanPDF renders a training plan with one section per session
func (s *ExportService) WorkoutPlanPDF(p *plan.WorkoutPlan, owner string, generatedAt time.Time) ([]byte, error) {
	d := newPDFDoc("Plano de Treino", owner, generatedAt)
	if p.Goal != "" {
		d.line("Objetivo: " + p.Goal)
	}
	if p.StartDate != "" && p.EndDate != "" {
		d.line(fmt.Sprintf("Período: %s a %s", p.StartDate, p.EndDate))
	}
	d.Ln(2)
	writeSessions(d, p.Sessions)
	return d.render()
}

// PhysioPlanPDF renders a rehabilitation plan phase by phase
func (s *ExportService) PhysioPlanPDF(p *plan.PhysioPlan, owner string, generatedAt time.Time) ([]byte, error) {
	d := newPDFDoc("Plano de Reabilitação", owner, generatedAt)
	d.line("Condição: " + p.Condition)
	if p.Goal != "" {
		d.line("Objetivo: " + p.Goal)
	}
	d.Ln(2)
	for i, phase := range p.Phases {
		d.heading(fmt.Sprintf("Fase %d: %s (%d semanas)", i+1, phase.Name, phase.Weeks))
		writeSessions(d, phase.Sessions)
	}
	return d.render()
}

func writeSessions(d *pdfDoc, sessions []plan.Session) {
	for _, session := range sessions {
		title := fmt.Sprintf("Dia %d", session.DayNumber)
		if session.DayName != "" {
			title += " - " + session.DayName
		}
		if session.FocusArea != "" {
			title += " (" + session.FocusArea + ")"
		}
		d.subheading(title)
		if session.Warmup != "" {
			d.line("Aquecimento: " + session.Warmup)
		}
		for _, e := range session.Exercises {
			parts := []string{e.Name}
			if e.Sets > 0 {
				parts = append(parts, fmt.Sprintf("%d séries", e.Sets))
			}
			if e.Reps != "" {
				parts = append(parts, string(e.Reps)+" repetições")
			}
			if e.RestSeconds > 0 {
				parts = append(parts, fmt.Sprintf("descanso %ds", e.RestSeconds))
			}
			if e.Load != "" {
				parts = append(parts, "carga "+e.Load)
			}
			d.line("- " + strings.Join(parts, " | "))
			if e.Notes != "" {
				d.line("  " + e.Notes)
			}
		}
		if session.Cooldown != "" {
			d.line("Volta à calma: " + session.Cooldown)
		}
		d.Ln(2)
	}
}
