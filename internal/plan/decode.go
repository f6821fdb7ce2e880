package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeMealPlan parses and validates a generated meal plan
func DecodeMealPlan(data []byte) (*MealPlan, error) {
	var p MealPlan
	if err := decode("decode meal plan", data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeWorkoutPlan parses and validates a generated workout plan
func DecodeWorkoutPlan(data []byte) (*WorkoutPlan, error) {
	var p WorkoutPlan
	if err := decode("decode workout plan", data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodePhysioPlan parses and validates a generated physiotherapy plan
func DecodePhysioPlan(data []byte) (*PhysioPlan, error) {
	var p PhysioPlan
	if err := decode("decode physio plan", data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks an already decoded plan document
func Validate(op string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindInvalidPayload, op, err)
	}
	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, fmt.Sprintf("%s: %s", trimNamespace(fe.Namespace()), fe.Tag()))
	}
	return apperr.New(apperr.KindInvalidPayload, op, "plan failed validation").
		WithDetail("violations", violations)
}

func decode(op string, data []byte, v interface{}) error {
	data = StripCodeFence(data)
	if len(data) == 0 {
		return apperr.New(apperr.KindInvalidPayload, op, "empty plan payload")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.Wrapf(apperr.KindInvalidPayload, op, err, "malformed plan json")
	}
	return Validate(op, v)
}

// StripCodeFence removes a surrounding markdown code fence some models add around JSON
func StripCodeFence(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if !bytes.HasPrefix(data, []byte("```")) {
		return data
	}
	data = bytes.TrimPrefix(data, []byte("```"))
	if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
		data = data[nl+1:]
	}
	data = bytes.TrimSuffix(bytes.TrimSpace(data), []byte("```"))
	return bytes.TrimSpace(data)
}

func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
