package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidSnapshot = errors.New("snapshot does not match schema")

// ValidationError перечисляет все найденные нарушения схемы
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid snapshot: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSnapshot
}

// границы порядка, в которых decimal без потерь и за разумное время переводится во float64
const (
	maxMagnitude = 308
	minMagnitude = -300
	minExponent  = -400
)

// checkRange не даёт сохранить значения, для которых InexactFloat64 даёт Inf
// или строит огромные степени десяти
func checkRange(field string, d decimal.Decimal) (string, bool) {
	exp := int64(d.Exponent())
	if exp < minExponent || exp > maxMagnitude {
		return fmt.Sprintf("%s is out of range", field), false
	}
	if d.IsZero() {
		return "", true
	}

	magnitude := exp + int64(d.NumDigits())
	if magnitude > maxMagnitude || magnitude < minMagnitude {
		return fmt.Sprintf("%s is out of range", field), false
	}

	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Sprintf("%s is not a finite number", field), false
	}
	return "", true
}

var requiredFields = []string{"ioPrice", "usdCnyRate", "processorData"}

// ParseSnapshot декодирует документ и проверяет его по схеме.
// Синтаксически битый JSON возвращается как *json.SyntaxError (или иная ошибка декодера),
// нарушения схемы как *ValidationError.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Problems: []string{"document must be a JSON object"}}
		}
		return nil, err
	}

	var problems []string
	for _, name := range requiredFields {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			problems = append(problems, fmt.Sprintf("%s is required", name))
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Validate проверяет инварианты уже декодированного снапшота
func (s *Snapshot) Validate() error {
	var problems []string

	if problem, ok := checkRange("ioPrice", s.IOPrice); !ok {
		problems = append(problems, problem)
	}
	if problem, ok := checkRange("usdCnyRate", s.USDCNYRate); !ok {
		problems = append(problems, problem)
	}

	if s.IOPrice.IsNegative() {
		problems = append(problems, "ioPrice must not be negative")
	}
	if s.USDCNYRate.IsNegative() {
		problems = append(problems, "usdCnyRate must not be negative")
	}

	for i, point := range s.ProcessorData {
		if point.Datetime.IsZero() {
			problems = append(problems, fmt.Sprintf("processorData[%d].datetime is required", i))
		}
		for j, sample := range point.Processors {
			if sample.Name == "" {
				problems = append(problems, fmt.Sprintf("processorData[%d].processors[%d].name is required", i, j))
			}
			if problem, ok := checkRange(fmt.Sprintf("processorData[%d].processors[%d].reward", i, j), sample.Reward); !ok {
				problems = append(problems, problem)
			}
			if sample.Reward.IsNegative() {
				problems = append(problems, fmt.Sprintf("processorData[%d].processors[%d].reward must not be negative", i, j))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
