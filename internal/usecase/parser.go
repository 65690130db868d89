package usecase

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/tidwall/gjson"
)

var (
	ErrNoJSONObject     = errors.New("no JSON object found in model response")
	ErrResponseTooLarge = errors.New("model response too large")
)

// validateBudgetFactor bounds the candidate bytes validated per input byte.
const (
	maxResponseBytes     = 1 << 20
	validateBudgetFactor = 4
)

var listFields = []string{"strengths", "gaps", "missing_keywords", "improvements"}

// ParseAnalysisResult extracts the first well-formed JSON object from raw and
// checks it field by field. It returns a parse error when no object is found
// and a schema error when the object does not match AnalysisResult. Duplicate
// keys are a schema error.
func ParseAnalysisResult(raw string) (*model.AnalysisResult, error) {
	if len(raw) > maxResponseBytes {
		return nil, model.NewParseError(fmt.Errorf("%w: %d bytes", ErrResponseTooLarge, len(raw)))
	}
	obj, ok := extractJSONObject(raw)
	if !ok {
		return nil, model.NewParseError(ErrNoJSONObject)
	}
	if key, dup := duplicateKey(obj); dup {
		return nil, model.NewSchemaError(fmt.Errorf("duplicate key %q", key))
	}

	result := &model.AnalysisResult{}

	score := gjson.Get(obj, "resume_score")
	switch {
	case !score.Exists() || score.Type == gjson.Null:
		return nil, model.NewSchemaError(errors.New("resume_score is missing"))
	case score.Type != gjson.Number:
		return nil, model.NewSchemaError(fmt.Errorf("resume_score must be an integer, got %s", score.Raw))
	case score.Num != math.Trunc(score.Num):
		return nil, model.NewSchemaError(fmt.Errorf("resume_score must be an integer, got %s", score.Raw))
	case score.Num < 0 || score.Num > 100:
		return nil, model.NewSchemaError(fmt.Errorf("resume_score %s is outside [0,100]", score.Raw))
	}
	result.ResumeScore = int(score.Num)

	lists := make(map[string][]string, len(listFields))
	for _, field := range listFields {
		items, err := stringList(obj, field)
		if err != nil {
			return nil, model.NewSchemaError(err)
		}
		lists[field] = items
	}
	result.Strengths = lists["strengths"]
	result.Gaps = lists["gaps"]
	result.MissingKeywords = lists["missing_keywords"]
	result.Improvements = lists["improvements"]

	if err := result.Validate(); err != nil {
		return nil, model.NewSchemaError(err)
	}
	return result, nil
}

func duplicateKey(obj string) (string, bool) {
	seen := make(map[string]struct{})
	var (
		dup   string
		found bool
	)
	gjson.Parse(obj).ForEach(func(key, _ gjson.Result) bool {
		if _, ok := seen[key.Str]; ok {
			dup, found = key.Str, true
			return false
		}
		seen[key.Str] = struct{}{}
		return true
	})
	return dup, found
}

func stringList(obj, field string) ([]string, error) {
	value := gjson.Get(obj, field)
	if !value.Exists() || value.Type == gjson.Null {
		return nil, fmt.Errorf("%s is missing", field)
	}
	if !value.IsArray() {
		return nil, fmt.Errorf("%s must be an array of strings, got %s", field, value.Raw)
	}

	items := make([]string, 0)
	var bad error
	value.ForEach(func(_, el gjson.Result) bool {
		if el.Type != gjson.String {
			bad = fmt.Errorf("%s[%d] must be a string, got %s", field, len(items), el.Raw)
			return false
		}
		items = append(items, el.Str)
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return items, nil
}

// extractJSONObject returns the valid JSON object with the earliest opening
// brace. It scans s once, tracking strings only inside braces, so prose
// quotes and braces inside strings are skipped over.
func extractJSONObject(s string) (string, bool) {
	var (
		open     []int
		spans    []jsonSpan
		inString bool
		escaped  bool
	)
	budget := validateBudgetFactor * len(s)

	// first valid span in start order; spans of earlier regions were already tried
	try := func() (string, bool) {
		slices.SortFunc(spans, func(a, b jsonSpan) int { return a.start - b.start })
		for _, sp := range spans {
			size := sp.end + 1 - sp.start
			if size > budget {
				continue
			}
			budget -= size
			if candidate := s[sp.start : sp.end+1]; gjson.Valid(candidate) {
				return candidate, true
			}
		}
		spans = spans[:0]
		return "", false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = len(open) > 0
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				continue
			}
			spans = append(spans, jsonSpan{start: open[len(open)-1], end: i})
			open = open[:len(open)-1]
			if len(open) == 0 {
				if obj, ok := try(); ok {
					return obj, true
				}
			}
		}
	}
	return try()
}

type jsonSpan struct {
	start, end int
}
