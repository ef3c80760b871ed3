// Package validate rejects ill-formed bundles before any database work.
//
// All structural errors are collected and reported together, each with a
// path into the bundle (e.g. "lessons[2].questions[0].options"). Validation
// never touches the database; if any error is found, no transaction opens.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"curriculum-loader/feature/curriculum/models"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()

	// Report paths using the wire names, not Go field names
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = val.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return val
}

// FieldError is a single structural problem, located by its bundle path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Path + ": " + e.Message
}

// Errors is the collected validation result for one bundle.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Bundle checks every structural invariant of a bundle and returns all
// violations. A nil/empty result means the bundle is safe to reconcile.
//
// The tag-based field rules run once over the whole document; the validator
// descends into nested structs and slice elements on its own. The cross-field
// rules (distinct ordering, distinct slugs, option/answer consistency) are
// applied by hand.
func Bundle(b *models.Bundle) Errors {
	var errs Errors

	errs = append(errs, structErrors(b, "")...)

	errs = append(errs, distinctInts("lessons", "order_index", lessonOrderIndexes(b.Lessons))...)
	errs = append(errs, distinctStrings("lessons", "slug", lessonSlugs(b.Lessons))...)

	for i := range b.Lessons {
		lesson := &b.Lessons[i]
		prefix := fmt.Sprintf("lessons[%d]", i)

		errs = append(errs, distinctInts(prefix+".examples", "order_index", exampleOrderIndexes(lesson.Examples))...)
		errs = append(errs, distinctInts(prefix+".questions", "order_index", questionOrderIndexes(lesson.Questions))...)

		for k := range lesson.Questions {
			qPath := fmt.Sprintf("%s.questions[%d]", prefix, k)
			errs = append(errs, multipleChoiceErrors(&lesson.Questions[k], qPath)...)
		}
	}

	return errs
}

// Categories checks the input of the category seed operation.
func Categories(cats []models.CategoryInput) Errors {
	var errs Errors
	seen := make(map[string]int)
	for i := range cats {
		prefix := fmt.Sprintf("categories[%d]", i)
		errs = append(errs, structErrors(&cats[i], prefix)...)
		if prev, ok := seen[cats[i].Slug]; ok && cats[i].Slug != "" {
			errs = append(errs, FieldError{
				Path:    prefix + ".slug",
				Message: fmt.Sprintf("duplicate slug %q (also at categories[%d])", cats[i].Slug, prev),
			})
		} else {
			seen[cats[i].Slug] = i
		}
	}
	return errs
}

// multipleChoiceErrors enforces the option/answer invariants that only apply
// to multiple-choice questions.
func multipleChoiceErrors(q *models.QuizQuestionInput, path string) Errors {
	if q.QuestionType != models.QuestionTypeMultipleChoice {
		return nil
	}

	var errs Errors
	if len(q.Options) < 2 {
		errs = append(errs, FieldError{
			Path:    path + ".options",
			Message: fmt.Sprintf("multiple_choice question needs at least 2 options, got %d", len(q.Options)),
		})
	}
	if q.CorrectAnswer != "" && !contains(q.Options, q.CorrectAnswer) {
		errs = append(errs, FieldError{
			Path:    path + ".correct_answer",
			Message: fmt.Sprintf("correct_answer %q is not one of the options", q.CorrectAnswer),
		})
	}
	return errs
}

// structErrors runs the tag-based field rules of a single struct and
// rewrites the reported namespaces into bundle paths.
func structErrors(s any, prefix string) Errors {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Path: prefix, Message: err.Error()}}
	}

	errs := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		path := namespaceToPath(fe.Namespace())
		if prefix != "" {
			path = prefix + "." + path
		}
		errs = append(errs, FieldError{Path: path, Message: messageFor(fe)})
	}
	return errs
}

// namespaceToPath drops the root struct segment from a validator namespace:
// "Bundle.topic.slug" becomes "topic.slug".
func namespaceToPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for this question_type"
	case "slug":
		return "must match ^[a-z0-9][a-z0-9-]*$"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func distinctInts(listPath, field string, values []int) Errors {
	var errs Errors
	seen := make(map[int]int)
	for i, val := range values {
		if prev, ok := seen[val]; ok {
			errs = append(errs, FieldError{
				Path:    fmt.Sprintf("%s[%d].%s", listPath, i, field),
				Message: fmt.Sprintf("duplicate %s %d (also at %s[%d])", field, val, listPath, prev),
			})
			continue
		}
		seen[val] = i
	}
	return errs
}

func distinctStrings(listPath, field string, values []string) Errors {
	var errs Errors
	seen := make(map[string]int)
	for i, val := range values {
		if val == "" {
			continue // missing values are reported by the field rules
		}
		if prev, ok := seen[val]; ok {
			errs = append(errs, FieldError{
				Path:    fmt.Sprintf("%s[%d].%s", listPath, i, field),
				Message: fmt.Sprintf("duplicate %s %q (also at %s[%d])", field, val, listPath, prev),
			})
			continue
		}
		seen[val] = i
	}
	return errs
}

func lessonOrderIndexes(lessons []models.LessonInput) []int {
	out := make([]int, len(lessons))
	for i := range lessons {
		out[i] = lessons[i].OrderIndex
	}
	return out
}

func lessonSlugs(lessons []models.LessonInput) []string {
	out := make([]string, len(lessons))
	for i := range lessons {
		out[i] = lessons[i].Slug
	}
	return out
}

func exampleOrderIndexes(examples []models.CodeExampleInput) []int {
	out := make([]int, len(examples))
	for i := range examples {
		out[i] = examples[i].OrderIndex
	}
	return out
}

func questionOrderIndexes(questions []models.QuizQuestionInput) []int {
	out := make([]int, len(questions))
	for i := range questions {
		out[i] = questions[i].OrderIndex
	}
	return out
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
