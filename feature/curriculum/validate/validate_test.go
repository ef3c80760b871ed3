package validate

import (
	"testing"

	"curriculum-loader/feature/curriculum/models"

	"github.com/stretchr/testify/assert"
)

func validBundle() *models.Bundle {
	return &models.Bundle{
		CategorySlug: "frontend",
		Topic: models.TopicInput{
			Slug:          "react-hooks",
			Name:          "React Hooks",
			Description:   "State and effects with hooks",
			EstimatedTime: 120,
			OrderIndex:    1,
		},
		Lessons: []models.LessonInput{
			{
				Slug:            "use-state",
				Title:           "useState",
				Summary:         "Local component state",
				Content:         "useState returns a value and a setter.",
				DifficultyLevel: models.DifficultyBeginner,
				EstimatedTime:   30,
				OrderIndex:      1,
				KeyPoints:       []string{"state is local", "setter triggers re-render"},
				Examples: []models.CodeExampleInput{
					{
						Title:      "Counter",
						Language:   "javascript",
						Code:       "const [n, setN] = useState(0)",
						OrderIndex: 1,
					},
				},
				Questions: []models.QuizQuestionInput{
					{
						QuestionText:  "What does useState return?",
						QuestionType:  models.QuestionTypeMultipleChoice,
						Options:       []string{"a value and a setter", "a promise", "nothing"},
						CorrectAnswer: "a value and a setter",
						Difficulty:    models.QuestionDifficultyEasy,
						Points:        5,
						OrderIndex:    1,
					},
					{
						QuestionText: "useState can only hold numbers.",
						QuestionType: models.QuestionTypeTrueFalse,
						Difficulty:   models.QuestionDifficultyEasy,
						Points:       2,
						OrderIndex:   2,
					},
				},
			},
			{
				Slug:            "use-effect",
				Title:           "useEffect",
				Summary:         "Side effects after render",
				Content:         "useEffect runs after the render commits.",
				DifficultyLevel: models.DifficultyIntermediate,
				EstimatedTime:   45,
				OrderIndex:      2,
				KeyPoints:       []string{"effects run after render"},
			},
		},
	}
}

// pathsOf collapses a validation result to its paths for easy assertions.
func pathsOf(errs Errors) []string {
	paths := make([]string, 0, len(errs))
	for _, fe := range errs {
		paths = append(paths, fe.Path)
	}
	return paths
}

func TestBundle_Valid(t *testing.T) {
	errs := Bundle(validBundle())
	assert.Empty(t, errs)
}

func TestBundle_MissingRequiredFields(t *testing.T) {
	b := validBundle()
	b.CategorySlug = ""
	b.Topic.Name = ""
	b.Lessons[0].Title = ""

	errs := Bundle(b)
	paths := pathsOf(errs)
	assert.Contains(t, paths, "category_slug")
	assert.Contains(t, paths, "topic.name")
	assert.Contains(t, paths, "lessons[0].title")
}

func TestBundle_BadSlugPattern(t *testing.T) {
	b := validBundle()
	b.Topic.Slug = "React Hooks!"

	errs := Bundle(b)
	assert.Len(t, errs, 1)
	assert.Equal(t, "topic.slug", errs[0].Path)
	assert.Contains(t, errs[0].Message, "must match")
}

func TestBundle_BadDifficultyLevel(t *testing.T) {
	b := validBundle()
	b.Lessons[1].DifficultyLevel = "expert"

	errs := Bundle(b)
	assert.Len(t, errs, 1)
	assert.Equal(t, "lessons[1].difficulty_level", errs[0].Path)
	assert.Contains(t, errs[0].Message, "beginner")
}

func TestBundle_DuplicateLessonOrderIndex(t *testing.T) {
	b := validBundle()
	b.Lessons[1].OrderIndex = b.Lessons[0].OrderIndex

	errs := Bundle(b)
	assert.Len(t, errs, 1)
	assert.Equal(t, "lessons[1].order_index", errs[0].Path)
	assert.Contains(t, errs[0].Message, "duplicate")
}

func TestBundle_DuplicateLessonSlug(t *testing.T) {
	b := validBundle()
	b.Lessons[1].Slug = "use-state"

	errs := Bundle(b)
	assert.Len(t, errs, 1)
	assert.Equal(t, "lessons[1].slug", errs[0].Path)
	assert.Contains(t, errs[0].Message, `duplicate slug "use-state"`)
}

func TestBundle_MultipleChoiceNeedsOptions(t *testing.T) {
	b := validBundle()
	b.Lessons[0].Questions[0].Options = []string{"only one"}
	b.Lessons[0].Questions[0].CorrectAnswer = "only one"

	errs := Bundle(b)
	assert.Len(t, errs, 1)
	assert.Equal(t, "lessons[0].questions[0].options", errs[0].Path)
	assert.Contains(t, errs[0].Message, "at least 2 options")
}

func TestBundle_CorrectAnswerNotAnOption(t *testing.T) {
	b := validBundle()
	b.Lessons[0].Questions[1].QuestionType = models.QuestionTypeMultipleChoice
	b.Lessons[0].Questions[1].Options = []string{"yes", "no"}
	b.Lessons[0].Questions[1].CorrectAnswer = "maybe"

	errs := Bundle(b)
	assert.Len(t, errs, 1)
	assert.Equal(t, "lessons[0].questions[1].correct_answer", errs[0].Path)
	assert.Contains(t, errs[0].Message, `"maybe" is not one of the options`)
}

func TestBundle_MultipleChoiceRequiresAnswer(t *testing.T) {
	b := validBundle()
	b.Lessons[0].Questions[0].CorrectAnswer = ""

	errs := Bundle(b)
	paths := pathsOf(errs)
	assert.Contains(t, paths, "lessons[0].questions[0].correct_answer")
}

func TestBundle_InvalidPoints(t *testing.T) {
	b := validBundle()
	b.Lessons[0].Questions[1].Points = 0

	errs := Bundle(b)
	assert.Len(t, errs, 1)
	assert.Equal(t, "lessons[0].questions[1].points", errs[0].Path)
	assert.Contains(t, errs[0].Message, "greater than 0")
}

func TestBundle_CollectsAllErrors(t *testing.T) {
	b := validBundle()
	b.CategorySlug = "Bad Slug"
	b.Lessons[0].Summary = ""
	b.Lessons[1].OrderIndex = 1
	b.Lessons[0].Questions[0].CorrectAnswer = "not an option"

	errs := Bundle(b)
	assert.Len(t, errs, 4)
}

func TestCategories(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		errs := Categories([]models.CategoryInput{
			{Name: "Frontend", Slug: "frontend"},
			{Name: "Backend", Slug: "backend"},
		})
		assert.Empty(t, errs)
	})

	t.Run("Duplicate Slug", func(t *testing.T) {
		errs := Categories([]models.CategoryInput{
			{Name: "Frontend", Slug: "frontend"},
			{Name: "Front End", Slug: "frontend"},
		})
		assert.Len(t, errs, 1)
		assert.Equal(t, "categories[1].slug", errs[0].Path)
	})

	t.Run("Missing Name", func(t *testing.T) {
		errs := Categories([]models.CategoryInput{
			{Slug: "frontend"},
		})
		assert.Len(t, errs, 1)
		assert.Equal(t, "categories[0].name", errs[0].Path)
	})
}

func TestErrorsError(t *testing.T) {
	errs := Errors{
		{Path: "topic.slug", Message: "is required"},
		{Path: "lessons[0].title", Message: "is required"},
	}
	assert.Equal(t, "topic.slug: is required; lessons[0].title: is required", errs.Error())
}
