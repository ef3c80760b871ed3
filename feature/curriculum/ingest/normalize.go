package ingest

import (
	"strings"

	"curriculum-loader/feature/curriculum/models"
)

// unescapeLegacyText unwinds escape artifacts produced by the legacy content
// export, which double-nested code inside template literals: backslash-escaped
// backticks and interpolation markers appear literally in the exported text.
func unescapeLegacyText(s string) string {
	s = strings.ReplaceAll(s, "\\`", "`")
	s = strings.ReplaceAll(s, "\\${", "${")
	return s
}

// normalizeBundle cleans every long-text field in place. Ingestion owns this
// step: the loader core assumes bundle text is already unescaped.
func normalizeBundle(b *models.Bundle) {
	b.Topic.Description = unescapeLegacyText(b.Topic.Description)

	for i := range b.Lessons {
		lesson := &b.Lessons[i]
		lesson.Content = unescapeLegacyText(lesson.Content)
		lesson.Summary = unescapeLegacyText(lesson.Summary)
		for j := range lesson.KeyPoints {
			lesson.KeyPoints[j] = unescapeLegacyText(lesson.KeyPoints[j])
		}
		for j := range lesson.Examples {
			example := &lesson.Examples[j]
			example.Description = unescapeLegacyText(example.Description)
			example.Code = unescapeLegacyText(example.Code)
			example.Explanation = unescapeLegacyText(example.Explanation)
		}
		for j := range lesson.Questions {
			question := &lesson.Questions[j]
			question.QuestionText = unescapeLegacyText(question.QuestionText)
			question.Explanation = unescapeLegacyText(question.Explanation)
		}
	}
}
