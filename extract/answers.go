package extract

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/mindtrace/models"
)

// ExtractAnswers enumerates every question block on a quiz page and produces
// one answer record per block, in block order. An unanswered question still
// produces a record with a nil value and the "Not Answered" sentinel.
func ExtractAnswers(doc *goquery.Document) []models.Answer {
	answers := []models.Answer{}

	doc.Find("form[data-quiz] fieldset.question").Each(func(_ int, fieldset *goquery.Selection) {
		numberAttr, _ := fieldset.Attr("data-question")
		number, err := strconv.Atoi(numberAttr)
		if err != nil || number < 0 {
			slog.Warn("question block carries no usable index", "dataQuestion", numberAttr)
			number = models.QuestionNumberMissing
		}

		questionText := models.QuestionTextMissing
		if header := fieldset.Find(".statement span.header").First(); header.Length() > 0 {
			questionText = strings.TrimSpace(header.Text())
		}

		checked := fieldset.Find(`input[type="radio"]:checked`).First()
		if checked.Length() == 0 {
			slog.Warn("no answer found for question", "question", number)
			answers = append(answers, models.Answer{
				QuestionNumber: number,
				QuestionText:   questionText,
				AnswerValue:    nil,
				AnswerLabel:    models.NotAnswered,
			})
			return
		}

		value, _ := checked.Attr("value")
		label := models.AnswerLabelMissing
		if aria, ok := checked.Attr("aria-label"); ok {
			label = aria
		}
		answers = append(answers, models.Answer{
			QuestionNumber: number,
			QuestionText:   questionText,
			AnswerValue:    &value,
			AnswerLabel:    label,
		})
	})

	return answers
}

// IsFirstUnansweredPage reports whether the records describe the opening quiz
// page with nothing selected yet: question zero rendered, no answer anywhere.
// Checked exactly once on load so that a session-start marker is not emitted
// again on every intermediate page reload.
func IsFirstUnansweredPage(answers []models.Answer) bool {
	hasFirst := false
	for _, a := range answers {
		if a.AnswerValue != nil {
			return false
		}
		if a.QuestionNumber == 0 {
			hasFirst = true
		}
	}
	return hasFirst
}
