package formsclient

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/forms/v1"
)

// Fixed leading columns of a response table
const (
	ColumnResponseID      = "responseId"
	ColumnRespondentEmail = "respondentEmail"
	ColumnCreateTime      = "createTime"
)

// ListResponses fetches every response of a form, following pages
func (c *Client) ListResponses(ctx context.Context, formID string) ([]*forms.FormResponse, error) {
	var responses []*forms.FormResponse
	pageToken := ""

	for {
		call := c.service.Forms.Responses.List(formID).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list form responses: %w", err)
		}

		responses = append(responses, resp.Responses...)
		if resp.NextPageToken == "" {
			return responses, nil
		}
		pageToken = resp.NextPageToken
	}
}

// Question is one answerable question of a form
type Question struct {
	ID    string
	Title string
}

// Questions lists the form's questions in display order, including the rows of
// question groups (grids). Duplicate titles are suffixed " (2)", " (3)", ...
func Questions(form *forms.Form) []Question {
	var questions []Question
	seen := map[string]int{}

	add := func(id, title string) {
		if id == "" {
			return
		}
		title = strings.TrimSpace(title)
		if title == "" {
			title = id
		}
		seen[title]++
		if n := seen[title]; n > 1 {
			title = fmt.Sprintf("%s (%d)", title, n)
		}
		questions = append(questions, Question{ID: id, Title: title})
	}

	for _, item := range form.Items {
		switch {
		case item.QuestionItem != nil && item.QuestionItem.Question != nil:
			add(item.QuestionItem.Question.QuestionId, item.Title)
		case item.QuestionGroupItem != nil:
			for _, q := range item.QuestionGroupItem.Questions {
				title := item.Title
				if q.RowQuestion != nil && q.RowQuestion.Title != "" {
					title = fmt.Sprintf("%s [%s]", item.Title, q.RowQuestion.Title)
				}
				add(q.QuestionId, title)
			}
		}
	}

	return questions
}

// ResponseTable flattens responses into a header and one record per response.
// Records are sorted by create time. Answers are keyed by question title, or by
// question id when useIDs is set. Question ids that only appear in responses
// (deleted questions) get their own column after the form's questions.
// Unanswered questions are null; one answer is a string and several are joined
// with ", ", unless asLists is set.
func ResponseTable(form *forms.Form, responses []*forms.FormResponse, useIDs, asLists bool) ([]string, []map[string]any) {
	questions := Questions(form)

	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	var orphaned []string
	for _, resp := range responses {
		for id := range resp.Answers {
			if !known[id] {
				known[id] = true
				orphaned = append(orphaned, id)
			}
		}
	}
	sort.Strings(orphaned)
	for _, id := range orphaned {
		questions = append(questions, Question{ID: id, Title: id})
	}

	header := []string{ColumnResponseID, ColumnRespondentEmail, ColumnCreateTime}
	for _, q := range questions {
		header = append(header, columnName(q, useIDs))
	}

	sorted := make([]*forms.FormResponse, len(responses))
	copy(sorted, responses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreateTime < sorted[j].CreateTime
	})

	records := make([]map[string]any, 0, len(sorted))
	for _, resp := range sorted {
		record := map[string]any{
			ColumnResponseID:      resp.ResponseId,
			ColumnRespondentEmail: resp.RespondentEmail,
			ColumnCreateTime:      resp.CreateTime,
		}
		for _, q := range questions {
			record[columnName(q, useIDs)] = shapeValues(answerValues(resp.Answers[q.ID]), asLists)
		}
		records = append(records, record)
	}

	return header, records
}

func columnName(q Question, useIDs bool) string {
	if useIDs {
		return q.ID
	}
	return q.Title
}

// answerValues extracts text answers and uploaded file ids
func answerValues(answer forms.Answer) []string {
	var values []string
	if answer.TextAnswers != nil {
		for _, text := range answer.TextAnswers.Answers {
			values = append(values, text.Value)
		}
	}
	if answer.FileUploadAnswers != nil {
		for _, upload := range answer.FileUploadAnswers.Answers {
			if upload.FileId != "" {
				values = append(values, upload.FileId)
			} else {
				values = append(values, upload.FileName)
			}
		}
	}
	return values
}

func shapeValues(values []string, asLists bool) any {
	if len(values) == 0 {
		return nil
	}
	if asLists {
		return values
	}
	switch len(values) {
	case 1:
		return values[0]
	default:
		return strings.Join(values, ", ")
	}
}
