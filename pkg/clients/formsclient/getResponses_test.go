package formsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/forms/v1"
)

func questionItem(id, title string) *forms.Item {
	return &forms.Item{
		Title: title,
		QuestionItem: &forms.QuestionItem{
			Question: &forms.Question{QuestionId: id},
		},
	}
}

func textAnswer(values ...string) forms.Answer {
	answers := make([]*forms.TextAnswer, len(values))
	for i, v := range values {
		answers[i] = &forms.TextAnswer{Value: v}
	}
	return forms.Answer{TextAnswers: &forms.TextAnswers{Answers: answers}}
}

func testForm() *forms.Form {
	return &forms.Form{
		Items: []*forms.Item{
			questionItem("q1", "Name"),
			{Title: "Section header"},
			questionItem("q2", "Colours"),
			questionItem("q3", "Name"),
		},
	}
}

func TestQuestions_DuplicateTitlesAreSuffixed(t *testing.T) {
	questions := Questions(testForm())

	require.Len(t, questions, 3)
	assert.Equal(t, Question{ID: "q1", Title: "Name"}, questions[0])
	assert.Equal(t, Question{ID: "q2", Title: "Colours"}, questions[1])
	assert.Equal(t, Question{ID: "q3", Title: "Name (2)"}, questions[2])
}

func TestResponseTable_SortsAndShapesAnswers(t *testing.T) {
	responses := []*forms.FormResponse{
		{
			ResponseId: "r2",
			CreateTime: "2025-03-02T10:00:00Z",
			Answers: map[string]forms.Answer{
				"q1": textAnswer("Bob"),
				"q2": textAnswer("red", "blue"),
			},
		},
		{
			ResponseId:      "r1",
			RespondentEmail: "alice@example.com",
			CreateTime:      "2025-03-01T10:00:00Z",
			Answers: map[string]forms.Answer{
				"q1": textAnswer("Alice"),
				"q3": textAnswer("Smith"),
			},
		},
	}

	header, records := ResponseTable(testForm(), responses, false, false)

	assert.Equal(t, []string{"responseId", "respondentEmail", "createTime", "Name", "Colours", "Name (2)"}, header)
	require.Len(t, records, 2)

	assert.Equal(t, "r1", records[0]["responseId"])
	assert.Equal(t, "alice@example.com", records[0]["respondentEmail"])
	assert.Equal(t, "Alice", records[0]["Name"])
	assert.Equal(t, "Smith", records[0]["Name (2)"])
	assert.Nil(t, records[0]["Colours"])

	assert.Equal(t, "r2", records[1]["responseId"])
	assert.Equal(t, "red, blue", records[1]["Colours"])
}

func TestResponseTable_UseIDsAndLists(t *testing.T) {
	responses := []*forms.FormResponse{{
		ResponseId: "r1",
		Answers: map[string]forms.Answer{
			"q2": textAnswer("green"),
			"gone": {FileUploadAnswers: &forms.FileUploadAnswers{
				Answers: []*forms.FileUploadAnswer{{FileId: "file-1", FileName: "cv.pdf"}},
			}},
		},
	}}

	header, records := ResponseTable(testForm(), responses, true, true)

	assert.Equal(t, []string{"responseId", "respondentEmail", "createTime", "q1", "q2", "q3", "gone"}, header)
	assert.Equal(t, []string{"green"}, records[0]["q2"])
	assert.Equal(t, []string{"file-1"}, records[0]["gone"])
	assert.Nil(t, records[0]["q1"])
}
