package analyze

import "strings"

// TaskType is a coarse guess at what kind of answer a request wants.
type TaskType string

const (
	TaskCode        TaskType = "code"
	TaskExplanation TaskType = "explanation"
	TaskFactual     TaskType = "factual"
	TaskCreative    TaskType = "creative"
)

var taskTypeKeywords = []struct {
	t        TaskType
	keywords []string
}{
	{TaskCode, []string{"code", "program", "function", "script", "implement", "write a class"}},
	{TaskExplanation, []string{"explain", "describe", "introduce", "walk me through", "how does"}},
	{TaskFactual, []string{"what is", "define", "list", "when", "where", "who"}},
	{TaskCreative, []string{"creative", "story", "write a poem", "imagine", "invent"}},
}

// DetectTaskType guesses the request type from keyword presence, defaulting
// to explanation.
func DetectTaskType(request string) TaskType {
	lower := strings.ToLower(request)
	for _, group := range taskTypeKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.t
			}
		}
	}
	return TaskExplanation
}
