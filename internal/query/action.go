package query

import "strings"

// ActionKind buckets an activity for display.
type ActionKind int

const (
	ActionView ActionKind = iota
	ActionCreate
	ActionEdit
	ActionDelete
	ActionFailed
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionFailed:
		return "failed"
	default:
		return "view"
	}
}

var actionKeywords = []struct {
	kind     ActionKind
	keywords []string
}{
	{ActionCreate, []string{"creó", "create"}},
	{ActionEdit, []string{"editó", "edit"}},
	{ActionDelete, []string{"eliminó", "delete"}},
}

// ClassifyAction picks the kind of an activity from its outcome and action
// text. An explicit failure wins over the text; an absent flag does not.
func ClassifyAction(action string, success *bool) ActionKind {
	if success != nil && !*success {
		return ActionFailed
	}
	lower := strings.ToLower(action)
	for _, group := range actionKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.kind
			}
		}
	}
	return ActionView
}
