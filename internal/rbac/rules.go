package rbac

const (
	RoleEditor     = "editor"
	RoleRespondent = "respondent"
	RoleAdmin      = "admin"
)

const (
	PermTestCreate         = "test:create"
	PermTestList           = "test:list"
	PermTestAnalytics      = "test:analytics"
	PermTestResults        = "test:results"
	PermQuestionsGenerate  = "questions:generate"
	PermEventsView         = "events:view"
	PermSubmissionStart    = "submission:start"
	PermSubmissionComplete = "submission:complete"
)

// RolePermissions is the default policy. Respondents are anonymous in
// practice; the role exists for tokens handed out with share links.
var RolePermissions = map[string][]string{
	RoleRespondent: {
		PermSubmissionStart,
		PermSubmissionComplete,
	},
	RoleEditor: {
		"test:*",
		PermQuestionsGenerate,
		PermEventsView,
		"submission:*",
	},
	RoleAdmin: {
		"*", // everything
	},
}
