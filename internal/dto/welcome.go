package dto

type WelcomeChoice struct {
	Text  string `json:"text" example:"Product Development"`
	Icon  string `json:"icon" example:"UseProduct"`
	Color string `json:"color" example:"#0075A2"`
}

type WelcomeQuestionsResponse struct {
	Show      bool            `json:"show" example:"true"`
	Title     string          `json:"title" example:"Welcome!"`
	Prompt    string          `json:"prompt" example:"What brings you here?"`
	SaveLabel string          `json:"saveLabel" example:"Save"`
	Choices   []WelcomeChoice `json:"choices"`
}

type WelcomeInfoRequest struct {
	UseCases []string `json:"use_cases" example:"L,Sales,Other"`
	UseOther string   `json:"use_other,omitempty" example:"Tracking field trials"`
}
