package repl

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the user for one value at a time.
type Prompter interface {
	Select(message string, options []string, def string) (string, error)
	Input(message, def string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct{}

func (SurveyPrompter) Select(message string, options []string, def string) (string, error) {
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 12,
	}
	if def != "" {
		prompt.Default = def
	}
	var answer string
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return answer, nil
}

func (SurveyPrompter) Input(message, def string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{Message: message, Default: def}, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	var answer bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &answer); err != nil {
		return false, err
	}
	return answer, nil
}
