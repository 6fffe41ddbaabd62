package operations

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gil0mendes/LAOS/internal/ui/models/spinner"
)

type OperationFunc func() (interface{}, error)

// StepFunc reports the step an operation has reached.
type StepFunc func(step string)

// SteppedOperationFunc is an operation that reports its progress.
type SteppedOperationFunc func(step StepFunc) (interface{}, error)

type DisplayFunc func(result interface{})

// WithSpinner runs operation while a spinner shows message, then hands the
// result to display. With plain set the operation runs without a spinner.
func WithSpinner(plain bool, message string, operation OperationFunc, display DisplayFunc) error {
	return WithSteps(plain, message, func(StepFunc) (interface{}, error) {
		return operation()
	}, display)
}

// WithSteps is WithSpinner for operations that report their steps. Each step
// replaces the spinner text; in plain mode steps are dropped.
func WithSteps(plain bool, message string, operation SteppedOperationFunc, display DisplayFunc) error {
	if plain {
		result, err := operation(func(string) {})
		if err != nil {
			return err
		}
		if display != nil {
			display(result)
		}
		return nil
	}

	program := tea.NewProgram(spinner.NewModel(message))

	go func() {
		result, err := operation(stepSender(program.Send))
		if err != nil {
			program.Send(spinner.ErrorMsg{Err: err})
			return
		}
		program.Send(spinner.ResultMsg{Result: result})
	}()

	model, err := program.Run()
	if err != nil {
		return err
	}

	finalModel, ok := model.(spinner.Model)
	if !ok {
		return fmt.Errorf("program finished with invalid model")
	}

	if finalModel.HasError() {
		return finalModel.GetError()
	}

	if display != nil && finalModel.HasResult() {
		display(finalModel.GetResult())
	}

	return nil
}

func stepSender(send func(tea.Msg)) StepFunc {
	return func(step string) {
		send(spinner.StepMsg(step))
	}
}
