package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatendakasirori/eye-disease-classification/views/classifier"
)

// App is the program model. It wraps the classifier screen to provide the
// tea.Model interface.
type App struct {
	classifier classifier.Model
}

// NewApp creates the program model.
func NewApp(opts classifier.Options) App {
	return App{classifier: classifier.New(opts)}
}

func (a App) Init() tea.Cmd {
	return a.classifier.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.classifier, cmd = a.classifier.Update(msg)
	return a, cmd
}

func (a App) View() string {
	return a.classifier.View()
}
