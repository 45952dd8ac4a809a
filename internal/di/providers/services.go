package providers

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/samber/do/v2"

	"github.com/idilsaglam/toodoo/internal/cli"
	"github.com/idilsaglam/toodoo/internal/config"
	"github.com/idilsaglam/toodoo/internal/prompt"
	"github.com/idilsaglam/toodoo/internal/todo"
)

func ProvideService(i do.Injector) (*todo.Service, error) {
	h, err := do.Invoke[*StoreHandle](i)
	if err != nil {
		return nil, err
	}
	return todo.NewService(h.Store), nil
}

// ProvidePrompter picks Bubble Tea on a terminal and line prompts otherwise,
// unless the config forces one.
func ProvidePrompter(i do.Injector) (cli.Prompter, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	streams := do.MustInvoke[Streams](i)
	return prompterFor(cfg.UI, streams.In, streams.Out), nil
}

func prompterFor(mode string, in io.Reader, out io.Writer) cli.Prompter {
	switch mode {
	case config.UITUI:
		return prompt.NewTUI(in, out)
	case config.UIPlain:
		return prompt.NewLine(in, out)
	}
	if prompt.Interactive(in, out) {
		return prompt.NewTUI(in, out)
	}
	return prompt.NewLine(in, out)
}

func ProvideApp(i do.Injector) (*cli.App, error) {
	svc, err := do.Invoke[*todo.Service](i)
	if err != nil {
		return nil, err
	}
	p, err := do.Invoke[cli.Prompter](i)
	if err != nil {
		return nil, err
	}
	lg, err := do.Invoke[*log.Logger](i)
	if err != nil {
		return nil, err
	}
	return cli.New(svc, p, lg), nil
}
