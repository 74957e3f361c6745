package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gowade/view"
	"github.com/gowade/view/dom"
	"github.com/gowade/view/dom/goquery"
	"github.com/gowade/view/internal/log"
	"github.com/gowade/view/model"
	"github.com/gowade/view/template"
)

type renderOptions struct {
	state    string
	sets     []string
	triggers []string
}

type (
	change struct {
		key   string
		value any
	}

	trigger struct {
		event    string
		selector string
	}
)

func (a *app) renderCmd() *cobra.Command {
	var opts renderOptions

	c := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template once and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd.OutOrStdout(), a.loader(), args[0], opts)
		},
	}

	addRenderFlags(c, &opts)
	c.Flags().StringArrayVar(&opts.sets, "set", nil,
		"model change applied after the first render, as key=value (repeatable)")
	c.Flags().StringArrayVar(&opts.triggers, "trigger", nil,
		"event dispatched on every element matching the selector, as event@selector (repeatable)")
	return c
}

func addRenderFlags(c *cobra.Command, opts *renderOptions) {
	c.Flags().StringVarP(&opts.state, "state", "s", "", "YAML file holding the initial model state")
}

// render creates a view for the named template, applies the model changes
// and triggers in order, and writes every application event followed by the
// final markup to w.
func render(w io.Writer, loader *template.Loader, name string, opts renderOptions) error {
	node, err := loader.Load(name)
	if err != nil {
		return err
	}

	state, err := readState(opts.state)
	if err != nil {
		return err
	}
	changes, err := parseChanges(opts.sets)
	if err != nil {
		return err
	}
	triggers, err := parseTriggers(opts.triggers)
	if err != nil {
		return err
	}

	v := view.New(state, view.WithTemplateNode(node), view.WithDocument(goquery.NewDocument()))
	defer v.Destroy()

	for _, event := range appEvents(node) {
		v.On(node, event, func(e model.Event) {
			fmt.Fprintf(w, "event %s%s\n", e.Name, describe(e.Payload))
		})
	}

	el, err := v.Element()
	if err != nil {
		return err
	}

	for _, c := range changes {
		v.Model().Set(c.key, c.value)
	}

	for _, t := range triggers {
		targets, err := matching(el, t.selector)
		if err != nil {
			return fmt.Errorf("trigger %s@%s: %w", t.event, t.selector, err)
		}
		if len(targets) == 0 {
			log.Warn(log.CatCLI, "trigger matched nothing", "event", t.event, "selector", t.selector)
		}

		for _, target := range targets {
			goquery.Trigger(target, t.event)
		}
	}

	_, err = fmt.Fprintln(w, el.OuterHtml())
	return err
}

func readState(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // state file path comes from the user
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var state map[string]any
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing state %s: %w", path, err)
	}

	return state, nil
}

// parseChanges reads key=value pairs. Values are YAML scalars, so true, 3
// and null keep their types; anything unparsable stays a string.
func parseChanges(sets []string) ([]change, error) {
	changes := make([]change, 0, len(sets))
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", s)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		changes = append(changes, change{key: key, value: value})
	}

	return changes, nil
}

func parseTriggers(specs []string) ([]trigger, error) {
	triggers := make([]trigger, 0, len(specs))
	for _, s := range specs {
		event, selector, err := template.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --trigger %q: %w", s, err)
		}
		triggers = append(triggers, trigger{event: event, selector: selector})
	}

	return triggers, nil
}

// matching returns root and its descendants matching selector, or just root
// without a selector.
func matching(root dom.Element, selector string) ([]dom.Element, error) {
	if selector == "" {
		return []dom.Element{root}, nil
	}

	m, err := root.Document().Compile(selector)
	if err != nil {
		return nil, err
	}

	var targets []dom.Element
	if m.Match(root) {
		targets = append(targets, root)
	}
	return append(targets, root.Find(selector)...), nil
}

// appEvents lists the application events a template can fire.
func appEvents(root *template.Node) []string {
	seen := map[string]bool{}
	_ = template.Walk(root, func(_ template.Path, n *template.Node) error {
		for _, a := range n.On {
			for _, action := range template.Flatten(a) {
				if fire, ok := action.(template.FireEvent); ok {
					seen[fire.Name] = true
				}
			}
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func describe(payload any) string {
	e, ok := payload.(dom.Event)
	if !ok || e.Target() == nil {
		return ""
	}

	return " target=" + dom.DebugInfo(e.Target())
}
