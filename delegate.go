package view

import (
	"fmt"
	"sort"

	"github.com/gowade/view/dom"
	"github.com/gowade/view/internal/log"
	"github.com/gowade/view/template"
)

// prepareListeners turns every On declaration of the tree into a listener
// keyed by the declaring node's path. The description itself is left as is.
func (v *View) prepareListeners(root *template.Node) (template.Listeners, error) {
	table := template.Listeners{}

	err := template.Walk(root, func(p template.Path, n *template.Node) error {
		if len(n.On) == 0 {
			return nil
		}

		keys := make([]string, 0, len(n.On))
		for key := range n.On {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			event, selector, err := template.ParseKey(key)
			if err != nil {
				return err
			}

			actions := template.Flatten(n.On[key])
			if len(actions) == 0 {
				return fmt.Errorf("%w: %q", template.ErrNoAction, key)
			}

			table[p.String()] = append(table[p.String()], template.Listener{
				Event:    event,
				Selector: selector,
				Attach:   v.delegate(actions),
			})
		}

		return nil
	})

	return table, err
}

// delegate returns a listener attaching a single native listener per
// element. With a selector, only events whose target matches it run the
// actions, so one listener on a container serves all its matching
// descendants.
func (v *View) delegate(actions []template.Action) template.ListenerFunc {
	return func(el dom.Element, event, selector string) error {
		var match dom.Matcher
		if selector != "" {
			m, err := el.Document().Compile(selector)
			if err != nil {
				return err
			}
			match = m
		}

		v.ListenTo(el, event, func(e dom.Event) {
			if match != nil && (e.Target() == nil || !match.Match(e.Target())) {
				return
			}

			for _, a := range actions {
				if v.state == Destroyed {
					return
				}

				switch a := a.(type) {
				case template.InvokeCallback:
					a.Fn(e)
				case template.FireEvent:
					v.Fire(a.Name, e)
				}
			}
		})

		if log.Enabled(log.LevelDebug) {
			log.Debug(log.CatEvent, "delegated", "view", v.id, "event", event, "selector", selector,
				"element", dom.DebugInfo(el))
		}
		return nil
	}
}
