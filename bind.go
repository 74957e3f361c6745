package view

import (
	"github.com/gowade/view/dom"
	"github.com/gowade/view/internal/log"
	"github.com/gowade/view/model"
	"github.com/gowade/view/template"
)

// Callback transforms a property value before the element is updated.
// Returning false skips the update, for callbacks that changed the element
// themselves.
type Callback func(el dom.Element, value any) (any, bool)

// Bind returns an attachment tying prop to the elements it is attached to.
// On attachment the element is synced with the current value; afterwards
// every change of prop runs cb and hands its result to the updater the
// compiler picked. Without cb the updater gets the value as is.
//
// The subscriptions belong to the view and are revoked by Destroy.
func (v *View) Bind(prop string, cb Callback) template.Attachment {
	return func(el dom.Element, update template.Updater) {
		m := v.model
		if m == nil {
			return
		}

		apply := cb
		if apply == nil {
			apply = func(el dom.Element, value any) (any, bool) {
				update(el, value)
				return nil, false
			}
		}

		changed := func(value any) {
			if processed, ok := apply(el, value); ok {
				update(el, processed)
			}
		}

		_ = m.Subscribe(v, model.ChangeEvent(prop), func(e model.Event) {
			changed(e.Payload)
		})
		if log.Enabled(log.LevelDebug) {
			log.Debug(log.CatBind, "bound", "view", v.id, "prop", prop, "element", dom.DebugInfo(el))
		}

		changed(m.Get(prop))
	}
}
