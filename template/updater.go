package template

import (
	"strings"

	"github.com/gowade/view/dom"
	"github.com/gowade/view/internal/log"
	"github.com/gowade/view/utils"
)

const (
	BindText        = "text"
	BindHtml        = "html"
	BindClassPrefix = "class."
)

// UpdaterFor returns the updater the compiler uses for a bind key:
// "text" sets the text content, "html" the inner html, "class.<name>"
// toggles a class by truthiness, anything else sets the attribute of
// that name.
func UpdaterFor(key string) Updater {
	switch {
	case key == BindText:
		return SetText
	case key == BindHtml:
		return SetHtml
	case strings.HasPrefix(key, BindClassPrefix):
		return ToggleClass(strings.TrimPrefix(key, BindClassPrefix))
	default:
		return SetAttr(key)
	}
}

func SetText(el dom.Element, value any) {
	el.SetText(utils.ToString(value))
}

func SetHtml(el dom.Element, value any) {
	if err := el.SetHtml(utils.ToString(value)); err != nil {
		log.ErrorErr(log.CatBind, "html update failed", err)
	}
}

func ToggleClass(class string) Updater {
	return func(el dom.Element, value any) {
		el.SetClass(class, utils.Truthy(value))
	}
}

// SetAttr returns an updater for attribute name: nil and false remove the
// attribute, true sets it empty, other values are stringified.
func SetAttr(name string) Updater {
	return func(el dom.Element, value any) {
		switch v := value.(type) {
		case nil:
			el.RemoveAttr(name)
		case bool:
			if v {
				el.SetAttr(name, "")
			} else {
				el.RemoveAttr(name)
			}
		default:
			el.SetAttr(name, utils.ToString(value))
		}
	}
}
