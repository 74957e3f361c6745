package template

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	yamlNode struct {
		Tag      string                 `yaml:"tag"`
		Attrs    map[string]string      `yaml:"attrs"`
		Text     string                 `yaml:"text"`
		Bind     map[string]string      `yaml:"bind"`
		On       map[string]yamlActions `yaml:"on"`
		Children []yamlNode             `yaml:"children"`
	}

	// yamlActions accepts a single event name or a list of them.
	yamlActions []string
)

func (a *yamlActions) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*a = yamlActions{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*a = list
		return nil
	}

	return fmt.Errorf("line %d: listener must be an event name or a list of event names", value.Line)
}

// DecodeYAML reads a template tree:
//
//	tag: ul
//	attrs: {class: list}
//	bind: {class.empty: isEmpty}
//	on:
//	  click@.item: select
//	  keyup: [save, close]
//	children:
//	  - tag: li
//	    text: One
func DecodeYAML(data []byte) (*Node, error) {
	var yn yamlNode
	if err := yaml.Unmarshal(data, &yn); err != nil {
		return nil, fmt.Errorf("decoding template: %w", err)
	}

	if yn.Tag == "" {
		return nil, fmt.Errorf("decoding template: root has no tag")
	}

	n, err := yn.node()
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (yn yamlNode) node() (Node, error) {
	n := Node{
		Tag:   yn.Tag,
		Attrs: yn.Attrs,
		Text:  yn.Text,
	}

	if len(yn.Bind) > 0 {
		n.Bind = make(map[string]Binding, len(yn.Bind))
		for key, prop := range yn.Bind {
			n.Bind[key] = Prop(prop)
		}
	}

	if len(yn.On) > 0 {
		n.On = make(map[string]Action, len(yn.On))
		for key, names := range yn.On {
			action, err := fireActions(key, names)
			if err != nil {
				return n, err
			}
			n.On[key] = action
		}
	}

	for _, yc := range yn.Children {
		child, err := yc.node()
		if err != nil {
			return n, err
		}
		n.Children = append(n.Children, child)
	}

	return n, nil
}
