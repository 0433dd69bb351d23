package model

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts the shorthand forms `disabled: true` and
// `disabled: 'channel == ""'` next to the mapping form.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!bool" {
			static, err := strconv.ParseBool(node.Value)
			if err != nil {
				return fmt.Errorf("model: disabled: %w", err)
			}
			*c = Condition{Static: static}
			return nil
		}
		*c = When(node.Value)
		return nil
	}
	type plain Condition
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*c = Condition(out)
	return nil
}

// UnmarshalYAML accepts `required: true` and `required: "message"` next to
// the mapping form.
func (r *Required) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!bool" {
			active, err := strconv.ParseBool(node.Value)
			if err != nil {
				return fmt.Errorf("model: required: %w", err)
			}
			*r = Required{Value: active}
			return nil
		}
		*r = Required{Value: true, Message: node.Value}
		return nil
	}
	type plain Required
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*r = Required(out)
	return nil
}
