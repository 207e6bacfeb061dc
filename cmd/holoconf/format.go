package main

import (
	yaml "github.com/goccy/go-yaml"

	"github.com/rfestag/holoconf/serialize"
	"github.com/rfestag/holoconf/value"
)

func formatJSON(v *value.Value) ([]byte, error) {
	return serialize.JSON(v, serialize.Options{})
}

func formatYAML(v *value.Value) ([]byte, error) {
	return yaml.Marshal(serialize.Ordered(v, serialize.Options{}))
}
