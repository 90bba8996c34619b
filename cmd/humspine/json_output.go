package main

import (
	"encoding/json"
	"fmt"
	"io"
)

// printJSONList writes items as an indented JSON array. A nil slice prints
// as [] so scripts can always iterate the result.
func printJSONList[T any](out io.Writer, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
