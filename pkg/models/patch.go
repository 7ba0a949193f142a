package models

import "fmt"

// PatchOperation is one JSON Patch step as accepted by the REST API.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// MetadataAddOperations appends every value of meta, one operation per value,
// in sorted key order.
func MetadataAddOperations(meta Metadata) []PatchOperation {
	var ops []PatchOperation
	for _, key := range meta.Keys() {
		for _, v := range meta[key] {
			ops = append(ops, PatchOperation{
				Op:    "add",
				Path:  fmt.Sprintf("/metadata/%s/-", key),
				Value: v,
			})
		}
	}
	return ops
}

// MetadataReplaceOperation overwrites the value at index of key.
func MetadataReplaceOperation(key string, index int, v MetaValue) PatchOperation {
	return PatchOperation{Op: "replace", Path: fmt.Sprintf("/metadata/%s/%d", key, index), Value: v}
}

// MetadataRemoveOperation removes the value at index of key, or all values
// when index is negative.
func MetadataRemoveOperation(key string, index int) PatchOperation {
	if index < 0 {
		return PatchOperation{Op: "remove", Path: fmt.Sprintf("/metadata/%s", key)}
	}
	return PatchOperation{Op: "remove", Path: fmt.Sprintf("/metadata/%s/%d", key, index)}
}
