package meta

import "github.com/kalyuk/swagdeco/swagger"

// Merge rules shared by every level:
//
//	strings, ints   replaced when the patch value is non-zero
//	bools           set when the patch value is true
//	slices          replaced wholesale when the patch slice is non-nil
//	maps            merged key by key, recursing into values on both sides
//	pointers        merged recursively, or adopted when the target is nil
//
// dst is modified in place; src must not be shared with dst.

func mergeRecord(dst *Record, src Record) {
	if src.URL != "" {
		dst.URL = src.URL
	}
	if src.Method != "" {
		dst.Method = src.Method
	}
	dst.Pagination = mergePagination(dst.Pagination, src.Pagination)
	dst.Params = mergeOperation(dst.Params, src.Params)
}

func mergePagination(dst, src *Pagination) *Pagination {
	if src == nil {
		return dst
	}
	if dst == nil {
		return src
	}
	if src.Type != "" {
		dst.Type = src.Type
	}
	if src.PageSize != 0 {
		dst.PageSize = src.PageSize
	}
	if src.Sizes != nil {
		dst.Sizes = src.Sizes
	}
	return dst
}

func mergeOperation(dst, src *swagger.Operation) *swagger.Operation {
	if src == nil {
		return dst
	}
	if dst == nil {
		return src
	}
	if src.Tags != nil {
		dst.Tags = src.Tags
	}
	if src.Summary != "" {
		dst.Summary = src.Summary
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.OperationID != "" {
		dst.OperationID = src.OperationID
	}
	if src.Consumes != nil {
		dst.Consumes = src.Consumes
	}
	if src.Produces != nil {
		dst.Produces = src.Produces
	}
	if src.Parameters != nil {
		dst.Parameters = src.Parameters
	}
	dst.Responses = mergeResponses(dst.Responses, src.Responses)
	if src.Deprecated {
		dst.Deprecated = true
	}
	return dst
}

func mergeResponses(dst, src map[int]*swagger.Response) map[int]*swagger.Response {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = make(map[int]*swagger.Response, len(src))
	}
	for code, resp := range src {
		prev, ok := dst[code]
		if !ok || prev == nil {
			dst[code] = resp
			continue
		}
		if resp == nil {
			continue
		}
		if resp.Description != "" {
			prev.Description = resp.Description
		}
		prev.Schema = mergeSchema(prev.Schema, resp.Schema)
	}
	return dst
}

func mergeSchema(dst, src *swagger.Schema) *swagger.Schema {
	if src == nil {
		return dst
	}
	if dst == nil {
		return src
	}
	if src.Ref != "" {
		dst.Ref = src.Ref
	}
	if src.Type != "" {
		dst.Type = src.Type
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Default != nil {
		dst.Default = src.Default
	}
	if src.Enum != nil {
		dst.Enum = src.Enum
	}
	dst.Items = mergeSchema(dst.Items, src.Items)
	if src.Required != nil {
		dst.Required = src.Required
	}
	dst.Properties = mergeProperties(dst.Properties, src.Properties)
	dst.AdditionalProperties = mergeSchema(dst.AdditionalProperties, src.AdditionalProperties)
	if src.ReadOnly {
		dst.ReadOnly = true
	}
	if src.Example != nil {
		dst.Example = src.Example
	}
	return dst
}

func mergeProperties(dst, src map[string]*swagger.Schema) map[string]*swagger.Schema {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = make(map[string]*swagger.Schema, len(src))
	}
	for name, schema := range src {
		dst[name] = mergeSchema(dst[name], schema)
	}
	return dst
}
