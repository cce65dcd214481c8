package tool

import "context"

// op is a declarative Handler: catalog entry plus closure. Every farm tool
// is built from one of these.
type op struct {
	name   string
	desc   string
	params map[string]interface{}
	run    func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult
}

func (o op) Name() string                       { return o.name }
func (o op) Description() string                { return o.desc }
func (o op) Parameters() map[string]interface{} { return o.params }

func (o op) Execute(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
	return o.run(ctx, id, args)
}

// JSON-schema fragments in the shape the generativelanguage API expects.

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func numberProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

func intProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

func enumProp(desc string, values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc, "enum": values}
}
