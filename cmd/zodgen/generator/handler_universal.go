package generator

import (
	"fmt"
	"strings"
)

// UniversalHandler is the catch-all that compiles every semantic type the
// pipeline infers. It runs last so domain-specific handlers can shadow it.
type UniversalHandler struct{}

func (h *UniversalHandler) Name() string  { return "universal" }
func (h *UniversalHandler) Priority() int { return PriorityUniversal }

func (h *UniversalHandler) CanHandleType(t string) bool { return true }

func (h *UniversalHandler) CanHandleNode(node *ResolvedValidationSet) bool { return true }

func (h *UniversalHandler) Compile(ctx *CompileContext, node *ResolvedValidationSet) (string, error) {
	switch {
	case node.InferredType == TypeObject:
		return h.compileObject(ctx, node)
	case node.InferredType == TypeArray:
		return h.compileArray(ctx, node)
	case node.InferredType == TypeNumber:
		return "z.number()" + chainCalls(ctx, node), nil
	case node.InferredType == TypeBoolean:
		return "z.boolean()" + chainCalls(ctx, node), nil
	case node.InferredType == TypeFile:
		return "z.instanceof(File)" + chainCalls(ctx, node), nil
	case IsStringLikeType(node.InferredType):
		return "z.string()" + chainCalls(ctx, node), nil
	}
	return "", fmt.Errorf("field %s: unsupported inferred type %q", node.FieldName, node.InferredType)
}

func (h *UniversalHandler) compileArray(ctx *CompileContext, node *ResolvedValidationSet) (string, error) {
	item := "z.any()"
	if node.NestedValidations != nil {
		compiled, err := ctx.CompileItem(node.NestedValidations)
		if err != nil {
			return "", err
		}
		item = compiled
	}
	return "z.array(" + item + ")" + chainCalls(ctx, node), nil
}

func (h *UniversalHandler) compileObject(ctx *CompileContext, node *ResolvedValidationSet) (string, error) {
	var props []propertyLine
	var crossFields []crossFieldCheck
	for _, p := range node.ObjectProperties {
		if strings.Contains(p.Name, ".") {
			continue
		}
		expr, err := ctx.CompileNode(p.Set)
		if err != nil {
			return "", err
		}
		props = append(props, propertyLine{name: p.Name, expr: expr})
		crossFields = append(crossFields, collectCrossFields(p.Name, p.Set)...)
	}
	return objectLiteral(props) + superRefine(crossFields) + chainCalls(ctx, node), nil
}
