package generator

// ReferenceHandler compiles fields bound to another generated schema. The
// reference is emitted by constant name and recorded as a dependency so
// the writer can order and import it.
type ReferenceHandler struct{}

func (h *ReferenceHandler) Name() string  { return "reference" }
func (h *ReferenceHandler) Priority() int { return PriorityReference }

func (h *ReferenceHandler) CanHandleType(t string) bool { return true }

func (h *ReferenceHandler) CanHandleNode(node *ResolvedValidationSet) bool {
	return node.SchemaRef != ""
}

func (h *ReferenceHandler) Compile(ctx *CompileContext, node *ResolvedValidationSet) (string, error) {
	ctx.AddDependency(node.SchemaRef)
	ref := schemaConstName(node.SchemaRef)
	if node.InferredType == TypeArray {
		return "z.array(" + ref + ")" + chainCalls(ctx, node), nil
	}
	return ref + chainCalls(ctx, node), nil
}
