package visitor

// RenderError reports a tree that cannot be turned into valid SQL.
type RenderError struct {
	Node   string
	Reason string
}

func (e *RenderError) Error() string {
	return "render " + e.Node + ": " + e.Reason
}
