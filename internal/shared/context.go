package shared

import "context"

type subjectContextKey struct{}

// ContextWithSubject binds the authenticated subject id to the context.
func ContextWithSubject(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, id)
}

// SubjectFromContext extracts the authenticated subject id, if any.
func SubjectFromContext(ctx context.Context) string {
	id, _ := ctx.Value(subjectContextKey{}).(string)
	return id
}
