package mocks

import "inap/infras/otel"

// scopeImpl discards everything.
type scopeImpl struct{}

func NewScope() otel.Scope {
	return scopeImpl{}
}

func (scopeImpl) AddEvent(string) {}

func (scopeImpl) End() {}

func (scopeImpl) SetAttribute(string, any) {}

func (scopeImpl) SetAttributes(map[string]any) {}

func (scopeImpl) TraceError(error) {}

func (scopeImpl) TraceIfError(*error) {}
