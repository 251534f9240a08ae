package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Request is the read-only view of an inbound request that steps need.
type Request interface {
	Context() context.Context
	Header(name string) string
	Param(name string) string
}

// Step is one authorization stage. It either passes the context on (possibly
// enriched) or rejects the request with a DomainError.
type Step interface {
	Name() string
	Authorize(req Request, rc RequestContext) (RequestContext, error)
}

// RejectionObserver is told about every rejected request.
type RejectionObserver func(step string, err error)

// Pipeline is the ordered list of steps guarding one route.
type Pipeline struct {
	steps    []Step
	observer RejectionObserver
}

// NewPipeline builds a pipeline running steps in the given order.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Observe registers o for rejections.
func (p *Pipeline) Observe(o RejectionObserver) *Pipeline {
	p.observer = o
	return p
}

// Run executes the steps. The first rejection stops the pipeline.
func (p *Pipeline) Run(req Request) (RequestContext, error) {
	rc := RequestContext{}
	for _, step := range p.steps {
		next, err := step.Authorize(req, rc)
		if err != nil {
			if p.observer != nil {
				p.observer(step.Name(), err)
			}
			return RequestContext{}, err
		}
		rc = next
	}
	return rc, nil
}

// Handler adapts the pipeline to fiber. On success the identity is placed in
// the request's user context before the route handler runs.
func (p *Pipeline) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, err := p.Run(fiberRequest{c: c})
		if err != nil {
			return err
		}
		if user, ok := rc.Identity(); ok {
			c.SetUserContext(ContextWithIdentity(c.UserContext(), user))
		}
		return c.Next()
	}
}

type fiberRequest struct {
	c *fiber.Ctx
}

func (r fiberRequest) Context() context.Context { return r.c.UserContext() }

func (r fiberRequest) Header(name string) string { return r.c.Get(name) }

func (r fiberRequest) Param(name string) string { return r.c.Params(name) }
