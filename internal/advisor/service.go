package advisor

import "context"

// StubAdvice is the fixed advice returned until a real model is plugged in.
const StubAdvice = "Segment stub"

// Advice is the advisor response envelope.
type Advice struct {
	Advice string  `json:"advice"`
	Input  Payload `json:"input"`
}

// Advisor produces advice for a caller payload.
type Advisor interface {
	Advise(ctx context.Context, in Payload) (Advice, error)
}

// Stub echoes the input next to StubAdvice.
type Stub struct{}

// NewStub constructs the stub advisor.
func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) Advise(_ context.Context, in Payload) (Advice, error) {
	return Advice{Advice: StubAdvice, Input: in}, nil
}
