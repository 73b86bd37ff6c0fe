package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrame_PushPopLabel(t *testing.T) {
	f := &Frame{PC: -1}
	assert.Len(t, f.Labels, 0)

	f.PushLabel(Label{Kind: LabelKindIf, PC: 3, SP: 1, Arity: 0})
	f.PushLabel(Label{Kind: LabelKindIf, PC: 7, SP: 2, Arity: 1})
	assert.Len(t, f.Labels, 2)

	inner := f.PopLabel()
	assert.Equal(t, 7, inner.PC)
	assert.Len(t, f.Labels, 1)

	outer := f.PopLabel()
	assert.Equal(t, 3, outer.PC)
	assert.Len(t, f.Labels, 0)
}

func TestFrame_PopLabel_panicsWhenEmpty(t *testing.T) {
	f := &Frame{}
	assert.Panics(t, func() { f.PopLabel() })
}
