// Package interpreter implements the stack-based step loop (spec.md §4.4)
// that executes a module's functions against a wasm.Store.
package interpreter

import (
	"github.com/tinywasm/tinywasm/wasm"
)

// HostFunc is a registered import: it receives the store (so it may read or
// write linear memory) and the popped arguments, and returns at most one
// result.
type HostFunc func(s *wasm.Store, args []wasm.Value) (*wasm.Value, error)

// WASIHandler is the boundary a "wasi_snapshot_preview1" import is routed
// to, when configured (spec.md §4.4's invokeExternal).
type WASIHandler interface {
	Invoke(s *wasm.Store, fieldName string, args []wasm.Value) (*wasm.Value, error)
}

// Runtime ties a Store to an operand stack, a call stack, a host-import
// registry, and an optional WASI handler. Not safe for concurrent use; two
// Runtimes may run in parallel without interaction (spec.md §5).
type Runtime struct {
	Store *wasm.Store
	WASI  WASIHandler

	stack       []wasm.Value
	callStack   []*wasm.Frame
	imports     map[importKey]HostFunc
	moduleNames map[string]struct{}
}

type importKey struct{ moduleName, fieldName string }

// NewRuntime wires a Store to a fresh, empty Runtime.
func NewRuntime(s *wasm.Store) *Runtime {
	return &Runtime{Store: s, imports: map[importKey]HostFunc{}, moduleNames: map[string]struct{}{}}
}

// AddImport registers or replaces a host function for (moduleName,
// fieldName), per spec.md §6's addImport.
func (r *Runtime) AddImport(moduleName, fieldName string, fn HostFunc) {
	r.imports[importKey{moduleName, fieldName}] = fn
	r.moduleNames[moduleName] = struct{}{}
}

// Call invokes the named export, pushing args in order and returning its
// single result, if any (spec.md §4.4 entry path / §6 call).
func (r *Runtime) Call(name string, args ...wasm.Value) (*wasm.Value, error) {
	exp, ok := r.Store.Module.Exports[name]
	if !ok {
		return nil, wasm.Wrapf(wasm.ErrExportNotFound, "%q", name)
	}

	for _, a := range args {
		r.push(a)
	}

	fn := r.Store.Funcs[exp.FuncIndex]
	switch f := fn.(type) {
	case *wasm.InternalFuncInst:
		return r.invokeInternal(f)
	case *wasm.ExternalFuncInst:
		return r.invokeExternal(f)
	default:
		panic("wasm: unreachable FuncInst variant")
	}
}

func (r *Runtime) push(v wasm.Value) { r.stack = append(r.stack, v) }

func (r *Runtime) pop() (wasm.Value, error) {
	if len(r.stack) == 0 {
		return wasm.Value{}, wasm.ErrStackUnderflow
	}
	v := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return v, nil
}

// unwind is the stack-unwind primitive from spec.md §4.4: truncate to sp,
// preserving the top arity values.
func (r *Runtime) unwind(sp, arity int) {
	if arity == 0 {
		r.stack = r.stack[:sp]
		return
	}
	saved := r.stack[len(r.stack)-arity:]
	kept := append([]wasm.Value{}, saved...)
	r.stack = append(r.stack[:sp], kept...)
}

// invokeInternal pushes a frame for f and runs the step loop to completion,
// returning a single result if the function's type declares one.
func (r *Runtime) invokeInternal(f *wasm.InternalFuncInst) (*wasm.Value, error) {
	if err := r.pushFrame(f); err != nil {
		return nil, err
	}

	baseline := len(r.callStack) - 1 // call-stack depth before this invocation
	if err := r.run(baseline); err != nil {
		return nil, err
	}

	if len(f.Type.Results) == 0 {
		return nil, nil
	}
	v, err := r.pop()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// pushFrame builds and pushes a Frame for f, per spec.md §4.4's "Frame
// push" algorithm: pop params into locals, zero-fill declared locals.
func (r *Runtime) pushFrame(f *wasm.InternalFuncInst) error {
	numParams := len(f.Type.Params)
	if len(r.stack) < numParams {
		return wasm.ErrStackUnderflow
	}
	args := append([]wasm.Value{}, r.stack[len(r.stack)-numParams:]...)
	r.stack = r.stack[:len(r.stack)-numParams]

	locals := append([]wasm.Value{}, args...)
	for _, lt := range f.Code.Locals {
		locals = append(locals, wasm.ZeroValue(lt))
	}

	frame := &wasm.Frame{
		PC:        -1,
		SP:        len(r.stack),
		Insts:     f.Code.Body,
		Arity:     len(f.Type.Results),
		Locals:    locals,
		DebugName: f.DebugName(),
	}
	r.callStack = append(r.callStack, frame)
	return nil
}

// invokeExternal pops the callee's declared parameter count off the stack
// and dispatches to the WASI handler or the host-import registry.
func (r *Runtime) invokeExternal(f *wasm.ExternalFuncInst) (*wasm.Value, error) {
	numParams := len(f.Type.Params)
	if len(r.stack) < numParams {
		return nil, wasm.ErrStackUnderflow
	}
	args := append([]wasm.Value{}, r.stack[len(r.stack)-numParams:]...)
	r.stack = r.stack[:len(r.stack)-numParams]

	if f.ModuleName == "wasi_snapshot_preview1" && r.WASI != nil {
		return r.WASI.Invoke(r.Store, f.FieldName, args)
	}

	if _, ok := r.moduleNames[f.ModuleName]; !ok {
		return nil, wasm.Wrapf(wasm.ErrModuleNotFound, "%s", f.ModuleName)
	}
	fn, ok := r.imports[importKey{f.ModuleName, f.FieldName}]
	if !ok {
		return nil, wasm.Wrapf(wasm.ErrFunctionNotFound, "%s.%s", f.ModuleName, f.FieldName)
	}
	return fn(r.Store, args)
}

// run drives the step loop until the call stack has unwound back to
// baseline (the depth the current invokeInternal started at minus one), per
// spec.md §4.4's "Step loop".
func (r *Runtime) run(baseline int) error {
	for len(r.callStack) > baseline {
		frame := r.callStack[len(r.callStack)-1]
		frame.PC++
		if frame.PC >= len(frame.Insts) {
			return wasm.Wrapf(wasm.ErrInvalidByte, "%s: pc %d out of range (%d instructions)", frame.DebugName, frame.PC, len(frame.Insts))
		}
		inst := frame.Insts[frame.PC]

		if err := r.step(frame, inst); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) step(frame *wasm.Frame, inst wasm.Instruction) error {
	switch inst.Opcode {
	case wasm.OpcodeLocalGet:
		return r.localGet(frame, inst)
	case wasm.OpcodeLocalSet:
		return r.localSet(frame, inst)
	case wasm.OpcodeI32Const:
		r.push(wasm.I32(inst.I32Const))
		return nil
	case wasm.OpcodeI32Add, wasm.OpcodeI32Sub, wasm.OpcodeI32LtS:
		return r.i32BinOp(inst)
	case wasm.OpcodeI32Store:
		return r.i32Store(inst)
	case wasm.OpcodeIf:
		return r.ifOp(frame, inst)
	case wasm.OpcodeReturn:
		return r.returnOp(frame)
	case wasm.OpcodeEnd:
		return r.endOp(frame)
	case wasm.OpcodeCall:
		return r.call(inst)
	default:
		return wasm.Wrapf(wasm.ErrInvalidOpcode, "%s: %s", frame.DebugName, inst.Opcode)
	}
}

func (r *Runtime) localGet(frame *wasm.Frame, inst wasm.Instruction) error {
	if int(inst.Index) >= len(frame.Locals) {
		return wasm.Wrapf(wasm.ErrOutOfBoundsMemory, "%s: local %d out of range", frame.DebugName, inst.Index)
	}
	r.push(frame.Locals[inst.Index])
	return nil
}

func (r *Runtime) localSet(frame *wasm.Frame, inst wasm.Instruction) error {
	v, err := r.pop()
	if err != nil {
		return err
	}
	if int(inst.Index) >= len(frame.Locals) {
		return wasm.Wrapf(wasm.ErrOutOfBoundsMemory, "%s: local %d out of range", frame.DebugName, inst.Index)
	}
	frame.Locals[inst.Index] = v
	return nil
}

func (r *Runtime) i32BinOp(inst wasm.Instruction) error {
	right, err := r.pop()
	if err != nil {
		return err
	}
	left, err := r.pop()
	if err != nil {
		return err
	}
	l, err := left.ToI32()
	if err != nil {
		return err
	}
	rr, err := right.ToI32()
	if err != nil {
		return err
	}

	switch inst.Opcode {
	case wasm.OpcodeI32Add:
		r.push(wasm.I32(l + rr))
	case wasm.OpcodeI32Sub:
		r.push(wasm.I32(l - rr))
	case wasm.OpcodeI32LtS:
		if l < rr {
			r.push(wasm.I32(1))
		} else {
			r.push(wasm.I32(0))
		}
	}
	return nil
}

func (r *Runtime) i32Store(inst wasm.Instruction) error {
	value, err := r.pop()
	if err != nil {
		return err
	}
	addr, err := r.pop()
	if err != nil {
		return err
	}
	v, err := value.ToI32()
	if err != nil {
		return err
	}
	a, err := addr.ToI32()
	if err != nil {
		return err
	}

	mem := r.Store.Memory()
	at := uint32(a) + inst.Offset
	if !mem.PutUint32(at, uint32(v)) {
		return wasm.Wrapf(wasm.ErrOutOfBoundsMemory, "i32.store at %d", at)
	}
	return nil
}

// ifOp: pop the condition; if false, skip to the matching End via the
// nesting-depth search; if true, fall through into the taken branch after
// pushing a label so Return/End inside it unwind correctly.
func (r *Runtime) ifOp(frame *wasm.Frame, inst wasm.Instruction) error {
	cond, err := r.pop()
	if err != nil {
		return err
	}
	c, err := cond.ToI32()
	if err != nil {
		return err
	}

	if c == 0 {
		frame.PC = matchingEnd(frame.Insts, frame.PC)
		return nil
	}

	frame.PushLabel(wasm.Label{
		Kind:  wasm.LabelKindIf,
		PC:    frame.PC,
		SP:    len(r.stack),
		Arity: inst.BlockType.Arity(),
	})
	return nil
}

// matchingEnd finds the index of the End that closes the If at pc (spec.md
// §4.4's "Matching-End search"): walk forward counting nested Ifs, return
// when depth returns to zero on an End.
func matchingEnd(insts []wasm.Instruction, pc int) int {
	depth := 0
	for i := pc + 1; i < len(insts); i++ {
		switch insts[i].Opcode {
		case wasm.OpcodeIf:
			depth++
		case wasm.OpcodeEnd:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	panic("wasm: unmatched if — module was not validated")
}

// returnOp: pop a label if any remain on the frame, unwinding to its sp/
// arity; otherwise pop the frame itself, unwinding to its sp/arity.
func (r *Runtime) returnOp(frame *wasm.Frame) error {
	if len(frame.Labels) > 0 {
		label := frame.PopLabel()
		r.unwind(label.SP, label.Arity)
		frame.PC = label.PC
		return nil
	}
	r.unwind(frame.SP, frame.Arity)
	r.callStack = r.callStack[:len(r.callStack)-1]
	return nil
}

// endOp pops the current frame and unwinds to its sp/arity. This subset
// never exercises label-closing End (spec.md §9's Open Question): every If
// is matched by a function-body-level End one level up.
func (r *Runtime) endOp(frame *wasm.Frame) error {
	r.unwind(frame.SP, frame.Arity)
	r.callStack = r.callStack[:len(r.callStack)-1]
	return nil
}

func (r *Runtime) call(inst wasm.Instruction) error {
	if int(inst.Index) >= len(r.Store.Funcs) {
		return wasm.Wrapf(wasm.ErrOutOfBoundsMemory, "func index %d out of range", inst.Index)
	}
	fn := r.Store.Funcs[inst.Index]

	switch f := fn.(type) {
	case *wasm.InternalFuncInst:
		return r.pushFrame(f)
	case *wasm.ExternalFuncInst:
		res, err := r.invokeExternal(f)
		if err != nil {
			return err
		}
		if res != nil {
			r.push(*res)
		}
		return nil
	default:
		panic("wasm: unreachable FuncInst variant")
	}
}
