// Package script executes compiled program blobs once per owner per frame.
//
// A program blob has the layout
//
//	[u32 data size, little-endian][data section][code section]
//
// and is produced by an external compiler. Programs see a fixed two-pointer interface: a
// pointer to an array of SlotsCount 16-byte slots and a pointer to the constant data section.
// The first RegsCount slots are registers (time, delta time, audio peaks) and the remaining
// VarsCount slots are variables; Vars[0] is the program's result.
//
// # Lane Order
//
// Every slot holds a Vec4 with its lanes reversed: W in lane 0 and X in lane 3. Programs are
// compiled against this order, so a mismatch swaps components without any error.
//
// # Backends
//
// BackendNative maps the blob into memory that is made read-execute only after the copy and
// calls the code section directly, passing the slot pointer in RDI and RCX and the data
// pointer in RSI and RDX. It is available on linux/amd64 and offers no sandbox: a faulty
// program can corrupt the process.
//
// BackendWasm treats the code section as a WebAssembly module exporting "memory" and
// "run(slots, data i32)" and runs it with wazero. Slots are staged at linear address 0 and the
// data section at WasmDataAddr.
//
// # Usage
//
//	engine, err := script.NewEngine(script.WithBackend(format.BackendWasm))
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	if err := engine.Load(blob); err != nil {
//	    return err
//	}
//	engine.SetTime(entity, 1.25)
//	var out script.Vec4
//	err = engine.Run(entity, &out)
//
// An Engine is not safe for concurrent use.
package script
