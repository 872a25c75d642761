// Package cpu implements the CHIP-8 processor: instruction decoding, the
// machine state and the execution of all 35 canonical instructions.
//
// # Memory Layout
//
// The processor addresses 4KB of memory (0x000-0xFFF):
//   - 0x000-0x05F: built-in hex digit font, one 5 byte glyph per 6 byte slot
//   - 0x200-0xFFF: program area, ROMs are loaded to ProgramStart
//
// # Execution Model
//
// A driver calls Step to fetch the instruction at the program counter,
// execute it and advance the program counter by 2. Instructions that change
// the control flow set the program counter to target-2, so that the
// unconditional advance lands on the target. Execute runs a caller supplied
// instruction word and leaves the final advance to the caller.
//
// The delay and sound timers are decremented by OnTick, which the driver is
// expected to call at 60Hz independently of the instruction rate.
//
// The wait for key instruction never blocks: if no key release was observed
// by UpdateInputs it rewinds the program counter so that it is executed again
// on the next step.
//
// # Errors
//
// Unknown instructions return an *InvalidOpcodeError. Stack overflows and
// underflows and memory accesses outside of the address space return a
// *FaultError. The processor never panics or terminates the process, the
// driver decides whether an error halts execution.
package cpu
