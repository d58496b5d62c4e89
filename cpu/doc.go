// Package cpu implements the LS-8 microcomputer and its assembler.
//
// The LS-8 is an 8-bit machine: 256 bytes of flat RAM, eight 8-bit
// general-purpose registers with register 7 reserved as the stack pointer,
// and a program counter. Each instruction byte tags its own shape: the top
// two bits carry the operand count, bit 5 routes the instruction to the
// ALU, and bit 4 marks instructions that position the PC themselves.
// Non-ALU opcodes execute through an extensible dispatch table.
//
// The assembler provides a small assembly language for the LS-8 opcode
// set, supporting macros, labels, equates, and compile-time expression
// evaluation.
package cpu
