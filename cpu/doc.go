// Package cpu implements the register machine and assembler for the
// spectrum virtual machine.
//
// The machine has 32 signed 32-bit registers ($0-$31), a comparison flag,
// a division remainder register, a growable byte heap, and a program
// counter addressing a flat bytecode image.
//
// Every instruction is 4 bytes: the opcode byte, then three operand bytes.
// A register operand is one byte, an integer immediate is two bytes in
// big-endian order, and unused bytes are zero.
//
// The assembler accepts one mnemonic followed by its operands, each either
// $<index> for a register or #<value> for an immediate:
//
//	LOAD $0 #10
//	LOAD $1 #3
//	DIV $0 $1 $2
package cpu
