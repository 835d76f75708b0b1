package cpu

// addrMode selects which operand-fetch sequence an opcode uses.
type addrMode int

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZP
	modeZPX
	modeZPY
	modeAbs
	modeAbsX
	modeAbsY
	modeIndX
	modeIndY
)

// opCat selects which generic cycle-stepping routine drives an opcode; the
// mnemonic distinguishes ALU behavior within a category.
type opCat int

const (
	catRead opCat = iota
	catWrite
	catModify
	catImplied
	catAccumulator
	catImmediate
	catBranch
	catJmpAbs
	catJmpInd
	catJSR
	catRTS
	catRTI
	catBRK
	catPush
	catPull
)

type opInfo struct {
	mnemonic string
	mode     addrMode
	cat      opCat
}

var opTable [256]opInfo

func def(op uint8, mn string, mode addrMode, cat opCat) {
	opTable[op] = opInfo{mn, mode, cat}
}

func init() {
	for i := range opTable {
		opTable[i] = opInfo{"NOP", modeImplied, catImplied}
	}

	// Loads.
	def(0xA9, "LDA", modeImmediate, catImmediate)
	def(0xA5, "LDA", modeZP, catRead)
	def(0xB5, "LDA", modeZPX, catRead)
	def(0xAD, "LDA", modeAbs, catRead)
	def(0xBD, "LDA", modeAbsX, catRead)
	def(0xB9, "LDA", modeAbsY, catRead)
	def(0xA1, "LDA", modeIndX, catRead)
	def(0xB1, "LDA", modeIndY, catRead)

	def(0xA2, "LDX", modeImmediate, catImmediate)
	def(0xA6, "LDX", modeZP, catRead)
	def(0xB6, "LDX", modeZPY, catRead)
	def(0xAE, "LDX", modeAbs, catRead)
	def(0xBE, "LDX", modeAbsY, catRead)

	def(0xA0, "LDY", modeImmediate, catImmediate)
	def(0xA4, "LDY", modeZP, catRead)
	def(0xB4, "LDY", modeZPX, catRead)
	def(0xAC, "LDY", modeAbs, catRead)
	def(0xBC, "LDY", modeAbsX, catRead)

	// Stores.
	def(0x85, "STA", modeZP, catWrite)
	def(0x95, "STA", modeZPX, catWrite)
	def(0x8D, "STA", modeAbs, catWrite)
	def(0x9D, "STA", modeAbsX, catWrite)
	def(0x99, "STA", modeAbsY, catWrite)
	def(0x81, "STA", modeIndX, catWrite)
	def(0x91, "STA", modeIndY, catWrite)

	def(0x86, "STX", modeZP, catWrite)
	def(0x96, "STX", modeZPY, catWrite)
	def(0x8E, "STX", modeAbs, catWrite)

	def(0x84, "STY", modeZP, catWrite)
	def(0x94, "STY", modeZPX, catWrite)
	def(0x8C, "STY", modeAbs, catWrite)

	// Transfers and flag/register ops, all implied.
	for op, mn := range map[uint8]string{
		0xAA: "TAX", 0xA8: "TAY", 0x8A: "TXA", 0x98: "TYA", 0xBA: "TSX", 0x9A: "TXS",
		0x18: "CLC", 0x38: "SEC", 0x58: "CLI", 0x78: "SEI", 0xB8: "CLV", 0xD8: "CLD", 0xF8: "SED",
		0xE8: "INX", 0xC8: "INY", 0xCA: "DEX", 0x88: "DEY", 0xEA: "NOP",
	} {
		def(op, mn, modeImplied, catImplied)
	}

	// Stack.
	def(0x48, "PHA", modeImplied, catPush)
	def(0x08, "PHP", modeImplied, catPush)
	def(0x68, "PLA", modeImplied, catPull)
	def(0x28, "PLP", modeImplied, catPull)

	// Arithmetic.
	def(0x69, "ADC", modeImmediate, catImmediate)
	def(0x65, "ADC", modeZP, catRead)
	def(0x75, "ADC", modeZPX, catRead)
	def(0x6D, "ADC", modeAbs, catRead)
	def(0x7D, "ADC", modeAbsX, catRead)
	def(0x79, "ADC", modeAbsY, catRead)
	def(0x61, "ADC", modeIndX, catRead)
	def(0x71, "ADC", modeIndY, catRead)

	def(0xE9, "SBC", modeImmediate, catImmediate)
	def(0xEB, "SBC", modeImmediate, catImmediate) // undocumented alias
	def(0xE5, "SBC", modeZP, catRead)
	def(0xF5, "SBC", modeZPX, catRead)
	def(0xED, "SBC", modeAbs, catRead)
	def(0xFD, "SBC", modeAbsX, catRead)
	def(0xF9, "SBC", modeAbsY, catRead)
	def(0xE1, "SBC", modeIndX, catRead)
	def(0xF1, "SBC", modeIndY, catRead)

	// Logic.
	def(0x29, "AND", modeImmediate, catImmediate)
	def(0x25, "AND", modeZP, catRead)
	def(0x35, "AND", modeZPX, catRead)
	def(0x2D, "AND", modeAbs, catRead)
	def(0x3D, "AND", modeAbsX, catRead)
	def(0x39, "AND", modeAbsY, catRead)
	def(0x21, "AND", modeIndX, catRead)
	def(0x31, "AND", modeIndY, catRead)

	def(0x09, "ORA", modeImmediate, catImmediate)
	def(0x05, "ORA", modeZP, catRead)
	def(0x15, "ORA", modeZPX, catRead)
	def(0x0D, "ORA", modeAbs, catRead)
	def(0x1D, "ORA", modeAbsX, catRead)
	def(0x19, "ORA", modeAbsY, catRead)
	def(0x01, "ORA", modeIndX, catRead)
	def(0x11, "ORA", modeIndY, catRead)

	def(0x49, "EOR", modeImmediate, catImmediate)
	def(0x45, "EOR", modeZP, catRead)
	def(0x55, "EOR", modeZPX, catRead)
	def(0x4D, "EOR", modeAbs, catRead)
	def(0x5D, "EOR", modeAbsX, catRead)
	def(0x59, "EOR", modeAbsY, catRead)
	def(0x41, "EOR", modeIndX, catRead)
	def(0x51, "EOR", modeIndY, catRead)

	// Compare.
	def(0xC9, "CMP", modeImmediate, catImmediate)
	def(0xC5, "CMP", modeZP, catRead)
	def(0xD5, "CMP", modeZPX, catRead)
	def(0xCD, "CMP", modeAbs, catRead)
	def(0xDD, "CMP", modeAbsX, catRead)
	def(0xD9, "CMP", modeAbsY, catRead)
	def(0xC1, "CMP", modeIndX, catRead)
	def(0xD1, "CMP", modeIndY, catRead)

	def(0xE0, "CPX", modeImmediate, catImmediate)
	def(0xE4, "CPX", modeZP, catRead)
	def(0xEC, "CPX", modeAbs, catRead)

	def(0xC0, "CPY", modeImmediate, catImmediate)
	def(0xC4, "CPY", modeZP, catRead)
	def(0xCC, "CPY", modeAbs, catRead)

	def(0x24, "BIT", modeZP, catRead)
	def(0x2C, "BIT", modeAbs, catRead)

	// Increment/decrement memory.
	def(0xE6, "INC", modeZP, catModify)
	def(0xF6, "INC", modeZPX, catModify)
	def(0xEE, "INC", modeAbs, catModify)
	def(0xFE, "INC", modeAbsX, catModify)

	def(0xC6, "DEC", modeZP, catModify)
	def(0xD6, "DEC", modeZPX, catModify)
	def(0xCE, "DEC", modeAbs, catModify)
	def(0xDE, "DEC", modeAbsX, catModify)

	// Shifts/rotates.
	def(0x0A, "ASL", modeAccumulator, catAccumulator)
	def(0x06, "ASL", modeZP, catModify)
	def(0x16, "ASL", modeZPX, catModify)
	def(0x0E, "ASL", modeAbs, catModify)
	def(0x1E, "ASL", modeAbsX, catModify)

	def(0x4A, "LSR", modeAccumulator, catAccumulator)
	def(0x46, "LSR", modeZP, catModify)
	def(0x56, "LSR", modeZPX, catModify)
	def(0x4E, "LSR", modeAbs, catModify)
	def(0x5E, "LSR", modeAbsX, catModify)

	def(0x2A, "ROL", modeAccumulator, catAccumulator)
	def(0x26, "ROL", modeZP, catModify)
	def(0x36, "ROL", modeZPX, catModify)
	def(0x2E, "ROL", modeAbs, catModify)
	def(0x3E, "ROL", modeAbsX, catModify)

	def(0x6A, "ROR", modeAccumulator, catAccumulator)
	def(0x66, "ROR", modeZP, catModify)
	def(0x76, "ROR", modeZPX, catModify)
	def(0x6E, "ROR", modeAbs, catModify)
	def(0x7E, "ROR", modeAbsX, catModify)

	// Control flow.
	def(0x4C, "JMP", modeAbs, catJmpAbs)
	def(0x6C, "JMP", modeAbs, catJmpInd)
	def(0x20, "JSR", modeAbs, catJSR)
	def(0x60, "RTS", modeImplied, catRTS)
	def(0x40, "RTI", modeImplied, catRTI)
	def(0x00, "BRK", modeImplied, catBRK)

	for op, mn := range map[uint8]string{
		0x10: "BPL", 0x30: "BMI", 0x50: "BVC", 0x70: "BVS",
		0x90: "BCC", 0xB0: "BCS", 0xD0: "BNE", 0xF0: "BEQ",
	} {
		def(op, mn, modeImplied, catBranch)
	}

	// Undocumented: JAM/KIL locks the bus.
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		def(op, "JAM", modeImplied, catImplied)
	}

	// Undocumented: extra NOPs of various widths. They're dispatched through
	// the same implied/immediate/read steppers as documented opcodes so the
	// operand fetch (and its page-cross cycle penalty) comes for free; the
	// ALU side just discards the value.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		def(op, "NOP", modeImplied, catImplied)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		def(op, "NOP", modeImmediate, catImmediate)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		def(op, "NOP", modeZP, catRead)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		def(op, "NOP", modeZPX, catRead)
	}
	def(0x0C, "NOP", modeAbs, catRead)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		def(op, "NOP", modeAbsX, catRead)
	}

	// Undocumented: combined read-modify-write opcodes.
	type rmw struct {
		zp, zpx, abs, absx, absy, indx, indy uint8
	}
	for mn, m := range map[string]rmw{
		"SLO": {0x07, 0x17, 0x0F, 0x1F, 0x1B, 0x03, 0x13},
		"RLA": {0x27, 0x37, 0x2F, 0x3F, 0x3B, 0x23, 0x33},
		"SRE": {0x47, 0x57, 0x4F, 0x5F, 0x5B, 0x43, 0x53},
		"RRA": {0x67, 0x77, 0x6F, 0x7F, 0x7B, 0x63, 0x73},
		"DCP": {0xC7, 0xD7, 0xCF, 0xDF, 0xDB, 0xC3, 0xD3},
		"ISB": {0xE7, 0xF7, 0xEF, 0xFF, 0xFB, 0xE3, 0xF3},
	} {
		def(m.zp, mn, modeZP, catModify)
		def(m.zpx, mn, modeZPX, catModify)
		def(m.abs, mn, modeAbs, catModify)
		def(m.absx, mn, modeAbsX, catModify)
		def(m.absy, mn, modeAbsY, catModify)
		def(m.indx, mn, modeIndX, catModify)
		def(m.indy, mn, modeIndY, catModify)
	}

	// Undocumented: LAX/SAX (load/store A&X together).
	def(0xA7, "LAX", modeZP, catRead)
	def(0xB7, "LAX", modeZPY, catRead)
	def(0xAF, "LAX", modeAbs, catRead)
	def(0xBF, "LAX", modeAbsY, catRead)
	def(0xA3, "LAX", modeIndX, catRead)
	def(0xB3, "LAX", modeIndY, catRead)
	def(0xAB, "LAX", modeImmediate, catImmediate) // unstable LXA

	def(0x87, "SAX", modeZP, catWrite)
	def(0x97, "SAX", modeZPY, catWrite)
	def(0x8F, "SAX", modeAbs, catWrite)
	def(0x83, "SAX", modeIndX, catWrite)

	// Undocumented: immediate-only combos.
	def(0x0B, "ANC", modeImmediate, catImmediate)
	def(0x2B, "ANC", modeImmediate, catImmediate)
	def(0x4B, "ALR", modeImmediate, catImmediate)
	def(0x6B, "ARR", modeImmediate, catImmediate)
	def(0xCB, "AXS", modeImmediate, catImmediate)
	def(0x8B, "XAA", modeImmediate, catImmediate)

	// Undocumented: unstable high-byte-AND stores and LAS.
	def(0x9C, "SHY", modeAbsX, catWrite)
	def(0x9E, "SHX", modeAbsY, catWrite)
	def(0x9F, "SHA", modeAbsY, catWrite)
	def(0x93, "SHA", modeIndY, catWrite)
	def(0x9B, "TAS", modeAbsY, catWrite)
	def(0xBB, "LAS", modeAbsY, catRead)
}

// --- ALU ---------------------------------------------------------------

func (c *Chip) adc(val uint8) {
	carryIn := uint16(0)
	if c.P&P_CARRY != 0 {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(val) + carryIn
	result := uint8(sum)
	c.setFlag(P_CARRY, sum > 0xFF)
	c.setFlag(P_OVERFLOW, (c.A^val)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func (c *Chip) sbc(val uint8) {
	c.adc(^val)
}

func (c *Chip) compare(reg, val uint8) {
	c.setFlag(P_CARRY, reg >= val)
	c.setZN(reg - val)
}

// aluRead applies a read-category (or dynamic-length read-family) opcode's
// effect once its operand byte has been fetched.
func (c *Chip) aluRead(mn string, val uint8) {
	switch mn {
	case "LDA":
		c.A = val
		c.setZN(c.A)
	case "LDX":
		c.X = val
		c.setZN(c.X)
	case "LDY":
		c.Y = val
		c.setZN(c.Y)
	case "LAX":
		c.A, c.X = val, val
		c.setZN(c.A)
	case "ADC":
		c.adc(val)
	case "SBC":
		c.sbc(val)
	case "AND":
		c.A &= val
		c.setZN(c.A)
	case "ORA":
		c.A |= val
		c.setZN(c.A)
	case "EOR":
		c.A ^= val
		c.setZN(c.A)
	case "CMP":
		c.compare(c.A, val)
	case "CPX":
		c.compare(c.X, val)
	case "CPY":
		c.compare(c.Y, val)
	case "BIT":
		c.setFlag(P_ZERO, c.A&val == 0)
		c.setFlag(P_OVERFLOW, val&0x40 != 0)
		c.setFlag(P_NEGATIVE, val&0x80 != 0)
	case "LAS":
		v := val & c.S
		c.A, c.X, c.S = v, v, v
		c.setZN(v)
	case "NOP":
	default:
		panic("cpu: unimplemented read-category opcode " + mn)
	}
}

// aluImmediate covers every opcode whose operand is a literal byte,
// including the documented load/arithmetic/logic/compare mnemonics (shared
// with aluRead's semantics) and the immediate-only undocumented combos.
func (c *Chip) aluImmediate(mn string, val uint8) {
	switch mn {
	case "ANC":
		c.A &= val
		c.setZN(c.A)
		c.setFlag(P_CARRY, c.A&0x80 != 0)
	case "ALR":
		c.A &= val
		c.setFlag(P_CARRY, c.A&0x01 != 0)
		c.A >>= 1
		c.setZN(c.A)
	case "ARR":
		c.A &= val
		carryIn := c.P&P_CARRY != 0
		c.A >>= 1
		if carryIn {
			c.A |= 0x80
		}
		c.setZN(c.A)
		bit6 := c.A&0x40 != 0
		bit5 := c.A&0x20 != 0
		c.setFlag(P_CARRY, bit6)
		c.setFlag(P_OVERFLOW, bit6 != bit5)
	case "AXS":
		t := c.A & c.X
		c.setFlag(P_CARRY, t >= val)
		c.X = t - val
		c.setZN(c.X)
	case "XAA":
		c.A = (c.A | 0xEE) & c.X & val
		c.setZN(c.A)
	case "LAX":
		c.A = (c.A | 0xEE) & val
		c.X = c.A
		c.setZN(c.A)
	default:
		c.aluRead(mn, val)
	}
}

// aluWrite computes the byte a store-category opcode places on the bus.
// hiPlus1 is the high byte of the unindexed base address plus one, needed
// only by the unstable "AND with high byte" store variants.
func (c *Chip) aluWrite(mn string, hiPlus1 uint8) uint8 {
	switch mn {
	case "STA":
		return c.A
	case "STX":
		return c.X
	case "STY":
		return c.Y
	case "SAX":
		return c.A & c.X
	case "SHA":
		return c.A & c.X & hiPlus1
	case "SHX":
		return c.X & hiPlus1
	case "SHY":
		return c.Y & hiPlus1
	case "TAS":
		c.S = c.A & c.X
		return c.S & hiPlus1
	case "NOP":
		return 0
	default:
		panic("cpu: unimplemented write-category opcode " + mn)
	}
}

// aluModify computes the new value a read-modify-write opcode stores back,
// applying its side effect on A/flags along the way.
func (c *Chip) aluModify(mn string, val uint8) uint8 {
	switch mn {
	case "ASL":
		c.setFlag(P_CARRY, val&0x80 != 0)
		r := val << 1
		c.setZN(r)
		return r
	case "LSR":
		c.setFlag(P_CARRY, val&0x01 != 0)
		r := val >> 1
		c.setZN(r)
		return r
	case "ROL":
		carryIn := c.P&P_CARRY != 0
		c.setFlag(P_CARRY, val&0x80 != 0)
		r := val << 1
		if carryIn {
			r |= 0x01
		}
		c.setZN(r)
		return r
	case "ROR":
		carryIn := c.P&P_CARRY != 0
		c.setFlag(P_CARRY, val&0x01 != 0)
		r := val >> 1
		if carryIn {
			r |= 0x80
		}
		c.setZN(r)
		return r
	case "INC":
		r := val + 1
		c.setZN(r)
		return r
	case "DEC":
		r := val - 1
		c.setZN(r)
		return r
	case "SLO":
		r := c.aluModify("ASL", val)
		c.A |= r
		c.setZN(c.A)
		return r
	case "RLA":
		r := c.aluModify("ROL", val)
		c.A &= r
		c.setZN(c.A)
		return r
	case "SRE":
		r := c.aluModify("LSR", val)
		c.A ^= r
		c.setZN(c.A)
		return r
	case "RRA":
		r := c.aluModify("ROR", val)
		c.adc(r)
		return r
	case "DCP":
		r := val - 1
		c.setZN(r)
		c.compare(c.A, r)
		return r
	case "ISB":
		r := val + 1
		c.setZN(r)
		c.sbc(r)
		return r
	default:
		panic("cpu: unimplemented modify-category opcode " + mn)
	}
}

func (c *Chip) aluImplied(mn string) {
	switch mn {
	case "CLC":
		c.setFlag(P_CARRY, false)
	case "SEC":
		c.setFlag(P_CARRY, true)
	case "CLI":
		c.setFlag(P_INTERRUPT, false)
	case "SEI":
		c.setFlag(P_INTERRUPT, true)
	case "CLV":
		c.setFlag(P_OVERFLOW, false)
	case "CLD":
		c.setFlag(P_DECIMAL, false)
	case "SED":
		c.setFlag(P_DECIMAL, true)
	case "TAX":
		c.X = c.A
		c.setZN(c.X)
	case "TAY":
		c.Y = c.A
		c.setZN(c.Y)
	case "TXA":
		c.A = c.X
		c.setZN(c.A)
	case "TYA":
		c.A = c.Y
		c.setZN(c.A)
	case "TSX":
		c.X = c.S
		c.setZN(c.X)
	case "TXS":
		c.S = c.X
	case "INX":
		c.X++
		c.setZN(c.X)
	case "INY":
		c.Y++
		c.setZN(c.Y)
	case "DEX":
		c.X--
		c.setZN(c.X)
	case "DEY":
		c.Y--
		c.setZN(c.Y)
	case "NOP":
	case "JAM":
		c.halted = true
		c.haltOpcode = c.op
	default:
		panic("cpu: unimplemented implied-category opcode " + mn)
	}
}

// --- addressing-mode cycle steppers -------------------------------------

func (c *Chip) stepRead(mode addrMode) {
	mn := c.opInfo.mnemonic
	switch mode {
	case modeZP:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			v := c.readAt(uint16(c.bal))
			c.aluRead(mn, v)
			c.endInstruction()
		}
	case modeZPX, modeZPY:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			c.readAt(uint16(c.bal))
		case 3:
			idx := c.X
			if mode == modeZPY {
				idx = c.Y
			}
			v := c.readAt(uint16(c.bal + idx))
			c.aluRead(mn, v)
			c.endInstruction()
		}
	case modeAbs:
		switch c.tm {
		case 1:
			c.adl = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adh = c.readAt(c.PC)
			c.PC++
		case 3:
			v := c.readAt(uint16(c.adh)<<8 | uint16(c.adl))
			c.aluRead(mn, v)
			c.endInstruction()
		}
	case modeAbsX, modeAbsY:
		switch c.tm {
		case 1:
			c.adl = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adh = c.readAt(c.PC)
			c.PC++
		case 3:
			idx := c.X
			if mode == modeAbsY {
				idx = c.Y
			}
			lo := uint16(c.adl) + uint16(idx)
			v := c.readAt(uint16(c.adh)<<8 | (lo & 0xFF))
			if lo <= 0xFF {
				c.aluRead(mn, v)
				c.endInstruction()
			}
		case 4:
			idx := c.X
			if mode == modeAbsY {
				idx = c.Y
			}
			addr := (uint16(c.adh)<<8 | uint16(c.adl)) + uint16(idx)
			v := c.readAt(addr)
			c.aluRead(mn, v)
			c.endInstruction()
		}
	case modeIndX:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			c.readAt(uint16(c.bal))
		case 3:
			c.adl = c.readAt(uint16(c.bal + c.X))
		case 4:
			c.adh = c.readAt(uint16(c.bal + c.X + 1))
		case 5:
			v := c.readAt(uint16(c.adh)<<8 | uint16(c.adl))
			c.aluRead(mn, v)
			c.endInstruction()
		}
	case modeIndY:
		switch c.tm {
		case 1:
			c.ial = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adl = c.readAt(uint16(c.ial))
		case 3:
			c.adh = c.readAt(uint16(c.ial + 1))
		case 4:
			lo := uint16(c.adl) + uint16(c.Y)
			v := c.readAt(uint16(c.adh)<<8 | (lo & 0xFF))
			if lo <= 0xFF {
				c.aluRead(mn, v)
				c.endInstruction()
			}
		case 5:
			addr := (uint16(c.adh)<<8 | uint16(c.adl)) + uint16(c.Y)
			v := c.readAt(addr)
			c.aluRead(mn, v)
			c.endInstruction()
		}
	default:
		if c.tm == 1 {
			v := c.readAt(c.PC)
			c.PC++
			c.aluRead(mn, v)
			c.endInstruction()
		}
	}
}

func (c *Chip) stepWrite(mode addrMode) {
	mn := c.opInfo.mnemonic
	switch mode {
	case modeZP:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			c.writeAt(uint16(c.bal), c.aluWrite(mn, 0))
			c.endInstruction()
		}
	case modeZPX, modeZPY:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			c.readAt(uint16(c.bal))
		case 3:
			idx := c.X
			if mode == modeZPY {
				idx = c.Y
			}
			c.writeAt(uint16(c.bal+idx), c.aluWrite(mn, 0))
			c.endInstruction()
		}
	case modeAbs:
		switch c.tm {
		case 1:
			c.adl = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adh = c.readAt(c.PC)
			c.PC++
		case 3:
			c.writeAt(uint16(c.adh)<<8|uint16(c.adl), c.aluWrite(mn, 0))
			c.endInstruction()
		}
	case modeAbsX, modeAbsY:
		switch c.tm {
		case 1:
			c.adl = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adh = c.readAt(c.PC)
			c.PC++
		case 3:
			idx := c.X
			if mode == modeAbsY {
				idx = c.Y
			}
			lo := uint16(c.adl) + uint16(idx)
			c.readAt(uint16(c.adh)<<8 | (lo & 0xFF))
		case 4:
			idx := c.X
			if mode == modeAbsY {
				idx = c.Y
			}
			addr := (uint16(c.adh)<<8 | uint16(c.adl)) + uint16(idx)
			c.writeAt(addr, c.aluWrite(mn, c.adh+1))
			c.endInstruction()
		}
	case modeIndX:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			c.readAt(uint16(c.bal))
		case 3:
			c.adl = c.readAt(uint16(c.bal + c.X))
		case 4:
			c.adh = c.readAt(uint16(c.bal + c.X + 1))
		case 5:
			c.writeAt(uint16(c.adh)<<8|uint16(c.adl), c.aluWrite(mn, 0))
			c.endInstruction()
		}
	case modeIndY:
		switch c.tm {
		case 1:
			c.ial = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adl = c.readAt(uint16(c.ial))
		case 3:
			c.adh = c.readAt(uint16(c.ial + 1))
		case 4:
			lo := uint16(c.adl) + uint16(c.Y)
			c.readAt(uint16(c.adh)<<8 | (lo & 0xFF))
		case 5:
			addr := (uint16(c.adh)<<8 | uint16(c.adl)) + uint16(c.Y)
			c.writeAt(addr, c.aluWrite(mn, c.adh+1))
			c.endInstruction()
		}
	}
}

func (c *Chip) stepModify(mode addrMode) {
	mn := c.opInfo.mnemonic
	switch mode {
	case modeZP:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			c.dl = c.readAt(uint16(c.bal))
		case 3:
			c.writeAt(uint16(c.bal), c.dl)
		case 4:
			c.writeAt(uint16(c.bal), c.aluModify(mn, c.dl))
			c.endInstruction()
		}
	case modeZPX:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			c.readAt(uint16(c.bal))
		case 3:
			c.dl = c.readAt(uint16(c.bal + c.X))
		case 4:
			c.writeAt(uint16(c.bal+c.X), c.dl)
		case 5:
			c.writeAt(uint16(c.bal+c.X), c.aluModify(mn, c.dl))
			c.endInstruction()
		}
	case modeAbs:
		switch c.tm {
		case 1:
			c.adl = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adh = c.readAt(c.PC)
			c.PC++
		case 3:
			c.dl = c.readAt(uint16(c.adh)<<8 | uint16(c.adl))
		case 4:
			c.writeAt(uint16(c.adh)<<8|uint16(c.adl), c.dl)
		case 5:
			c.writeAt(uint16(c.adh)<<8|uint16(c.adl), c.aluModify(mn, c.dl))
			c.endInstruction()
		}
	case modeAbsX, modeAbsY:
		switch c.tm {
		case 1:
			c.adl = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adh = c.readAt(c.PC)
			c.PC++
		case 3:
			idx := c.X
			if mode == modeAbsY {
				idx = c.Y
			}
			lo := uint16(c.adl) + uint16(idx)
			c.readAt(uint16(c.adh)<<8 | (lo & 0xFF))
		case 4:
			c.dl = c.readAt(c.modifyAddr(mode))
		case 5:
			c.writeAt(c.modifyAddr(mode), c.dl)
		case 6:
			c.writeAt(c.modifyAddr(mode), c.aluModify(mn, c.dl))
			c.endInstruction()
		}
	case modeIndX:
		switch c.tm {
		case 1:
			c.bal = c.readAt(c.PC)
			c.PC++
		case 2:
			c.readAt(uint16(c.bal))
		case 3:
			c.adl = c.readAt(uint16(c.bal + c.X))
		case 4:
			c.adh = c.readAt(uint16(c.bal + c.X + 1))
		case 5:
			c.dl = c.readAt(uint16(c.adh)<<8 | uint16(c.adl))
		case 6:
			c.writeAt(uint16(c.adh)<<8|uint16(c.adl), c.dl)
		case 7:
			c.writeAt(uint16(c.adh)<<8|uint16(c.adl), c.aluModify(mn, c.dl))
			c.endInstruction()
		}
	case modeIndY:
		switch c.tm {
		case 1:
			c.ial = c.readAt(c.PC)
			c.PC++
		case 2:
			c.adl = c.readAt(uint16(c.ial))
		case 3:
			c.adh = c.readAt(uint16(c.ial + 1))
		case 4:
			lo := uint16(c.adl) + uint16(c.Y)
			c.readAt(uint16(c.adh)<<8 | (lo & 0xFF))
		case 5:
			c.dl = c.readAt(c.modifyAddr(mode))
		case 6:
			c.writeAt(c.modifyAddr(mode), c.dl)
		case 7:
			c.writeAt(c.modifyAddr(mode), c.aluModify(mn, c.dl))
			c.endInstruction()
		}
	}
}

// modifyAddr recomputes the corrected (post-index) effective address for
// the indexed modify steppers, which need it on more than one cycle.
func (c *Chip) modifyAddr(mode addrMode) uint16 {
	switch mode {
	case modeAbsX:
		return (uint16(c.adh)<<8 | uint16(c.adl)) + uint16(c.X)
	case modeAbsY:
		return (uint16(c.adh)<<8 | uint16(c.adl)) + uint16(c.Y)
	case modeIndY:
		return (uint16(c.adh)<<8 | uint16(c.adl)) + uint16(c.Y)
	}
	return uint16(c.adh)<<8 | uint16(c.adl)
}

func (c *Chip) stepImplied() {
	if c.tm == 1 {
		c.readAt(c.PC)
		c.aluImplied(c.opInfo.mnemonic)
		c.endInstruction()
	}
}

func (c *Chip) stepAccumulator() {
	if c.tm == 1 {
		c.readAt(c.PC)
		c.A = c.aluModify(c.opInfo.mnemonic, c.A)
		c.endInstruction()
	}
}

func (c *Chip) branchTaken() bool {
	switch c.opInfo.mnemonic {
	case "BPL":
		return c.P&P_NEGATIVE == 0
	case "BMI":
		return c.P&P_NEGATIVE != 0
	case "BVC":
		return c.P&P_OVERFLOW == 0
	case "BVS":
		return c.P&P_OVERFLOW != 0
	case "BCC":
		return c.P&P_CARRY == 0
	case "BCS":
		return c.P&P_CARRY != 0
	case "BNE":
		return c.P&P_ZERO == 0
	case "BEQ":
		return c.P&P_ZERO != 0
	}
	return false
}

func (c *Chip) stepBranch() {
	switch c.tm {
	case 1:
		off := c.readAt(c.PC)
		c.PC++
		c.branchOffset = int8(off)
		if !c.branchTaken() {
			c.endInstruction()
		}
	case 2:
		c.readAt(c.PC)
		oldPC := c.PC
		newPC := uint16(int32(oldPC) + int32(c.branchOffset))
		c.pendingBranchPC = newPC
		if oldPC&0xFF00 == newPC&0xFF00 {
			c.PC = newPC
			c.endInstruction()
		}
	case 3:
		wrong := (c.PC & 0xFF00) | (c.pendingBranchPC & 0x00FF)
		c.readAt(wrong)
		c.PC = c.pendingBranchPC
		c.endInstruction()
	}
}

func (c *Chip) stepJMPAbs() {
	switch c.tm {
	case 1:
		c.adl = c.readAt(c.PC)
		c.PC++
	case 2:
		c.adh = c.readAt(c.PC)
		c.PC++
		c.PC = uint16(c.adh)<<8 | uint16(c.adl)
		c.endInstruction()
	}
}

// stepJMPInd reproduces the famous page-wrap bug: when the pointer sits at
// the end of a page, the high byte is fetched from the start of the SAME
// page instead of crossing into the next one.
func (c *Chip) stepJMPInd() {
	switch c.tm {
	case 1:
		c.ial = c.readAt(c.PC)
		c.PC++
	case 2:
		c.iah = c.readAt(c.PC)
		c.PC++
	case 3:
		c.adl = c.readAt(uint16(c.iah)<<8 | uint16(c.ial))
	case 4:
		c.adh = c.readAt(uint16(c.iah)<<8 | uint16(c.ial+1))
		c.PC = uint16(c.adh)<<8 | uint16(c.adl)
		c.endInstruction()
	}
}

func (c *Chip) stepJSR() {
	switch c.tm {
	case 1:
		c.adl = c.readAt(c.PC)
		c.PC++
	case 2:
		c.readAt(0x0100 | uint16(c.S))
	case 3:
		c.writeAt(0x0100|uint16(c.S), uint8(c.PC>>8))
		c.S--
	case 4:
		c.writeAt(0x0100|uint16(c.S), uint8(c.PC&0xFF))
		c.S--
	case 5:
		c.adh = c.readAt(c.PC)
		c.PC = uint16(c.adh)<<8 | uint16(c.adl)
		c.endInstruction()
	}
}

func (c *Chip) stepRTS() {
	switch c.tm {
	case 1:
		c.readAt(c.PC)
	case 2:
		c.readAt(0x0100 | uint16(c.S))
		c.S++
	case 3:
		c.dl = c.readAt(0x0100 | uint16(c.S))
		c.S++
	case 4:
		hi := c.readAt(0x0100 | uint16(c.S))
		c.PC = uint16(hi)<<8 | uint16(c.dl)
	case 5:
		c.readAt(c.PC)
		c.PC++
		c.endInstruction()
	}
}

func (c *Chip) stepRTI() {
	switch c.tm {
	case 1:
		c.readAt(c.PC)
	case 2:
		c.readAt(0x0100 | uint16(c.S))
		c.S++
	case 3:
		p := c.readAt(0x0100 | uint16(c.S))
		c.S++
		c.P = (p | P_S1) &^ P_B
	case 4:
		c.dl = c.readAt(0x0100 | uint16(c.S))
		c.S++
	case 5:
		hi := c.readAt(0x0100 | uint16(c.S))
		c.PC = uint16(hi)<<8 | uint16(c.dl)
		c.endInstruction()
	}
}

func (c *Chip) stepPush() {
	switch c.tm {
	case 1:
		c.readAt(c.PC)
	case 2:
		var v uint8
		if c.opInfo.mnemonic == "PHP" {
			v = c.P | P_S1 | P_B
		} else {
			v = c.A
		}
		c.writeAt(0x0100|uint16(c.S), v)
		c.S--
		c.endInstruction()
	}
}

func (c *Chip) stepPull() {
	switch c.tm {
	case 1:
		c.readAt(c.PC)
	case 2:
		c.readAt(0x0100 | uint16(c.S))
		c.S++
	case 3:
		v := c.readAt(0x0100 | uint16(c.S))
		if c.opInfo.mnemonic == "PLP" {
			c.P = (v | P_S1) &^ P_B
		} else {
			c.A = v
			c.setZN(c.A)
		}
		c.endInstruction()
	}
}
