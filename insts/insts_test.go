package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2sim/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	It("should number the opcodes as the architecture fixes them", func() {
		Expect(insts.OpBR).To(Equal(insts.Op(0)))
		Expect(insts.OpADD).To(Equal(insts.Op(1)))
		Expect(insts.OpLD).To(Equal(insts.Op(2)))
		Expect(insts.OpST).To(Equal(insts.Op(3)))
		Expect(insts.OpJSR).To(Equal(insts.Op(4)))
		Expect(insts.OpAND).To(Equal(insts.Op(5)))
		Expect(insts.OpLDR).To(Equal(insts.Op(6)))
		Expect(insts.OpSTR).To(Equal(insts.Op(7)))
		Expect(insts.OpRTI).To(Equal(insts.Op(8)))
		Expect(insts.OpNOT).To(Equal(insts.Op(9)))
		Expect(insts.OpLDI).To(Equal(insts.Op(10)))
		Expect(insts.OpSTI).To(Equal(insts.Op(11)))
		Expect(insts.OpJMP).To(Equal(insts.Op(12)))
		Expect(insts.OpRES).To(Equal(insts.Op(13)))
		Expect(insts.OpLEA).To(Equal(insts.Op(14)))
		Expect(insts.OpTRAP).To(Equal(insts.Op(15)))
	})

	It("should render assembler mnemonics", func() {
		Expect(insts.OpADD.String()).To(Equal("ADD"))
		Expect(insts.OpTRAP.String()).To(Equal("TRAP"))
		Expect(insts.Op(99).String()).To(Equal("UNKNOWN"))
	})
})
