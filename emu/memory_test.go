package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2sim/emu"
)

var _ = Describe("Memory", func() {
	var mem *emu.Memory

	BeforeEach(func() {
		mem = emu.NewMemory()
	})

	It("should store and return words at any address", func() {
		mem.Write(0x0000, 0x1234)
		mem.Write(0x3000, 0xBEEF)
		mem.Write(0xFFFF, 0x0001)

		Expect(mem.Read(0x0000)).To(Equal(uint16(0x1234)))
		Expect(mem.Read(0x3000)).To(Equal(uint16(0xBEEF)))
		Expect(mem.Read(0xFFFF)).To(Equal(uint16(0x0001)))
	})

	Describe("keyboard status reads", func() {
		It("should report not-ready with no keyboard attached", func() {
			Expect(mem.Read(emu.MRKBSR)).To(Equal(uint16(0)))
		})

		It("should latch the key into KBDR when one is ready", func() {
			mem.AttachKeyboard(&scriptedKeyboard{data: []byte{'x'}})

			Expect(mem.Read(emu.MRKBSR)).To(Equal(emu.KBSRReady))
			Expect(mem.Read(emu.MRKBDR)).To(Equal(uint16('x')))
		})

		It("should clear the status once the script is exhausted", func() {
			mem.AttachKeyboard(&scriptedKeyboard{data: []byte{'x'}})

			Expect(mem.Read(emu.MRKBSR)).To(Equal(emu.KBSRReady))
			Expect(mem.Read(emu.MRKBSR)).To(Equal(uint16(0)))
		})

		It("should not poll on reads of other addresses", func() {
			kb := &scriptedKeyboard{data: []byte{'x'}}
			mem.AttachKeyboard(kb)

			mem.Read(0x3000)
			Expect(kb.data).To(HaveLen(1))
		})

		It("should treat writes to the data register as plain stores", func() {
			mem.Write(emu.MRKBSR, 0x1234)
			mem.Write(emu.MRKBDR, 0x5678)

			Expect(mem.Read(emu.MRKBDR)).To(Equal(uint16(0x5678)))
		})
	})

	Describe("LoadWords", func() {
		It("should place words at ascending addresses from the origin", func() {
			mem.LoadWords(0x3000, []uint16{0x1220, 0x1262, 0xF025})

			Expect(mem.Read(0x3000)).To(Equal(uint16(0x1220)))
			Expect(mem.Read(0x3001)).To(Equal(uint16(0x1262)))
			Expect(mem.Read(0x3002)).To(Equal(uint16(0xF025)))
		})

		It("should discard words past the end of the address space", func() {
			mem.LoadWords(0xFFFE, []uint16{1, 2, 3, 4})

			Expect(mem.Read(0xFFFE)).To(Equal(uint16(1)))
			Expect(mem.Read(0xFFFF)).To(Equal(uint16(2)))
			Expect(mem.Read(0x0000)).To(Equal(uint16(0)))
		})

		It("should let later images overwrite earlier ones", func() {
			mem.LoadWords(0x3000, []uint16{0x1111, 0x2222})
			mem.LoadWords(0x3001, []uint16{0x3333})

			Expect(mem.Read(0x3000)).To(Equal(uint16(0x1111)))
			Expect(mem.Read(0x3001)).To(Equal(uint16(0x3333)))
		})
	})
})
