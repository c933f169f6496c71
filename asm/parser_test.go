package asm_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gosim/tomasulo/asm"
)

// writeProgram writes lines to a temp file and returns its path.
func writeProgram(dir string, lines ...string) string {
	path := filepath.Join(dir, "program.asm")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("decodes ADD/SUB/MUL/DIV with register operands", func() {
		path := writeProgram(dir,
			"ADD R1 R2 R3",
			"sub r4 r5 r6",
			"MUL R7 R8 R9",
			"DIV R10 R11 R12",
		)

		program, err := asm.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(program).To(HaveLen(4))

		Expect(program[0].Op).To(Equal(asm.OpAdd))
		Expect(program[0].Dest).To(Equal(uint8(1)))
		Expect(program[0].Src1).To(Equal(uint8(2)))
		Expect(program[0].Src2).To(Equal(uint8(3)))

		Expect(program[1].Op).To(Equal(asm.OpSub))
		Expect(program[1].Dest).To(Equal(uint8(4)))

		Expect(program[2].Op).To(Equal(asm.OpMul))
		Expect(program[3].Op).To(Equal(asm.OpDiv))
	})

	It("decodes LOAD and STORE addressing forms", func() {
		path := writeProgram(dir,
			"LOAD R1 0(R0)",
			"STORE R2 -4(R3)",
		)

		program, err := asm.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(program).To(HaveLen(2))

		Expect(program[0].Op).To(Equal(asm.OpLoad))
		Expect(program[0].Dest).To(Equal(uint8(1)))
		Expect(program[0].Imm).To(Equal(0))
		Expect(program[0].Src2).To(Equal(uint8(0)))

		Expect(program[1].Op).To(Equal(asm.OpStore))
		Expect(program[1].Src1).To(Equal(uint8(2)))
		Expect(program[1].Imm).To(Equal(-4))
		Expect(program[1].Src2).To(Equal(uint8(3)))
	})

	It("ignores blank lines and comment lines", func() {
		path := writeProgram(dir,
			"",
			"# this is a comment",
			"ADD R1 R2 R3",
			"   ",
			"# ADD R9 R9 R9",
		)

		program, err := asm.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(program).To(HaveLen(1))
	})

	It("silently drops unrecognized mnemonics and malformed lines", func() {
		path := writeProgram(dir,
			"ADD R1 R2 R3",
			"FOO R1 R2 R3",
			"ADD R1 R2",
			"ADD R99 R2 R3",
		)

		program, err := asm.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(program).To(HaveLen(1))
	})

	It("caps the program at MaxProgramLength instructions", func() {
		lines := make([]string, 0, asm.MaxProgramLength+10)
		for i := 0; i < asm.MaxProgramLength+10; i++ {
			lines = append(lines, "ADD R1 R2 R3")
		}
		path := writeProgram(dir, lines...)

		program, err := asm.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(program).To(HaveLen(asm.MaxProgramLength))
	})

	It("returns an error when the file does not exist", func() {
		_, err := asm.Load(filepath.Join(dir, "missing.asm"))
		Expect(err).To(HaveOccurred())
	})

	It("decodes a bare NOP", func() {
		path := writeProgram(dir, "NOP")

		program, err := asm.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(program).To(HaveLen(1))
		Expect(program[0].Op).To(Equal(asm.OpNop))
	})
})
