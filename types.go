package elfmeta

import "fmt"

type WordWidth uint8

const (
	Width32 WordWidth = 1
	Width64 WordWidth = 2
)

func DecodeWordWidth(b byte) (WordWidth, error) {
	switch w := WordWidth(b); w {
	case Width32, Width64:
		return w, nil
	default:
		return 0, parseError(ErrWordWidth, b)
	}
}

// Size is the number of bytes of a word.
func (w WordWidth) Size() int {
	if w == Width64 {
		return 8
	}
	return 4
}

func (w WordWidth) String() string {
	switch w {
	case Width32:
		return "ELF32"
	case Width64:
		return "ELF64"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(w))
	}
}

func (w WordWidth) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

type Endianness uint8

const (
	Little Endianness = 1
	Big    Endianness = 2
)

func DecodeEndianness(b byte) (Endianness, error) {
	switch e := Endianness(b); e {
	case Little, Big:
		return e, nil
	default:
		return 0, parseError(ErrEndianness, b)
	}
}

func (e Endianness) String() string {
	switch e {
	case Little:
		return "little endian"
	case Big:
		return "big endian"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(e))
	}
}

func (e Endianness) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Abi identifies the OS or ABI extensions of the file. Unrecognized codes
// are kept as is and reported as unknown.
type Abi uint8

const (
	AbiSysV          Abi = 0x00
	AbiHpUx          Abi = 0x01
	AbiNetBSD        Abi = 0x02
	AbiLinux         Abi = 0x03
	AbiGnuHurd       Abi = 0x04
	AbiSolaris       Abi = 0x06
	AbiAix           Abi = 0x07
	AbiIrix          Abi = 0x08
	AbiFreeBSD       Abi = 0x09
	AbiTru64         Abi = 0x0A
	AbiNovellModesto Abi = 0x0B
	AbiOpenBSD       Abi = 0x0C
	AbiOpenVMS       Abi = 0x0D
	AbiNonStopKernel Abi = 0x0E
	AbiAros          Abi = 0x0F
	AbiFenixOS       Abi = 0x10
	AbiCloudABI      Abi = 0x11
	AbiOpenVOS       Abi = 0x12
)

var abiNames = map[Abi]string{
	AbiSysV:          "UNIX - System V",
	AbiHpUx:          "HP-UX",
	AbiNetBSD:        "NetBSD",
	AbiLinux:         "Linux",
	AbiGnuHurd:       "GNU/Hurd",
	AbiSolaris:       "Solaris",
	AbiAix:           "AIX",
	AbiIrix:          "IRIX",
	AbiFreeBSD:       "FreeBSD",
	AbiTru64:         "Tru64",
	AbiNovellModesto: "Novell Modesto",
	AbiOpenBSD:       "OpenBSD",
	AbiOpenVMS:       "OpenVMS",
	AbiNonStopKernel: "NonStop Kernel",
	AbiAros:          "AROS",
	AbiFenixOS:       "FenixOS",
	AbiCloudABI:      "CloudABI",
	AbiOpenVOS:       "OpenVOS",
}

// DecodeAbi never fails.
func DecodeAbi(b byte) Abi {
	return Abi(b)
}

func (a Abi) Known() bool {
	_, ok := abiNames[a]
	return ok
}

func (a Abi) String() string {
	if n, ok := abiNames[a]; ok {
		return n
	}
	return "Unknown"
}

func (a Abi) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Arch is the target instruction set. Like Abi, an unrecognized code is
// not an error.
type Arch uint16

const (
	ArchUnspecified Arch = 0x0000
	ArchWE32100     Arch = 0x0001
	ArchSparc       Arch = 0x0002
	ArchX86         Arch = 0x0003
	ArchM68k        Arch = 0x0004
	ArchM88k        Arch = 0x0005
	ArchIntelMCU    Arch = 0x0006
	ArchIntel80860  Arch = 0x0007
	ArchMIPS        Arch = 0x0008
	ArchSystem370   Arch = 0x0009
	ArchRS3000      Arch = 0x000A
	ArchPARISC      Arch = 0x000E
	ArchIntel80960  Arch = 0x0013
	ArchPowerPC     Arch = 0x0014
	ArchPowerPC64   Arch = 0x0015
	ArchS390        Arch = 0x0016
	ArchARM         Arch = 0x0028
	ArchSuperH      Arch = 0x002A
	ArchIA64        Arch = 0x0032
	ArchX86_64      Arch = 0x003E
	ArchTMS320C6000 Arch = 0x008C
	ArchAArch64     Arch = 0x00B7
	ArchRISCV       Arch = 0x00F3
	ArchBPF         Arch = 0x00F7
	ArchWDC65C816   Arch = 0x0101
)

var archNames = map[Arch]string{
	ArchUnspecified: "None",
	ArchWE32100:     "AT&T WE 32100",
	ArchSparc:       "SPARC",
	ArchX86:         "Intel 80386",
	ArchM68k:        "Motorola 68000",
	ArchM88k:        "Motorola 88000",
	ArchIntelMCU:    "Intel MCU",
	ArchIntel80860:  "Intel 80860",
	ArchMIPS:        "MIPS",
	ArchSystem370:   "IBM System/370",
	ArchRS3000:      "MIPS RS3000",
	ArchPARISC:      "HPPA",
	ArchIntel80960:  "Intel 80960",
	ArchPowerPC:     "PowerPC",
	ArchPowerPC64:   "PowerPC64",
	ArchS390:        "IBM S/390",
	ArchARM:         "ARM",
	ArchSuperH:      "Renesas / SuperH SH",
	ArchIA64:        "Intel IA-64",
	ArchX86_64:      "Advanced Micro Devices X86-64",
	ArchTMS320C6000: "TI TMS320C6000",
	ArchAArch64:     "AArch64",
	ArchRISCV:       "RISC-V",
	ArchBPF:         "Linux BPF",
	ArchWDC65C816:   "WDC 65C816",
}

func DecodeArch(b []byte, e Endianness) (Arch, error) {
	v, err := Uint16(b, e)
	if err != nil {
		return 0, err
	}
	return Arch(v), nil
}

func (a Arch) Known() bool {
	_, ok := archNames[a]
	return ok
}

func (a Arch) String() string {
	if n, ok := archNames[a]; ok {
		return n
	}
	return "Unknown"
}

func (a Arch) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

type FileType uint16

const (
	TypeNone        FileType = 0
	TypeRelocatable FileType = 1
	TypeExecutable  FileType = 2
	TypeShared      FileType = 3
	TypeCore        FileType = 4

	typeLoSpecific FileType = 0xFF00
)

func DecodeFileType(b []byte, e Endianness) (FileType, error) {
	v, err := Uint16(b, e)
	if err != nil {
		return 0, err
	}
	t := FileType(v)
	if t > TypeCore && !t.Specific() {
		return 0, parseError(ErrFileType, v)
	}
	return t, nil
}

// Specific reports whether t lies in the range reserved for OS and
// processor specific file types.
func (t FileType) Specific() bool {
	return t >= typeLoSpecific
}

func (t FileType) String() string {
	switch t {
	case TypeNone:
		return "NONE (None)"
	case TypeRelocatable:
		return "REL (Relocatable file)"
	case TypeExecutable:
		return "EXEC (Executable file)"
	case TypeShared:
		return "DYN (Shared object file)"
	case TypeCore:
		return "CORE (Core file)"
	default:
		if t.Specific() {
			return fmt.Sprintf("Specific(%#04x)", uint16(t))
		}
		return fmt.Sprintf("Unknown(%#04x)", uint16(t))
	}
}

func (t FileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
